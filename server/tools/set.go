package tools

import (
	"github.com/safartravel/safar/plugin/llm"
	"github.com/safartravel/safar/server/booking"
)

// Dependencies are the backends the default tool set is wired to.
type Dependencies struct {
	Booking  *booking.Service
	Policies PolicyIndex
	// Model answers search_destinations.
	Model llm.Model
}

// DefaultSet returns the assistant's tools in the order they are offered to
// the model.
func DefaultSet(deps Dependencies) []Tool {
	return []Tool{
		NewBookTicketTool(deps.Booking),
		NewCancelTicketTool(deps.Booking),
		NewTicketInfoTool(deps.Booking),
		NewLookupPolicyTool(deps.Policies),
		NewSearchDestinationsTool(deps.Model),
	}
}
