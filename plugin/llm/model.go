package llm

import "context"

// ToolChoice tells the completion service whether it may call tools.
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

// Request is one call to the completion service.
type Request struct {
	Messages   []Message
	Tools      []ToolDefinition
	ToolChoice ToolChoice
	// JSONMode constrains the reply to a single JSON object.
	JSONMode    bool
	Temperature *float64
}

// Model is the completion service. The returned message carries either final
// text or tool calls; a message with neither is a degenerate reply. Every
// transport, auth or timeout failure is reported as a non-nil error.
type Model interface {
	Generate(ctx context.Context, request Request) (Message, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, request Request) (Message, error)

func (f ModelFunc) Generate(ctx context.Context, request Request) (Message, error) {
	return f(ctx, request)
}
