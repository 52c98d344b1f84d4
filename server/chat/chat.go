// Package chat is the terminal front-end.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/safartravel/safar/server/agent"
	"github.com/safartravel/safar/server/booking"
	"github.com/safartravel/safar/server/prompt"
	"github.com/safartravel/safar/store"
)

const (
	userPrompt  = "you> "
	agentPrefix = "Safar AI Agent> "
)

// REPL reads one user turn per line and prints the reply followed by the
// current ticket listing.
type REPL struct {
	Agent   *agent.Agent
	Booking *booking.Service
	AppName string
	// ShowTickets enables the ticket listing after each reply.
	ShowTickets bool
}

// Run serves until in is exhausted, the user types exit or quit, or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, prompt.Welcome(r.AppName))
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, userPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply, err := r.Agent.Process(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			reply = agent.FailureReply
		}
		fmt.Fprintln(out, agentPrefix+reply)
		if r.ShowTickets && r.Booking != nil {
			tickets, err := r.Booking.List(ctx, "")
			if err == nil && len(tickets) > 0 {
				fmt.Fprint(out, TicketListing(tickets))
			}
		}
		fmt.Fprintln(out)
	}
}

// TicketListing renders the debug block shown under each reply.
func TicketListing(tickets []*store.Ticket) string {
	var sb strings.Builder
	sb.WriteString("\n---\n**Tickets (Debug)**:\n")
	for _, t := range tickets {
		fmt.Fprintf(&sb, "- **%s**: %s -> %s (%s)\n", t.ID, t.Origin, t.Destination, t.Status)
	}
	return sb.String()
}
