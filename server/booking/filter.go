package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/safartravel/safar/store"
)

var filterEnvOptions = []cel.EnvOption{
	cel.Variable("ticket_id", cel.StringType),
	cel.Variable("origin", cel.StringType),
	cel.Variable("destination", cel.StringType),
	cel.Variable("travel_date", cel.StringType),
	cel.Variable("departure_time", cel.StringType),
	cel.Variable("passenger_name", cel.StringType),
	cel.Variable("national_id", cel.StringType),
	cel.Variable("price_irr", cel.IntType),
	cel.Variable("status", cel.StringType),
	cel.Variable("booking_date", cel.StringType),
	cel.Variable("cancellation_date", cel.StringType),
}

// List returns every ticket for which the CEL expression filter evaluates to
// true, e.g. `status == "CONFIRMED" && price_irr > 1500000`. An empty filter
// matches all tickets.
func (s *Service) List(ctx context.Context, filter string) ([]*store.Ticket, error) {
	tickets, err := s.store.ListTickets(ctx, &store.FindTicket{})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if strings.TrimSpace(filter) == "" {
		return tickets, nil
	}

	env, err := cel.NewEnv(filterEnvOptions...)
	if err != nil {
		return nil, fmt.Errorf("create filter env: %w", err)
	}
	ast, iss := env.Compile(filter)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, iss.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	var out []*store.Ticket
	for _, t := range tickets {
		val, _, err := prg.Eval(map[string]any{
			"ticket_id":         t.ID,
			"origin":            t.Origin,
			"destination":       t.Destination,
			"travel_date":       t.TravelDate,
			"departure_time":    t.DepartureTime,
			"passenger_name":    t.PassengerName,
			"national_id":       t.NationalID,
			"price_irr":         t.PriceIRR,
			"status":            string(t.Status),
			"booking_date":      t.BookingDate,
			"cancellation_date": t.CancellationDate,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		match, ok := val.Value().(bool)
		if !ok {
			return nil, fmt.Errorf("%w: expression must evaluate to a bool", ErrInvalidFilter)
		}
		if match {
			out = append(out, t)
		}
	}
	return out, nil
}
