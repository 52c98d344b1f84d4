package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/tools"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/safartravel/safar/server/booking"
)

const (
	bookedMessage        = "بلیط شما با موفقیت رزرو شد. (Ticket successfully booked)."
	missingBookingFields = "Missing required booking information. Please provide origin city, destination city, travel date, passenger name, and national ID (کد ملی)."
	missingTicketID      = "A ticket ID is required. Please provide the Safar Travel ticket ID."
)

func ticketNotFound(id string) Result {
	return Errorf("Ticket ID '%s' not found. Please check the ID.", id)
}

// internalError turns a backend failure into a result the model can relay.
func internalError(tool, action string, err error) Result {
	slog.Warn("ticket backend failed", "tool", tool, "err", err)
	return Errorf("An internal error occurred during %s: %v", action, err)
}

// ─── book_ticket ─────────────────────────────────────────────────────────────

type bookTicketTool struct {
	svc *booking.Service
}

var _ tools.Tool = (*bookTicketTool)(nil)

func NewBookTicketTool(svc *booking.Service) Tool {
	return &bookTicketTool{svc: svc}
}

func (t *bookTicketTool) Name() string { return "book_ticket" }
func (t *bookTicketTool) Description() string {
	return "Books a ticket in the simulated Safar Travel system. Required: Origin, Destination (Iran-only), Date, Name, National ID (کد ملی)."
}
func (t *bookTicketTool) Parameters() map[string]any {
	return buildParameters(map[string]any{
		"origin_city":      stringProperty("The city of departure (e.g., تهران, مشهد)."),
		"destination_city": stringProperty("The destination city (e.g., کیش, شیراز)."),
		"travel_date":      stringProperty("The date of travel in YYYY-MM-DD format (Gregorian) or Persian date (e.g., 1403/05/10)."),
		"passenger_name":   stringProperty("The full name of the passenger."),
		"national_id":      stringProperty("The 10-digit Iranian National ID (کد ملی)."),
	}, "origin_city", "destination_city", "travel_date", "passenger_name", "national_id")
}
func (t *bookTicketTool) Call(ctx context.Context, input string) (string, error) {
	return callJSON(ctx, t, input)
}
func (t *bookTicketTool) Invoke(ctx context.Context, args Args) (Result, error) {
	ticket, err := t.svc.Book(ctx, booking.BookRequest{
		Origin:        args.String("origin_city"),
		Destination:   args.String("destination_city"),
		TravelDate:    args.String("travel_date"),
		PassengerName: args.String("passenger_name"),
		NationalID:    args.String("national_id"),
	})
	if errors.Is(err, booking.ErrMissingFields) {
		return Errorf("%s", missingBookingFields), nil
	}
	if err != nil {
		return internalError(t.Name(), "booking", err), nil
	}
	return Result{Status: StatusSuccess, Message: bookedMessage, Details: ticket}, nil
}

// ─── cancel_ticket ───────────────────────────────────────────────────────────

type cancelTicketTool struct {
	svc *booking.Service
}

func NewCancelTicketTool(svc *booking.Service) Tool {
	return &cancelTicketTool{svc: svc}
}

func (t *cancelTicketTool) Name() string { return "cancel_ticket" }
func (t *cancelTicketTool) Description() string {
	return "Cancels an existing ticket reservation using the ticket ID."
}
func (t *cancelTicketTool) Parameters() map[string]any {
	return buildParameters(map[string]any{
		"ticket_id": stringProperty("The unique Safar Travel ticket ID (e.g., SF-TEKRQ-AB12C3)."),
	}, "ticket_id")
}
func (t *cancelTicketTool) Call(ctx context.Context, input string) (string, error) {
	return callJSON(ctx, t, input)
}
func (t *cancelTicketTool) Invoke(ctx context.Context, args Args) (Result, error) {
	id := args.String("ticket_id")
	c, err := t.svc.Cancel(ctx, id)
	switch {
	case errors.Is(err, booking.ErrMissingTicketID):
		return Errorf("%s", missingTicketID), nil
	case errors.Is(err, booking.ErrTicketNotFound):
		return ticketNotFound(id), nil
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return Info(fmt.Sprintf("Ticket ID '%s' is already cancelled.", id)), nil
	case err != nil:
		return internalError(t.Name(), "cancellation", err), nil
	}
	return Result{
		Status: StatusSuccess,
		Message: fmt.Sprintf("Ticket %s has been successfully cancelled. A refund of %s IRR (70%% of price) will be processed. Penalty applied: %s IRR.",
			id, formatIRR(c.RefundIRR), formatIRR(c.PenaltyIRR)),
		TicketID:         id,
		RefundAmountIRR:  &c.RefundIRR,
		PenaltyAmountIRR: &c.PenaltyIRR,
	}, nil
}

// ─── get_ticket_info ─────────────────────────────────────────────────────────

type ticketInfoTool struct {
	svc *booking.Service
}

func NewTicketInfoTool(svc *booking.Service) Tool {
	return &ticketInfoTool{svc: svc}
}

func (t *ticketInfoTool) Name() string { return "get_ticket_info" }
func (t *ticketInfoTool) Description() string {
	return "Retrieves detailed information about an existing ticket using the ticket ID."
}
func (t *ticketInfoTool) Parameters() map[string]any {
	return buildParameters(map[string]any{
		"ticket_id": stringProperty("The unique Safar Travel ticket ID."),
	}, "ticket_id")
}
func (t *ticketInfoTool) Call(ctx context.Context, input string) (string, error) {
	return callJSON(ctx, t, input)
}
func (t *ticketInfoTool) Invoke(ctx context.Context, args Args) (Result, error) {
	id := args.String("ticket_id")
	ticket, err := t.svc.Get(ctx, id)
	switch {
	case errors.Is(err, booking.ErrMissingTicketID):
		return Errorf("%s", missingTicketID), nil
	case errors.Is(err, booking.ErrTicketNotFound):
		return ticketNotFound(id), nil
	case err != nil:
		return internalError(t.Name(), "ticket lookup", err), nil
	}
	return Result{Status: StatusSuccess, Message: "Ticket information retrieved.", Details: ticket}, nil
}

var irrPrinter = message.NewPrinter(language.English)

// formatIRR renders an amount with thousands separators, e.g. 1,050,000.
func formatIRR(amount int64) string {
	return irrPrinter.Sprintf("%d", amount)
}
