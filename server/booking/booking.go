// Package booking implements the simulated Safar Travel ticket backend.
package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/safartravel/safar/store"
)

const (
	BasePriceIRR      int64 = 1_500_000
	PremiumMultiplier       = 1.5
	RefundRate              = 0.70

	timestampLayout = "2006-01-02 15:04:05"
)

var (
	ErrMissingFields    = errors.New("missing required booking information")
	ErrMissingTicketID  = errors.New("ticket id required")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrAlreadyCancelled = errors.New("ticket already cancelled")
	ErrInvalidFilter    = errors.New("invalid ticket filter")
)

// DepartureSlots are assigned round-robin by booking order.
var DepartureSlots = [...]string{"08:00", "14:30", "20:00"}

var (
	premiumDestinations = map[string]bool{"kish": true, "qeshm": true, "\u06a9\u06cc\u0634": true, "\u0642\u0634\u0645": true}
	// Arabic yeh and kaf typed in place of the Persian letters.
	arabicLetterReplacer = strings.NewReplacer("\u064a", "\u06cc", "\u0643", "\u06a9")
)

// BookRequest carries the passenger-supplied booking details.
type BookRequest struct {
	Origin        string
	Destination   string
	TravelDate    string
	PassengerName string
	NationalID    string
}

// Cancellation is the outcome of a successful cancel.
type Cancellation struct {
	Ticket     *store.Ticket
	RefundIRR  int64
	PenaltyIRR int64
}

// Service books, cancels and looks up tickets. Check-then-write sequences run
// under one mutex so concurrent sessions see a consistent booking count.
type Service struct {
	mu    sync.Mutex
	store *store.Store
	now   func() time.Time
	newID func(origin, destination string) string
}

type Option func(*Service)

// WithClock overrides the time source used for booking and cancellation dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides ticket id generation.
func WithIDGenerator(newID func(origin, destination string) string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now, newID: NewTicketID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTicketID returns an id like SF-TESH-1A2B3C built from the first two
// letters of each city and a random suffix.
func NewTicketID(origin, destination string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("SF-%s%s-%s", cityPrefix(origin), cityPrefix(destination), suffix)
}

func cityPrefix(city string) string {
	runes := []rune(strings.TrimSpace(city))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// IsPremium reports whether destination carries the premium surcharge.
func IsPremium(destination string) bool {
	key := arabicLetterReplacer.Replace(cases.Fold().String(strings.TrimSpace(destination)))
	return premiumDestinations[key]
}

// Price returns the fare for a flight to destination.
func Price(destination string) int64 {
	if IsPremium(destination) {
		return int64(math.Round(float64(BasePriceIRR) * PremiumMultiplier))
	}
	return BasePriceIRR
}

// Refund splits price into the refunded amount and the penalty kept.
func Refund(price int64) (refund, penalty int64) {
	refund = int64(math.Round(float64(price) * RefundRate))
	return refund, price - refund
}

func (r BookRequest) complete() bool {
	for _, v := range []string{r.Origin, r.Destination, r.TravelDate, r.PassengerName, r.NationalID} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Book creates a CONFIRMED ticket. The departure slot cycles through
// DepartureSlots by the number of tickets booked before this one.
func (s *Service) Book(ctx context.Context, req BookRequest) (*store.Ticket, error) {
	if !req.complete() {
		return nil, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.store.CountTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	ticket, err := s.store.CreateTicket(ctx, &store.Ticket{
		ID:            s.newID(req.Origin, req.Destination),
		Origin:        req.Origin,
		Destination:   req.Destination,
		TravelDate:    req.TravelDate,
		DepartureTime: DepartureSlots[count%len(DepartureSlots)],
		PassengerName: req.PassengerName,
		NationalID:    req.NationalID,
		PriceIRR:      Price(req.Destination),
		Status:        store.TicketConfirmed,
		BookingDate:   s.now().Format(timestampLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}

// Get returns the ticket with id.
func (s *Service) Get(ctx context.Context, id string) (*store.Ticket, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingTicketID
	}
	ticket, err := s.store.GetTicket(ctx, &store.FindTicket{ID: &id})
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// Cancel cancels a CONFIRMED ticket and computes the refund. Cancelling an
// already cancelled ticket returns the ticket with ErrAlreadyCancelled and
// changes nothing.
func (s *Service) Cancel(ctx context.Context, id string) (*Cancellation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == store.TicketCancelled {
		return &Cancellation{Ticket: ticket}, ErrAlreadyCancelled
	}

	refund, penalty := Refund(ticket.PriceIRR)
	cancelled := store.TicketCancelled
	date := s.now().Format(timestampLayout)
	updated, err := s.store.UpdateTicket(ctx, &store.UpdateTicket{
		ID:               id,
		Status:           &cancelled,
		CancellationDate: &date,
	})
	if err != nil {
		return nil, fmt.Errorf("cancel ticket: %w", err)
	}
	return &Cancellation{Ticket: updated, RefundIRR: refund, PenaltyIRR: penalty}, nil
}
