package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by update paths when the ticket does not exist.
var ErrNotFound = errors.New("ticket not found")

// Driver is implemented by every ticket storage backend.
// Implementations must be safe for concurrent use.
type Driver interface {
	CreateTicket(ctx context.Context, create *Ticket) (*Ticket, error)
	ListTickets(ctx context.Context, find *FindTicket) ([]*Ticket, error)
	UpdateTicket(ctx context.Context, update *UpdateTicket) (*Ticket, error)
	CountTickets(ctx context.Context) (int, error)
	Close() error
}

// Store is the ticket store shared by every session of the process.
type Store struct {
	driver Driver
}

// New creates a store backed by driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

func (s *Store) Close() error {
	return s.driver.Close()
}
