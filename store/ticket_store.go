package store

import "context"

// CreateTicket persists a new ticket.
func (s *Store) CreateTicket(ctx context.Context, create *Ticket) (*Ticket, error) {
	return s.driver.CreateTicket(ctx, create)
}

// ListTickets lists tickets matching the given filter, oldest booking first.
func (s *Store) ListTickets(ctx context.Context, find *FindTicket) ([]*Ticket, error) {
	return s.driver.ListTickets(ctx, find)
}

// GetTicket returns the first ticket matching the filter, or nil when none does.
func (s *Store) GetTicket(ctx context.Context, find *FindTicket) (*Ticket, error) {
	list, err := s.driver.ListTickets(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateTicket updates a ticket's mutable fields.
func (s *Store) UpdateTicket(ctx context.Context, update *UpdateTicket) (*Ticket, error) {
	return s.driver.UpdateTicket(ctx, update)
}

// CountTickets returns the number of tickets ever booked, cancelled ones included.
func (s *Store) CountTickets(ctx context.Context) (int, error) {
	return s.driver.CountTickets(ctx)
}
