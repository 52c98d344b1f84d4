// Package memory is the default ticket driver. Tickets live for the lifetime
// of the process.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/safartravel/safar/store"
)

type DB struct {
	mu      sync.RWMutex
	order   []string
	tickets map[string]*store.Ticket
}

func NewDB() store.Driver {
	return &DB{tickets: make(map[string]*store.Ticket)}
}

func (d *DB) CreateTicket(_ context.Context, create *store.Ticket) (*store.Ticket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.tickets[create.ID]; ok {
		return nil, errors.Errorf("ticket %q already exists", create.ID)
	}
	t := *create
	d.tickets[t.ID] = &t
	d.order = append(d.order, t.ID)
	out := t
	return &out, nil
}

func (d *DB) ListTickets(_ context.Context, find *store.FindTicket) ([]*store.Ticket, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var list []*store.Ticket
	for _, id := range d.order {
		t := d.tickets[id]
		if v := find.ID; v != nil && t.ID != *v {
			continue
		}
		if v := find.Status; v != nil && t.Status != *v {
			continue
		}
		out := *t
		list = append(list, &out)
	}
	return list, nil
}

func (d *DB) UpdateTicket(_ context.Context, update *store.UpdateTicket) (*store.Ticket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.tickets[update.ID]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "update ticket %q", update.ID)
	}
	if v := update.Status; v != nil {
		t.Status = *v
	}
	if v := update.CancellationDate; v != nil {
		t.CancellationDate = *v
	}
	out := *t
	return &out, nil
}

func (d *DB) CountTickets(context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order), nil
}

func (*DB) Close() error { return nil }
