package store

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketConfirmed TicketStatus = "CONFIRMED"
	TicketCancelled TicketStatus = "CANCELLED"
)

// Ticket is a single booked seat. Tickets are never deleted; cancellation only
// moves Status to TicketCancelled and stamps CancellationDate.
type Ticket struct {
	ID               string       `json:"ticket_id"`
	Origin           string       `json:"origin"`
	Destination      string       `json:"destination"`
	TravelDate       string       `json:"travel_date"`
	DepartureTime    string       `json:"departure_time"`
	PassengerName    string       `json:"passenger_name"`
	NationalID       string       `json:"national_id"`
	PriceIRR         int64        `json:"price_irr"`
	Status           TicketStatus `json:"status"`
	BookingDate      string       `json:"booking_date"`
	CancellationDate string       `json:"cancellation_date,omitempty"`
}

// FindTicket filters for ListTickets.
type FindTicket struct {
	ID     *string
	Status *TicketStatus
}

// UpdateTicket carries fields accepted by UpdateTicket.
type UpdateTicket struct {
	ID               string
	Status           *TicketStatus
	CancellationDate *string
}
