package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/safartravel/safar/server/booking"
	"github.com/safartravel/safar/store"
)

func (s *APIV1Service) registerTicketRoutes(g *echo.Group) {
	g.GET("/tickets", s.listTickets)
}

// listTickets returns booked tickets, optionally narrowed by a CEL filter
// such as `status == "CONFIRMED"`.
func (s *APIV1Service) listTickets(c *echo.Context) error {
	tickets, err := s.Booking.List(c.Request().Context(), c.QueryParam("filter"))
	if errors.Is(err, booking.ErrInvalidFilter) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if tickets == nil {
		tickets = []*store.Ticket{}
	}
	return c.JSON(http.StatusOK, tickets)
}
