// Package v1 serves the JSON chat API.
package v1

import (
	"log/slog"

	"github.com/labstack/echo/v5"

	"github.com/safartravel/safar/server/booking"
	"github.com/safartravel/safar/server/session"
)

type APIV1Service struct {
	Sessions *session.Manager
	Booking  *booking.Service
	AppName  string
	// Secret signs bearer tokens. Empty disables authentication.
	Secret string
	Logger *slog.Logger
}

func NewAPIV1Service(sessions *session.Manager, bookingService *booking.Service, appName, secret string, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIV1Service{
		Sessions: sessions,
		Booking:  bookingService,
		AppName:  appName,
		Secret:   secret,
		Logger:   logger,
	}
}

// RegisterRoutes mounts every /api/v1 route on e.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	if s.Secret != "" {
		g.Use(s.authMiddleware)
	}
	s.registerSessionRoutes(g)
	s.registerTicketRoutes(g)
}
