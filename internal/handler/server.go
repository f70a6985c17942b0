// Package handler implements the HTTP handlers for the covoiturage API.
// All handlers are methods on Server; methods are split into resource
// files (driver.go, trip.go, etc.) but share the same struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/middleware"
	"github.com/ibarry/covoiturage/internal/service"
)

// DriverServicer defines the driver operations the handler depends on.
// Defining interfaces here, in the consumer package, follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type DriverServicer interface {
	Register(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	Authenticate(ctx context.Context, code string) (domain.Driver, error)
}

// TripServicer defines the trip operations the handler depends on.
type TripServicer interface {
	Publish(ctx context.Context, driverID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Edit(ctx context.Context, driverID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, driverID, tripID uuid.UUID) error
	Search(ctx context.Context, origin, destination string, p domain.PaginationParams) (service.SearchResult, error)
}

// ReservationServicer defines the booking operations the handler depends on.
type ReservationServicer interface {
	Reserve(ctx context.Context, tripID uuid.UUID, res domain.Reservation) (domain.Reservation, error)
}

// DashboardServicer builds the driver follow-up view.
type DashboardServicer interface {
	ForDriver(ctx context.Context, driver domain.Driver) (domain.Dashboard, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	drivers      DriverServicer
	trips        TripServicer
	reservations ReservationServicer
	dashboard    DashboardServicer
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies. log may be nil.
func NewServer(drivers DriverServicer, trips TripServicer, reservations ReservationServicer, dashboard DashboardServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		drivers:      drivers,
		trips:        trips,
		reservations: reservations,
		dashboard:    dashboard,
		log:          log,
	}
}

// Routes mounts every endpoint on a chi router. Trip management and the
// dashboard sit behind the access-code auth middleware; registration,
// search, and booking are public. rateLimit, when non-nil, wraps the
// booking endpoint only — it is the one route open to anonymous writes.
func (s *Server) Routes(rateLimit func(http.Handler) http.Handler) chi.Router {
	auth := middleware.NewAccessCodeAuth(s.drivers)

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Post("/drivers", s.RegisterDriver)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.SearchTrips)
		r.Get("/{id}", s.GetTrip)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", s.PublishTrip)
			r.Put("/{id}", s.EditTrip)
			r.Delete("/{id}", s.DeleteTrip)
		})

		r.Group(func(r chi.Router) {
			if rateLimit != nil {
				r.Use(rateLimit)
			}
			r.Post("/{id}/reservations", s.CreateReservation)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/dashboard", s.GetDashboard)
	})

	return r
}

// pathID parses the {id} chi URL parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
