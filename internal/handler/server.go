// Package handler implements the HTTP handlers for the Escape Houses API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (property.go, booking.go, availability.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/feedsync"
	"github.com/escapehouses/backend/internal/repo"
	"github.com/escapehouses/backend/internal/service"
	"github.com/escapehouses/backend/spec"
)

// PropertyServicer defines the business operations the property handler
// depends on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type PropertyServicer interface {
	Create(ctx context.Context, p domain.Property) (domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error)
	GetBySlug(ctx context.Context, slug string) (domain.Property, error)
	List(ctx context.Context, onlyPublished bool) ([]domain.Property, error)
	Update(ctx context.Context, p domain.Property) (domain.Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingServicer defines the business operations the booking handler depends on.
type BookingServicer interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	List(ctx context.Context, filter repo.BookingFilter, page domain.PaginationParams) ([]domain.Booking, int64, error)
	Update(ctx context.Context, b domain.Booking) (domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AvailabilityServicer defines the calendar operations the availability
// handler depends on. Check takes the raw query-string dates so the service
// owns the INVALID_DATE_FORMAT refusal.
type AvailabilityServicer interface {
	Check(ctx context.Context, in service.CheckInput) (domain.CheckResult, error)
	BlockedDates(ctx context.Context, propertyID uuid.UUID) ([]domain.BusyPeriod, error)
	BlockedRanges(ctx context.Context, propertyID uuid.UUID) ([]domain.DateRange, error)
	NextAvailableDate(ctx context.Context, propertyID uuid.UUID, from *time.Time) (time.Time, error)
}

// CalendarSyncer triggers an on-demand refresh of a property's external feed.
type CalendarSyncer interface {
	SyncProperty(ctx context.Context, propertyID uuid.UUID) (feedsync.Result, error)
}

// Server implements all API endpoints. Methods are in domain-specific files
// but all operate on this struct.
type Server struct {
	properties   PropertyServicer
	bookings     BookingServicer
	availability AvailabilityServicer
	syncer       CalendarSyncer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(properties PropertyServicer, bookings BookingServicer, availability AvailabilityServicer, syncer CalendarSyncer) *Server {
	return &Server{
		properties:   properties,
		bookings:     bookings,
		availability: availability,
		syncer:       syncer,
	}
}

// Routes returns the chi router with every endpoint registered.
// Cross-cutting middleware (request IDs, logging, CORS, body limits) is
// applied by main.go around this router, not inside it.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(spec.OpenAPI)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", s.ListProperties)
			r.Post("/", s.CreateProperty)
			r.Get("/slug/{slug}", s.GetPropertyBySlug)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetProperty)
				r.Put("/", s.UpdateProperty)
				r.Delete("/", s.DeleteProperty)
				r.Get("/availability", s.CheckAvailability)
				r.Get("/blocked-dates", s.GetBlockedDates)
				r.Get("/next-available", s.GetNextAvailableDate)
				r.Post("/calendar/sync", s.SyncCalendar)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", s.ListBookings)
			r.Post("/", s.CreateBooking)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetBooking)
				r.Put("/", s.UpdateBooking)
				r.Patch("/status", s.UpdateBookingStatus)
				r.Delete("/", s.DeleteBooking)
			})
		})
	})

	return r
}
