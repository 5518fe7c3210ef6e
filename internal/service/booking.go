package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/repo"
)

// emailPattern is the permissive shape check used on guest emails:
// something@something.something. Real validation happens when the
// confirmation email bounces.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UnavailableError is returned by booking create/update when the requested
// dates fail the availability check. It carries the full check result so the
// HTTP layer can render the reason code and any conflicting bookings.
type UnavailableError struct {
	Result domain.CheckResult
}

func (e *UnavailableError) Error() string {
	return e.Result.Reason.Message()
}

// AvailabilityChecker is the slice of AvailabilityService the booking
// service depends on.
type AvailabilityChecker interface {
	CheckDates(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (domain.CheckResult, error)
}

// BookingService implements business logic for Booking operations.
// Creating or re-dating a booking runs the availability check first; this is
// advisory (two concurrent requests can both pass), and the database's
// exclusion constraint is the write-time backstop.
type BookingService struct {
	bookings     repo.BookingRepo
	availability AvailabilityChecker
}

// NewBookingService constructs a BookingService backed by the provided repo
// and availability checker.
func NewBookingService(bookings repo.BookingRepo, availability AvailabilityChecker) *BookingService {
	return &BookingService{bookings: bookings, availability: availability}
}

// Create validates the guest details, checks availability for the requested
// stay, and persists the booking in status pending.
// Returns domain.ErrValidation for bad input and *UnavailableError when the
// dates cannot be booked.
func (s *BookingService) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if err := validateBooking(b); err != nil {
		return domain.Booking{}, err
	}

	b.CheckIn = domain.Midnight(b.CheckIn)
	b.CheckOut = domain.Midnight(b.CheckOut)
	b.Status = domain.StatusPending

	result, err := s.availability.CheckDates(ctx, b.PropertyID, b.CheckIn, b.CheckOut, nil)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if !result.Available {
		return domain.Booking{}, &UnavailableError{Result: result}
	}

	created, err := s.bookings.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single booking by ID.
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	result, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByID: %w", err)
	}
	return result, nil
}

// List returns bookings matching filter plus the total match count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) List(ctx context.Context, filter repo.BookingFilter, page domain.PaginationParams) ([]domain.Booking, int64, error) {
	bookings, total, err := s.bookings.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.List: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, total, nil
}

// Update validates and persists changes to a booking's guest details and
// dates. A date change is re-checked for availability with the booking
// itself excluded from the conflict scan.
func (s *BookingService) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if err := validateBooking(b); err != nil {
		return domain.Booking{}, err
	}

	b.CheckIn = domain.Midnight(b.CheckIn)
	b.CheckOut = domain.Midnight(b.CheckOut)

	current, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
	}

	if !current.CheckIn.Equal(b.CheckIn) || !current.CheckOut.Equal(b.CheckOut) {
		excludeID := b.ID
		result, err := s.availability.CheckDates(ctx, current.PropertyID, b.CheckIn, b.CheckOut, &excludeID)
		if err != nil {
			return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
		}
		if !result.Available {
			return domain.Booking{}, &UnavailableError{Result: result}
		}
	}

	updated, err := s.bookings.Update(ctx, b)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
	}
	return updated, nil
}

// UpdateStatus transitions a booking's lifecycle status, enforcing the
// allowed transition set (pending→confirmed/cancelled,
// confirmed→completed/cancelled; cancelled and completed are terminal).
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	if !status.Valid() {
		return domain.Booking{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.UpdateStatus: %w", err)
	}
	if !current.Status.CanTransitionTo(status) {
		return domain.Booking{}, fmt.Errorf("%w: cannot change status from %s to %s", domain.ErrValidation, current.Status, status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.UpdateStatus: %w", err)
	}
	return updated, nil
}

// Delete removes a booking by ID.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BookingService.Delete: %w", err)
	}
	return nil
}

// validateBooking enforces business rules common to Create and Update.
func validateBooking(b domain.Booking) error {
	if strings.TrimSpace(b.GuestName) == "" {
		return fmt.Errorf("%w: guest name is required", domain.ErrValidation)
	}
	if !emailPattern.MatchString(b.GuestEmail) {
		return fmt.Errorf("%w: guest email is invalid", domain.ErrValidation)
	}
	if strings.TrimSpace(b.GuestPhone) == "" {
		return fmt.Errorf("%w: guest phone is required", domain.ErrValidation)
	}
	if b.Guests < 1 {
		return fmt.Errorf("%w: at least one guest is required", domain.ErrValidation)
	}
	if b.TotalPrice != nil && *b.TotalPrice < 0 {
		return fmt.Errorf("%w: total price must not be negative", domain.ErrValidation)
	}
	return nil
}
