package service

// Hand-written test doubles for the repo interfaces and the feed fetcher.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.
// These tests live in the service package (not service_test) so they can pin
// the availability clock to a fixed "today".

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/repo"
)

type mockPropertyRepo struct {
	create       func(ctx context.Context, p domain.Property) (domain.Property, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Property, error)
	getBySlug    func(ctx context.Context, slug string) (domain.Property, error)
	list         func(ctx context.Context, onlyPublished bool) ([]domain.Property, error)
	listWithFeed func(ctx context.Context) ([]domain.Property, error)
	update       func(ctx context.Context, p domain.Property) (domain.Property, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPropertyRepo) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	return m.create(ctx, p)
}
func (m *mockPropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	return m.getByID(ctx, id)
}
func (m *mockPropertyRepo) GetBySlug(ctx context.Context, slug string) (domain.Property, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockPropertyRepo) List(ctx context.Context, onlyPublished bool) ([]domain.Property, error) {
	return m.list(ctx, onlyPublished)
}
func (m *mockPropertyRepo) ListWithFeed(ctx context.Context) ([]domain.Property, error) {
	return m.listWithFeed(ctx)
}
func (m *mockPropertyRepo) Update(ctx context.Context, p domain.Property) (domain.Property, error) {
	return m.update(ctx, p)
}
func (m *mockPropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockPropertyRepo must satisfy repo.PropertyRepo.
var _ repo.PropertyRepo = (*mockPropertyRepo)(nil)

type mockBookingRepo struct {
	create            func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	list              func(ctx context.Context, f repo.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error)
	update            func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	updateStatus      func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	delete            func(ctx context.Context, id uuid.UUID) error
	listBlocking      func(ctx context.Context, propertyID uuid.UUID) ([]domain.Booking, error)
	listBlockingUntil func(ctx context.Context, propertyID uuid.UUID, until time.Time) ([]domain.Booking, error)
	listOverlapping   func(ctx context.Context, propertyID uuid.UUID, stay domain.DateRange, excludeID *uuid.UUID) ([]domain.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) List(ctx context.Context, f repo.BookingFilter, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.list(ctx, f, p)
}
func (m *mockBookingRepo) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.update(ctx, b)
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	return m.updateStatus(ctx, id, status)
}
func (m *mockBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockBookingRepo) ListBlocking(ctx context.Context, propertyID uuid.UUID) ([]domain.Booking, error) {
	return m.listBlocking(ctx, propertyID)
}
func (m *mockBookingRepo) ListBlockingUntil(ctx context.Context, propertyID uuid.UUID, until time.Time) ([]domain.Booking, error) {
	return m.listBlockingUntil(ctx, propertyID, until)
}
func (m *mockBookingRepo) ListOverlapping(ctx context.Context, propertyID uuid.UUID, stay domain.DateRange, excludeID *uuid.UUID) ([]domain.Booking, error) {
	return m.listOverlapping(ctx, propertyID, stay, excludeID)
}

// compile-time check: mockBookingRepo must satisfy repo.BookingRepo.
var _ repo.BookingRepo = (*mockBookingRepo)(nil)

// mockFetcher stubs the external feed fetch with fixed events or an error.
type mockFetcher struct {
	events []domain.CalendarEvent
	err    error

	// urls records every URL fetched, for asserting call behavior.
	urls []string
}

func (m *mockFetcher) Fetch(_ context.Context, url string) ([]domain.CalendarEvent, error) {
	m.urls = append(m.urls, url)
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

// overlapScanRepo builds a mockBookingRepo whose ListOverlapping filters the
// given bookings the way the SQL predicate does: blocking statuses only,
// half-open overlap, optional exclusion. Lets tests feed realistic booking
// sets instead of pre-computing conflict lists.
func overlapScanRepo(bookings []domain.Booking) *mockBookingRepo {
	return &mockBookingRepo{
		listOverlapping: func(_ context.Context, propertyID uuid.UUID, stay domain.DateRange, excludeID *uuid.UUID) ([]domain.Booking, error) {
			var out []domain.Booking
			for _, b := range bookings {
				if b.PropertyID != propertyID || !b.Status.Blocking() {
					continue
				}
				if excludeID != nil && b.ID == *excludeID {
					continue
				}
				if stay.Overlaps(b.Range()) {
					out = append(out, b)
				}
			}
			return out, nil
		},
	}
}
