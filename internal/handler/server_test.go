package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/feedsync"
	"github.com/escapehouses/backend/internal/handler"
	"github.com/escapehouses/backend/internal/repo"
	"github.com/escapehouses/backend/internal/service"
)

// mockPropertyServicer is a test double for handler.PropertyServicer.
// Set only the method fields your test needs.
type mockPropertyServicer struct {
	create    func(ctx context.Context, p domain.Property) (domain.Property, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Property, error)
	getBySlug func(ctx context.Context, slug string) (domain.Property, error)
	list      func(ctx context.Context, onlyPublished bool) ([]domain.Property, error)
	update    func(ctx context.Context, p domain.Property) (domain.Property, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPropertyServicer) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	return m.create(ctx, p)
}
func (m *mockPropertyServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	return m.getByID(ctx, id)
}
func (m *mockPropertyServicer) GetBySlug(ctx context.Context, slug string) (domain.Property, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockPropertyServicer) List(ctx context.Context, onlyPublished bool) ([]domain.Property, error) {
	return m.list(ctx, onlyPublished)
}
func (m *mockPropertyServicer) Update(ctx context.Context, p domain.Property) (domain.Property, error) {
	return m.update(ctx, p)
}
func (m *mockPropertyServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.PropertyServicer = (*mockPropertyServicer)(nil)

// mockBookingServicer is a test double for handler.BookingServicer.
type mockBookingServicer struct {
	create       func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	list         func(ctx context.Context, filter repo.BookingFilter, page domain.PaginationParams) ([]domain.Booking, int64, error)
	update       func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBookingServicer) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingServicer) List(ctx context.Context, filter repo.BookingFilter, page domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.list(ctx, filter, page)
}
func (m *mockBookingServicer) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.update(ctx, b)
}
func (m *mockBookingServicer) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	return m.updateStatus(ctx, id, status)
}
func (m *mockBookingServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.BookingServicer = (*mockBookingServicer)(nil)

// mockAvailabilityServicer is a test double for handler.AvailabilityServicer.
type mockAvailabilityServicer struct {
	check         func(ctx context.Context, in service.CheckInput) (domain.CheckResult, error)
	blockedDates  func(ctx context.Context, propertyID uuid.UUID) ([]domain.BusyPeriod, error)
	blockedRanges func(ctx context.Context, propertyID uuid.UUID) ([]domain.DateRange, error)
	nextAvailable func(ctx context.Context, propertyID uuid.UUID, from *time.Time) (time.Time, error)
}

func (m *mockAvailabilityServicer) Check(ctx context.Context, in service.CheckInput) (domain.CheckResult, error) {
	return m.check(ctx, in)
}
func (m *mockAvailabilityServicer) BlockedDates(ctx context.Context, propertyID uuid.UUID) ([]domain.BusyPeriod, error) {
	return m.blockedDates(ctx, propertyID)
}
func (m *mockAvailabilityServicer) BlockedRanges(ctx context.Context, propertyID uuid.UUID) ([]domain.DateRange, error) {
	return m.blockedRanges(ctx, propertyID)
}
func (m *mockAvailabilityServicer) NextAvailableDate(ctx context.Context, propertyID uuid.UUID, from *time.Time) (time.Time, error) {
	return m.nextAvailable(ctx, propertyID, from)
}

var _ handler.AvailabilityServicer = (*mockAvailabilityServicer)(nil)

// mockCalendarSyncer is a test double for handler.CalendarSyncer.
type mockCalendarSyncer struct {
	syncProperty func(ctx context.Context, propertyID uuid.UUID) (feedsync.Result, error)
}

func (m *mockCalendarSyncer) SyncProperty(ctx context.Context, propertyID uuid.UUID) (feedsync.Result, error) {
	return m.syncProperty(ctx, propertyID)
}

var _ handler.CalendarSyncer = (*mockCalendarSyncer)(nil)

// ---- helpers ---------------------------------------------------------------

// deps collects the mocks a test wires into the router. Zero-value fields are
// fine for endpoints the test never hits.
type deps struct {
	properties   handler.PropertyServicer
	bookings     handler.BookingServicer
	availability handler.AvailabilityServicer
	syncer       handler.CalendarSyncer
}

// newHTTPHandler wires a Server with the given mocks into its chi router,
// mirroring how main.go wires it in production.
func newHTTPHandler(d deps) http.Handler {
	return handler.NewServer(d.properties, d.bookings, d.availability, d.syncer).Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func propertyFixture() domain.Property {
	ical := "https://airbnb.example/feed.ics"
	return domain.Property{
		ID:           uuid.New(),
		Title:        "Coastal Cottage",
		Slug:         "coastal-cottage",
		Location:     "Cornwall",
		Sleeps:       4,
		Bedrooms:     2,
		PriceMidweek: 120,
		PriceWeekend: 180,
		ICalURL:      &ical,
		Published:    true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func bookingFixture() domain.Booking {
	return domain.Booking{
		ID:         uuid.New(),
		PropertyID: uuid.New(),
		GuestName:  "Jamie Rivers",
		GuestEmail: "jamie@example.com",
		GuestPhone: "07700900123",
		CheckIn:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Status:     domain.StatusPending,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

func TestGetHealth(t *testing.T) {
	rec := doRequest(t, newHTTPHandler(deps{}), http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	require.Equal(t, "ok", body["status"])
}
