package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/handler"
	"github.com/escapehouses/backend/internal/repo"
	"github.com/escapehouses/backend/internal/service"
)

func bookingRequestFixture(propertyID uuid.UUID) handler.BookingRequest {
	return handler.BookingRequest{
		PropertyID: propertyID,
		GuestName:  "Jamie Rivers",
		GuestEmail: "jamie@example.com",
		GuestPhone: "07700900123",
		CheckIn:    openapi_types.Date{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		CheckOut:   openapi_types.Date{Time: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)},
		Guests:     2,
	}
}

func TestCreateBooking(t *testing.T) {
	fixture := bookingFixture()
	svc := &mockBookingServicer{
		create: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			assert.Equal(t, "Jamie Rivers", b.GuestName)
			assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), b.CheckIn)
			return fixture, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{bookings: svc}), http.MethodPost, "/api/v1/bookings", bookingRequestFixture(fixture.PropertyID))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got handler.BookingResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, fixture.ID, got.ID)
	assert.Equal(t, 7, got.Nights)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestCreateBooking_unavailableIsConflict(t *testing.T) {
	conflictID := uuid.New()
	svc := &mockBookingServicer{
		create: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			result := domain.Unavailable(domain.ReasonLocalBookingConflict)
			result.Conflicts = []domain.BookingConflict{{
				ID:       conflictID,
				CheckIn:  b.CheckIn,
				CheckOut: b.CheckOut,
				Status:   domain.StatusConfirmed,
			}}
			return domain.Booking{}, &service.UnavailableError{Result: result}
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{bookings: svc}), http.MethodPost, "/api/v1/bookings", bookingRequestFixture(uuid.New()))

	require.Equal(t, http.StatusConflict, rec.Code)
	var got domain.CheckResult
	decodeBody(t, rec, &got)
	assert.False(t, got.Available)
	assert.Equal(t, domain.ReasonLocalBookingConflict, got.Reason)
	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, conflictID, got.Conflicts[0].ID)
}

func TestCreateBooking_malformedDateRejected(t *testing.T) {
	body := map[string]any{
		"property_id": uuid.NewString(),
		"guest_name":  "Jamie Rivers",
		"check_in":    "01/06/2025",
		"check_out":   "08/06/2025",
	}

	rec := doRequest(t, newHTTPHandler(deps{}), http.MethodPost, "/api/v1/bookings", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var errBody handler.ErrorResponse
	decodeBody(t, rec, &errBody)
	assert.Equal(t, "validation_error", errBody.Error.Code)
}

func TestListBookings_filters(t *testing.T) {
	propertyID := uuid.New()
	var gotFilter repo.BookingFilter
	var gotPage domain.PaginationParams
	svc := &mockBookingServicer{
		list: func(ctx context.Context, filter repo.BookingFilter, page domain.PaginationParams) ([]domain.Booking, int64, error) {
			gotFilter = filter
			gotPage = page
			return []domain.Booking{bookingFixture()}, 1, nil
		},
	}

	path := fmt.Sprintf("/api/v1/bookings?property_id=%s&status=confirmed&from=2025-06-01&page=2&limit=10", propertyID)
	rec := doRequest(t, newHTTPHandler(deps{bookings: svc}), http.MethodGet, path, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilter.PropertyID)
	assert.Equal(t, propertyID, *gotFilter.PropertyID)
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *gotFilter.Status)
	require.NotNil(t, gotFilter.From)
	assert.Nil(t, gotFilter.To)
	assert.Equal(t, 2, gotPage.Page)
	assert.Equal(t, 10, gotPage.Limit)

	var body struct {
		Data       []handler.BookingResponse `json:"data"`
		Pagination handler.Pagination        `json:"pagination"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, 1, body.Pagination.Total)
}

func TestListBookings_badStatusFilter(t *testing.T) {
	rec := doRequest(t, newHTTPHandler(deps{}), http.MethodGet, "/api/v1/bookings?status=maybe", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateBooking_usesPathID(t *testing.T) {
	fixture := bookingFixture()
	svc := &mockBookingServicer{
		update: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			assert.Equal(t, fixture.ID, b.ID)
			return fixture, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{bookings: svc}), http.MethodPut, "/api/v1/bookings/"+fixture.ID.String(), bookingRequestFixture(fixture.PropertyID))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateBookingStatus(t *testing.T) {
	fixture := bookingFixture()
	fixture.Status = domain.StatusConfirmed
	svc := &mockBookingServicer{
		updateStatus: func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
			assert.Equal(t, fixture.ID, id)
			assert.Equal(t, domain.StatusConfirmed, status)
			return fixture, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{bookings: svc}), http.MethodPatch, "/api/v1/bookings/"+fixture.ID.String()+"/status", map[string]string{"status": "confirmed"})

	require.Equal(t, http.StatusOK, rec.Code)
	var got handler.BookingResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestUpdateBookingStatus_forbiddenTransition(t *testing.T) {
	svc := &mockBookingServicer{
		updateStatus: func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
			return domain.Booking{}, fmt.Errorf("%w: cannot change status from cancelled to confirmed", domain.ErrValidation)
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{bookings: svc}), http.MethodPatch, "/api/v1/bookings/"+uuid.NewString()+"/status", map[string]string{"status": "confirmed"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body handler.ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "cannot change status from cancelled to confirmed", body.Error.Message)
}

func TestGetBooking_notFound(t *testing.T) {
	svc := &mockBookingServicer{
		getByID: func(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
			return domain.Booking{}, domain.ErrNotFound
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{bookings: svc}), http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBooking(t *testing.T) {
	fixture := bookingFixture()
	svc := &mockBookingServicer{
		delete: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, fixture.ID, id)
			return nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{bookings: svc}), http.MethodDelete, "/api/v1/bookings/"+fixture.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
