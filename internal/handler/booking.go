package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/repo"
)

// BookingRequest is the body for creating or updating a booking.
// Dates are date-only (YYYY-MM-DD); openapi_types.Date enforces the format
// during unmarshalling so a timestamp in the field is rejected up front.
type BookingRequest struct {
	PropertyID      uuid.UUID          `json:"property_id"`
	GuestName       string             `json:"guest_name"`
	GuestEmail      string             `json:"guest_email"`
	GuestPhone      string             `json:"guest_phone"`
	CheckIn         openapi_types.Date `json:"check_in"`
	CheckOut        openapi_types.Date `json:"check_out"`
	Guests          int                `json:"guests"`
	TotalPrice      *float64           `json:"total_price,omitempty"`
	SpecialRequests string             `json:"special_requests,omitempty"`
}

// BookingResponse is the JSON shape of a booking on the wire.
type BookingResponse struct {
	ID              uuid.UUID            `json:"id"`
	PropertyID      uuid.UUID            `json:"property_id"`
	GuestName       string               `json:"guest_name"`
	GuestEmail      string               `json:"guest_email"`
	GuestPhone      string               `json:"guest_phone"`
	CheckIn         openapi_types.Date   `json:"check_in"`
	CheckOut        openapi_types.Date   `json:"check_out"`
	Nights          int                  `json:"nights"`
	Guests          int                  `json:"guests"`
	Status          domain.BookingStatus `json:"status"`
	TotalPrice      *float64             `json:"total_price,omitempty"`
	SpecialRequests string               `json:"special_requests,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// Pagination echoes the paging parameters back with the total row count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateBooking handles POST /api/v1/bookings.
// An availability refusal comes back as 409 with the check result as the body.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body")
		return
	}

	created, err := s.bookings.Create(r.Context(), req.toDomain(uuid.Nil))
	if err != nil {
		respondServiceError(w, err, "booking")
		return
	}
	respondJSON(w, http.StatusCreated, bookingToResponse(created))
}

// ListBookings handles GET /api/v1/bookings.
// Supports ?property_id=, ?status=, ?from=, ?to=, ?page=, ?limit=.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseBookingQuery(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	bookings, total, err := s.bookings.List(r.Context(), filter, page)
	if err != nil {
		respondServiceError(w, err, "booking")
		return
	}

	data := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		data[i] = bookingToResponse(b)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"pagination": Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: int(total),
		},
	})
}

// GetBooking handles GET /api/v1/bookings/{id}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	b, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "booking")
		return
	}
	respondJSON(w, http.StatusOK, bookingToResponse(b))
}

// UpdateBooking handles PUT /api/v1/bookings/{id}.
// Date changes re-run the availability check, excluding the booking itself.
func (s *Server) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body")
		return
	}

	updated, err := s.bookings.Update(r.Context(), req.toDomain(id))
	if err != nil {
		respondServiceError(w, err, "booking")
		return
	}
	respondJSON(w, http.StatusOK, bookingToResponse(updated))
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/{id}/status.
func (s *Server) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status domain.BookingStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body")
		return
	}

	updated, err := s.bookings.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, err, "booking")
		return
	}
	respondJSON(w, http.StatusOK, bookingToResponse(updated))
}

// DeleteBooking handles DELETE /api/v1/bookings/{id}.
func (s *Server) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.bookings.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "booking")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseBookingQuery builds the list filter and pagination from query params.
func parseBookingQuery(r *http.Request) (repo.BookingFilter, domain.PaginationParams, error) {
	q := r.URL.Query()
	var filter repo.BookingFilter

	if v := q.Get("property_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.PaginationParams{}, errInvalidQueryParam("property_id")
		}
		filter.PropertyID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.BookingStatus(v)
		if !status.Valid() {
			return filter, domain.PaginationParams{}, errInvalidQueryParam("status")
		}
		filter.Status = &status
	}
	if v := q.Get("from"); v != "" {
		t, err := domain.ParseDate(v)
		if err != nil {
			return filter, domain.PaginationParams{}, errInvalidQueryParam("from")
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := domain.ParseDate(v)
		if err != nil {
			return filter, domain.PaginationParams{}, errInvalidQueryParam("to")
		}
		filter.To = &t
	}

	var page, limit *int
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = &n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = &n
		}
	}
	return filter, domain.NewPaginationParams(page, limit), nil
}

type errInvalidQueryParam string

func (e errInvalidQueryParam) Error() string {
	return "invalid " + string(e) + " query parameter"
}

func (req BookingRequest) toDomain(id uuid.UUID) domain.Booking {
	return domain.Booking{
		ID:              id,
		PropertyID:      req.PropertyID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		CheckIn:         req.CheckIn.Time,
		CheckOut:        req.CheckOut.Time,
		Guests:          req.Guests,
		TotalPrice:      req.TotalPrice,
		SpecialRequests: req.SpecialRequests,
	}
}

func bookingToResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		PropertyID:      b.PropertyID,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		CheckIn:         openapi_types.Date{Time: b.CheckIn},
		CheckOut:        openapi_types.Date{Time: b.CheckOut},
		Nights:          b.Nights(),
		Guests:          b.Guests,
		Status:          b.Status,
		TotalPrice:      b.TotalPrice,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
