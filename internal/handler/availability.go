package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/service"
)

// BlockedPeriodResponse is one busy period in the blocked-dates listing.
type BlockedPeriodResponse struct {
	Start     openapi_types.Date `json:"start"`
	End       openapi_types.Date `json:"end"`
	Source    string             `json:"source"`
	Status    string             `json:"status,omitempty"`
	BookingID string             `json:"booking_id,omitempty"`
}

// BlockedRangeResponse is one merged date range (?merged=true).
type BlockedRangeResponse struct {
	Start openapi_types.Date `json:"start"`
	End   openapi_types.Date `json:"end"`
}

// CheckAvailability handles GET /api/v1/properties/{id}/availability.
// Query params: check_in, check_out (YYYY-MM-DD, required) and
// exclude_booking_id (optional). A refusal is a normal 200 response with
// available:false and a reason — the check answered the question it was asked.
func (s *Server) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	q := r.URL.Query()
	in := service.CheckInput{
		PropertyID: id,
		CheckIn:    q.Get("check_in"),
		CheckOut:   q.Get("check_out"),
	}
	if v := q.Get("exclude_booking_id"); v != "" {
		excludeID, err := uuid.Parse(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "validation_error", "invalid exclude_booking_id query parameter")
			return
		}
		in.ExcludeBookingID = &excludeID
	}

	result, err := s.availability.Check(r.Context(), in)
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetBlockedDates handles GET /api/v1/properties/{id}/blocked-dates.
// The default response lists every busy period with its source; ?merged=true
// collapses them into non-overlapping date ranges for calendar rendering.
func (s *Server) GetBlockedDates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if r.URL.Query().Get("merged") == "true" {
		ranges, err := s.availability.BlockedRanges(r.Context(), id)
		if err != nil {
			respondServiceError(w, err, "property")
			return
		}
		data := make([]BlockedRangeResponse, len(ranges))
		for i, dr := range ranges {
			data[i] = BlockedRangeResponse{
				Start: openapi_types.Date{Time: dr.Start},
				End:   openapi_types.Date{Time: dr.End},
			}
		}
		respondJSON(w, http.StatusOK, map[string]any{"blocked_ranges": data})
		return
	}

	periods, err := s.availability.BlockedDates(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}
	data := make([]BlockedPeriodResponse, len(periods))
	for i, p := range periods {
		data[i] = BlockedPeriodResponse{
			Start:     openapi_types.Date{Time: p.Start},
			End:       openapi_types.Date{Time: p.End},
			Source:    p.Source,
			Status:    string(p.Status),
			BookingID: p.BookingID,
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"blocked_dates": data})
}

// GetNextAvailableDate handles GET /api/v1/properties/{id}/next-available.
// ?from=YYYY-MM-DD moves the search start; the default is today.
func (s *Server) GetNextAvailableDate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var from *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := domain.ParseDate(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "validation_error", "invalid from query parameter")
			return
		}
		from = &t
	}

	next, err := s.availability.NextAvailableDate(r.Context(), id, from)
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"next_available_date": openapi_types.Date{Time: next},
	})
}

// SyncCalendar handles POST /api/v1/properties/{id}/calendar/sync.
// It refreshes the property's external feed on demand and returns the result,
// including feed-level failures — those are a 200 with success:false, since
// the sync endpoint did its job of finding out.
func (s *Server) SyncCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := s.syncer.SyncProperty(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
