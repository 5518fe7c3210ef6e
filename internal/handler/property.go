package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/escapehouses/backend/internal/domain"
)

// PropertyRequest is the body for creating or updating a property.
type PropertyRequest struct {
	Title        string  `json:"title"`
	Slug         string  `json:"slug,omitempty"`
	Location     string  `json:"location"`
	Sleeps       int     `json:"sleeps"`
	Bedrooms     int     `json:"bedrooms"`
	PriceMidweek float64 `json:"price_midweek"`
	PriceWeekend float64 `json:"price_weekend"`
	Description  string  `json:"description,omitempty"`
	ICalURL      *string `json:"ical_url,omitempty"`
	Featured     bool    `json:"featured"`
	Published    bool    `json:"published"`
}

// PropertyResponse is the JSON shape of a property on the wire.
type PropertyResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Location     string    `json:"location"`
	Sleeps       int       `json:"sleeps"`
	Bedrooms     int       `json:"bedrooms"`
	PriceMidweek float64   `json:"price_midweek"`
	PriceWeekend float64   `json:"price_weekend"`
	Description  string    `json:"description,omitempty"`
	ICalURL      *string   `json:"ical_url,omitempty"`
	Featured     bool      `json:"featured"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateProperty handles POST /api/v1/properties.
func (s *Server) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body")
		return
	}

	created, err := s.properties.Create(r.Context(), req.toDomain(uuid.Nil))
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}
	respondJSON(w, http.StatusCreated, propertyToResponse(created))
}

// ListProperties handles GET /api/v1/properties.
// ?published=true restricts the listing to published properties.
func (s *Server) ListProperties(w http.ResponseWriter, r *http.Request) {
	onlyPublished := r.URL.Query().Get("published") == "true"

	props, err := s.properties.List(r.Context(), onlyPublished)
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}

	data := make([]PropertyResponse, len(props))
	for i, p := range props {
		data[i] = propertyToResponse(p)
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": data})
}

// GetProperty handles GET /api/v1/properties/{id}.
func (s *Server) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	p, err := s.properties.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}
	respondJSON(w, http.StatusOK, propertyToResponse(p))
}

// GetPropertyBySlug handles GET /api/v1/properties/slug/{slug}.
func (s *Server) GetPropertyBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := s.properties.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}
	respondJSON(w, http.StatusOK, propertyToResponse(p))
}

// UpdateProperty handles PUT /api/v1/properties/{id}.
func (s *Server) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body")
		return
	}

	updated, err := s.properties.Update(r.Context(), req.toDomain(id))
	if err != nil {
		respondServiceError(w, err, "property")
		return
	}
	respondJSON(w, http.StatusOK, propertyToResponse(updated))
}

// DeleteProperty handles DELETE /api/v1/properties/{id}.
func (s *Server) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.properties.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathUUID parses the named chi URL parameter as a UUID, writing a 404 on
// failure. A malformed ID can never match a resource, so it reads the same
// as an unknown one to the client.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
		return uuid.Nil, false
	}
	return id, true
}

func (req PropertyRequest) toDomain(id uuid.UUID) domain.Property {
	return domain.Property{
		ID:           id,
		Title:        req.Title,
		Slug:         req.Slug,
		Location:     req.Location,
		Sleeps:       req.Sleeps,
		Bedrooms:     req.Bedrooms,
		PriceMidweek: req.PriceMidweek,
		PriceWeekend: req.PriceWeekend,
		Description:  req.Description,
		ICalURL:      req.ICalURL,
		Featured:     req.Featured,
		Published:    req.Published,
	}
}

func propertyToResponse(p domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Location:     p.Location,
		Sleeps:       p.Sleeps,
		Bedrooms:     p.Bedrooms,
		PriceMidweek: p.PriceMidweek,
		PriceWeekend: p.PriceWeekend,
		Description:  p.Description,
		ICalURL:      p.ICalURL,
		Featured:     p.Featured,
		Published:    p.Published,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
