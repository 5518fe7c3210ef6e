package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/handler"
)

func TestCreateProperty(t *testing.T) {
	fixture := propertyFixture()
	svc := &mockPropertyServicer{
		create: func(ctx context.Context, p domain.Property) (domain.Property, error) {
			assert.Equal(t, "Coastal Cottage", p.Title)
			return fixture, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{properties: svc}), http.MethodPost, "/api/v1/properties", handler.PropertyRequest{
		Title:        "Coastal Cottage",
		Location:     "Cornwall",
		Sleeps:       4,
		Bedrooms:     2,
		PriceMidweek: 120,
		PriceWeekend: 180,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var got handler.PropertyResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, fixture.ID, got.ID)
	assert.Equal(t, "coastal-cottage", got.Slug)
}

func TestCreateProperty_validationError(t *testing.T) {
	svc := &mockPropertyServicer{
		create: func(ctx context.Context, p domain.Property) (domain.Property, error) {
			return domain.Property{}, fmt.Errorf("service.PropertyService.Create: %w: title is required", domain.ErrValidation)
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{properties: svc}), http.MethodPost, "/api/v1/properties", handler.PropertyRequest{})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body handler.ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "title is required", body.Error.Message)
}

func TestGetProperty_notFound(t *testing.T) {
	svc := &mockPropertyServicer{
		getByID: func(ctx context.Context, id uuid.UUID) (domain.Property, error) {
			return domain.Property{}, fmt.Errorf("repo.PropertyRepo.GetByID: %w", domain.ErrNotFound)
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{properties: svc}), http.MethodGet, "/api/v1/properties/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body handler.ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, "property not found", body.Error.Message)
}

func TestGetProperty_malformedID(t *testing.T) {
	rec := doRequest(t, newHTTPHandler(deps{}), http.MethodGet, "/api/v1/properties/not-a-uuid", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPropertyBySlug(t *testing.T) {
	fixture := propertyFixture()
	svc := &mockPropertyServicer{
		getBySlug: func(ctx context.Context, slug string) (domain.Property, error) {
			assert.Equal(t, "coastal-cottage", slug)
			return fixture, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{properties: svc}), http.MethodGet, "/api/v1/properties/slug/coastal-cottage", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got handler.PropertyResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, fixture.ID, got.ID)
}

func TestListProperties_publishedFilter(t *testing.T) {
	var gotOnlyPublished bool
	svc := &mockPropertyServicer{
		list: func(ctx context.Context, onlyPublished bool) ([]domain.Property, error) {
			gotOnlyPublished = onlyPublished
			return []domain.Property{propertyFixture()}, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{properties: svc}), http.MethodGet, "/api/v1/properties?published=true", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOnlyPublished)
	var body struct {
		Data []handler.PropertyResponse `json:"data"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Data, 1)
}

func TestUpdateProperty_usesPathID(t *testing.T) {
	fixture := propertyFixture()
	svc := &mockPropertyServicer{
		update: func(ctx context.Context, p domain.Property) (domain.Property, error) {
			assert.Equal(t, fixture.ID, p.ID)
			return fixture, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{properties: svc}), http.MethodPut, "/api/v1/properties/"+fixture.ID.String(), handler.PropertyRequest{
		Title:        fixture.Title,
		Location:     fixture.Location,
		Sleeps:       fixture.Sleeps,
		Bedrooms:     fixture.Bedrooms,
		PriceMidweek: fixture.PriceMidweek,
		PriceWeekend: fixture.PriceWeekend,
	})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteProperty(t *testing.T) {
	fixture := propertyFixture()
	svc := &mockPropertyServicer{
		delete: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, fixture.ID, id)
			return nil
		},
	}

	rec := doRequest(t, newHTTPHandler(deps{properties: svc}), http.MethodDelete, "/api/v1/properties/"+fixture.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
