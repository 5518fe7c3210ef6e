package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/repo"
)

// PropertyService implements business logic for Property operations.
// Its main responsibilities beyond CRUD are slug normalization and
// validating the owner-supplied external calendar URL.
type PropertyService struct {
	properties repo.PropertyRepo
}

// NewPropertyService constructs a PropertyService backed by the provided repo.
func NewPropertyService(properties repo.PropertyRepo) *PropertyService {
	return &PropertyService{properties: properties}
}

// Create validates and persists a new property. An empty slug is derived
// from the title.
func (s *PropertyService) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	} else {
		p.Slug = Slugify(p.Slug)
	}
	if err := validateProperty(p); err != nil {
		return domain.Property{}, err
	}

	created, err := s.properties.Create(ctx, p)
	if err != nil {
		return domain.Property{}, fmt.Errorf("service.PropertyService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single property by ID.
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	result, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return domain.Property{}, fmt.Errorf("service.PropertyService.GetByID: %w", err)
	}
	return result, nil
}

// GetBySlug returns a single property by its public slug.
func (s *PropertyService) GetBySlug(ctx context.Context, slug string) (domain.Property, error) {
	result, err := s.properties.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Property{}, fmt.Errorf("service.PropertyService.GetBySlug: %w", err)
	}
	return result, nil
}

// List returns properties, optionally restricted to published listings.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PropertyService) List(ctx context.Context, onlyPublished bool) ([]domain.Property, error) {
	props, err := s.properties.List(ctx, onlyPublished)
	if err != nil {
		return nil, fmt.Errorf("service.PropertyService.List: %w", err)
	}
	if props == nil {
		props = []domain.Property{}
	}
	return props, nil
}

// Update validates and persists changes to an existing property.
func (s *PropertyService) Update(ctx context.Context, p domain.Property) (domain.Property, error) {
	p.Slug = Slugify(p.Slug)
	if err := validateProperty(p); err != nil {
		return domain.Property{}, err
	}

	updated, err := s.properties.Update(ctx, p)
	if err != nil {
		return domain.Property{}, fmt.Errorf("service.PropertyService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a property by ID. Bookings cascade at the database level.
func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.properties.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PropertyService.Delete: %w", err)
	}
	return nil
}

// Slugify normalizes a string into a lowercase hyphenated slug.
// Runs of non-alphanumeric characters collapse into single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// validateProperty enforces business rules common to Create and Update.
func validateProperty(p domain.Property) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if p.Slug == "" {
		return fmt.Errorf("%w: slug is required", domain.ErrValidation)
	}
	if strings.TrimSpace(p.Location) == "" {
		return fmt.Errorf("%w: location is required", domain.ErrValidation)
	}
	if p.Sleeps < 1 {
		return fmt.Errorf("%w: sleeps must be at least 1", domain.ErrValidation)
	}
	if p.Bedrooms < 1 {
		return fmt.Errorf("%w: bedrooms must be at least 1", domain.ErrValidation)
	}
	if p.PriceMidweek < 0 || p.PriceWeekend < 0 {
		return fmt.Errorf("%w: prices must not be negative", domain.ErrValidation)
	}
	if p.ICalURL != nil && *p.ICalURL != "" {
		u, err := url.Parse(*p.ICalURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: ical_url must be an http(s) URL", domain.ErrValidation)
		}
	}
	return nil
}
