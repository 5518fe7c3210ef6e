// Package domain contains the core data types for the Escape Houses API.
// This package has zero heavy dependencies and is imported by every other
// internal package (ical, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property represents a rental property listed on the marketplace.
// A property is the top-level aggregate; bookings belong to a property.
// ICalURL, when set, points at an externally hosted calendar export
// (Airbnb, VRBO, Booking.com) whose busy periods also block availability.
type Property struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Location      string    `json:"location"`
	Sleeps        int       `json:"sleeps"`
	Bedrooms      int       `json:"bedrooms"`
	PriceMidweek  float64   `json:"price_midweek"`
	PriceWeekend  float64   `json:"price_weekend"`
	Description   string    `json:"description,omitempty"`
	ICalURL       *string   `json:"ical_url,omitempty"` // nil when no external calendar is linked
	Featured      bool      `json:"featured"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
