// Package feedsync periodically refreshes external calendar feeds so the
// fetch cache is warm when guests hit the booking flow, and gives owners a
// place to see that their Airbnb/VRBO link actually works. Sync failures are
// logged and reported per property — they never affect the request path.
package feedsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/ical"
	"github.com/escapehouses/backend/internal/repo"
)

// Fetcher retrieves the parsed events of an external calendar feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]domain.CalendarEvent, error)
}

// Result is the owner-facing outcome of syncing one property's feed.
// Feed-level failures land in Error rather than an error return: a broken
// owner-supplied URL is a reportable state, not an infrastructure fault.
type Result struct {
	PropertyID  uuid.UUID           `json:"property_id"`
	Success     bool                `json:"success"`
	EventsFound int                 `json:"events_found"`
	BusyPeriods []domain.BusyPeriod `json:"busy_periods,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Syncer drives feed refreshes, either on a cron schedule or on demand.
type Syncer struct {
	properties repo.PropertyRepo
	feeds      Fetcher
	log        *slog.Logger
	cron       *cron.Cron
}

// New constructs a Syncer. Call Start to begin scheduled syncs; SyncProperty
// works without Start for the manual trigger endpoint.
func New(properties repo.PropertyRepo, feeds Fetcher, log *slog.Logger) *Syncer {
	return &Syncer{
		properties: properties,
		feeds:      feeds,
		log:        log,
		cron:       cron.New(),
	}
}

// Start schedules SyncAll every interval and launches the cron runner.
func (s *Syncer) Start(interval time.Duration) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.SyncAll(context.Background())
	})
	if err != nil {
		return fmt.Errorf("feedsync.Syncer.Start: %w", err)
	}
	s.cron.Start()
	s.log.Info("feed sync scheduler started", "interval", interval.String())
	return nil
}

// Stop halts the scheduler. Running jobs finish; no new ones start.
func (s *Syncer) Stop() {
	s.cron.Stop()
}

// SyncAll refreshes every property that has a feed configured and logs a
// summary. Returned results are in property order.
func (s *Syncer) SyncAll(ctx context.Context) []Result {
	props, err := s.properties.ListWithFeed(ctx)
	if err != nil {
		s.log.Error("feed sync: listing properties failed", "error", err)
		return nil
	}

	results := make([]Result, 0, len(props))
	failures := 0
	for _, p := range props {
		r := s.syncOne(ctx, p)
		if !r.Success {
			failures++
		}
		results = append(results, r)
	}

	s.log.Info("feed sync pass complete",
		"properties", len(props),
		"failures", failures,
	)
	return results
}

// SyncProperty refreshes one property's feed on demand.
// Returns domain.ErrValidation when the property has no feed configured and
// domain.ErrNotFound when it does not exist.
func (s *Syncer) SyncProperty(ctx context.Context, propertyID uuid.UUID) (Result, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return Result{}, fmt.Errorf("feedsync.Syncer.SyncProperty: %w", err)
	}
	if property.ICalURL == nil || *property.ICalURL == "" {
		return Result{}, fmt.Errorf("%w: no calendar feed configured for this property", domain.ErrValidation)
	}
	return s.syncOne(ctx, property), nil
}

// syncOne fetches and converts a single property's feed, logging failures
// at Warn for owner-facing visibility.
func (s *Syncer) syncOne(ctx context.Context, property domain.Property) Result {
	result := Result{PropertyID: property.ID}

	events, err := s.feeds.Fetch(ctx, *property.ICalURL)
	if err != nil {
		result.Error = err.Error()
		var ferr *ical.FeedFetchError
		if errors.As(err, &ferr) && ferr.StatusCode != 0 {
			s.log.Warn("feed sync failed",
				"property_id", property.ID,
				"url", *property.ICalURL,
				"status", ferr.StatusCode,
			)
		} else {
			s.log.Warn("feed sync failed",
				"property_id", property.ID,
				"url", *property.ICalURL,
				"error", err,
			)
		}
		return result
	}

	result.Success = true
	result.EventsFound = len(events)
	for _, e := range events {
		result.BusyPeriods = append(result.BusyPeriods, domain.BusyPeriod{
			Start:  e.Start,
			End:    e.End,
			Source: ical.SourceFromUID(e.UID),
		})
	}
	return result
}
