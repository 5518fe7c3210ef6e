// Package service contains the business logic for the Escape Houses API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/ical"
	"github.com/escapehouses/backend/internal/repo"
)

// Fetcher retrieves the parsed events of an external calendar feed.
// Defining the interface here (in the consumer package) lets availability
// tests inject a stub without spinning up an HTTP server; production wires
// *ical.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]domain.CalendarEvent, error)
}

// nextAvailableWindow bounds how far ahead the next-available-date scan
// looks for blocking bookings.
const nextAvailableWindow = 365 // days

// AvailabilityService is the single source of truth for "can this property
// be booked for this date range right now". It combines local bookings with
// externally sourced busy periods.
//
// External feed failures never block a booking: a third-party calendar
// outage is logged and treated as "no external conflicts found". The small
// double-booking risk in that window is accepted.
type AvailabilityService struct {
	properties repo.PropertyRepo
	bookings   repo.BookingRepo
	feeds      Fetcher
	log        *slog.Logger

	// now is overridable in tests to pin "today".
	now func() time.Time
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(properties repo.PropertyRepo, bookings repo.BookingRepo, feeds Fetcher, log *slog.Logger) *AvailabilityService {
	return &AvailabilityService{
		properties: properties,
		bookings:   bookings,
		feeds:      feeds,
		log:        log,
		now:        time.Now,
	}
}

// CheckInput carries the parameters of an availability check.
// CheckIn and CheckOut are ISO "YYYY-MM-DD" strings as received from the
// HTTP layer; parsing them is part of the check (a bad date is a refusal
// with INVALID_DATE_FORMAT, not a transport error).
type CheckInput struct {
	PropertyID uuid.UUID
	CheckIn    string
	CheckOut   string

	// ExcludeBookingID skips one booking in the conflict scan, so an
	// existing booking being edited never conflicts with itself.
	ExcludeBookingID *uuid.UUID
}

// Check validates the requested range and reports whether the property can
// be booked for it. The returned error covers infrastructure failures only
// (database down); every business refusal is expressed in the CheckResult.
func (s *AvailabilityService) Check(ctx context.Context, in CheckInput) (domain.CheckResult, error) {
	checkIn, errIn := domain.ParseDate(in.CheckIn)
	checkOut, errOut := domain.ParseDate(in.CheckOut)
	if errIn != nil || errOut != nil {
		return domain.Unavailable(domain.ReasonInvalidDateFormat), nil
	}
	return s.CheckDates(ctx, in.PropertyID, checkIn, checkOut, in.ExcludeBookingID)
}

// CheckDates is Check for callers that already hold parsed dates (the
// booking service re-validates through here on create and date changes).
func (s *AvailabilityService) CheckDates(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (domain.CheckResult, error) {
	checkIn = domain.Midnight(checkIn)
	checkOut = domain.Midnight(checkOut)

	today := domain.Midnight(s.now())
	if checkIn.Before(today) {
		return domain.Unavailable(domain.ReasonCheckInInPast), nil
	}
	if !checkOut.After(checkIn) {
		return domain.Unavailable(domain.ReasonCheckOutBeforeCheckIn), nil
	}
	// Redundant with the previous check for well-formed dates, but kept as
	// an explicit invariant: a stay is at least one night.
	if domain.NightsBetween(checkIn, checkOut) < 1 {
		return domain.Unavailable(domain.ReasonBelowMinimumStay), nil
	}

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Unavailable(domain.ReasonPropertyNotFound), nil
		}
		return domain.CheckResult{}, fmt.Errorf("service.AvailabilityService.CheckDates: %w", err)
	}

	stay := domain.DateRange{Start: checkIn, End: checkOut}

	conflicts, err := s.bookings.ListOverlapping(ctx, propertyID, stay, excludeID)
	if err != nil {
		return domain.CheckResult{}, fmt.Errorf("service.AvailabilityService.CheckDates: %w", err)
	}
	if len(conflicts) > 0 {
		result := domain.Unavailable(domain.ReasonLocalBookingConflict)
		for _, b := range conflicts {
			result.Conflicts = append(result.Conflicts, domain.BookingConflict{
				ID:       b.ID,
				CheckIn:  b.CheckIn,
				CheckOut: b.CheckOut,
				Status:   b.Status,
			})
		}
		return result, nil
	}

	for _, busy := range s.externalBusyPeriods(ctx, property) {
		if stay.Overlaps(busy.Range()) {
			return domain.Unavailable(domain.ReasonExternalCalendarConflict), nil
		}
	}

	return domain.Available(), nil
}

// BlockedDates returns every busy period for a property: local
// pending/confirmed bookings tagged "database" plus external feed blocks
// tagged with their platform. When the external fetch fails only the local
// set is returned. No merging is done here — calendar widgets that want
// disjoint ranges should use BlockedRanges.
func (s *AvailabilityService) BlockedDates(ctx context.Context, propertyID uuid.UUID) ([]domain.BusyPeriod, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.BlockedDates: %w", err)
	}

	local, err := s.bookings.ListBlocking(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("service.AvailabilityService.BlockedDates: %w", err)
	}

	periods := make([]domain.BusyPeriod, 0, len(local))
	for _, b := range local {
		periods = append(periods, domain.BusyPeriod{
			Start:     b.CheckIn,
			End:       b.CheckOut,
			Source:    domain.SourceDatabase,
			Status:    b.Status,
			BookingID: b.ID.String(),
		})
	}

	periods = append(periods, s.externalBusyPeriods(ctx, property)...)
	return periods, nil
}

// BlockedRanges is BlockedDates collapsed into the minimal set of disjoint
// date ranges, for rendering a booking calendar.
func (s *AvailabilityService) BlockedRanges(ctx context.Context, propertyID uuid.UUID) ([]domain.DateRange, error) {
	periods, err := s.BlockedDates(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	ranges := make([]domain.DateRange, len(periods))
	for i, p := range periods {
		ranges[i] = p.Range()
	}
	return domain.MergeRanges(ranges), nil
}

// NextAvailableDate returns the earliest date a stay could begin, scanning
// local bookings within a one-year window from the reference date (today
// when from is nil).
//
// External feeds are deliberately not consulted: this runs on suggestion
// paths where a network round-trip per property is too expensive. A property
// fully booked only on its external calendar will therefore be reported as
// available from the reference date.
func (s *AvailabilityService) NextAvailableDate(ctx context.Context, propertyID uuid.UUID, from *time.Time) (time.Time, error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return time.Time{}, fmt.Errorf("service.AvailabilityService.NextAvailableDate: %w", err)
	}

	cursor := domain.Midnight(s.now())
	if from != nil {
		cursor = domain.Midnight(*from)
	}
	until := cursor.AddDate(0, 0, nextAvailableWindow)

	blocking, err := s.bookings.ListBlockingUntil(ctx, propertyID, until)
	if err != nil {
		return time.Time{}, fmt.Errorf("service.AvailabilityService.NextAvailableDate: %w", err)
	}

	// blocking is ordered by check-in ascending. Walk forward: any gap before
	// the next booking's check-in is the answer; otherwise the cursor jumps
	// to that booking's check-out, which is the first night the departing
	// guest no longer occupies.
	for _, b := range blocking {
		if cursor.Before(b.CheckIn) {
			return cursor, nil
		}
		if b.CheckOut.After(cursor) {
			cursor = b.CheckOut
		}
	}
	return cursor, nil
}

// externalBusyPeriods fetches and converts the property's external feed.
// All failure modes collapse to "no external busy periods" — the fail-open
// policy that keeps a third-party outage from blocking bookings. Failures
// are logged for owner-facing visibility.
func (s *AvailabilityService) externalBusyPeriods(ctx context.Context, property domain.Property) []domain.BusyPeriod {
	if property.ICalURL == nil || *property.ICalURL == "" {
		return nil
	}

	events, err := s.feeds.Fetch(ctx, *property.ICalURL)
	if err != nil {
		s.log.WarnContext(ctx, "external calendar fetch failed; continuing without it",
			"property_id", property.ID,
			"url", *property.ICalURL,
			"error", err,
		)
		return nil
	}

	periods := make([]domain.BusyPeriod, 0, len(events))
	for _, e := range events {
		periods = append(periods, domain.BusyPeriod{
			Start:  e.Start,
			End:    e.End,
			Source: ical.SourceFromUID(e.UID),
		})
	}
	return periods
}
