// Package ical fetches and parses external calendar feeds (Airbnb, VRBO,
// Booking.com exports) into busy-period events. Third-party exports are not
// schema-guaranteed, so the parser is deliberately tolerant: malformed event
// blocks are skipped, never fatal.
package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/escapehouses/backend/internal/domain"
)

// Parse extracts calendar events from raw iCal feed text.
//
// Each BEGIN:VEVENT/END:VEVENT block yields at most one event:
//   - UID defaults to "event-N" (N = 1-based block index) when absent.
//   - SUMMARY defaults to "Reserved" when absent.
//   - DTSTART and DTEND are required 8-digit YYYYMMDD tokens; a block missing
//     either, or whose start is not strictly before its end, is skipped.
//   - STATUS defaults to CONFIRMED; unknown values are coerced to CONFIRMED.
//   - CANCELLED events are dropped.
//
// Events are returned in source order. Parse never fails: a garbage feed
// simply yields no events.
func Parse(data string) []domain.CalendarEvent {
	var events []domain.CalendarEvent

	blocks := strings.Split(data, "BEGIN:VEVENT")
	for i := 1; i < len(blocks); i++ {
		end := strings.Index(blocks[i], "END:VEVENT")
		if end == -1 {
			continue
		}

		if e, ok := parseEvent(blocks[i][:end], i); ok {
			events = append(events, e)
		}
	}

	return events
}

// parseEvent reads the line-oriented KEY:value tokens of one event block.
// index is the 1-based position of the block in the feed, used for the
// fallback UID.
func parseEvent(block string, index int) (domain.CalendarEvent, bool) {
	e := domain.CalendarEvent{
		UID:     fmt.Sprintf("event-%d", index),
		Summary: "Reserved",
		Status:  domain.EventConfirmed,
	}
	var haveStart, haveEnd bool

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")

		colon := strings.Index(line, ":")
		if colon == -1 {
			continue
		}
		key := line[:colon]
		value := strings.TrimSpace(line[colon+1:])

		// Strip property parameters: DTSTART;VALUE=DATE:20250101.
		if semi := strings.Index(key, ";"); semi != -1 {
			key = key[:semi]
		}

		switch key {
		case "UID":
			if value != "" {
				e.UID = value
			}
		case "SUMMARY":
			if value != "" {
				e.Summary = value
			}
		case "DESCRIPTION":
			e.Description = value
		case "DTSTART":
			if d, err := parseDate(value); err == nil {
				e.Start = d
				haveStart = true
			}
		case "DTEND":
			if d, err := parseDate(value); err == nil {
				e.End = d
				haveEnd = true
			}
		case "STATUS":
			e.Status = parseStatus(value)
		}
	}

	if !haveStart || !haveEnd {
		return domain.CalendarEvent{}, false
	}
	if !e.Start.Before(e.End) {
		return domain.CalendarEvent{}, false
	}
	if e.Status == domain.EventCancelled {
		return domain.CalendarEvent{}, false
	}
	return e, true
}

// parseDate decodes the leading 8-digit YYYYMMDD token of an iCal date value,
// ignoring any time-of-day suffix (20250101T140000Z occupies the same
// calendar date as 20250101).
func parseDate(value string) (time.Time, error) {
	if len(value) < 8 {
		return time.Time{}, fmt.Errorf("ical: date token %q too short", value)
	}
	return time.Parse("20060102", value[:8])
}

// parseStatus coerces anything outside the known status set to CONFIRMED.
func parseStatus(value string) domain.EventStatus {
	switch domain.EventStatus(strings.ToUpper(value)) {
	case domain.EventTentative:
		return domain.EventTentative
	case domain.EventCancelled:
		return domain.EventCancelled
	}
	return domain.EventConfirmed
}

// SourceFromUID maps an event UID to the platform that published it, using
// the host part that the major platforms embed in their export UIDs
// (e.g. "abc123@airbnb.com"). Unrecognized hosts fall back to a generic label.
func SourceFromUID(uid string) string {
	switch {
	case strings.Contains(uid, "@airbnb.com"):
		return domain.SourceAirbnb
	case strings.Contains(uid, "@vrbo.com"):
		return domain.SourceVRBO
	case strings.Contains(uid, "@booking.com"):
		return domain.SourceBooking
	case strings.Contains(uid, "@homeaway.com"):
		return domain.SourceHomeAway
	}
	return domain.SourceExternal
}
