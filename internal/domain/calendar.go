package domain

import "time"

// EventStatus is the status token of a parsed calendar-feed event.
type EventStatus string

const (
	EventConfirmed EventStatus = "CONFIRMED"
	EventTentative EventStatus = "TENTATIVE"
	EventCancelled EventStatus = "CANCELLED"
)

// CalendarEvent is a single event parsed from an external iCal feed.
// Start and End are calendar dates at UTC midnight; the event occupies the
// half-open range [Start, End), matching iCal's exclusive DTEND convention.
type CalendarEvent struct {
	UID         string      `json:"uid"`
	Summary     string      `json:"summary"`
	Description string      `json:"description,omitempty"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Status      EventStatus `json:"status"`
}

// Range returns the event's occupancy as a half-open date range.
func (e CalendarEvent) Range() DateRange {
	return DateRange{Start: e.Start, End: e.End}
}

// Busy-period source labels. SourceDatabase marks periods derived from local
// bookings; the rest are detected from external feed event UIDs.
const (
	SourceDatabase = "database"
	SourceAirbnb   = "Airbnb"
	SourceVRBO     = "VRBO"
	SourceBooking  = "Booking.com"
	SourceHomeAway = "HomeAway"
	SourceExternal = "External Calendar"
)

// BusyPeriod is a date range during which a property is not bookable,
// tagged with where the block came from. Busy periods are derived on every
// check — they are never persisted.
type BusyPeriod struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Source string    `json:"source"`

	// Status and BookingID are populated only when Source is SourceDatabase,
	// for calendar UI display alongside external blocks.
	Status    BookingStatus `json:"status,omitempty"`
	BookingID string        `json:"booking_id,omitempty"`
}

// Range returns the busy period as a half-open date range.
func (p BusyPeriod) Range() DateRange {
	return DateRange{Start: p.Start, End: p.End}
}
