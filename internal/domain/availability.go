package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reason identifies why an availability check refused a date range.
// A refusal is a business answer, not an error: the service returns a
// CheckResult carrying one of these codes rather than an error value.
type Reason string

const (
	ReasonInvalidDateFormat        Reason = "INVALID_DATE_FORMAT"
	ReasonCheckInInPast            Reason = "CHECKIN_IN_PAST"
	ReasonCheckOutBeforeCheckIn    Reason = "CHECKOUT_BEFORE_CHECKIN"
	ReasonBelowMinimumStay         Reason = "BELOW_MINIMUM_STAY"
	ReasonPropertyNotFound         Reason = "PROPERTY_NOT_FOUND"
	ReasonLocalBookingConflict     Reason = "LOCAL_BOOKING_CONFLICT"
	ReasonExternalCalendarConflict Reason = "EXTERNAL_CALENDAR_CONFLICT"
)

// Message returns the guest-facing description of the refusal.
func (r Reason) Message() string {
	switch r {
	case ReasonInvalidDateFormat:
		return "Invalid date format. Use YYYY-MM-DD."
	case ReasonCheckInInPast:
		return "Check-in date cannot be in the past."
	case ReasonCheckOutBeforeCheckIn:
		return "Check-out date must be after check-in date."
	case ReasonBelowMinimumStay:
		return "Minimum stay is 1 night."
	case ReasonPropertyNotFound:
		return "Property not found."
	case ReasonLocalBookingConflict:
		return "Property is not available for the selected dates."
	case ReasonExternalCalendarConflict:
		return "Property is blocked on an external calendar (Airbnb, VRBO, etc.). Please choose different dates."
	}
	return string(r)
}

// BookingConflict describes one existing booking that overlaps a requested
// range, returned for caller diagnostics on LOCAL_BOOKING_CONFLICT.
type BookingConflict struct {
	ID       uuid.UUID     `json:"id"`
	CheckIn  time.Time     `json:"check_in"`
	CheckOut time.Time     `json:"check_out"`
	Status   BookingStatus `json:"status"`
}

// CheckResult is the outcome of an availability check.
// Available true means the range can be booked right now; otherwise Reason
// is set and, for local conflicts, Conflicts lists the offending bookings.
type CheckResult struct {
	Available bool              `json:"available"`
	Reason    Reason            `json:"reason,omitempty"`
	Conflicts []BookingConflict `json:"conflicting_bookings,omitempty"`
}

// Unavailable builds a refusal result for the given reason.
func Unavailable(reason Reason) CheckResult {
	return CheckResult{Available: false, Reason: reason}
}

// Available is the success result: bookable, no reason attached.
func Available() CheckResult {
	return CheckResult{Available: true}
}
