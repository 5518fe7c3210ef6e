package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// BlockingStatuses are the statuses that make a booking count against
// availability. Cancelled and completed bookings never block.
var BlockingStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Blocking reports whether a booking in this status blocks availability.
func (s BookingStatus) Blocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo reports whether a status change from s to next is allowed.
// Pending bookings can be confirmed or cancelled; confirmed bookings can be
// completed or cancelled. Cancelled and completed are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Booking represents a reservation for one property and one date range.
// CheckIn and CheckOut are calendar dates (UTC midnight, no time-of-day);
// the range is half-open [CheckIn, CheckOut), so a check-out on the same day
// as another booking's check-in is not a conflict.
type Booking struct {
	ID              uuid.UUID     `json:"id"`
	PropertyID      uuid.UUID     `json:"property_id"`
	GuestName       string        `json:"guest_name"`
	GuestEmail      string        `json:"guest_email"`
	GuestPhone      string        `json:"guest_phone"`
	CheckIn         time.Time     `json:"check_in"`
	CheckOut        time.Time     `json:"check_out"`
	Guests          int           `json:"guests"`
	Status          BookingStatus `json:"status"`
	TotalPrice      *float64      `json:"total_price,omitempty"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Range returns the booking's stay as a half-open date range.
func (b Booking) Range() DateRange {
	return DateRange{Start: b.CheckIn, End: b.CheckOut}
}

// Nights returns the length of the stay in nights.
func (b Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}
