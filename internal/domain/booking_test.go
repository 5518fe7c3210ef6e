package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/escapehouses/backend/internal/domain"
)

func TestBookingStatus_Blocking(t *testing.T) {
	assert.True(t, domain.StatusPending.Blocking())
	assert.True(t, domain.StatusConfirmed.Blocking())
	assert.False(t, domain.StatusCancelled.Blocking())
	assert.False(t, domain.StatusCompleted.Blocking())
}

func TestBookingStatus_Valid(t *testing.T) {
	assert.True(t, domain.StatusPending.Valid())
	assert.False(t, domain.BookingStatus("archived").Valid())
	assert.False(t, domain.BookingStatus("").Valid())
}

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to domain.BookingStatus
		want     bool
	}{
		{domain.StatusPending, domain.StatusConfirmed, true},
		{domain.StatusPending, domain.StatusCancelled, true},
		{domain.StatusPending, domain.StatusCompleted, false},
		{domain.StatusConfirmed, domain.StatusCompleted, true},
		{domain.StatusConfirmed, domain.StatusCancelled, true},
		{domain.StatusConfirmed, domain.StatusPending, false},
		{domain.StatusCancelled, domain.StatusPending, false},
		{domain.StatusCancelled, domain.StatusConfirmed, false},
		{domain.StatusCompleted, domain.StatusCancelled, false},
	}

	for _, c := range cases {
		assert.Equalf(t, c.want, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestBooking_Nights(t *testing.T) {
	b := domain.Booking{
		CheckIn:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 4, b.Nights())
}
