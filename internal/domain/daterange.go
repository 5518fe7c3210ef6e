package domain

import (
	"math"
	"sort"
	"time"
)

// DateRange is a half-open calendar-date interval [Start, End).
// Both endpoints are expected to be UTC midnight; use Midnight to normalize.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Midnight truncates t to its calendar date at UTC midnight.
// All availability math works on dates normalized through this function so
// that time-of-day and timezone offsets never influence overlap results.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO "2006-01-02" calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate renders t as an ISO "2006-01-02" calendar date.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// NightsBetween returns the number of nights between two dates, rounding
// partial days up. For normalized dates this is simply the day difference.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// Overlaps reports whether the two half-open ranges share at least one night:
// a.Start < b.End AND b.Start < a.End. Touching endpoints (one range ending
// the day the other starts) do not overlap, which is what allows
// back-to-back stays.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the date d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && d.Before(r.End)
}

// overlapsByCases tests overlap via the four exhaustive sub-cases used by the
// bookings repo's SQL conflict predicate: either range starting inside the
// other, or either range encompassing the other. For well-formed ranges it
// must agree with Overlaps; the fixture grid in daterange_test.go asserts the
// equivalence before anyone consolidates the two.
func (r DateRange) overlapsByCases(other DateRange) bool {
	startsInside := !other.Start.Before(r.Start) && other.Start.Before(r.End)
	endsInside := r.Start.Before(other.End) && !other.End.After(r.End)
	encompasses := !other.Start.After(r.Start) && !other.End.Before(r.End)
	encompassed := !other.Start.Before(r.Start) && !other.End.After(r.End)
	return startsInside || endsInside || encompasses || encompassed
}

// MergeRanges collapses possibly-overlapping-or-adjacent ranges into the
// minimal set of disjoint ranges, ordered by start date. Adjacency counts:
// a range starting exactly where the previous one ends is folded in.
// The input slice is not modified. Empty input yields an empty result.
func MergeRanges(ranges []DateRange) []DateRange {
	if len(ranges) == 0 {
		return []DateRange{}
	}

	sorted := make([]DateRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []DateRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !r.Start.After(last.End) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
