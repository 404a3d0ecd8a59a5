package engine

import "time"

// Interval is a half-open [Start, End) span of UTC instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Buffered expands [start, end) by the mandatory gap on each side. Overlap
// testing always runs on buffered intervals, never on the bare booking.
func Buffered(start, end time.Time, before, after time.Duration) Interval {
	return Interval{Start: start.Add(-before), End: end.Add(after)}
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not count: a booking ending exactly where a buffer starts is
// allowed.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// OverlapsAny is the any-match conflict predicate: it returns true on the
// first busy interval the candidate intersects. busy intervals are expected
// to be already buffered.
func OverlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(candidate, b) {
			return true
		}
	}
	return false
}
