// Package timeutil holds the wall-clock to UTC conversion used by the
// scheduling engine. It is deliberately free of I/O and ambient clock reads
// so DST edges can be tested exhaustively per zone.
package timeutil

import (
	"fmt"
	"time"
)

// maxIterations caps the fixed-point refinement in ToUTC. Real-world zones
// converge in at most two passes; the cap only guards pathological data.
const maxIterations = 10

// LoadZone resolves an IANA zone id. An empty or unknown id is an input
// error and is reported to the caller rather than defaulted.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone is required")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// ParseHHMM parses a wall-clock "HH:MM" value. Longer strings such as
// "09:00:00.000000" are accepted by taking the first five characters.
func ParseHHMM(s string) (hour, minute int, err error) {
	if len(s) < 5 {
		return 0, 0, fmt.Errorf("invalid time string: %s", s)
	}
	tt, err := time.Parse("15:04", s[:5])
	if err != nil {
		return 0, 0, err
	}
	return tt.Hour(), tt.Minute(), nil
}

// ToUTC converts a calendar date plus a wall-clock time, interpreted in loc,
// to the corresponding UTC instant.
//
// A zone's UTC offset for a given wall-clock value is not known a priori
// (DST), so the conversion refines a candidate by fixed-point iteration:
// seed a candidate by reading the wall-clock values as if they were UTC,
// format the candidate back into loc, subtract the delta between the desired
// and observed wall clocks, and repeat until they match. If the wall-clock
// value does not exist in loc (a DST gap), the iteration cannot converge and
// the last candidate is returned.
func ToUTC(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	desired := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	cand := desired
	for i := 0; i < maxIterations; i++ {
		got := cand.In(loc)
		gy, gm, gd := got.Date()
		observed := time.Date(gy, gm, gd, got.Hour(), got.Minute(), 0, 0, time.UTC)
		delta := observed.Sub(desired)
		if delta == 0 {
			return cand
		}
		cand = cand.Add(-delta)
	}
	return cand
}

// DateOnly truncates t to its UTC calendar date (midnight UTC marker).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same UTC calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
