// Package engine implements the pure scheduling math: resolving recurring
// availability into per-date open windows, buffered interval conflict
// detection, and tiling windows into bookable slots. Nothing here touches a
// database or the process clock; callers pass state and "now" explicitly.
package engine

import (
	"time"

	"scheduling-service/internal/timeutil"
)

// Rule is a recurring weekly open window. Start and End are wall-clock
// "HH:MM" values with no attached zone; the requester's zone is applied at
// slot-generation time.
type Rule struct {
	DayOfWeek int
	Start     string
	End       string
}

// Exception overrides a single calendar date. Available=false blocks the
// whole date regardless of any matching rules.
type Exception struct {
	Date      time.Time
	Available bool
}

// Window is one open stretch on a concrete date, still in wall-clock terms.
type Window struct {
	Date  time.Time
	Start string
	End   string
}

// OpenWindows expands weekly rules over the inclusive [startDate, endDate]
// range, honoring date exceptions. Dates are UTC midnight markers.
//
// Rules whose parsed start is not strictly before their end are skipped as
// misconfigured. Overlapping rules on the same day are emitted independently
// in rule order; slot generation deduplicates on the output side via
// conflict filtering, not here.
func OpenWindows(rules []Rule, exceptions []Exception, startDate, endDate time.Time) []Window {
	if len(rules) == 0 {
		return nil
	}

	blocked := make(map[time.Time]bool, len(exceptions))
	for _, ex := range exceptions {
		if !ex.Available {
			blocked[timeutil.DateOnly(ex.Date)] = true
		}
	}

	var windows []Window
	for day := timeutil.DateOnly(startDate); !day.After(endDate); day = day.Add(24 * time.Hour) {
		if blocked[day] {
			continue
		}
		for _, r := range rules {
			if int(day.Weekday()) != r.DayOfWeek {
				continue
			}
			sh, sm, err := timeutil.ParseHHMM(r.Start)
			if err != nil {
				continue
			}
			eh, em, err := timeutil.ParseHHMM(r.End)
			if err != nil {
				continue
			}
			if sh*60+sm >= eh*60+em {
				continue
			}
			windows = append(windows, Window{Date: day, Start: r.Start, End: r.End})
		}
	}
	return windows
}
