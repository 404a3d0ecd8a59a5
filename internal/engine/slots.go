package engine

import (
	"sort"
	"time"

	"scheduling-service/internal/timeutil"
)

// Slot is a transient bookable candidate in UTC. It is derived output, never
// persisted.
type Slot struct {
	Start time.Time
	End   time.Time
}

// GenerateInput carries everything GenerateSlots needs. Busy must hold the
// already-buffered intervals of the scheduled bookings for the event type.
type GenerateInput struct {
	Duration     time.Duration
	BufferBefore time.Duration
	BufferAfter  time.Duration
	Rules        []Rule
	Exceptions   []Exception
	Busy         []Interval
	StartDate    time.Time
	EndDate      time.Time
	Zone         *time.Location
}

// GenerateSlots tiles every open window in the date range into consecutive
// duration-sized slots and keeps the ones whose buffered interval both stays
// inside the window and clears every busy interval. The result is sorted
// ascending by start, then end, so identical inputs always produce identical
// output.
//
// Buffers never change the tiling step; they only reject candidates. A slot
// whose buffer would spill outside the host's declared window is dropped
// even though the bare slot fits.
func GenerateSlots(in GenerateInput) []Slot {
	if in.Duration <= 0 {
		return nil
	}

	var slots []Slot
	for _, w := range OpenWindows(in.Rules, in.Exceptions, in.StartDate, in.EndDate) {
		sh, sm, err := timeutil.ParseHHMM(w.Start)
		if err != nil {
			continue
		}
		eh, em, err := timeutil.ParseHHMM(w.End)
		if err != nil {
			continue
		}

		y, m, d := w.Date.Date()
		winStart := timeutil.ToUTC(y, m, d, sh, sm, in.Zone)
		winEnd := timeutil.ToUTC(y, m, d, eh, em, in.Zone)
		if !winEnd.After(winStart) {
			// A DST gap can invert a window after conversion.
			continue
		}

		for s := winStart; !s.Add(in.Duration).After(winEnd); s = s.Add(in.Duration) {
			end := s.Add(in.Duration)
			buffered := Buffered(s, end, in.BufferBefore, in.BufferAfter)
			if buffered.Start.Before(winStart) || buffered.End.After(winEnd) {
				continue
			}
			if OverlapsAny(buffered, in.Busy) {
				continue
			}
			slots = append(slots, Slot{Start: s, End: end})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].End.Before(slots[j].End)
	})
	return slots
}
