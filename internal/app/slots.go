package app

import (
	"context"
	"fmt"
	"time"

	"scheduling-service/internal/engine"
	"scheduling-service/internal/timeutil"
)

// maxRangeDays caps a single slot query.
const maxRangeDays = 30

// bookingFetchMargin widens the booking range query around the requested
// dates. Local midnights can sit up to 14 hours away from UTC midnight and
// buffers extend intervals further, so a day on each side is enough.
const bookingFetchMargin = 24 * time.Hour

// GenerateAvailableSlots resolves the event type's availability over the
// inclusive [startDate, endDate] range into bookable slots in UTC, in the
// requester's zone. It is read-only: any number of callers may run it
// concurrently, and client disconnects abort it safely mid-flight.
//
// Validation failures are fatal before any availability data is touched;
// after that the result is a possibly empty, ascending, deterministic list.
func (a *App) GenerateAvailableSlots(ctx context.Context, eventTypeID string, startDate, endDate time.Time, timezone string) ([]Slot, error) {
	zone, err := timeutil.LoadZone(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	startDay := timeutil.DateOnly(startDate)
	endDay := timeutil.DateOnly(endDate)
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("%w: start_date must not be after end_date", ErrValidation)
	}
	// The range is inclusive of both endpoints, so a diff of maxRangeDays
	// would already span maxRangeDays+1 calendar dates.
	if endDay.Sub(startDay) >= maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: date range must not exceed %d days", ErrValidation, maxRangeDays)
	}
	if startDay.Before(timeutil.DateOnly(a.now())) {
		return nil, fmt.Errorf("%w: start_date must not be in the past", ErrValidation)
	}

	et, err := a.Store.GetEventType(ctx, eventTypeID)
	if err != nil {
		return nil, err
	}
	if !et.Active {
		return nil, fmt.Errorf("%w: event type is not active", ErrValidation)
	}

	rules, err := a.Store.ListRules(ctx, et.HostID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		a.Log.Warn("host has no availability rules", "host_id", et.HostID, "event_type_id", et.ID)
		return []Slot{}, nil
	}

	exceptions, err := a.Store.ListExceptions(ctx, et.HostID, startDay, endDay)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(et.DurationMins) * time.Minute
	bufBefore := time.Duration(et.BufferBeforeMins) * time.Minute
	bufAfter := time.Duration(et.BufferAfterMins) * time.Minute

	bookings, err := a.Store.ListScheduledBookings(ctx, et.ID,
		startDay.Add(-bookingFetchMargin), endDay.Add(24*time.Hour+bookingFetchMargin))
	if err != nil {
		return nil, err
	}

	busy := make([]engine.Interval, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, engine.Buffered(b.StartAtUTC, b.EndAtUTC, bufBefore, bufAfter))
	}

	engineRules := make([]engine.Rule, 0, len(rules))
	for _, r := range rules {
		engineRules = append(engineRules, engine.Rule{DayOfWeek: r.DayOfWeek, Start: r.StartTime, End: r.EndTime})
	}
	engineExceptions := make([]engine.Exception, 0, len(exceptions))
	for _, e := range exceptions {
		engineExceptions = append(engineExceptions, engine.Exception{Date: e.Date, Available: e.Available})
	}

	generated := engine.GenerateSlots(engine.GenerateInput{
		Duration:     duration,
		BufferBefore: bufBefore,
		BufferAfter:  bufAfter,
		Rules:        engineRules,
		Exceptions:   engineExceptions,
		Busy:         busy,
		StartDate:    startDay,
		EndDate:      endDay,
		Zone:         zone,
	})

	out := make([]Slot, 0, len(generated))
	for _, s := range generated {
		out = append(out, Slot{Start: s.Start, End: s.End})
	}
	return out, nil
}
