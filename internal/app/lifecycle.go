package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scheduling-service/internal/engine"
	"scheduling-service/internal/timeutil"
)

// CancelBooking moves a scheduled booking to its terminal cancelled state
// and appends an audit record. The audit write is best-effort: the
// cancellation stands even if it fails.
func (a *App) CancelBooking(ctx context.Context, id string) (*Booking, error) {
	b, err := a.Store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != BookingScheduled {
		return nil, ErrNotCancellable
	}

	if err := a.Store.CancelBooking(ctx, id); err != nil {
		return nil, err
	}
	b.Status = BookingCancelled
	b.UpdatedAt = a.now()

	a.audit(ctx, b.ID, ActionCancelled)

	a.Log.Info("booking cancelled", "booking_id", b.ID, "event_type_id", b.EventTypeID)
	return b, nil
}

// RescheduleBooking re-validates conflicts against every other scheduled
// booking of the event type before committing the new times. The pre-check
// produces the clean error; the storage exclusion constraint settles the
// race a concurrent writer can still win in the gap, and its rejection maps
// to the same error class.
func (a *App) RescheduleBooking(ctx context.Context, id string, start, end time.Time, timezone string) (*Booking, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start must be before end", ErrValidation)
	}
	if start.Before(a.now()) {
		return nil, fmt.Errorf("%w: start must not be in the past", ErrValidation)
	}
	if _, err := timeutil.LoadZone(timezone); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	b, err := a.Store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != BookingScheduled {
		return nil, ErrNotReschedulable
	}

	et, err := a.Store.GetEventType(ctx, b.EventTypeID)
	if err != nil {
		return nil, err
	}

	bufBefore := time.Duration(et.BufferBeforeMins) * time.Minute
	bufAfter := time.Duration(et.BufferAfterMins) * time.Minute
	buffered := engine.Buffered(start.UTC(), end.UTC(), bufBefore, bufAfter)

	// Widen the fetch so the other bookings' own buffers are in range.
	others, err := a.Store.ListScheduledBookings(ctx, et.ID,
		buffered.Start.Add(-(bufBefore+bufAfter)), buffered.End.Add(bufBefore+bufAfter))
	if err != nil {
		return nil, err
	}
	busy := make([]engine.Interval, 0, len(others))
	for _, other := range others {
		if other.ID == b.ID {
			continue
		}
		busy = append(busy, engine.Buffered(other.StartAtUTC, other.EndAtUTC, bufBefore, bufAfter))
	}
	if engine.OverlapsAny(buffered, busy) {
		return nil, ErrSlotUnavailable
	}

	if err := a.Store.RescheduleBooking(ctx, b.ID, start.UTC(), end.UTC(), timezone, buffered); err != nil {
		return nil, err
	}
	b.StartAtUTC = start.UTC()
	b.EndAtUTC = end.UTC()
	b.Timezone = timezone
	b.Rescheduled = true
	b.UpdatedAt = a.now()

	a.audit(ctx, b.ID, ActionRescheduled)

	if a.Links != nil {
		go a.refreshMeetingLink(context.WithoutCancel(ctx), et, *b)
	}

	a.Log.Info("booking rescheduled", "booking_id", b.ID, "event_type_id", b.EventTypeID,
		"start", b.StartAtUTC, "end", b.EndAtUTC)
	return b, nil
}

// audit appends a BookingAction. Failures are logged, never propagated: the
// primary transition has already committed and must not be reported as
// failed over a missing audit row.
func (a *App) audit(ctx context.Context, bookingID, action string) {
	act := &BookingAction{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		Action:    action,
		CreatedAt: a.now(),
	}
	if err := a.Store.InsertBookingAction(ctx, act); err != nil {
		a.Log.Warn("audit write failed", "booking_id", bookingID, "action", action, "err", err)
	}
}

func (a *App) refreshMeetingLink(ctx context.Context, et *EventType, b Booking) {
	link, err := a.Links.CreateMeetingLink(ctx, et, &b)
	if err != nil {
		a.Log.Warn("meeting link creation failed", "booking_id", b.ID, "err", err)
		return
	}
	if err := a.Store.SetMeetingLink(ctx, b.ID, link); err != nil {
		a.Log.Warn("meeting link save failed", "booking_id", b.ID, "err", err)
	}
}
