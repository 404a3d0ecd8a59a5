package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"scheduling-service/internal/engine"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	eventTypes map[string]*EventType
	rules      []AvailabilityRule
	exceptions []AvailabilityException
	bookings   map[string]*Booking
	actions    []BookingAction

	auditErr      error
	rescheduleErr error
	cancelErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		eventTypes: map[string]*EventType{},
		bookings:   map[string]*Booking{},
	}
}

func (f *fakeStore) GetEventType(_ context.Context, id string) (*EventType, error) {
	et, ok := f.eventTypes[id]
	if !ok {
		return nil, ErrEventTypeNotFound
	}
	cp := *et
	return &cp, nil
}

func (f *fakeStore) ListRules(_ context.Context, hostID string) ([]AvailabilityRule, error) {
	var out []AvailabilityRule
	for _, r := range f.rules {
		if r.HostID == hostID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListExceptions(_ context.Context, hostID string, from, to time.Time) ([]AvailabilityException, error) {
	var out []AvailabilityException
	for _, e := range f.exceptions {
		if e.HostID == hostID && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListScheduledBookings(_ context.Context, eventTypeID string, from, to time.Time) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.EventTypeID == eventTypeID && b.Status == BookingScheduled &&
			b.StartAtUTC.Before(to) && b.EndAtUTC.After(from) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAtUTC.Equal(out[j].StartAtUTC) {
			return out[i].StartAtUTC.Before(out[j].StartAtUTC)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) ListBookings(_ context.Context, eventTypeID string, from, to time.Time, filtered bool) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.EventTypeID != eventTypeID {
			continue
		}
		if filtered && (b.StartAtUTC.Before(from) || !b.StartAtUTC.Before(to)) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAtUTC.Before(out[j].StartAtUTC) })
	return out, nil
}

func (f *fakeStore) GetBooking(_ context.Context, id string) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) InsertRule(_ context.Context, r *AvailabilityRule) error {
	r.ID = len(f.rules) + 1
	f.rules = append(f.rules, *r)
	return nil
}

func (f *fakeStore) InsertException(_ context.Context, e *AvailabilityException) error {
	e.ID = len(f.exceptions) + 1
	f.exceptions = append(f.exceptions, *e)
	return nil
}

func (f *fakeStore) CancelBooking(_ context.Context, id string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	b, ok := f.bookings[id]
	if !ok || b.Status != BookingScheduled {
		return ErrNotCancellable
	}
	b.Status = BookingCancelled
	return nil
}

func (f *fakeStore) RescheduleBooking(_ context.Context, id string, start, end time.Time, timezone string, _ engine.Interval) error {
	if f.rescheduleErr != nil {
		return f.rescheduleErr
	}
	b, ok := f.bookings[id]
	if !ok || b.Status != BookingScheduled {
		return ErrNotReschedulable
	}
	b.StartAtUTC = start
	b.EndAtUTC = end
	b.Timezone = timezone
	b.Rescheduled = true
	return nil
}

func (f *fakeStore) InsertBookingAction(_ context.Context, a *BookingAction) error {
	if f.auditErr != nil {
		return f.auditErr
	}
	f.actions = append(f.actions, *a)
	return nil
}

func (f *fakeStore) SetMeetingLink(_ context.Context, bookingID, link string) error {
	if b, ok := f.bookings[bookingID]; ok {
		b.MeetingLink = link
		return nil
	}
	return fmt.Errorf("booking %s not in fake store", bookingID)
}

// testNow is a Sunday; the engine tests book against the following Monday.
var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(store *fakeStore) *App {
	a := New(store, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.Now = func() time.Time { return testNow }
	return a
}
