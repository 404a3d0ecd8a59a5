package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"scheduling-service/internal/engine"
)

// queryTimeout bounds every store call so no request blocks indefinitely;
// an expired call surfaces as ErrStoreUnavailable and may be retried whole.
const queryTimeout = 5 * time.Second

// exclusionViolation is the Postgres code raised by the bookings_no_overlap
// constraint when a reschedule loses the check-then-act race.
const exclusionViolation = "23P01"

// Store is everything the scheduling core needs from the data layer.
// Lifecycle and slot-query tests swap in fakes.
type Store interface {
	GetEventType(ctx context.Context, id string) (*EventType, error)
	ListRules(ctx context.Context, hostID string) ([]AvailabilityRule, error)
	ListExceptions(ctx context.Context, hostID string, from, to time.Time) ([]AvailabilityException, error)
	ListScheduledBookings(ctx context.Context, eventTypeID string, from, to time.Time) ([]Booking, error)
	ListBookings(ctx context.Context, eventTypeID string, from, to time.Time, filtered bool) ([]Booking, error)
	GetBooking(ctx context.Context, id string) (*Booking, error)
	InsertRule(ctx context.Context, r *AvailabilityRule) error
	InsertException(ctx context.Context, e *AvailabilityException) error
	CancelBooking(ctx context.Context, id string) error
	RescheduleBooking(ctx context.Context, id string, start, end time.Time, timezone string, buffered engine.Interval) error
	InsertBookingAction(ctx context.Context, a *BookingAction) error
	SetMeetingLink(ctx context.Context, bookingID, link string) error
}

// PGStore is the pgx-backed Store.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{DB: pool}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}

func (s *PGStore) GetEventType(ctx context.Context, id string) (*EventType, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `SELECT id, host_id, title, duration_minutes, buffer_before_minutes, buffer_after_minutes, active, created_at, updated_at
	      FROM event_types WHERE id=$1`
	var et EventType
	err := s.DB.QueryRow(ctx, q, id).Scan(&et.ID, &et.HostID, &et.Title,
		&et.DurationMins, &et.BufferBeforeMins, &et.BufferAfterMins, &et.Active,
		&et.CreatedAt, &et.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventTypeNotFound
	}
	if err != nil {
		return nil, storeErr("get event type", err)
	}
	return &et, nil
}

func (s *PGStore) ListRules(ctx context.Context, hostID string) ([]AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `SELECT id, host_id, day_of_week, start_time, end_time, created_at, updated_at
	      FROM availability_rules WHERE host_id=$1 ORDER BY id`
	rows, err := s.DB.Query(ctx, q, hostID)
	if err != nil {
		return nil, storeErr("list rules", err)
	}
	defer rows.Close()

	var out []AvailabilityRule
	for rows.Next() {
		var r AvailabilityRule
		if err := rows.Scan(&r.ID, &r.HostID, &r.DayOfWeek, &r.StartTime, &r.EndTime,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, storeErr("scan rule", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list rules", err)
	}
	return out, nil
}

func (s *PGStore) ListExceptions(ctx context.Context, hostID string, from, to time.Time) ([]AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `SELECT id, host_id, date, is_available, created_at
	      FROM availability_exceptions
	      WHERE host_id=$1 AND date >= $2 AND date <= $3
	      ORDER BY date`
	rows, err := s.DB.Query(ctx, q, hostID, from, to)
	if err != nil {
		return nil, storeErr("list exceptions", err)
	}
	defer rows.Close()

	var out []AvailabilityException
	for rows.Next() {
		var e AvailabilityException
		if err := rows.Scan(&e.ID, &e.HostID, &e.Date, &e.Available, &e.CreatedAt); err != nil {
			return nil, storeErr("scan exception", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list exceptions", err)
	}
	return out, nil
}

// ListScheduledBookings returns scheduled bookings whose bare interval
// intersects [from, to). Callers widen the range by the event type's buffers
// so buffered overlap testing sees every relevant row.
func (s *PGStore) ListScheduledBookings(ctx context.Context, eventTypeID string, from, to time.Time) ([]Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `SELECT id, event_type_id, start_at_utc, end_at_utc, timezone, status, is_rescheduled, created_at, updated_at
	      FROM bookings
	      WHERE event_type_id=$1 AND status='scheduled'
	        AND start_at_utc < $3 AND end_at_utc > $2
	      ORDER BY start_at_utc, id`
	rows, err := s.DB.Query(ctx, q, eventTypeID, from, to)
	if err != nil {
		return nil, storeErr("list scheduled bookings", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (s *PGStore) ListBookings(ctx context.Context, eventTypeID string, from, to time.Time, filtered bool) ([]Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		rows pgx.Rows
		err  error
	)
	if filtered {
		q := `SELECT id, event_type_id, start_at_utc, end_at_utc, timezone, status, is_rescheduled, created_at, updated_at
		      FROM bookings
		      WHERE event_type_id=$1 AND start_at_utc >= $2 AND start_at_utc < $3
		      ORDER BY start_at_utc, id`
		rows, err = s.DB.Query(ctx, q, eventTypeID, from, to)
	} else {
		q := `SELECT id, event_type_id, start_at_utc, end_at_utc, timezone, status, is_rescheduled, created_at, updated_at
		      FROM bookings
		      WHERE event_type_id=$1
		      ORDER BY start_at_utc, id`
		rows, err = s.DB.Query(ctx, q, eventTypeID)
	}
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]Booking, error) {
	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.EventTypeID, &b.StartAtUTC, &b.EndAtUTC,
			&b.Timezone, &b.Status, &b.Rescheduled, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, storeErr("scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list bookings", err)
	}
	return out, nil
}

func (s *PGStore) GetBooking(ctx context.Context, id string) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `SELECT id, event_type_id, start_at_utc, end_at_utc, timezone, status, is_rescheduled, created_at, updated_at
	      FROM bookings WHERE id=$1`
	var b Booking
	err := s.DB.QueryRow(ctx, q, id).Scan(&b.ID, &b.EventTypeID, &b.StartAtUTC,
		&b.EndAtUTC, &b.Timezone, &b.Status, &b.Rescheduled, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, storeErr("get booking", err)
	}
	return &b, nil
}

func (s *PGStore) InsertRule(ctx context.Context, r *AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	q := `INSERT INTO availability_rules (host_id, day_of_week, start_time, end_time, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
	if err := s.DB.QueryRow(ctx, q, r.HostID, r.DayOfWeek, r.StartTime, r.EndTime, now, now).Scan(&r.ID); err != nil {
		return storeErr("insert rule", err)
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

func (s *PGStore) InsertException(ctx context.Context, e *AvailabilityException) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	q := `INSERT INTO availability_exceptions (host_id, date, is_available, created_at)
	      VALUES ($1,$2,$3,$4)
	      ON CONFLICT (host_id, date) DO UPDATE SET is_available=EXCLUDED.is_available
	      RETURNING id`
	if err := s.DB.QueryRow(ctx, q, e.HostID, e.Date, e.Available, now).Scan(&e.ID); err != nil {
		return storeErr("insert exception", err)
	}
	e.CreatedAt = now
	return nil
}

// CancelBooking flips a scheduled booking to cancelled. The status guard in
// the WHERE clause makes the transition race-safe: a concurrent cancel makes
// the second update match zero rows.
func (s *PGStore) CancelBooking(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `UPDATE bookings SET status='cancelled', updated_at=now() WHERE id=$1 AND status='scheduled'`
	res, err := s.DB.Exec(ctx, q, id)
	if err != nil {
		return storeErr("cancel booking", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotCancellable
	}
	return nil
}

// RescheduleBooking commits new times for a scheduled booking. The buffered
// interval is denormalized into buffered_period so the bookings_no_overlap
// exclusion constraint is the authoritative guard; the application-level
// conflict pre-check only exists for the clean error message.
func (s *PGStore) RescheduleBooking(ctx context.Context, id string, start, end time.Time, timezone string, buffered engine.Interval) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `UPDATE bookings
	      SET start_at_utc=$1, end_at_utc=$2, timezone=$3, is_rescheduled=true,
	          buffered_period=tstzrange($4,$5,'[)'), updated_at=now()
	      WHERE id=$6 AND status='scheduled'`
	res, err := s.DB.Exec(ctx, q, start, end, timezone, buffered.Start, buffered.End, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return ErrSlotUnavailable
		}
		return storeErr("reschedule booking", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotReschedulable
	}
	return nil
}

func (s *PGStore) InsertBookingAction(ctx context.Context, a *BookingAction) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `INSERT INTO booking_actions (id, booking_id, action, created_at) VALUES ($1,$2,$3,$4)`
	if _, err := s.DB.Exec(ctx, q, a.ID, a.BookingID, a.Action, a.CreatedAt); err != nil {
		return storeErr("insert booking action", err)
	}
	return nil
}

func (s *PGStore) SetMeetingLink(ctx context.Context, bookingID, link string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `UPDATE bookings SET meeting_link=$1, updated_at=now() WHERE id=$2`
	if _, err := s.DB.Exec(ctx, q, link, bookingID); err != nil {
		return storeErr("set meeting link", err)
	}
	return nil
}
