package app

import "time"

const (
	BookingScheduled = "scheduled"
	BookingCancelled = "cancelled"
)

const (
	ActionCancelled   = "cancelled"
	ActionRescheduled = "rescheduled"
)

// EventType is a bookable meeting template owned by a host. The scheduler
// reads it, never writes it; duration and buffers are fixed for the lifetime
// of a single slot-generation or booking operation.
type EventType struct {
	ID               string    `json:"id"`
	HostID           string    `json:"host_id"`
	Title            string    `json:"title"`
	DurationMins     int       `json:"duration_minutes"`
	BufferBeforeMins int       `json:"buffer_before_minutes"`
	BufferAfterMins  int       `json:"buffer_after_minutes"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// AvailabilityRule is a recurring weekly open window. Start/End are
// wall-clock "HH:MM" strings with no zone attached; the requester's zone is
// applied when slots are generated.
type AvailabilityRule struct {
	ID        int       `json:"id"`
	HostID    string    `json:"host_id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// AvailabilityException blocks (or explicitly re-opens) one calendar date
// for a host. Available=false suppresses every rule on that date.
type AvailabilityException struct {
	ID        int       `json:"id"`
	HostID    string    `json:"host_id"`
	Date      time.Time `json:"date"`
	Available bool      `json:"is_available"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Booking is a committed reservation in UTC. Timezone is the requester's
// zone, kept for display only. Bookings are never hard-deleted; cancel and
// reschedule are the only mutations.
type Booking struct {
	ID          string    `json:"id"`
	EventTypeID string    `json:"event_type_id"`
	StartAtUTC  time.Time `json:"start_at_utc"`
	EndAtUTC    time.Time `json:"end_at_utc"`
	Timezone    string    `json:"timezone"`
	Status      string    `json:"status"`
	Rescheduled bool      `json:"is_rescheduled"`
	MeetingLink string    `json:"meeting_link,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// BookingAction is an append-only audit record of a lifecycle transition.
type BookingAction struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// Slot is one bookable candidate, UTC instants. Derived, never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
