package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(h, m int) time.Time {
	return time.Date(2026, time.March, 2, h, m, 0, 0, time.UTC)
}

func TestOverlaps_HalfOpen(t *testing.T) {
	a := Interval{Start: at(9, 0), End: at(9, 30)}

	assert.True(t, Overlaps(a, Interval{Start: at(9, 15), End: at(9, 45)}))
	assert.True(t, Overlaps(a, Interval{Start: at(8, 45), End: at(9, 15)}))
	assert.True(t, Overlaps(a, Interval{Start: at(9, 5), End: at(9, 25)}))
	assert.True(t, Overlaps(a, Interval{Start: at(8, 0), End: at(11, 0)}))

	// Touching endpoints are not overlap.
	assert.False(t, Overlaps(a, Interval{Start: at(9, 30), End: at(10, 0)}))
	assert.False(t, Overlaps(a, Interval{Start: at(8, 0), End: at(9, 0)}))
	assert.False(t, Overlaps(a, Interval{Start: at(10, 0), End: at(10, 30)}))
}

func TestBuffered(t *testing.T) {
	b := Buffered(at(9, 0), at(9, 30), 10*time.Minute, 15*time.Minute)
	assert.Equal(t, at(8, 50), b.Start)
	assert.Equal(t, at(9, 45), b.End)

	// Zero buffers leave the interval untouched.
	b = Buffered(at(9, 0), at(9, 30), 0, 0)
	assert.Equal(t, at(9, 0), b.Start)
	assert.Equal(t, at(9, 30), b.End)
}

func TestOverlapsAny_FirstMatchWins(t *testing.T) {
	busy := []Interval{
		{Start: at(11, 0), End: at(12, 0)},
		{Start: at(9, 15), End: at(9, 45)},
	}
	assert.True(t, OverlapsAny(Interval{Start: at(9, 0), End: at(9, 30)}, busy))
	assert.False(t, OverlapsAny(Interval{Start: at(10, 0), End: at(10, 30)}, busy))
	assert.False(t, OverlapsAny(Interval{Start: at(9, 0), End: at(9, 30)}, nil))
}
