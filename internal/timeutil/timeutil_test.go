package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadZone(name)
	require.NoError(t, err)
	return loc
}

func TestToUTC_FixedOffsetZone(t *testing.T) {
	// Asia/Kolkata is UTC+5:30 with no DST.
	loc := mustZone(t, "Asia/Kolkata")
	got := ToUTC(2026, time.March, 2, 9, 0, loc)
	assert.Equal(t, time.Date(2026, time.March, 2, 3, 30, 0, 0, time.UTC), got)
}

func TestToUTC_UTC(t *testing.T) {
	got := ToUTC(2026, time.July, 4, 12, 15, time.UTC)
	assert.Equal(t, time.Date(2026, time.July, 4, 12, 15, 0, 0, time.UTC), got)
}

func TestToUTC_NorthernDST(t *testing.T) {
	loc := mustZone(t, "America/New_York")

	// Winter: EST, UTC-5.
	got := ToUTC(2026, time.January, 15, 9, 0, loc)
	assert.Equal(t, time.Date(2026, time.January, 15, 14, 0, 0, 0, time.UTC), got)

	// Summer: EDT, UTC-4.
	got = ToUTC(2026, time.July, 15, 9, 0, loc)
	assert.Equal(t, time.Date(2026, time.July, 15, 13, 0, 0, 0, time.UTC), got)
}

func TestToUTC_DSTTransitionDays(t *testing.T) {
	loc := mustZone(t, "America/New_York")

	// Spring forward 2026-03-08: 09:00 is after the jump, so EDT applies.
	got := ToUTC(2026, time.March, 8, 9, 0, loc)
	assert.Equal(t, time.Date(2026, time.March, 8, 13, 0, 0, 0, time.UTC), got)

	// Same day, before the jump: 01:30 is still EST.
	got = ToUTC(2026, time.March, 8, 1, 30, loc)
	assert.Equal(t, time.Date(2026, time.March, 8, 6, 30, 0, 0, time.UTC), got)

	// Fall back 2026-11-01: 09:00 is after the transition, EST again.
	got = ToUTC(2026, time.November, 1, 9, 0, loc)
	assert.Equal(t, time.Date(2026, time.November, 1, 14, 0, 0, 0, time.UTC), got)
}

func TestToUTC_DSTGapReturnsLastCandidate(t *testing.T) {
	// 02:00-02:59 does not exist on 2026-03-08 in America/New_York: the
	// clock jumps from 02:00 EST to 03:00 EDT. The refinement cannot
	// converge on a nonexistent wall time; it oscillates between the
	// instants one hour either side and the iteration cap keeps the last
	// candidate, 06:00Z (01:00 EST). Pinned as the documented imprecision.
	loc := mustZone(t, "America/New_York")

	got := ToUTC(2026, time.March, 8, 2, 0, loc)
	assert.Equal(t, time.Date(2026, time.March, 8, 6, 0, 0, 0, time.UTC), got)
	assert.Equal(t, 1, got.In(loc).Hour())

	got = ToUTC(2026, time.March, 8, 2, 30, loc)
	assert.Equal(t, time.Date(2026, time.March, 8, 6, 30, 0, 0, time.UTC), got)
}

func TestToUTC_SouthernHemisphereDST(t *testing.T) {
	loc := mustZone(t, "Australia/Sydney")

	// January is AEDT, UTC+11: 09:00 local is 22:00 UTC the previous day.
	got := ToUTC(2026, time.January, 15, 9, 0, loc)
	assert.Equal(t, time.Date(2026, time.January, 14, 22, 0, 0, 0, time.UTC), got)

	// July is AEST, UTC+10.
	got = ToUTC(2026, time.July, 15, 9, 0, loc)
	assert.Equal(t, time.Date(2026, time.July, 14, 23, 0, 0, 0, time.UTC), got)
}

func TestToUTC_RoundTripsThroughZone(t *testing.T) {
	zones := []string{"Asia/Kolkata", "America/New_York", "Europe/Berlin", "Pacific/Auckland"}
	for _, name := range zones {
		loc := mustZone(t, name)
		got := ToUTC(2026, time.May, 20, 14, 45, loc)
		local := got.In(loc)
		assert.Equal(t, 14, local.Hour(), name)
		assert.Equal(t, 45, local.Minute(), name)
		assert.Equal(t, 20, local.Day(), name)
	}
}

func TestLoadZone(t *testing.T) {
	_, err := LoadZone("")
	assert.Error(t, err)

	_, err = LoadZone("Not/AZone")
	assert.Error(t, err)

	loc, err := LoadZone("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestParseHHMM(t *testing.T) {
	h, m, err := ParseHHMM("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	// Database time columns come back with seconds and fraction.
	h, m, err = ParseHHMM("17:05:00.000000")
	require.NoError(t, err)
	assert.Equal(t, 17, h)
	assert.Equal(t, 5, m)

	_, _, err = ParseHHMM("9:3")
	assert.Error(t, err)

	_, _, err = ParseHHMM("25:00")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, time.April, 9, 18, 22, 3, 500, time.UTC)
	assert.Equal(t, time.Date(2026, time.April, 9, 0, 0, 0, 0, time.UTC), DateOnly(ts))
	assert.True(t, SameDate(ts, DateOnly(ts)))
	assert.False(t, SameDate(ts, ts.Add(24*time.Hour)))
}
