package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T) *Clock {
	t.Helper()
	c, err := NewClock("Asia/Kolkata", "09:15", "09:45")
	require.NoError(t, err)
	return c
}

func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	tm, err := time.Parse("15:04", hhmm)
	require.NoError(t, err)
	return time.Date(2025, 6, 2, tm.Hour(), tm.Minute(), 0, 0, loc)
}

func TestClock_IsActive(t *testing.T) {
	c := mustClock(t)

	assert.False(t, c.IsActive(at(t, "09:14")))
	assert.True(t, c.IsActive(at(t, "09:15")))
	assert.True(t, c.IsActive(at(t, "09:30")))
	assert.False(t, c.IsActive(at(t, "09:45")), "close boundary is exclusive")
	assert.False(t, c.IsActive(at(t, "15:30")))
}

func TestClock_TimeRemaining(t *testing.T) {
	c := mustClock(t)

	assert.Equal(t, 30*time.Minute, c.TimeRemaining(at(t, "09:15")))
	assert.Equal(t, 15*time.Minute, c.TimeRemaining(at(t, "09:30")))
	assert.Zero(t, c.TimeRemaining(at(t, "09:45")))
	assert.Zero(t, c.TimeRemaining(at(t, "11:00")))
	assert.Zero(t, c.TimeRemaining(at(t, "08:00")))
}

func TestClock_HandlesOtherTimezones(t *testing.T) {
	c := mustClock(t)

	// 04:00 UTC is 09:30 IST.
	utc := time.Date(2025, 6, 2, 4, 0, 0, 0, time.UTC)
	assert.True(t, c.IsActive(utc))
}

func TestNewClock_RejectsInvertedWindow(t *testing.T) {
	_, err := NewClock("Asia/Kolkata", "09:45", "09:15")
	assert.Error(t, err)
}

func TestNewClock_RejectsBadInput(t *testing.T) {
	_, err := NewClock("Not/AZone", "09:15", "09:45")
	assert.Error(t, err)

	_, err = NewClock("Asia/Kolkata", "9am", "09:45")
	assert.Error(t, err)
}
