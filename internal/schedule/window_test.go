package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	date := time.Date(2024, 6, 10, 15, 42, 0, 0, time.UTC)
	start, end := DayWindow(date, 6, 22)

	assert.Equal(t, time.Date(2024, 6, 10, 6, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC), end)
}

func TestMinutesFromWindowStart(t *testing.T) {
	windowStart := time.Date(2024, 6, 10, 6, 0, 0, 0, time.UTC)

	assert.Equal(t, 180, MinutesFromWindowStart(windowStart.Add(3*time.Hour), windowStart))
	assert.Equal(t, -60, MinutesFromWindowStart(windowStart.Add(-time.Hour), windowStart))
	assert.Equal(t, 0, MinutesFromWindowStart(windowStart, windowStart))
}

func TestClampInterval(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	windowStart, windowEnd := DayWindow(day, 6, 22)
	at := func(h, m int) time.Time {
		return time.Date(2024, 6, 10, h, m, 0, 0, time.UTC)
	}

	t.Run("entirely before window", func(t *testing.T) {
		_, ok := ClampInterval(at(4, 0), at(5, 30), windowStart, windowEnd)
		assert.False(t, ok)
	})

	t.Run("entirely after window", func(t *testing.T) {
		_, ok := ClampInterval(at(22, 0), at(23, 0), windowStart, windowEnd)
		assert.False(t, ok)
	})

	t.Run("ends exactly at window start", func(t *testing.T) {
		_, ok := ClampInterval(at(5, 0), at(6, 0), windowStart, windowEnd)
		assert.False(t, ok)
	})

	t.Run("inside window", func(t *testing.T) {
		ci, ok := ClampInterval(at(9, 0), at(12, 0), windowStart, windowEnd)
		require.True(t, ok)
		assert.Equal(t, 180, ci.StartOffset)
		assert.Equal(t, 360, ci.EndOffset)
	})

	t.Run("straddles window start", func(t *testing.T) {
		ci, ok := ClampInterval(at(5, 0), at(7, 0), windowStart, windowEnd)
		require.True(t, ok)
		assert.Equal(t, 0, ci.StartOffset)
		assert.Equal(t, 60, ci.EndOffset)
	})

	t.Run("straddles window end", func(t *testing.T) {
		ci, ok := ClampInterval(at(21, 0), at(23, 0), windowStart, windowEnd)
		require.True(t, ok)
		assert.Equal(t, 900, ci.StartOffset)
		assert.Equal(t, 960, ci.EndOffset)
	})

	t.Run("point-in-time event gets minimum render length", func(t *testing.T) {
		ci, ok := ClampInterval(at(10, 0), at(10, 0).Add(time.Minute), windowStart, windowEnd)
		require.True(t, ok)
		assert.Equal(t, MinRenderMinutes, ci.EndOffset-ci.StartOffset)
	})

	t.Run("minimum render length near window end stays in bounds", func(t *testing.T) {
		ci, ok := ClampInterval(at(21, 58), at(21, 59), windowStart, windowEnd)
		require.True(t, ok)
		assert.Equal(t, MinRenderMinutes, ci.EndOffset-ci.StartOffset)
		assert.LessOrEqual(t, ci.EndOffset, 960)
	})
}
