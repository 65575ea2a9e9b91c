package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2024, 6, 1, hour, min, 0, 0, time.UTC)
}

func tr(t *testing.T, h1, m1, h2, m2 int) TimeRange {
	t.Helper()
	r, err := NewTimeRange(at(t, h1, m1), at(t, h2, m2))
	require.NoError(t, err)
	return r
}

func TestNewTimeRange_Invalid(t *testing.T) {
	_, err := NewTimeRange(at(t, 10, 0), at(t, 10, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewTimeRange(at(t, 10, 0), at(t, 9, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewTimeRange(time.Time{}, at(t, 9, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestOverlaps_AdjacentIntervalsDoNotOverlap(t *testing.T) {
	a := tr(t, 9, 0, 10, 0)
	b := tr(t, 10, 0, 11, 0)

	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}

func TestOverlaps_PartialOverlap(t *testing.T) {
	a := tr(t, 9, 0, 10, 0)
	b := tr(t, 9, 59, 10, 30)

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
}

func TestOverlaps_Containment(t *testing.T) {
	outer := tr(t, 9, 0, 12, 0)
	inner := tr(t, 10, 0, 11, 0)

	assert.True(t, outer.Overlaps(inner))
	assert.True(t, inner.Overlaps(outer))
}

func TestTile_ExactTiling(t *testing.T) {
	window := tr(t, 9, 0, 12, 0)

	slots, err := Tile(window, 60*time.Minute)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	expected := []TimeRange{
		tr(t, 9, 0, 10, 0),
		tr(t, 10, 0, 11, 0),
		tr(t, 11, 0, 12, 0),
	}
	assert.Equal(t, expected, slots)

	// Проверяем отсутствие зазоров и пересечений
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].End.Equal(slots[i].Start))
		assert.False(t, slots[i-1].Overlaps(slots[i]))
	}
}

func TestTile_TrailingRemainderDropped(t *testing.T) {
	// Окно 9:00-12:30 при часовых слотах: хвост 12:00-12:30 отбрасывается
	window := tr(t, 9, 0, 12, 30)

	slots, err := Tile(window, 60*time.Minute)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.True(t, slots[2].End.Equal(at(t, 12, 0)))
}

func TestTile_WindowShorterThanSlot(t *testing.T) {
	window := tr(t, 9, 0, 9, 30)

	slots, err := Tile(window, 60*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestTile_Idempotent(t *testing.T) {
	window := tr(t, 10, 0, 18, 0)

	first, err := Tile(window, 45*time.Minute)
	require.NoError(t, err)
	second, err := Tile(window, 45*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTile_InvalidDuration(t *testing.T) {
	_, err := Tile(tr(t, 9, 0, 10, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestSlide_ProducesOverlappingWindows(t *testing.T) {
	window := tr(t, 9, 0, 12, 0)

	windows, err := Slide(window, 60*time.Minute, 30*time.Minute)
	require.NoError(t, err)

	// 9:00, 9:30, 10:00, 10:30, 11:00 — последнее окно заканчивается ровно в 12:00
	require.Len(t, windows, 5)
	assert.Equal(t, tr(t, 9, 0, 10, 0), windows[0])
	assert.Equal(t, tr(t, 9, 30, 10, 30), windows[1])
	assert.Equal(t, tr(t, 11, 0, 12, 0), windows[4])

	// Соседние окна перекрываются (скользящее окно, не плитка)
	assert.True(t, windows[0].Overlaps(windows[1]))
}

func TestSlide_AroundBooking(t *testing.T) {
	// Рабочий день 9:00-12:00, бронирование 10:00-11:00,
	// окна по 30 минут с шагом 30 минут
	window := tr(t, 9, 0, 12, 0)
	booked := []TimeRange{tr(t, 10, 0, 11, 0)}

	windows, err := Slide(window, 30*time.Minute, 30*time.Minute)
	require.NoError(t, err)

	free := FilterFree(windows, booked)

	expected := []TimeRange{
		tr(t, 9, 0, 9, 30),
		tr(t, 9, 30, 10, 0),
		tr(t, 11, 0, 11, 30),
		tr(t, 11, 30, 12, 0),
	}
	assert.Equal(t, expected, free)
}

func TestOverlapsAny(t *testing.T) {
	busy := []TimeRange{
		tr(t, 10, 0, 11, 0),
		tr(t, 14, 0, 15, 0),
	}

	assert.True(t, OverlapsAny(tr(t, 10, 30, 11, 30), busy))
	assert.False(t, OverlapsAny(tr(t, 11, 0, 12, 0), busy))
	assert.False(t, OverlapsAny(tr(t, 9, 0, 10, 0), busy))
}

func TestFilterFree_NoBusyKeepsAll(t *testing.T) {
	candidates := []TimeRange{tr(t, 9, 0, 10, 0), tr(t, 10, 0, 11, 0)}

	free := FilterFree(candidates, nil)
	assert.Equal(t, candidates, free)
}
