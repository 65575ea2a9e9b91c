// Package schedule чистая логика работы с временными интервалами:
// пересечение полуоткрытых интервалов, нарезка рабочего окна на слоты,
// скользящие свободные окна. Единственный источник истины для проверки
// конфликтов слотов и бронирований.
package schedule

import (
	"errors"
	"time"
)

var (
	// ErrInvalidTimeRange возвращается, когда конец интервала не позже начала
	ErrInvalidTimeRange = errors.New("schedule: invalid time range, end must be after start")

	// ErrInvalidDuration возвращается при неположительной длительности
	ErrInvalidDuration = errors.New("schedule: duration must be positive")
)

// TimeRange полуоткрытый временной интервал [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создает интервал с валидацией границ
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration возвращает длительность интервала
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов.
// [s1,e1) и [s2,e2) пересекаются тогда и только тогда, когда s1 < e2 && e1 > s2.
// Касание границами (e1 == s2) пересечением не считается.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// OverlapsAny возвращает true, если candidate пересекается хотя бы с одним из busy
func OverlapsAny(candidate TimeRange, busy []TimeRange) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// FilterFree возвращает кандидатов, не пересекающихся ни с одним занятым интервалом
func FilterFree(candidates []TimeRange, busy []TimeRange) []TimeRange {
	free := make([]TimeRange, 0, len(candidates))
	for _, c := range candidates {
		if !OverlapsAny(c, busy) {
			free = append(free, c)
		}
	}
	return free
}

// Tile нарезает окно на непрерывные непересекающиеся слоты фиксированной
// длительности. Нарезка идет от начала окна; неполный "хвост" отбрасывается.
// Если окно короче slotDuration, возвращается пустой список.
func Tile(window TimeRange, slotDuration time.Duration) ([]TimeRange, error) {
	if slotDuration <= 0 {
		return nil, ErrInvalidDuration
	}

	slots := make([]TimeRange, 0)
	for cursor := window.Start; ; cursor = cursor.Add(slotDuration) {
		slotEnd := cursor.Add(slotDuration)
		if slotEnd.After(window.End) {
			break
		}
		slots = append(slots, TimeRange{Start: cursor, End: slotEnd})
	}

	return slots, nil
}

// Slide генерирует скользящие окна-кандидаты длительности duration с шагом step
// от начала window. В отличие от Tile, окна перекрываются: вызывающая сторона
// может выбрать любое допустимое время начала, не только выровненное по сетке.
func Slide(window TimeRange, duration, step time.Duration) ([]TimeRange, error) {
	if duration <= 0 || step <= 0 {
		return nil, ErrInvalidDuration
	}

	windows := make([]TimeRange, 0)
	for cursor := window.Start; ; cursor = cursor.Add(step) {
		windowEnd := cursor.Add(duration)
		if windowEnd.After(window.End) {
			break
		}
		windows = append(windows, TimeRange{Start: cursor, End: windowEnd})
	}

	return windows, nil
}
