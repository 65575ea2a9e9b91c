package get_free_windows

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmarket/booking-service/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeSlotRepo struct {
	slots []*domain.Slot
}

func (f *fakeSlotRepo) ListByMasterAndRange(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Slot, error) {
	return f.slots, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByMasterWithFilter(ctx context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func date() time.Time {
	return time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 10, 15, hour, minute, 0, 0, time.UTC)
}

func freeSlot(startHour, endHour int) *domain.Slot {
	return &domain.Slot{
		MasterID:  10,
		StartTime: at(startHour, 0),
		EndTime:   at(endHour, 0),
		Status:    domain.SlotStatusFree,
		Source:    domain.SlotSourceAuto,
	}
}

func daySlots() []*domain.Slot {
	return []*domain.Slot{freeSlot(9, 10), freeSlot(10, 11), freeSlot(11, 12)}
}

func request(durationMinutes int) *Request {
	return &Request{MasterID: 10, Date: date(), DurationMinutes: durationMinutes}
}

func TestExecute_SlidesOverWorkingRange(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{slots: daySlots()}, &fakeBookingRepo{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), request(60))
	require.NoError(t, err)

	// Диапазон 09:00-12:00, часовое окно с шагом 30 минут: 5 позиций
	require.Len(t, resp.Windows, 5)
	assert.Equal(t, at(9, 0), resp.Windows[0].StartTime)
	assert.Equal(t, at(9, 30), resp.Windows[1].StartTime)
	assert.Equal(t, at(11, 0), resp.Windows[4].StartTime)
}

func TestExecute_BookingBlocksOverlappingWindows(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{{
		ID:        7,
		MasterID:  10,
		StartTime: at(10, 0),
		EndTime:   at(11, 0),
		Status:    domain.StatusConfirmed,
	}}}
	uc := NewUseCase(&fakeSlotRepo{slots: daySlots()}, bookings, nopLogger{})

	resp, err := uc.Execute(context.Background(), request(30))
	require.NoError(t, err)

	// Получасовые окна: остаются 09:00, 09:30, 11:00, 11:30
	require.Len(t, resp.Windows, 4)
	assert.Equal(t, at(9, 0), resp.Windows[0].StartTime)
	assert.Equal(t, at(9, 30), resp.Windows[1].StartTime)
	assert.Equal(t, at(11, 0), resp.Windows[2].StartTime)
	assert.Equal(t, at(11, 30), resp.Windows[3].StartTime)
}

func TestExecute_BookedSlotCountsAsBusy(t *testing.T) {
	slots := daySlots()
	slots[1].Status = domain.SlotStatusBooked
	uc := NewUseCase(&fakeSlotRepo{slots: slots}, &fakeBookingRepo{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), request(60))
	require.NoError(t, err)

	// Занятый слот 10:00-11:00 выбивает все пересекающиеся позиции
	require.Len(t, resp.Windows, 1)
	assert.Equal(t, at(11, 0), resp.Windows[0].StartTime)
}

func TestExecute_DurationLongerThanDayMeansEmpty(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{slots: daySlots()}, &fakeBookingRepo{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), request(240))
	require.NoError(t, err)

	assert.Empty(t, resp.Windows)
}

func TestExecute_NoSlotsMeansEmpty(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeBookingRepo{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), request(60))
	require.NoError(t, err)

	assert.Empty(t, resp.Windows)
}

func TestExecute_InvalidDuration(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, &fakeBookingRepo{}, nopLogger{})

	_, err := uc.Execute(context.Background(), request(0))
	assert.ErrorIs(t, err, ErrInvalidDuration)
}
