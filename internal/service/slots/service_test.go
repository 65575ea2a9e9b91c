package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmarket/booking-service/internal/domain"
	slotRepo "github.com/salonmarket/booking-service/internal/infra/storage/slot"
	"github.com/salonmarket/booking-service/internal/service/slots/models"
	"github.com/salonmarket/booking-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (nopTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSlotRepo struct {
	rows   map[int64]*domain.Slot
	nextID int64

	updated *domain.Slot
	deleted []int64
}

func newFakeSlotRepo(rows ...*domain.Slot) *fakeSlotRepo {
	f := &fakeSlotRepo{rows: make(map[int64]*domain.Slot), nextID: 100}
	for _, s := range rows {
		f.rows[s.ID] = s
	}
	return f
}

func (f *fakeSlotRepo) Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error) {
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.rows[s.ID] = &cp
	return s, nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlotRepo) ListByMasterAndRange(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Slot, error) {
	var out []*domain.Slot
	for _, s := range f.rows {
		if s.MasterID != masterID {
			continue
		}
		if s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeSlotRepo) Update(ctx context.Context, s *domain.Slot) error {
	if _, ok := f.rows[s.ID]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	cp := *s
	f.rows[s.ID] = &cp
	f.updated = &cp
	return nil
}

func (f *fakeSlotRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBookingRepo struct {
	rows []*domain.Booking
}

func (f *fakeBookingRepo) GetByMasterWithFilter(ctx context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.rows {
		if b.MasterID != filter.MasterID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func newService(sr *fakeSlotRepo, br *fakeBookingRepo) *Service {
	if br == nil {
		br = &fakeBookingRepo{}
	}
	return NewService(sr, br, nopTxManager{}, nopLogger{})
}

func at(hour, min int) time.Time {
	return time.Date(2025, 10, 15, hour, min, 0, 0, time.UTC)
}

func freeSlot(id, masterID int64, startHour, endHour int) *domain.Slot {
	return &domain.Slot{
		ID:        id,
		MasterID:  masterID,
		StartTime: at(startHour, 0),
		EndTime:   at(endHour, 0),
		Status:    domain.SlotStatusFree,
		Source:    domain.SlotSourceAuto,
	}
}

func TestService_Create_ManualSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newService(repo, nil)

	resp, err := svc.Create(context.Background(), 1, &models.CreateSlotRequest{
		StartTime: at(9, 0),
		EndTime:   at(10, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.SlotSourceManual), resp.Source)
	assert.Equal(t, string(domain.SlotStatusFree), resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.NotZero(t, resp.ID)
}

func TestService_Create_ConflictsWithExistingSlot(t *testing.T) {
	repo := newFakeSlotRepo(freeSlot(1, 1, 9, 10))
	svc := newService(repo, nil)

	_, err := svc.Create(context.Background(), 1, &models.CreateSlotRequest{
		StartTime: at(9, 30),
		EndTime:   at(10, 30),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestService_Create_AdjacentSlotAllowed(t *testing.T) {
	repo := newFakeSlotRepo(freeSlot(1, 1, 9, 10))
	svc := newService(repo, nil)

	_, err := svc.Create(context.Background(), 1, &models.CreateSlotRequest{
		StartTime: at(10, 0),
		EndTime:   at(11, 0),
	})
	assert.NoError(t, err, "касание границами не является конфликтом")
}

func TestService_Create_ConflictsWithConfirmedBooking(t *testing.T) {
	repo := newFakeSlotRepo()
	bookings := &fakeBookingRepo{rows: []*domain.Booking{{
		ID:        7,
		MasterID:  1,
		StartTime: at(9, 0),
		EndTime:   at(10, 0),
		Status:    domain.StatusConfirmed,
	}}}
	svc := newService(repo, bookings)

	_, err := svc.Create(context.Background(), 1, &models.CreateSlotRequest{
		StartTime: at(9, 30),
		EndTime:   at(10, 30),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestService_Create_InvalidRange(t *testing.T) {
	svc := newService(newFakeSlotRepo(), nil)

	_, err := svc.Create(context.Background(), 1, &models.CreateSlotRequest{
		StartTime: at(10, 0),
		EndTime:   at(9, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestService_Create_DurationOutOfBounds(t *testing.T) {
	svc := newService(newFakeSlotRepo(), nil)

	_, err := svc.Create(context.Background(), 1, &models.CreateSlotRequest{
		StartTime: at(9, 0),
		EndTime:   at(9, 2),
	})
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)
}

func TestService_Update_MovesSlot(t *testing.T) {
	repo := newFakeSlotRepo(freeSlot(1, 1, 9, 10))
	svc := newService(repo, nil)

	resp, err := svc.Update(context.Background(), 1, 1, &models.UpdateSlotRequest{
		StartTime: ptr.Ptr(at(14, 0)),
		EndTime:   ptr.Ptr(at(15, 0)),
	})
	require.NoError(t, err)

	assert.Equal(t, at(14, 0), resp.StartTime)
	assert.Equal(t, at(15, 0), resp.EndTime)
	require.NotNil(t, repo.updated)
	assert.Equal(t, at(14, 0), repo.updated.StartTime)
}

func TestService_Update_DoesNotConflictWithItself(t *testing.T) {
	repo := newFakeSlotRepo(freeSlot(1, 1, 9, 10))
	svc := newService(repo, nil)

	// Сдвиг на полчаса: новый интервал пересекается со старым положением слота
	_, err := svc.Update(context.Background(), 1, 1, &models.UpdateSlotRequest{
		StartTime: ptr.Ptr(at(9, 30)),
		EndTime:   ptr.Ptr(at(10, 30)),
	})
	assert.NoError(t, err)
}

func TestService_Update_ConflictsWithNeighbour(t *testing.T) {
	repo := newFakeSlotRepo(freeSlot(1, 1, 9, 10), freeSlot(2, 1, 11, 12))
	svc := newService(repo, nil)

	_, err := svc.Update(context.Background(), 1, 1, &models.UpdateSlotRequest{
		StartTime: ptr.Ptr(at(11, 30)),
		EndTime:   ptr.Ptr(at(12, 30)),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestService_Update_BookedSlotImmutable(t *testing.T) {
	slot := freeSlot(1, 1, 9, 10)
	slot.Status = domain.SlotStatusBooked
	slot.BookingID = ptr.Ptr(int64(5))
	repo := newFakeSlotRepo(slot)
	svc := newService(repo, nil)

	_, err := svc.Update(context.Background(), 1, 1, &models.UpdateSlotRequest{
		StartTime: ptr.Ptr(at(14, 0)),
		EndTime:   ptr.Ptr(at(15, 0)),
	})
	assert.ErrorIs(t, err, ErrSlotImmutable)
}

func TestService_Update_ServiceBindingOnly(t *testing.T) {
	repo := newFakeSlotRepo(freeSlot(1, 1, 9, 10))
	svc := newService(repo, nil)

	resp, err := svc.Update(context.Background(), 1, 1, &models.UpdateSlotRequest{
		ServiceID: ptr.Ptr(int64(3)),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ServiceID)
	assert.Equal(t, int64(3), *resp.ServiceID)
	assert.Equal(t, at(9, 0), resp.StartTime, "границы без запроса не меняются")
}

func TestService_Update_ForeignSlotLooksMissing(t *testing.T) {
	repo := newFakeSlotRepo(freeSlot(1, 2, 9, 10))
	svc := newService(repo, nil)

	_, err := svc.Update(context.Background(), 1, 1, &models.UpdateSlotRequest{
		ServiceID: ptr.Ptr(int64(3)),
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_Delete_RemovesSlot(t *testing.T) {
	repo := newFakeSlotRepo(freeSlot(1, 1, 9, 10))
	svc := newService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), 1, 1))
	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestService_Delete_BookedSlotImmutable(t *testing.T) {
	slot := freeSlot(1, 1, 9, 10)
	slot.Status = domain.SlotStatusBooked
	repo := newFakeSlotRepo(slot)
	svc := newService(repo, nil)

	err := svc.Delete(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSlotImmutable)
	assert.Empty(t, repo.deleted)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := newService(newFakeSlotRepo(), nil)

	err := svc.Delete(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
