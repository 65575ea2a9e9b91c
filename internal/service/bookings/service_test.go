package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmarket/booking-service/internal/domain"
	bookingRepo "github.com/salonmarket/booking-service/internal/infra/storage/booking"
	"github.com/salonmarket/booking-service/internal/service/bookings/models"
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

type fakeBookingRepo struct {
	rows map[int64]*domain.Booking

	cancelled []int64
	updated   *domain.Booking
	statusSet map[int64]domain.BookingStatus
}

func newFakeBookingRepo(rows ...*domain.Booking) *fakeBookingRepo {
	f := &fakeBookingRepo{
		rows:      make(map[int64]*domain.Booking),
		statusSet: make(map[int64]domain.BookingStatus),
	}
	for _, b := range rows {
		f.rows[b.ID] = b
	}
	return f
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.rows {
		if b.ClientID != clientID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
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

func (f *fakeBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	if _, ok := f.rows[b.ID]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	cp := *b
	f.rows[b.ID] = &cp
	f.updated = &cp
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.rows[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	f.statusSet[id] = status
	return nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64) error {
	b, ok := f.rows[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	now := time.Now()
	b.CancelledAt = &now
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeSlotRepo struct {
	statusSet map[int64]domain.SlotStatus
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{statusSet: make(map[int64]domain.SlotStatus)}
}

func (f *fakeSlotRepo) UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus, bookingID *int64) error {
	f.statusSet[id] = status
	return nil
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 10, 15, hour, minute, 0, 0, time.UTC)
}

func confirmedBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		ClientID:  100,
		MasterID:  10,
		ServiceID: 5,
		StartTime: at(10, 0),
		EndTime:   at(11, 0),
		Status:    domain.StatusConfirmed,
	}
}

func newTestService(repo *fakeBookingRepo, slots *fakeSlotRepo) *Service {
	return NewService(repo, slots, nopTxManager{}, nopLogger{})
}

func TestCancel_FreesLinkedSlot(t *testing.T) {
	b := confirmedBooking(1)
	b.SlotID = ptr.Ptr(int64(77))
	repo := newFakeBookingRepo(b)
	slots := newFakeSlotRepo()
	svc := newTestService(repo, slots)

	err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, repo.cancelled)
	assert.Equal(t, domain.SlotStatusFree, slots.statusSet[77])
}

func TestCancel_TerminalBookingIsImmutable(t *testing.T) {
	b := confirmedBooking(1)
	b.Status = domain.StatusCancelled
	svc := newTestService(newFakeBookingRepo(b), newFakeSlotRepo())

	err := svc.Cancel(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBookingImmutable)
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), newFakeSlotRepo())

	err := svc.Cancel(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirm_PendingBecomesConfirmed(t *testing.T) {
	b := confirmedBooking(1)
	b.Status = domain.StatusPending
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, newFakeSlotRepo())

	err := svc.Confirm(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, repo.statusSet[1])
}

func TestConfirm_AlreadyConfirmedIsNoop(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	svc := newTestService(repo, newFakeSlotRepo())

	err := svc.Confirm(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, repo.statusSet)
}

func TestConfirm_CompletedIsImmutable(t *testing.T) {
	b := confirmedBooking(1)
	b.Status = domain.StatusCompleted
	svc := newTestService(newFakeBookingRepo(b), newFakeSlotRepo())

	err := svc.Confirm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBookingImmutable)
}

func TestUpdate_RescheduleChecksConflicts(t *testing.T) {
	target := confirmedBooking(1)
	other := confirmedBooking(2)
	other.StartTime = at(12, 0)
	other.EndTime = at(13, 0)
	repo := newFakeBookingRepo(target, other)
	svc := newTestService(repo, newFakeSlotRepo())

	// Перенос на интервал, пересекающийся с бронированием id=2
	_, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{
		StartTime: ptr.Ptr(at(12, 30)),
		EndTime:   ptr.Ptr(at(13, 30)),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
	assert.Nil(t, repo.updated)
}

func TestUpdate_AdjacentIntervalIsNotConflict(t *testing.T) {
	target := confirmedBooking(1)
	other := confirmedBooking(2)
	other.StartTime = at(12, 0)
	other.EndTime = at(13, 0)
	repo := newFakeBookingRepo(target, other)
	svc := newTestService(repo, newFakeSlotRepo())

	// Интервал встык к бронированию id=2 допустим
	resp, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{
		StartTime: ptr.Ptr(at(13, 0)),
		EndTime:   ptr.Ptr(at(14, 0)),
	})
	require.NoError(t, err)

	assert.Equal(t, at(13, 0), resp.StartTime)
	assert.NotNil(t, repo.updated)
}

func TestUpdate_IgnoresSelfWhenCheckingConflicts(t *testing.T) {
	target := confirmedBooking(1)
	repo := newFakeBookingRepo(target)
	svc := newTestService(repo, newFakeSlotRepo())

	// Сдвиг на полчаса внутрь собственного интервала не конфликт
	_, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{
		StartTime: ptr.Ptr(at(10, 30)),
		EndTime:   ptr.Ptr(at(11, 30)),
	})
	require.NoError(t, err)
}

func TestUpdate_CommentOnlySkipsConflictCheck(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	svc := newTestService(repo, newFakeSlotRepo())

	resp, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{
		Comment: ptr.Ptr("позвонить за час"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Comment)
	assert.Equal(t, "позвонить за час", *resp.Comment)
}

func TestUpdate_TerminalBookingIsImmutable(t *testing.T) {
	b := confirmedBooking(1)
	b.Status = domain.StatusCompleted
	svc := newTestService(newFakeBookingRepo(b), newFakeSlotRepo())

	_, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{
		Comment: ptr.Ptr("note"),
	})
	assert.ErrorIs(t, err, ErrBookingImmutable)
}

func TestUpdate_InvalidRangeRejected(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	svc := newTestService(repo, newFakeSlotRepo())

	_, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{
		StartTime: ptr.Ptr(at(12, 0)),
		EndTime:   ptr.Ptr(at(12, 0)),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestGetClientBookings_FiltersByStatus(t *testing.T) {
	confirmed := confirmedBooking(1)
	cancelled := confirmedBooking(2)
	cancelled.Status = domain.StatusCancelled
	repo := newFakeBookingRepo(confirmed, cancelled)
	svc := newTestService(repo, newFakeSlotRepo())

	resp, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: 100,
		Status:   ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)

	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)
}

func TestGetClientBookings_InvalidStatus(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), newFakeSlotRepo())

	_, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: 100,
		Status:   ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
