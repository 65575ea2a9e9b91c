package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmarket/booking-service/internal/domain"
	catalogRepo "github.com/salonmarket/booking-service/internal/infra/storage/catalog"
	"github.com/salonmarket/booking-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type nopTxManager struct{}

func (nopTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type fakeBookingRepo struct {
	existing []*domain.Booking
	created  *domain.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	cp := *booking
	cp.ID = 1
	f.created = &cp
	return &cp, nil
}

func (f *fakeBookingRepo) GetByMasterWithFilter(ctx context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error) {
	return f.existing, nil
}

type fakeSlotRepo struct {
	slots     map[int64]*domain.Slot
	statusSet map[int64]domain.SlotStatus
	linked    map[int64]*int64
}

func newFakeSlotRepo(slots ...*domain.Slot) *fakeSlotRepo {
	f := &fakeSlotRepo{
		slots:     make(map[int64]*domain.Slot),
		statusSet: make(map[int64]domain.SlotStatus),
		linked:    make(map[int64]*int64),
	}
	for _, s := range slots {
		f.slots[s.ID] = s
	}
	return f
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, assert.AnError
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlotRepo) UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus, bookingID *int64) error {
	f.statusSet[id] = status
	f.linked[id] = bookingID
	return nil
}

type fakeCatalog struct {
	clients  map[int64]*domain.Client
	masters  map[int64]*domain.Master
	services map[int64]*domain.Service
}

func (f *fakeCatalog) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, catalogRepo.ErrClientNotFound
	}
	return c, nil
}

func (f *fakeCatalog) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	m, ok := f.masters[id]
	if !ok {
		return nil, catalogRepo.ErrMasterNotFound
	}
	return m, nil
}

func (f *fakeCatalog) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		clients: map[int64]*domain.Client{100: {ID: 100, Name: "Анна"}},
		masters: map[int64]*domain.Master{10: {ID: 10, SalonID: 1, IsActive: true}},
		services: map[int64]*domain.Service{
			5: {ID: 5, MasterID: 10, Name: "Маникюр", DurationMinutes: 60, Price: 2500, IsActive: true},
			6: {ID: 6, MasterID: 99, Name: "Стрижка", DurationMinutes: 45, Price: 1800, IsActive: true},
		},
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 10, 15, hour, minute, 0, 0, time.UTC)
}

func newTestUseCase(repo *fakeBookingRepo, slots *fakeSlotRepo) *UseCase {
	uc := NewUseCase(repo, slots, testCatalog(), nopTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)}
	return uc
}

func validRequest() *Request {
	return &Request{
		ClientID:  100,
		MasterID:  10,
		ServiceID: 5,
		StartTime: at(10, 0),
	}
}

func TestExecute_CreatesConfirmedBookingWithPriceSnapshot(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, newFakeSlotRepo())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, at(10, 0), resp.StartTime)
	// Конец интервала вычисляется из длительности услуги
	assert.Equal(t, at(11, 0), resp.EndTime)
	assert.Equal(t, "Маникюр", resp.ServiceName)
	assert.Equal(t, 2500.0, resp.Price)
}

func TestExecute_ExplicitEndTimeWins(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, newFakeSlotRepo())

	req := validRequest()
	req.EndTime = ptr.Ptr(at(11, 30))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, at(11, 30), resp.EndTime)
}

func TestExecute_OverlapWithConfirmedBookingRejected(t *testing.T) {
	repo := &fakeBookingRepo{
		existing: []*domain.Booking{{
			ID:        7,
			MasterID:  10,
			StartTime: at(10, 30),
			EndTime:   at(11, 30),
			Status:    domain.StatusConfirmed,
		}},
	}
	uc := newTestUseCase(repo, newFakeSlotRepo())

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTimeConflict)
	assert.Nil(t, repo.created)
}

func TestExecute_AdjacentBookingAllowed(t *testing.T) {
	repo := &fakeBookingRepo{
		existing: []*domain.Booking{{
			ID:        7,
			MasterID:  10,
			StartTime: at(11, 0),
			EndTime:   at(12, 0),
			Status:    domain.StatusConfirmed,
		}},
	}
	uc := newTestUseCase(repo, newFakeSlotRepo())

	// Интервал 10:00-11:00 встык к 11:00-12:00 допустим
	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestExecute_SlotClaimedAndLinked(t *testing.T) {
	repo := &fakeBookingRepo{}
	slots := newFakeSlotRepo(&domain.Slot{
		ID:        77,
		MasterID:  10,
		StartTime: at(10, 0),
		EndTime:   at(11, 0),
		Status:    domain.SlotStatusFree,
		Source:    domain.SlotSourceAuto,
	})
	uc := newTestUseCase(repo, slots)

	req := validRequest()
	req.SlotID = ptr.Ptr(int64(77))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.SlotStatusBooked, slots.statusSet[77])
	require.NotNil(t, slots.linked[77])
	assert.Equal(t, resp.ID, *slots.linked[77])
}

func TestExecute_BookedSlotRejected(t *testing.T) {
	slots := newFakeSlotRepo(&domain.Slot{
		ID:       77,
		MasterID: 10,
		Status:   domain.SlotStatusBooked,
	})
	uc := newTestUseCase(&fakeBookingRepo{}, slots)

	req := validRequest()
	req.SlotID = ptr.Ptr(int64(77))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_ForeignSlotRejected(t *testing.T) {
	slots := newFakeSlotRepo(&domain.Slot{
		ID:       77,
		MasterID: 99,
		Status:   domain.SlotStatusFree,
	})
	uc := newTestUseCase(&fakeBookingRepo{}, slots)

	req := validRequest()
	req.SlotID = ptr.Ptr(int64(77))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_ServiceOfAnotherMasterRejected(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, newFakeSlotRepo())

	req := validRequest()
	req.ServiceID = 6

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotOfferedByMaster)
}

func TestExecute_UnknownParticipants(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, newFakeSlotRepo())

	req := validRequest()
	req.ClientID = 999
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrClientNotFound)

	req = validRequest()
	req.MasterID = 999
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrMasterNotFound)

	req = validRequest()
	req.ServiceID = 999
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_PastStartTimeRejected(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, newFakeSlotRepo())

	req := validRequest()
	req.StartTime = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InvertedRangeRejected(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, newFakeSlotRepo())

	req := validRequest()
	req.EndTime = ptr.Ptr(at(9, 0))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
