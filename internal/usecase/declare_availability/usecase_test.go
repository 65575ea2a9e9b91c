package declare_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmarket/booking-service/internal/domain"
	catalogRepo "github.com/salonmarket/booking-service/internal/infra/storage/catalog"
	"github.com/salonmarket/booking-service/pkg/ptr"
	"github.com/salonmarket/booking-service/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAvailabilityRepo struct {
	upserted *domain.Availability
}

func (f *fakeAvailabilityRepo) Upsert(ctx context.Context, av *domain.Availability) (*domain.Availability, error) {
	cp := *av
	cp.ID = 1
	f.upserted = &cp
	return &cp, nil
}

type fakeSlotRepo struct {
	created []*domain.Slot
	deleted int64
}

func (f *fakeSlotRepo) BulkCreate(ctx context.Context, slots []*domain.Slot) error {
	f.created = append(f.created, slots...)
	return nil
}

func (f *fakeSlotRepo) DeleteNonBookedByRange(ctx context.Context, masterID int64, from, to time.Time) (int64, error) {
	return f.deleted, nil
}

type fakeCatalog struct {
	masters map[int64]*domain.Master
}

func (f *fakeCatalog) GetMaster(ctx context.Context, masterID int64) (*domain.Master, error) {
	m, ok := f.masters[masterID]
	if !ok {
		return nil, catalogRepo.ErrMasterNotFound
	}
	return m, nil
}

func mustTimeString(t *testing.T, s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func newTestUseCase(avRepo *fakeAvailabilityRepo, slotRepo *fakeSlotRepo) *UseCase {
	catalog := &fakeCatalog{masters: map[int64]*domain.Master{10: {ID: 10, IsActive: true}}}
	return NewUseCase(avRepo, slotRepo, catalog, nopTxManager{}, nopLogger{})
}

func validRequest(t *testing.T) *Request {
	return &Request{
		MasterID:            10,
		Date:                time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:           mustTimeString(t, "09:00"),
		EndTime:             mustTimeString(t, "12:00"),
		SlotDurationMinutes: 60,
	}
}

func TestExecute_TilesWindowIntoSlots(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{}
	slotRepo := &fakeSlotRepo{}
	uc := newTestUseCase(avRepo, slotRepo)

	resp, err := uc.Execute(context.Background(), validRequest(t))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.SlotsGenerated)
	require.Len(t, slotRepo.created, 3)
	assert.Equal(t, time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC), slotRepo.created[0].StartTime)
	assert.Equal(t, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), slotRepo.created[0].EndTime)
	assert.Equal(t, time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC), slotRepo.created[2].EndTime)
	for _, s := range slotRepo.created {
		assert.Equal(t, domain.SlotStatusFree, s.Status)
		assert.Equal(t, domain.SlotSourceAuto, s.Source)
	}
}

func TestExecute_TrailingRemainderDropped(t *testing.T) {
	slotRepo := &fakeSlotRepo{}
	uc := newTestUseCase(&fakeAvailabilityRepo{}, slotRepo)

	req := validRequest(t)
	req.EndTime = mustTimeString(t, "12:45")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Хвост 12:00-12:45 короче часа и не нарезается
	assert.Equal(t, 3, resp.SlotsGenerated)
}

func TestExecute_DefaultSlotDuration(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{}
	uc := newTestUseCase(avRepo, &fakeSlotRepo{})

	req := validRequest(t)
	req.SlotDurationMinutes = 0

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.SlotDurationMinutes)
}

func TestExecute_UnavailableDayGeneratesNoSlots(t *testing.T) {
	slotRepo := &fakeSlotRepo{}
	uc := newTestUseCase(&fakeAvailabilityRepo{}, slotRepo)

	req := validRequest(t)
	req.IsAvailable = ptr.Ptr(false)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	assert.Zero(t, resp.SlotsGenerated)
	assert.Empty(t, slotRepo.created)
}

func TestExecute_InvalidWindowRejected(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{}, &fakeSlotRepo{})

	req := validRequest(t)
	req.StartTime = mustTimeString(t, "12:00")
	req.EndTime = mustTimeString(t, "09:00")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestExecute_EmptyWindowRejected(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{}, &fakeSlotRepo{})

	req := validRequest(t)
	req.EndTime = req.StartTime

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestExecute_UnknownMaster(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{}, &fakeSlotRepo{})

	req := validRequest(t)
	req.MasterID = 999

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrMasterNotFound)
}

func TestExecute_SlotDurationOutOfBounds(t *testing.T) {
	uc := newTestUseCase(&fakeAvailabilityRepo{}, &fakeSlotRepo{})

	req := validRequest(t)
	req.SlotDurationMinutes = 2

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)
}
