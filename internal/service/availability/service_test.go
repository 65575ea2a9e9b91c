package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmarket/booking-service/internal/domain"
	availabilityRepo "github.com/salonmarket/booking-service/internal/infra/storage/availability"
	"github.com/salonmarket/booking-service/internal/service/availability/models"
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

func (nopTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAvailabilityRepo struct {
	rows map[int64]*domain.Availability

	updated     *domain.Availability
	softDeleted []int64
}

func (f *fakeAvailabilityRepo) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	av, ok := f.rows[id]
	if !ok {
		return nil, availabilityRepo.ErrAvailabilityNotFound
	}
	cp := *av
	return &cp, nil
}

func (f *fakeAvailabilityRepo) GetByMasterAndDate(ctx context.Context, masterID int64, date time.Time) (*domain.Availability, error) {
	for _, av := range f.rows {
		if av.MasterID == masterID && av.Date.Equal(date) {
			cp := *av
			return &cp, nil
		}
	}
	return nil, availabilityRepo.ErrAvailabilityNotFound
}

func (f *fakeAvailabilityRepo) ListByMaster(ctx context.Context, masterID int64) ([]*domain.Availability, error) {
	var out []*domain.Availability
	for _, av := range f.rows {
		if av.MasterID == masterID {
			cp := *av
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) Update(ctx context.Context, av *domain.Availability) error {
	if _, ok := f.rows[av.ID]; !ok {
		return availabilityRepo.ErrAvailabilityNotFound
	}
	cp := *av
	f.rows[av.ID] = &cp
	f.updated = &cp
	return nil
}

func (f *fakeAvailabilityRepo) SoftDelete(ctx context.Context, id int64, masterID int64) error {
	av, ok := f.rows[id]
	if !ok || av.MasterID != masterID {
		return availabilityRepo.ErrAvailabilityNotFound
	}
	f.softDeleted = append(f.softDeleted, id)
	delete(f.rows, id)
	return nil
}

type fakeSlotRepo struct {
	created []*domain.Slot
	deleted int64
	blocked bool
	slots   []*domain.Slot
}

func (f *fakeSlotRepo) BulkCreate(ctx context.Context, slots []*domain.Slot) error {
	f.created = append(f.created, slots...)
	return nil
}

func (f *fakeSlotRepo) ListByMasterAndRange(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Slot, error) {
	return f.slots, nil
}

func (f *fakeSlotRepo) DeleteNonBookedByRange(ctx context.Context, masterID int64, from, to time.Time) (int64, error) {
	return f.deleted, nil
}

func (f *fakeSlotRepo) BlockByRange(ctx context.Context, masterID int64, from, to time.Time) error {
	f.blocked = true
	return nil
}

func testAvailability() *domain.Availability {
	return &domain.Availability{
		ID:                  1,
		MasterID:            10,
		Date:                time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:           mustTimeString("09:00"),
		EndTime:             mustTimeString("12:00"),
		SlotDurationMinutes: 60,
		IsAvailable:         true,
	}
}

func mustTimeString(s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func newTestService(avRepo *fakeAvailabilityRepo, slotRepo *fakeSlotRepo) *Service {
	return NewService(avRepo, slotRepo, nopTxManager{}, nopLogger{})
}

func TestUpdate_WindowChangeRegeneratesSlots(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: testAvailability()}}
	slotRepo := &fakeSlotRepo{}
	svc := newTestService(avRepo, slotRepo)

	resp, err := svc.Update(context.Background(), 1, 10, &models.UpdateAvailabilityRequest{
		EndTime: ptr.Ptr("13:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "13:00", resp.EndTime)
	// Окно 09:00-13:00 при часовых слотах даёт 4 слота
	assert.Len(t, slotRepo.created, 4)
	for _, s := range slotRepo.created {
		assert.Equal(t, domain.SlotStatusFree, s.Status)
		assert.Equal(t, domain.SlotSourceAuto, s.Source)
	}
}

func TestUpdate_CommentOnlyPatchKeepsSlots(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: testAvailability()}}
	slotRepo := &fakeSlotRepo{}
	svc := newTestService(avRepo, slotRepo)

	// Патч без изменения окна не должен трогать слоты
	same := 60
	_, err := svc.Update(context.Background(), 1, 10, &models.UpdateAvailabilityRequest{
		SlotDurationMinutes: &same,
	})
	require.NoError(t, err)

	assert.Empty(t, slotRepo.created)
	assert.False(t, slotRepo.blocked)
}

func TestUpdate_MarkUnavailableBlocksAllSlots(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: testAvailability()}}
	slotRepo := &fakeSlotRepo{}
	svc := newTestService(avRepo, slotRepo)

	resp, err := svc.Update(context.Background(), 1, 10, &models.UpdateAvailabilityRequest{
		IsAvailable: ptr.Ptr(false),
	})
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	assert.True(t, slotRepo.blocked)
	assert.Empty(t, slotRepo.created)
}

func TestUpdate_InvalidWindowRejected(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: testAvailability()}}
	svc := newTestService(avRepo, &fakeSlotRepo{})

	_, err := svc.Update(context.Background(), 1, 10, &models.UpdateAvailabilityRequest{
		StartTime: ptr.Ptr("14:00"),
		EndTime:   ptr.Ptr("14:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestUpdate_ForeignAvailabilityLooksMissing(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: testAvailability()}}
	svc := newTestService(avRepo, &fakeSlotRepo{})

	_, err := svc.Update(context.Background(), 1, 999, &models.UpdateAvailabilityRequest{
		EndTime: ptr.Ptr("13:00"),
	})
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}

func TestWithdraw_SoftDeletesAndRemovesSlots(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: testAvailability()}}
	slotRepo := &fakeSlotRepo{deleted: 3}
	svc := newTestService(avRepo, slotRepo)

	err := svc.Withdraw(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, avRepo.softDeleted)
}

func TestWithdraw_NotFound(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{}}
	svc := newTestService(avRepo, &fakeSlotRepo{})

	err := svc.Withdraw(context.Background(), 42, 10)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}

func TestRegenerate_TilesStoredWindow(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: testAvailability()}}
	slotRepo := &fakeSlotRepo{deleted: 2}
	svc := newTestService(avRepo, slotRepo)

	resp, err := svc.Regenerate(context.Background(), 10, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Deleted)
	assert.Equal(t, 3, resp.Generated)
	require.Len(t, slotRepo.created, 3)
	assert.Equal(t, time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC), slotRepo.created[0].StartTime)
	assert.Equal(t, time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC), slotRepo.created[2].EndTime)
}

func TestRegenerate_UnavailableDayGeneratesNothing(t *testing.T) {
	av := testAvailability()
	av.IsAvailable = false
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: av}}
	slotRepo := &fakeSlotRepo{}
	svc := newTestService(avRepo, slotRepo)

	resp, err := svc.Regenerate(context.Background(), 10, av.Date)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Generated)
	assert.Empty(t, slotRepo.created)
}

func TestGenerateSlots_DropsTrailingRemainder(t *testing.T) {
	av := testAvailability()
	av.EndTime = mustTimeString("12:30")

	slots, err := GenerateSlots(av)
	require.NoError(t, err)

	// Хвост 12:00-12:30 короче слота и отбрасывается
	require.Len(t, slots, 3)
	assert.Equal(t, time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC), slots[2].EndTime)
}

func TestListWithSlots_DateFilterReturnsSingleDay(t *testing.T) {
	first := testAvailability()
	second := testAvailability()
	second.ID = 2
	second.Date = time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)

	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: first, 2: second}}
	slotRepo := &fakeSlotRepo{}
	svc := newTestService(avRepo, slotRepo)

	resp, err := svc.ListWithSlots(context.Background(), 10, ptr.Ptr(second.Date))
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2025-10-16", resp.Items[0].Availability.Date)
}

func TestListWithSlots_DateWithoutDeclarationIsEmpty(t *testing.T) {
	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: testAvailability()}}
	slotRepo := &fakeSlotRepo{}
	svc := newTestService(avRepo, slotRepo)

	empty := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.ListWithSlots(context.Background(), 10, &empty)
	require.NoError(t, err)

	assert.Empty(t, resp.Items)
}

func TestListWithSlots_NoDateReturnsAllDeclarations(t *testing.T) {
	first := testAvailability()
	second := testAvailability()
	second.ID = 2
	second.Date = time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)

	avRepo := &fakeAvailabilityRepo{rows: map[int64]*domain.Availability{1: first, 2: second}}
	slotRepo := &fakeSlotRepo{}
	svc := newTestService(avRepo, slotRepo)

	resp, err := svc.ListWithSlots(context.Background(), 10, nil)
	require.NoError(t, err)

	assert.Len(t, resp.Items, 2)
}
