package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmarket/booking-service/internal/config"
)

type fakePurgeRepo struct {
	purged    int64
	olderThan time.Time
	calls     int
}

func (f *fakePurgeRepo) PurgeDeleted(_ context.Context, olderThan time.Time) (int64, error) {
	f.calls++
	f.olderThan = olderThan
	return f.purged, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func TestScheduler_RunPurge_UsesRetentionBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	availRepo := &fakePurgeRepo{purged: 2}
	bookingRepo := &fakePurgeRepo{purged: 5}

	s := NewScheduler(
		config.JobsConfig{PurgeEnabled: true, RetentionDays: 90},
		availRepo,
		bookingRepo,
		fixedTime{now: now},
		nopLogger{},
	)

	s.runPurge()

	wantBoundary := now.AddDate(0, 0, -90)
	assert.Equal(t, wantBoundary, availRepo.olderThan)
	assert.Equal(t, wantBoundary, bookingRepo.olderThan)
	assert.Equal(t, 1, availRepo.calls)
	assert.Equal(t, 1, bookingRepo.calls)
}

func TestScheduler_Start_DisabledDoesNotSchedule(t *testing.T) {
	s := NewScheduler(
		config.JobsConfig{PurgeEnabled: false, PurgeSchedule: "0 3 * * *"},
		&fakePurgeRepo{},
		&fakePurgeRepo{},
		fixedTime{now: time.Now()},
		nopLogger{},
	)

	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
}

func TestScheduler_Start_InvalidScheduleFails(t *testing.T) {
	s := NewScheduler(
		config.JobsConfig{PurgeEnabled: true, PurgeSchedule: "not a cron expr"},
		&fakePurgeRepo{},
		&fakePurgeRepo{},
		fixedTime{now: time.Now()},
		nopLogger{},
	)

	require.Error(t, s.Start())
}
