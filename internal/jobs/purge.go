// Package jobs фоновые задачи сервиса бронирований
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/salonmarket/booking-service/internal/config"
)

// PurgeRepository репозиторий, умеющий физически удалять soft-deleted записи
type PurgeRepository interface {
	PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}

// Logger интерфейс логгера
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Scheduler планировщик фоновых задач на базе cron
type Scheduler struct {
	cron             *cron.Cron
	cfg              config.JobsConfig
	availabilityRepo PurgeRepository
	bookingRepo      PurgeRepository
	timeProvider     TimeProvider
	logger           Logger
}

// NewScheduler создает планировщик фоновых задач
func NewScheduler(
	cfg config.JobsConfig,
	availabilityRepo PurgeRepository,
	bookingRepo PurgeRepository,
	timeProvider TimeProvider,
	logger Logger,
) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		cfg:              cfg,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Start регистрирует и запускает задачи. Если фоновая очистка выключена,
// планировщик не стартует.
func (s *Scheduler) Start() error {
	if !s.cfg.PurgeEnabled {
		s.logger.Info("Jobs: фоновая очистка отключена конфигурацией")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.PurgeSchedule, s.runPurge); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Jobs: фоновая очистка запущена: schedule=%s, retention_days=%d",
		s.cfg.PurgeSchedule, s.cfg.RetentionDays)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Jobs: планировщик остановлен")
}

// runPurge удаляет soft-deleted объявления доступности и бронирования,
// помеченные удаленными раньше границы хранения
func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	olderThan := s.timeProvider.Now().AddDate(0, 0, -s.cfg.RetentionDays)

	availabilities, err := s.availabilityRepo.PurgeDeleted(ctx, olderThan)
	if err != nil {
		s.logger.Error("Jobs: ошибка очистки объявлений доступности: %v", err)
	}

	bookings, err := s.bookingRepo.PurgeDeleted(ctx, olderThan)
	if err != nil {
		s.logger.Error("Jobs: ошибка очистки бронирований: %v", err)
	}

	s.logger.Info("Jobs: очистка завершена: availabilities=%d, bookings=%d, older_than=%s",
		availabilities, bookings, olderThan.Format(time.RFC3339))
}
