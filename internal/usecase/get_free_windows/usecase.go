package get_free_windows

import (
	"context"
	"fmt"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
	"github.com/salonmarket/booking-service/internal/schedule"
	"github.com/salonmarket/booking-service/pkg/ptr"
)

// UseCase use case для получения свободных окон произвольной длительности.
// В отличие от готовых слотов, окна позволяют найти время под услугу,
// длительность которой не совпадает с сеткой слотов.
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute выполняет use case поиска свободных окон.
// Рабочий диапазон дня - от начала первого до конца последнего слота; по нему
// скользит окно требуемой длительности с шагом 30 минут, окна, пересекающиеся
// с занятыми интервалами, отбрасываются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeWindows: master=%d, date=%s, duration=%d",
		req.MasterID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetFreeWindows: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		MasterID:        req.MasterID,
		Date:            dayStart(req.Date),
		DurationMinutes: req.DurationMinutes,
		Windows:         []Window{},
	}

	from := resp.Date
	to := from.AddDate(0, 0, 1)

	// 2. Слоты дня задают рабочий диапазон; день без слотов окон не имеет
	slots, err := uc.slotRepo.ListByMasterAndRange(ctx, req.MasterID, from, to)
	if err != nil {
		uc.logger.Error("GetFreeWindows: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}
	if len(slots) == 0 {
		uc.logger.Info("GetFreeWindows: no slots for master=%d on %s", req.MasterID, from.Format(domain.DateFormat))
		return resp, nil
	}

	// Слоты отсортированы по началу, рабочий диапазон - от первого до последнего
	workStart := slots[0].StartTime
	workEnd := slots[len(slots)-1].EndTime
	workRange, err := schedule.NewTimeRange(workStart, workEnd)
	if err != nil {
		uc.logger.Error("GetFreeWindows: invalid working range for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: invalid working range: %v", ErrInternal, err)
	}

	// 3. Занятые интервалы: подтвержденные бронирования и несвободные слоты
	busy := make([]schedule.TimeRange, 0, len(slots))
	for _, s := range slots {
		if s.IsFree() {
			continue
		}
		r, err := schedule.NewTimeRange(s.StartTime, s.EndTime)
		if err != nil {
			continue
		}
		busy = append(busy, r)
	}

	date := resp.Date
	bookings, err := uc.bookingRepo.GetByMasterWithFilter(ctx, domain.MasterBookingsFilter{
		MasterID:  req.MasterID,
		StartDate: &date,
		EndDate:   &date,
		Status:    ptr.Ptr(domain.StatusConfirmed),
	})
	if err != nil {
		uc.logger.Error("GetFreeWindows: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}
	for _, b := range bookings {
		r, err := schedule.NewTimeRange(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		busy = append(busy, r)
	}

	// 4. Скользящее окно с шагом 30 минут
	candidates, err := schedule.Slide(
		workRange,
		time.Duration(req.DurationMinutes)*time.Minute,
		domain.FreeWindowStepMinutes*time.Minute,
	)
	if err != nil {
		uc.logger.Error("GetFreeWindows: slide failed for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: slide failed: %v", ErrInternal, err)
	}

	for _, w := range schedule.FilterFree(candidates, busy) {
		resp.Windows = append(resp.Windows, Window{StartTime: w.Start, EndTime: w.End})
	}

	uc.logger.Info("GetFreeWindows: %d windows available for master=%d on %s",
		len(resp.Windows), req.MasterID, from.Format(domain.DateFormat))
	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.MasterID <= 0 {
		return fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}

	return nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
