package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
	availabilityRepo "github.com/salonmarket/booking-service/internal/infra/storage/availability"
	catalogRepo "github.com/salonmarket/booking-service/internal/infra/storage/catalog"
	"github.com/salonmarket/booking-service/internal/schedule"
	"github.com/salonmarket/booking-service/pkg/ptr"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	availabilityRepo AvailabilityRepository
	slotRepo         SlotRepository
	bookingRepo      BookingRepository
	catalog          CatalogProvider
	txManager        TransactionManager
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	catalog CatalogProvider,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		slotRepo:         slotRepo,
		bookingRepo:      bookingRepo,
		catalog:          catalog,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// День без декларации доступности или закрытый день дают пустой список.
// Если декларация есть, а слоты ещё не нарезаны - они генерируются на лету.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: master=%d, service=%v, date=%s",
		req.MasterID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		MasterID:  req.MasterID,
		ServiceID: req.ServiceID,
		Date:      dayStart(req.Date),
		Slots:     []Slot{},
	}

	// 2. Услуга задает минимальную длительность слота
	var service *domain.Service
	if req.ServiceID != nil {
		svc, err := uc.catalog.GetService(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !svc.BelongsTo(req.MasterID) {
			uc.logger.Warn("GetAvailableSlots: service id=%d is not offered by master id=%d", svc.ID, req.MasterID)
			return nil, ErrServiceNotOfferedByMaster
		}
		service = svc
	}

	// 3. Без декларации доступности день считается недоступным
	av, err := uc.availabilityRepo.GetByMasterAndDate(ctx, req.MasterID, resp.Date)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			uc.logger.Info("GetAvailableSlots: no availability for master=%d, date=%s",
				req.MasterID, resp.Date.Format(domain.DateFormat))
			return resp, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	if !av.IsAvailable {
		uc.logger.Info("GetAvailableSlots: master=%d is unavailable on %s",
			req.MasterID, resp.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 4. Берем слоты дня, при необходимости нарезая их на лету
	slots, err := uc.loadOrGenerateSlots(ctx, av)
	if err != nil {
		return nil, err
	}

	// 5. Подтвержденные бронирования мастера на эту дату исключают пересекающиеся слоты
	date := resp.Date
	bookings, err := uc.bookingRepo.GetByMasterWithFilter(ctx, domain.MasterBookingsFilter{
		MasterID:  req.MasterID,
		StartDate: &date,
		EndDate:   &date,
		Status:    ptr.Ptr(domain.StatusConfirmed),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	busy := make([]schedule.TimeRange, 0, len(bookings))
	for _, b := range bookings {
		r, err := schedule.NewTimeRange(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		busy = append(busy, r)
	}

	// 6. Оставляем свободные слоты, подходящие под услугу и не занятые бронированиями
	for _, s := range slots {
		if !s.IsFree() {
			continue
		}
		if service != nil {
			if s.DurationMinutes() < service.DurationMinutes {
				continue
			}
			if !s.FitsService(service.ID) {
				continue
			}
		}
		r, err := schedule.NewTimeRange(s.StartTime, s.EndTime)
		if err != nil {
			continue
		}
		if schedule.OverlapsAny(r, busy) {
			continue
		}
		resp.Slots = append(resp.Slots, Slot{
			ID:              s.ID,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: s.DurationMinutes(),
			Source:          string(s.Source),
		})
	}

	uc.logger.Info("GetAvailableSlots: %d slots available for master=%d on %s",
		len(resp.Slots), req.MasterID, resp.Date.Format(domain.DateFormat))
	return resp, nil
}

// loadOrGenerateSlots возвращает слоты дня. Если декларация есть, а слотов нет
// (например, их ещё не успели нарезать), окно нарезается в транзакции.
func (uc *UseCase) loadOrGenerateSlots(ctx context.Context, av *domain.Availability) ([]*domain.Slot, error) {
	from := av.Date
	to := from.AddDate(0, 0, 1)

	slots, err := uc.slotRepo.ListByMasterAndRange(ctx, av.MasterID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	if len(slots) > 0 {
		return slots, nil
	}

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Перепроверяем под блокировкой: параллельный запрос мог уже нарезать слоты
		existing, err := uc.slotRepo.ListByMasterAndRange(txCtx, av.MasterID, from, to)
		if err != nil {
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}
		if len(existing) > 0 {
			slots = existing
			return nil
		}

		generated, err := generateSlots(av)
		if err != nil {
			return err
		}
		if len(generated) > 0 {
			if err := uc.slotRepo.BulkCreate(txCtx, generated); err != nil {
				return fmt.Errorf("%w: failed to create slots: %v", ErrInternal, err)
			}
		}

		refreshed, err := uc.slotRepo.ListByMasterAndRange(txCtx, av.MasterID, from, to)
		if err != nil {
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}
		slots = refreshed
		return nil
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: on-demand slot generation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots on demand for master=%d, date=%s",
		len(slots), av.MasterID, av.Date.Format(domain.DateFormat))
	return slots, nil
}

// generateSlots нарезает рабочее окно декларации на свободные auto-слоты
func generateSlots(av *domain.Availability) ([]*domain.Slot, error) {
	start, end, err := av.Window()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	window, err := schedule.NewTimeRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	ranges, err := schedule.Tile(window, time.Duration(av.SlotDurationMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	slots := make([]*domain.Slot, 0, len(ranges))
	for _, r := range ranges {
		slots = append(slots, &domain.Slot{
			MasterID:  av.MasterID,
			StartTime: r.Start,
			EndTime:   r.End,
			Status:    domain.SlotStatusFree,
			Source:    domain.SlotSourceAuto,
		})
	}

	return slots, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
