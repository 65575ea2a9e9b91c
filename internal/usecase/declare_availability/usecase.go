package declare_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
	catalogRepo "github.com/salonmarket/booking-service/internal/infra/storage/catalog"
	"github.com/salonmarket/booking-service/internal/schedule"
)

// UseCase use case для декларации доступности мастера
type UseCase struct {
	availabilityRepo AvailabilityRepository
	slotRepo         SlotRepository
	catalog          CatalogProvider
	txManager        TransactionManager
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	slotRepo SlotRepository,
	catalog CatalogProvider,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		slotRepo:         slotRepo,
		catalog:          catalog,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute выполняет use case декларации доступности.
// Повторная декларация на ту же дату перезаписывает строку, свободные и
// заблокированные слоты дня пересоздаются, забронированные остаются на месте.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DeclareAvailability: master=%d, date=%s, window=%s-%s",
		req.MasterID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("DeclareAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что мастер существует и активен
	if _, err := uc.catalog.GetMaster(ctx, req.MasterID); err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			uc.logger.Warn("DeclareAvailability: master id=%d not found", req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("DeclareAvailability: failed to get master id=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	av := &domain.Availability{
		MasterID:            req.MasterID,
		Date:                dayStart(req.Date),
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsAvailable:         req.IsAvailable == nil || *req.IsAvailable,
	}
	if av.SlotDurationMinutes == 0 {
		av.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}

	var (
		saved     *domain.Availability
		generated int
	)

	// 3. Перезапись декларации и пересоздание слотов в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		upserted, err := uc.availabilityRepo.Upsert(txCtx, av)
		if err != nil {
			uc.logger.Error("DeclareAvailability: failed to upsert availability: %v", err)
			return fmt.Errorf("%w: failed to upsert availability: %v", ErrInternal, err)
		}

		from := upserted.Date
		to := from.AddDate(0, 0, 1)
		deleted, err := uc.slotRepo.DeleteNonBookedByRange(txCtx, upserted.MasterID, from, to)
		if err != nil {
			uc.logger.Error("DeclareAvailability: failed to delete slots: %v", err)
			return fmt.Errorf("%w: failed to delete slots: %v", ErrInternal, err)
		}
		if deleted > 0 {
			uc.logger.Info("DeclareAvailability: replaced %d non-booked slots for master=%d, date=%s",
				deleted, upserted.MasterID, from.Format(domain.DateFormat))
		}

		// Для закрытого дня слоты не нарезаются
		if upserted.IsAvailable {
			slots, err := generateSlots(upserted)
			if err != nil {
				return err
			}
			if len(slots) > 0 {
				if err := uc.slotRepo.BulkCreate(txCtx, slots); err != nil {
					uc.logger.Error("DeclareAvailability: failed to create slots: %v", err)
					return fmt.Errorf("%w: failed to create slots: %v", ErrInternal, err)
				}
			}
			generated = len(slots)
		}

		saved = upserted
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("DeclareAvailability: availability id=%d saved, %d slots generated", saved.ID, generated)

	return &Response{
		ID:                  saved.ID,
		MasterID:            saved.MasterID,
		Date:                saved.Date,
		StartTime:           saved.StartTime,
		EndTime:             saved.EndTime,
		SlotDurationMinutes: saved.SlotDurationMinutes,
		IsAvailable:         saved.IsAvailable,
		SlotsGenerated:      generated,
		CreatedAt:           saved.CreatedAt,
		UpdatedAt:           saved.UpdatedAt,
	}, nil
}

// generateSlots нарезает рабочее окно на свободные auto-слоты.
// Хвост окна короче длительности слота отбрасывается.
func generateSlots(av *domain.Availability) ([]*domain.Slot, error) {
	start, end, err := av.Window()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}

	window, err := schedule.NewTimeRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: window start must be before end", ErrInvalidTimeRange)
	}

	ranges, err := schedule.Tile(window, time.Duration(av.SlotDurationMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlotDuration, err)
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
