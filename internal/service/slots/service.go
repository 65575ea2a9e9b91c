package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
	slotRepo "github.com/salonmarket/booking-service/internal/infra/storage/slot"
	"github.com/salonmarket/booking-service/internal/schedule"
	"github.com/salonmarket/booking-service/internal/service/slots/models"
	"github.com/salonmarket/booking-service/pkg/ptr"
)

// Service сервис для ручного управления отдельными слотами мастера.
// Сгенерированная из декларации сетка управляется сервисом доступности,
// здесь мастер точечно добавляет, двигает и удаляет слоты.
type Service struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create создает ручной слот мастера.
// Проверка пересечений с существующими слотами и confirmed-бронированиями
// и вставка выполняются в одной сериализуемой транзакции.
func (s *Service) Create(ctx context.Context, masterID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: creating manual slot for master=%d, start=%s",
		masterID, req.StartTime.Format(time.RFC3339))

	candidate, err := schedule.NewTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("Create: invalid time range for master=%d: %v", masterID, err)
		return nil, ErrInvalidTimeRange
	}

	if err := validateDuration(candidate); err != nil {
		s.logger.Warn("Create: invalid duration for master=%d: %v", masterID, err)
		return nil, err
	}

	slot := &domain.Slot{
		MasterID:  masterID,
		ServiceID: req.ServiceID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    domain.SlotStatusFree,
		Source:    domain.SlotSourceManual,
	}

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.checkConflict(ctx, masterID, candidate, 0); err != nil {
			return err
		}

		created, err := s.slotRepo.Create(ctx, slot)
		if err != nil {
			s.logger.Error("Create: repository error for master=%d: %v", masterID, err)
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		slot = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: manual slot created: slot_id=%d, master_id=%d", slot.ID, masterID)
	return models.FromDomainSlot(slot), nil
}

// Update частично обновляет ручной или сгенерированный слот.
// Забронированный слот неизменяем. При сдвиге границ слот заново
// проверяется на пересечения, сам с собой слот не конфликтует.
func (s *Service) Update(ctx context.Context, slotID int64, masterID int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Update: updating slot id=%d for master=%d", slotID, masterID)

	var updated *domain.Slot

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		slot, err := s.getOwned(ctx, slotID, masterID, "Update")
		if err != nil {
			return err
		}

		if slot.IsBooked() {
			s.logger.Warn("Update: slot id=%d is booked", slotID)
			return ErrSlotImmutable
		}

		if req.ServiceID != nil {
			slot.ServiceID = req.ServiceID
		}
		if req.StartTime != nil {
			slot.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			slot.EndTime = *req.EndTime
		}

		if req.ChangesTime() {
			candidate, err := schedule.NewTimeRange(slot.StartTime, slot.EndTime)
			if err != nil {
				s.logger.Warn("Update: invalid time range for slot id=%d: %v", slotID, err)
				return ErrInvalidTimeRange
			}
			if err := validateDuration(candidate); err != nil {
				s.logger.Warn("Update: invalid duration for slot id=%d: %v", slotID, err)
				return err
			}
			if err := s.checkConflict(ctx, masterID, candidate, slot.ID); err != nil {
				return err
			}
		}

		if err := s.slotRepo.Update(ctx, slot); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			s.logger.Error("Update: repository error for slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: slot updated: slot_id=%d, master_id=%d", slotID, masterID)
	return models.FromDomainSlot(updated), nil
}

// Delete удаляет слот мастера. Забронированный слот удалить нельзя.
func (s *Service) Delete(ctx context.Context, slotID int64, masterID int64) error {
	s.logger.Info("Delete: deleting slot id=%d for master=%d", slotID, masterID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		slot, err := s.getOwned(ctx, slotID, masterID, "Delete")
		if err != nil {
			return err
		}

		if slot.IsBooked() {
			s.logger.Warn("Delete: slot id=%d is booked", slotID)
			return ErrSlotImmutable
		}

		if err := s.slotRepo.Delete(ctx, slot.ID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			s.logger.Error("Delete: repository error for slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: slot deleted: slot_id=%d, master_id=%d", slotID, masterID)
	return nil
}

// Вспомогательные методы

// getOwned получает слот и проверяет, что он принадлежит мастеру.
// Чужой слот неотличим от несуществующего.
func (s *Service) getOwned(ctx context.Context, slotID int64, masterID int64, method string) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", method, slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%d: %v", method, slotID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}

	if slot.MasterID != masterID {
		s.logger.Warn("%s: slot id=%d does not belong to master=%d", method, slotID, masterID)
		return nil, ErrSlotNotFound
	}

	return slot, nil
}

// checkConflict проверяет, что кандидат не пересекается со слотами дня
// (кроме excludeSlotID) и с confirmed-бронированиями мастера.
// Смежные интервалы конфликтом не считаются.
func (s *Service) checkConflict(ctx context.Context, masterID int64, candidate schedule.TimeRange, excludeSlotID int64) error {
	dayStart, dayEnd := dayRange(candidate.Start)

	existing, err := s.slotRepo.ListByMasterAndRange(ctx, masterID, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("checkConflict: failed to list slots for master=%d: %v", masterID, err)
		return fmt.Errorf("%w: checkConflict - list slots: %v", ErrInternal, err)
	}

	for _, other := range existing {
		if other.ID == excludeSlotID {
			continue
		}
		busy, err := schedule.NewTimeRange(other.StartTime, other.EndTime)
		if err != nil {
			continue
		}
		if candidate.Overlaps(busy) {
			s.logger.Warn("checkConflict: candidate conflicts with slot id=%d for master=%d", other.ID, masterID)
			return ErrTimeConflict
		}
	}

	date := candidate.Start
	bookings, err := s.bookingRepo.GetByMasterWithFilter(ctx, domain.MasterBookingsFilter{
		MasterID:  masterID,
		StartDate: &date,
		EndDate:   &date,
		Status:    ptr.Ptr(domain.StatusConfirmed),
	})
	if err != nil {
		s.logger.Error("checkConflict: failed to list bookings for master=%d: %v", masterID, err)
		return fmt.Errorf("%w: checkConflict - list bookings: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		busy, err := schedule.NewTimeRange(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		if candidate.Overlaps(busy) {
			s.logger.Warn("checkConflict: candidate conflicts with booking id=%d for master=%d", b.ID, masterID)
			return ErrTimeConflict
		}
	}

	return nil
}

func validateDuration(r schedule.TimeRange) error {
	minutes := int(r.End.Sub(r.Start) / time.Minute)
	if minutes < domain.MinSlotDurationMinutes || minutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: %d minutes", ErrInvalidSlotDuration, minutes)
	}
	return nil
}

func dayRange(date time.Time) (time.Time, time.Time) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return dayStart, dayStart.AddDate(0, 0, 1)
}
