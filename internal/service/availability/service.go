package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
	availabilityRepo "github.com/salonmarket/booking-service/internal/infra/storage/availability"
	"github.com/salonmarket/booking-service/internal/schedule"
	"github.com/salonmarket/booking-service/internal/service/availability/models"
)

// Service сервис для работы с декларациями доступности мастеров
type Service struct {
	availabilityRepo AvailabilityRepository
	slotRepo         SlotRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		slotRepo:         slotRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Update частично обновляет декларацию доступности мастера.
// Если изменилось рабочее окно или длительность слота - свободные слоты
// перегенерируются, забронированные остаются нетронутыми.
// Если isAvailable=false - все слоты дня помечаются blocked.
func (s *Service) Update(ctx context.Context, availabilityID int64, masterID int64, req *models.UpdateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Update: updating availability id=%d for master=%d", availabilityID, masterID)

	patch, err := req.ToDomainPatch()
	if err != nil {
		s.logger.Warn("Update: invalid patch for availability id=%d: %v", availabilityID, err)
		return nil, fmt.Errorf("%w: invalid time format", ErrInvalidTimeRange)
	}

	var updated *domain.Availability

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		av, err := s.getOwned(ctx, availabilityID, masterID, "Update")
		if err != nil {
			return err
		}

		windowChanged := patch.ChangesWindow(av)

		applyPatch(av, patch)

		if err := validateWindow(av); err != nil {
			s.logger.Warn("Update: invalid window for availability id=%d: %v", availabilityID, err)
			return err
		}

		if err := s.availabilityRepo.Update(ctx, av); err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				return ErrAvailabilityNotFound
			}
			s.logger.Error("Update: repository error for availability id=%d: %v", availabilityID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		// Мастер закрыл день - блокируем все слоты, включая забронированные.
		// Ссылки из бронирований на слоты при этом остаются валидными.
		if patch.IsAvailable != nil && !*patch.IsAvailable {
			dayStart, dayEnd := dayRange(av.Date)
			if err := s.slotRepo.BlockByRange(ctx, av.MasterID, dayStart, dayEnd); err != nil {
				s.logger.Error("Update: failed to block slots for availability id=%d: %v", availabilityID, err)
				return fmt.Errorf("%w: Update - block slots: %v", ErrInternal, err)
			}
			updated = av
			return nil
		}

		if windowChanged {
			if _, _, err := s.regenerateForDeclaration(ctx, av); err != nil {
				return err
			}
		}

		updated = av
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated availability id=%d", availabilityID)
	return models.FromDomainAvailability(updated), nil
}

// Withdraw отзывает декларацию доступности: строка мягко удаляется,
// свободные и заблокированные слоты дня удаляются, забронированные остаются.
func (s *Service) Withdraw(ctx context.Context, availabilityID int64, masterID int64) error {
	s.logger.Info("Withdraw: withdrawing availability id=%d for master=%d", availabilityID, masterID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		av, err := s.getOwned(ctx, availabilityID, masterID, "Withdraw")
		if err != nil {
			return err
		}

		if err := s.availabilityRepo.SoftDelete(ctx, av.ID, masterID); err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				return ErrAvailabilityNotFound
			}
			s.logger.Error("Withdraw: repository error for availability id=%d: %v", availabilityID, err)
			return fmt.Errorf("%w: Withdraw - repository error: %v", ErrInternal, err)
		}

		dayStart, dayEnd := dayRange(av.Date)
		deleted, err := s.slotRepo.DeleteNonBookedByRange(ctx, av.MasterID, dayStart, dayEnd)
		if err != nil {
			s.logger.Error("Withdraw: failed to delete slots for availability id=%d: %v", availabilityID, err)
			return fmt.Errorf("%w: Withdraw - delete slots: %v", ErrInternal, err)
		}

		s.logger.Info("Withdraw: deleted %d non-booked slots for availability id=%d", deleted, availabilityID)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Withdraw: successfully withdrew availability id=%d", availabilityID)
	return nil
}

// Regenerate перегенерирует слоты дня по сохранённой декларации.
// Свободные и заблокированные слоты удаляются, окно нарезается заново,
// забронированные слоты остаются на месте.
func (s *Service) Regenerate(ctx context.Context, masterID int64, date time.Time) (*models.RegenerateSlotsResponse, error) {
	s.logger.Info("Regenerate: regenerating slots for master=%d, date=%s", masterID, date.Format(domain.DateFormat))

	var resp models.RegenerateSlotsResponse

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		av, err := s.availabilityRepo.GetByMasterAndDate(ctx, masterID, date)
		if err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				s.logger.Warn("Regenerate: no availability for master=%d, date=%s", masterID, date.Format(domain.DateFormat))
				return ErrAvailabilityNotFound
			}
			s.logger.Error("Regenerate: repository error for master=%d: %v", masterID, err)
			return fmt.Errorf("%w: Regenerate - repository error: %v", ErrInternal, err)
		}

		deleted, generated, err := s.regenerateForDeclaration(ctx, av)
		if err != nil {
			return err
		}

		resp.Deleted = deleted
		resp.Generated = generated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Regenerate: master=%d, date=%s: deleted=%d, generated=%d",
		masterID, date.Format(domain.DateFormat), resp.Deleted, resp.Generated)
	return &resp, nil
}

// List возвращает живые декларации доступности мастера
func (s *Service) List(ctx context.Context, masterID int64) (*models.AvailabilityListResponse, error) {
	s.logger.Info("List: fetching availability for master=%d", masterID)

	avs, err := s.availabilityRepo.ListByMaster(ctx, masterID)
	if err != nil {
		s.logger.Error("List: repository error for master=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d availability rows for master=%d", len(avs), masterID)
	return models.FromDomainAvailabilityList(avs), nil
}

// ListWithSlots возвращает декларации мастера вместе с их слотами.
// При заданной дате выдается только декларация этого дня,
// день без декларации дает пустой список.
func (s *Service) ListWithSlots(ctx context.Context, masterID int64, date *time.Time) (*models.AvailabilityWithSlotsListResponse, error) {
	s.logger.Info("ListWithSlots: fetching availability with slots for master=%d, date=%v", masterID, date)

	var avs []*domain.Availability
	var err error

	if date != nil {
		av, err := s.availabilityRepo.GetByMasterAndDate(ctx, masterID, *date)
		if err != nil && !errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Error("ListWithSlots: repository error for master=%d: %v", masterID, err)
			return nil, fmt.Errorf("%w: ListWithSlots - repository error: %v", ErrInternal, err)
		}
		if av != nil {
			avs = append(avs, av)
		}
	} else {
		avs, err = s.availabilityRepo.ListByMaster(ctx, masterID)
		if err != nil {
			s.logger.Error("ListWithSlots: repository error for master=%d: %v", masterID, err)
			return nil, fmt.Errorf("%w: ListWithSlots - repository error: %v", ErrInternal, err)
		}
	}

	resp := &models.AvailabilityWithSlotsListResponse{
		Items: make([]models.AvailabilityWithSlotsResponse, 0, len(avs)),
	}

	for _, av := range avs {
		dayStart, dayEnd := dayRange(av.Date)
		slots, err := s.slotRepo.ListByMasterAndRange(ctx, masterID, dayStart, dayEnd)
		if err != nil {
			s.logger.Error("ListWithSlots: failed to fetch slots for availability id=%d: %v", av.ID, err)
			return nil, fmt.Errorf("%w: ListWithSlots - fetch slots: %v", ErrInternal, err)
		}

		resp.Items = append(resp.Items, models.AvailabilityWithSlotsResponse{
			Availability: *models.FromDomainAvailability(av),
			Slots:        models.FromDomainSlotList(slots),
		})
	}

	s.logger.Info("ListWithSlots: fetched %d availability rows for master=%d", len(resp.Items), masterID)
	return resp, nil
}

// Вспомогательные методы

// getOwned получает декларацию и проверяет, что она принадлежит мастеру.
// Чужая декларация неотличима от несуществующей.
func (s *Service) getOwned(ctx context.Context, availabilityID int64, masterID int64, method string) (*domain.Availability, error) {
	av, err := s.availabilityRepo.GetByID(ctx, availabilityID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("%s: availability id=%d not found", method, availabilityID)
			return nil, ErrAvailabilityNotFound
		}
		s.logger.Error("%s: repository error for availability id=%d: %v", method, availabilityID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}

	if av.MasterID != masterID {
		s.logger.Warn("%s: availability id=%d does not belong to master=%d", method, availabilityID, masterID)
		return nil, ErrAvailabilityNotFound
	}

	return av, nil
}

// regenerateForDeclaration удаляет незабронированные слоты дня и нарезает
// рабочее окно заново. Для закрытого дня слоты не генерируются.
func (s *Service) regenerateForDeclaration(ctx context.Context, av *domain.Availability) (int64, int, error) {
	dayStart, dayEnd := dayRange(av.Date)

	deleted, err := s.slotRepo.DeleteNonBookedByRange(ctx, av.MasterID, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("regenerateForDeclaration: failed to delete slots for availability id=%d: %v", av.ID, err)
		return 0, 0, fmt.Errorf("%w: regenerate - delete slots: %v", ErrInternal, err)
	}

	if !av.IsAvailable {
		return deleted, 0, nil
	}

	slots, err := GenerateSlots(av)
	if err != nil {
		s.logger.Warn("regenerateForDeclaration: invalid window for availability id=%d: %v", av.ID, err)
		return 0, 0, err
	}

	if len(slots) > 0 {
		if err := s.slotRepo.BulkCreate(ctx, slots); err != nil {
			s.logger.Error("regenerateForDeclaration: failed to create slots for availability id=%d: %v", av.ID, err)
			return 0, 0, fmt.Errorf("%w: regenerate - create slots: %v", ErrInternal, err)
		}
	}

	return deleted, len(slots), nil
}

// GenerateSlots нарезает рабочее окно декларации на свободные auto-слоты.
// Хвост окна короче длительности слота отбрасывается.
func GenerateSlots(av *domain.Availability) ([]*domain.Slot, error) {
	start, end, err := av.Window()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}

	window, err := schedule.NewTimeRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
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

func applyPatch(av *domain.Availability, patch domain.AvailabilityPatch) {
	if patch.StartTime != nil {
		av.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		av.EndTime = *patch.EndTime
	}
	if patch.SlotDurationMinutes != nil {
		av.SlotDurationMinutes = *patch.SlotDurationMinutes
	}
	if patch.IsAvailable != nil {
		av.IsAvailable = *patch.IsAvailable
	}
}

func validateWindow(av *domain.Availability) error {
	if !av.StartTime.IsBefore(av.EndTime) {
		return ErrInvalidTimeRange
	}
	if av.SlotDurationMinutes < domain.MinSlotDurationMinutes || av.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return ErrInvalidSlotDuration
	}
	return nil
}

func dayRange(date time.Time) (time.Time, time.Time) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return dayStart, dayStart.AddDate(0, 0, 1)
}
