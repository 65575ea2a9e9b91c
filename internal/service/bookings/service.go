package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonmarket/booking-service/internal/domain"
	bookingRepo "github.com/salonmarket/booking-service/internal/infra/storage/booking"
	"github.com/salonmarket/booking-service/internal/schedule"
	"github.com/salonmarket/booking-service/internal/service/bookings/models"
	"github.com/salonmarket/booking-service/pkg/ptr"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetMasterBookings получает бронирования мастера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отменённых бронирований
//
// Примеры использования:
// - Все актуальные бронирования: GetMasterBookings(ctx, &GetMasterBookingsRequest{MasterID: 123})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования за период: StartDate и EndDate указывают на разные даты
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeCancelled = true
func (s *Service) GetMasterBookings(ctx context.Context, req *models.GetMasterBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetMasterBookings: fetching bookings for master=%d", req.MasterID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetMasterBookings: invalid filter for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByMasterWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetMasterBookings: repository error for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: GetMasterBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMasterBookings: successfully fetched %d bookings for master=%d", len(bookings), req.MasterID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование.
// Отменить можно только pending или confirmed бронирование; связанный слот
// освобождается в той же транзакции.
func (s *Service) Cancel(ctx context.Context, bookingID int64) error {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrBookingImmutable
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID); err != nil {
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Освобождаем слот, если бронирование было к нему привязано
		if booking.SlotID != nil {
			if err := s.slotRepo.UpdateStatus(ctx, *booking.SlotID, domain.SlotStatusFree, nil); err != nil {
				s.logger.Error("Cancel: failed to free slot id=%d for booking id=%d: %v", *booking.SlotID, bookingID, err)
				return fmt.Errorf("%w: Cancel - free slot: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// Confirm переводит pending бронирование в confirmed.
// Повторное подтверждение confirmed бронирования - no-op.
func (s *Service) Confirm(ctx context.Context, bookingID int64) error {
	s.logger.Info("Confirm: confirming booking id=%d", bookingID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Confirm: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Confirm: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
		}

		if booking.IsConfirmed() {
			return nil
		}

		if !booking.CanBeConfirmed() {
			s.logger.Warn("Confirm: booking id=%d cannot be confirmed, status=%s", bookingID, booking.Status)
			return ErrBookingImmutable
		}

		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusConfirmed); err != nil {
			s.logger.Error("Confirm: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return nil
}

// Update изменяет бронирование.
// Перенос по времени заново проверяет конфликты с confirmed-бронированиями
// мастера (кроме самого бронирования) под SERIALIZABLE транзакцией.
func (s *Service) Update(ctx context.Context, bookingID int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%d", bookingID)

	if err := validateComments(req); err != nil {
		s.logger.Warn("Update: invalid comment for booking id=%d", bookingID)
		return nil, err
	}

	var updated *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Update: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Update: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if !booking.CanBeUpdated() {
			s.logger.Warn("Update: booking id=%d cannot be updated, status=%s", bookingID, booking.Status)
			return ErrBookingImmutable
		}

		if req.StartTime != nil {
			booking.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			booking.EndTime = *req.EndTime
		}
		if req.Comment != nil {
			booking.Comment = req.Comment
		}
		if req.MasterComment != nil {
			booking.MasterComment = req.MasterComment
		}

		if req.ChangesTime() {
			if err := s.checkTimeConflict(ctx, booking); err != nil {
				return err
			}
		}

		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrTimeConflict) {
				s.logger.Warn("Update: time conflict for booking id=%d", bookingID)
				return ErrTimeConflict
			}
			s.logger.Error("Update: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated booking id=%d", bookingID)
	return models.FromDomainBooking(updated), nil
}

// Вспомогательные методы

// checkTimeConflict проверяет, что новый интервал бронирования не пересекается
// с confirmed-бронированиями мастера на ту же дату. Смежные интервалы
// конфликтом не считаются.
func (s *Service) checkTimeConflict(ctx context.Context, booking *domain.Booking) error {
	candidate, err := schedule.NewTimeRange(booking.StartTime, booking.EndTime)
	if err != nil {
		s.logger.Warn("checkTimeConflict: invalid time range for booking id=%d", booking.ID)
		return ErrInvalidTimeRange
	}

	date := booking.StartTime
	existing, err := s.bookingRepo.GetByMasterWithFilter(ctx, domain.MasterBookingsFilter{
		MasterID:  booking.MasterID,
		StartDate: &date,
		EndDate:   &date,
		Status:    ptr.Ptr(domain.StatusConfirmed),
	})
	if err != nil {
		s.logger.Error("checkTimeConflict: repository error for master=%d: %v", booking.MasterID, err)
		return fmt.Errorf("%w: checkTimeConflict - repository error: %v", ErrInternal, err)
	}

	for _, other := range existing {
		if other.ID == booking.ID {
			continue
		}
		busy, err := schedule.NewTimeRange(other.StartTime, other.EndTime)
		if err != nil {
			continue
		}
		if candidate.Overlaps(busy) {
			s.logger.Warn("checkTimeConflict: booking id=%d conflicts with booking id=%d", booking.ID, other.ID)
			return ErrTimeConflict
		}
	}

	return nil
}

func validateComments(req *models.UpdateBookingRequest) error {
	if req.Comment != nil && len(*req.Comment) > domain.MaxCommentLength {
		return fmt.Errorf("%w: comment too long", ErrInvalidInput)
	}
	if req.MasterComment != nil && len(*req.MasterComment) > domain.MaxCommentLength {
		return fmt.Errorf("%w: master comment too long", ErrInvalidInput)
	}
	return nil
}
