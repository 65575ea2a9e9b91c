package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
	bookingRepo "github.com/salonmarket/booking-service/internal/infra/storage/booking"
	catalogRepo "github.com/salonmarket/booking-service/internal/infra/storage/catalog"
	"github.com/salonmarket/booking-service/internal/schedule"
	"github.com/salonmarket/booking-service/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	catalog      CatalogProvider
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	catalog CatalogProvider,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		catalog:      catalog,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка конфликтов и вставка выполняются в сериализуемой транзакции,
// чтобы две конкурирующие заявки на пересекающиеся интервалы не прошли обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, master=%d, service=%d, start=%s",
		req.ClientID, req.MasterID, req.ServiceID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем участников через каталог
	client, err := uc.resolveClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	master, err := uc.resolveMaster(ctx, req.MasterID)
	if err != nil {
		return nil, err
	}

	service, err := uc.resolveService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 3. Услуга должна принадлежать выбранному мастеру
	if !service.BelongsTo(master.ID) {
		uc.logger.Warn("CreateBooking: service id=%d is not offered by master id=%d", service.ID, master.ID)
		return nil, ErrServiceNotOfferedByMaster
	}

	// 4. Конец интервала: явный или из длительности услуги
	endTime := req.StartTime.Add(time.Duration(service.DurationMinutes) * time.Minute)
	if req.EndTime != nil {
		endTime = *req.EndTime
	}

	candidate, err := schedule.NewTimeRange(req.StartTime, endTime)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid time range for client=%d", req.ClientID)
		return nil, ErrInvalidTimeRange
	}

	if req.StartTime.Before(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateBooking: start time %s is in the past", req.StartTime.Format(time.RFC3339))
		return nil, ErrInvalidDate
	}

	var result *domain.Booking

	// 5. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Берём подтвержденные бронирования мастера на эту дату с блокировкой (FOR UPDATE)
		date := req.StartTime
		existing, err := uc.bookingRepo.GetByMasterWithFilter(txCtx, domain.MasterBookingsFilter{
			MasterID:  req.MasterID,
			StartDate: &date,
			EndDate:   &date,
			Status:    ptr.Ptr(domain.StatusConfirmed),
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 5.2. Смежные интервалы конфликтом не считаются
		for _, other := range existing {
			busy, err := schedule.NewTimeRange(other.StartTime, other.EndTime)
			if err != nil {
				continue
			}
			if candidate.Overlaps(busy) {
				uc.logger.Warn("CreateBooking: time conflict with booking id=%d for master=%d", other.ID, req.MasterID)
				return ErrTimeConflict
			}
		}

		// 5.3. Привязка к слоту: слот должен существовать, принадлежать мастеру и быть свободным
		if req.SlotID != nil {
			if err := uc.claimSlot(txCtx, *req.SlotID, req.MasterID); err != nil {
				return err
			}
		}

		// 5.4. Создаем бронирование с денормализацией данных услуги.
		// Создаваемое бронирование сразу confirmed и участвует в проверке конфликтов.
		booking := &domain.Booking{
			ClientID:    client.ID,
			MasterID:    master.ID,
			ServiceID:   service.ID,
			SlotID:      req.SlotID,
			StartTime:   candidate.Start,
			EndTime:     candidate.End,
			Status:      domain.StatusConfirmed,
			ServiceName: service.Name,
			Price:       service.Price,
			Comment:     req.Comment,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrTimeConflict) {
				uc.logger.Warn("CreateBooking: time conflict detected by storage for master=%d", req.MasterID)
				return ErrTimeConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 5.5. Помечаем слот занятым и связываем с бронированием
		if req.SlotID != nil {
			if err := uc.slotRepo.UpdateStatus(txCtx, *req.SlotID, domain.SlotStatusBooked, &created.ID); err != nil {
				uc.logger.Error("CreateBooking: failed to mark slot id=%d booked: %v", *req.SlotID, err)
				return fmt.Errorf("%w: failed to mark slot booked: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:          result.ID,
		ClientID:    result.ClientID,
		MasterID:    result.MasterID,
		ServiceID:   result.ServiceID,
		SlotID:      result.SlotID,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		Status:      string(result.Status),
		ServiceName: result.ServiceName,
		Price:       result.Price,
		Comment:     result.Comment,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}

// claimSlot проверяет, что слот существует, принадлежит мастеру и свободен
func (uc *UseCase) claimSlot(ctx context.Context, slotID int64, masterID int64) error {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot id=%d not found: %v", slotID, err)
		return ErrSlotNotFound
	}

	if slot.MasterID != masterID {
		uc.logger.Warn("CreateBooking: slot id=%d belongs to master=%d, not master=%d", slotID, slot.MasterID, masterID)
		return ErrSlotUnavailable
	}

	if !slot.IsFree() {
		uc.logger.Warn("CreateBooking: slot id=%d is %s", slotID, slot.Status)
		return ErrSlotUnavailable
	}

	return nil
}

func (uc *UseCase) resolveClient(ctx context.Context, clientID int64) (*domain.Client, error) {
	client, err := uc.catalog.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateBooking: client id=%d not found", clientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateBooking: failed to get client id=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}
	return client, nil
}

func (uc *UseCase) resolveMaster(ctx context.Context, masterID int64) (*domain.Master, error) {
	master, err := uc.catalog.GetMaster(ctx, masterID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			uc.logger.Warn("CreateBooking: master id=%d not found", masterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("CreateBooking: failed to get master id=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}
	return master, nil
}

func (uc *UseCase) resolveService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	service, err := uc.catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return service, nil
}
