package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/decor-rental-service/internal/domain"
	bookingRepo "github.com/m04kA/decor-rental-service/internal/infra/storage/booking"
	"github.com/m04kA/decor-rental-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !canAccess(booking, actor) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	filter := domain.UserBookingsFilter{UserID: req.UserID}

	// Конвертируем статус из строки в domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetItemBookings получает бронирования товара с фильтрацией
// Доступно только администраторам
//
// Примеры использования:
// - Все активные бронирования: GetItemBookings(ctx, &GetItemBookingsRequest{ItemID: 7})
// - Бронирования, пересекающиеся с выходными: From = пятница, To = воскресенье
// - Только подтвержденные: Status = "confirmed"
// - Включая отмененные и истекшие: IncludeInactive = true
func (s *Service) GetItemBookings(ctx context.Context, req *models.GetItemBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetItemBookings: fetching bookings for item=%d, user=%d, status=%v, includeInactive=%t",
		req.ItemID, req.Actor.UserID, req.Status, req.IncludeInactive)

	if !req.Actor.IsAdmin {
		s.logger.Warn("GetItemBookings: user=%d is not an admin", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	if req.ItemID <= 0 {
		return nil, fmt.Errorf("%w: itemId must be positive", ErrInvalidInput)
	}
	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		s.logger.Warn("GetItemBookings: empty period for item=%d", req.ItemID)
		return nil, fmt.Errorf("%w: to must be after from", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetItemBookings: invalid filter for item=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByItemWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetItemBookings: repository error for item=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: GetItemBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetItemBookings: successfully fetched %d bookings for item=%d", len(bookings), req.ItemID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает единицы товара
// Пользователь может отменить своё бронирование, администратор - любое
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.Actor.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason is longer than %d", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование с блокировкой строки
		booking, err := s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		// 2. Проверяем права доступа
		if !canAccess(booking, req.Actor) {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.Actor.UserID, bookingID)
			return ErrAccessDenied
		}

		// 3. Проверяем, можно ли отменить бронирование
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		// 4. Отменяем
		if err := s.bookingRepo.Cancel(txCtx, bookingID, booking.Status, req.CancellationReason); err != nil {
			return s.mapWriteError("Cancel", bookingID, err)
		}

		now := s.timeProvider.Now()
		reason := req.CancellationReason
		booking.Status = domain.StatusCancelled
		booking.CancellationReason = &reason
		booking.CancelledAt = &now
		booking.UpdatedAt = now
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	s.publish(ctx, result)
	return models.FromDomainBooking(result), nil
}

// UpdateStatus переводит бронирование по жизненному циклу
// Доступно только администраторам: confirmed, picked_up, returned
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.Actor.UserID)

	if !req.Actor.IsAdmin {
		s.logger.Warn("UpdateStatus: user=%d is not an admin", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Отмена и истечение идут своими путями: с причиной и по таймеру
	if newStatus == domain.StatusCancelled || newStatus == domain.StatusExpired {
		return nil, fmt.Errorf("%w: use cancel endpoint for %s", ErrInvalidTransition, newStatus)
	}

	var result *domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
				booking.Status, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, booking.Status, newStatus); err != nil {
			return s.mapWriteError("UpdateStatus", bookingID, err)
		}

		booking.Status = newStatus
		booking.UpdatedAt = s.timeProvider.Now()
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	s.publish(ctx, result)
	return models.FromDomainBooking(result), nil
}

// ExpireStaleHolds переводит в expired неподтвержденные брони старше ttl
// Возвращает количество освобожденных броней
func (s *Service) ExpireStaleHolds(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.timeProvider.Now().Add(-ttl)

	expired, err := s.bookingRepo.ExpirePending(ctx, cutoff)
	if err != nil {
		s.logger.Error("ExpireStaleHolds: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpireStaleHolds - repository error: %v", ErrInternal, err)
	}

	if len(expired) == 0 {
		return 0, nil
	}

	s.metrics.ObserveHoldsExpired(len(expired))
	for _, booking := range expired {
		s.logger.Info("ExpireStaleHolds: booking id=%d (order=%s) expired", booking.ID, booking.OrderID)
		s.publish(ctx, booking)
	}

	return len(expired), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, method string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", method, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return booking, nil
}

func (s *Service) mapWriteError(method string, id int64, err error) error {
	if errors.Is(err, bookingRepo.ErrStatusConflict) {
		s.logger.Warn("%s: booking id=%d status changed concurrently", method, id)
		return ErrStatusChanged
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", method, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
}

// publish отправляет событие после коммита; сбой публикации не откатывает изменение
func (s *Service) publish(ctx context.Context, booking *domain.Booking) {
	event := domain.NewBookingEvent(domain.EventBookingStatusChanged, booking, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("publish: failed to publish %s for booking id=%d: %v", event.Type, booking.ID, err)
	}
}

// canAccess проверяет, что пользователь владелец бронирования или администратор
func canAccess(booking *domain.Booking, actor models.Actor) bool {
	return actor.IsAdmin || booking.UserID == actor.UserID
}
