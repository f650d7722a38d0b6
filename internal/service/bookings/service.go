package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBooking/internal/service/bookings/models"
)

// Service сервис просмотра бронирований и смены их статуса тренером
type Service struct {
	bookingRepo BookingRepository
	clientRepo  ClientRepository
	location    *time.Location
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	clientRepo ClientRepository,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		clientRepo:  clientRepo,
		location:    location,
		logger:      logger,
	}
}

// GetByID получает бронирование с контактами клиента
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetWithClient(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomain(booking, s.location)
	return &resp, nil
}

// List возвращает бронирования по фильтрам, по возрастанию времени начала
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	var filter domain.BookingsFilter

	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	if req.Date != nil {
		y, m, d := req.Date.Date()
		from := time.Date(y, m, d, 0, 0, 0, 0, s.location)
		to := time.Date(y, m, d+1, 0, 0, 0, 0, s.location)
		filter.From = &from
		filter.To = &to
	}

	filter.ClientID = req.ClientID

	list, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.BookingListResponse{
		Bookings: make([]models.BookingResponse, 0, len(list)),
		Total:    len(list),
	}
	for _, b := range list {
		resp.Bookings = append(resp.Bookings, models.FromDomain(b, s.location))
	}

	return resp, nil
}

// Approve pending -> approved
func (s *Service) Approve(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return s.Transition(ctx, id, domain.ActionApprove)
}

// Reject pending|approved -> cancelled
func (s *Service) Reject(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return s.Transition(ctx, id, domain.ActionReject)
}

// Complete approved -> completed, затем обновляет дату последней сессии клиента
func (s *Service) Complete(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return s.Transition(ctx, id, domain.ActionComplete)
}

// Transition применяет действие тренера к бронированию
// Статус меняется условным UPDATE по ожидаемому статусу, поэтому конкурентные переходы не перетирают друг друга.
func (s *Service) Transition(ctx context.Context, id int64, action domain.BookingAction) (*models.BookingResponse, error) {
	s.logger.Info("Transition: %s booking id=%d", action, id)

	target, ok := action.Target()
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}

	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Transition: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Transition: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	if !action.CanApply(current.Status) {
		s.logger.Warn("Transition: cannot %s booking id=%d in status %s", action, id, current.Status)
		return nil, transitionError(action, current.Status)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, current.Status, target)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusMismatch) {
			return nil, s.resolveMismatch(ctx, id, action)
		}
		s.logger.Error("Transition: failed to update booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	if action == domain.ActionComplete {
		if err := s.clientRepo.TouchLastSession(ctx, updated.ClientID, updated.EndTime); err != nil {
			s.logger.Warn("Transition: failed to update last session of client id=%d: %v", updated.ClientID, err)
		}
	}

	s.logger.Info("Transition: booking id=%d moved %s -> %s", id, current.Status, target)

	return s.GetByID(ctx, id)
}

// resolveMismatch перечитывает бронирование после неудачного условного обновления
func (s *Service) resolveMismatch(ctx context.Context, id int64, action domain.BookingAction) error {
	latest, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	s.logger.Warn("Transition: booking id=%d changed concurrently, now %s", id, latest.Status)
	return transitionError(action, latest.Status)
}

func transitionError(action domain.BookingAction, from domain.BookingStatus) error {
	if action == domain.ActionApprove && from == domain.StatusApproved {
		return ErrAlreadyApproved
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: booking is already %s", ErrBookingClosed, from)
	}
	return fmt.Errorf("%w: cannot %s booking in status %s", ErrInvalidTransition, action, from)
}
