package blockedtimes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	blockedTimeRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/blockedtime"
	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes/models"
	"github.com/m04kA/SMC-CoachBooking/pkg/txmanager"
)

// Service управление интервалами, закрытыми тренером
type Service struct {
	repo         BlockedTimeRepository
	dayLocker    DayLocker
	txManager    TransactionManager
	location     *time.Location
	lockTimeout  time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(
	repo BlockedTimeRepository,
	dayLocker DayLocker,
	txManager TransactionManager,
	location *time.Location,
	lockTimeout time.Duration,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		dayLocker:    dayLocker,
		txManager:    txManager,
		location:     location,
		lockTimeout:  lockTimeout,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create закрывает интервал для бронирования
// Вставка идет под теми же блокировками дней, что и допуск бронирований, поэтому
// бронирование не может быть принято параллельно поверх создаваемой блокировки.
// Уже существующие бронирования в этом интервале не затрагиваются.
func (s *Service) Create(ctx context.Context, req *models.CreateBlockedTimeRequest) (*models.BlockedTimeResponse, error) {
	interval, err := domain.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	lockCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	var created *domain.BlockedTime
	err = s.txManager.Do(lockCtx, func(txCtx context.Context) error {
		if s.lockTimeout > 0 {
			if err := s.dayLocker.SetLockTimeout(txCtx, s.lockTimeout); err != nil {
				return err
			}
		}

		for _, day := range interval.LocalDays(s.location) {
			if err := s.dayLocker.LockDay(txCtx, day); err != nil {
				return err
			}
		}

		result, err := s.repo.Create(txCtx, &domain.BlockedTime{
			StartTime: interval.Start,
			EndTime:   interval.End,
			Reason:    req.Reason,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrLockTimeout) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("Create: timed out waiting for %s: %v", interval, err)
			return nil, fmt.Errorf("%w: %v", ErrLockTimeout, err)
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: blocked %s (id=%d)", interval, created.ID)

	resp := models.FromDomain(created, s.location)
	return &resp, nil
}

// List возвращает блокировки периода или все актуальные
func (s *Service) List(ctx context.Context, req *models.ListBlockedTimesRequest) (*models.BlockedTimeListResponse, error) {
	var (
		list []*domain.BlockedTime
		err  error
	)

	switch {
	case req.From != nil && req.To != nil:
		if !req.From.Before(*req.To) {
			return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
		}
		list, err = s.repo.ListInRange(ctx, *req.From, *req.To)
	case req.From != nil:
		list, err = s.repo.ListFrom(ctx, *req.From)
	default:
		list, err = s.repo.ListFrom(ctx, s.timeProvider.Now())
	}
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.BlockedTimeListResponse{BlockedTimes: make([]models.BlockedTimeResponse, 0, len(list))}
	for _, b := range list {
		resp.BlockedTimes = append(resp.BlockedTimes, models.FromDomain(b, s.location))
	}

	return resp, nil
}

// Delete снимает блокировку
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockedTimeRepo.ErrBlockedTimeNotFound) {
			s.logger.Warn("Delete: blocked time id=%d not found", id)
			return ErrBlockedTimeNotFound
		}
		s.logger.Error("Delete: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: blocked time id=%d removed", id)
	return nil
}
