package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBooking/internal/scheduling"
	"github.com/m04kA/SMC-CoachBooking/pkg/metrics"
	"github.com/m04kA/SMC-CoachBooking/pkg/txmanager"
)

// UseCase use case допуска нового бронирования
// Проверка свободности и вставка выполняются атомарно под блокировкой дня.
type UseCase struct {
	bookingRepo  BookingRepository
	clientRepo   ClientRepository
	blockedRepo  BlockedTimeRepository
	settings     SettingsProvider
	txManager    TransactionManager
	generator    *scheduling.Generator
	lockTimeout  time.Duration
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	clientRepo ClientRepository,
	blockedRepo BlockedTimeRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	location *time.Location,
	lockTimeout time.Duration,
	m Metrics,
	logger Logger,
) *UseCase {
	if m == nil {
		m = noopMetrics{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		clientRepo:   clientRepo,
		blockedRepo:  blockedRepo,
		settings:     settings,
		txManager:    txManager,
		generator:    scheduling.NewGenerator(location),
		lockTimeout:  lockTimeout,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	started := time.Now()

	resp, err := uc.admit(ctx, req)
	uc.metrics.ObserveAdmission(outcome(err), time.Since(started))

	return resp, err
}

func (uc *UseCase) admit(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	interval, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	loc := uc.generator.Location()
	uc.logger.Info("CreateBooking: email=%s, interval=%s", domain.NormalizeEmail(req.ClientEmail), interval.In(loc))

	now := uc.timeProvider.Now()
	if interval.IsPast(now) {
		uc.logger.Warn("CreateBooking: interval %s is in the past", interval.In(loc))
		return nil, ErrSlotInPast
	}

	// 2. Настройки расписания
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			uc.logger.Warn("CreateBooking: settings unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		uc.logger.Error("CreateBooking: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 3. Горизонт предварительной записи
	slotDay := uc.generator.DayBounds(interval.Start).Start
	today := uc.generator.DayBounds(now).Start
	if err := validateHorizon(slotDay, today, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 4. Интервал должен совпадать со слотом сетки
	onGrid, err := uc.generator.Contains(interval, settings.WorkingHours, settings.Policy())
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid settings: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	if !onGrid {
		uc.logger.Warn("CreateBooking: interval %s does not match any slot", interval.In(loc))
		return nil, fmt.Errorf("%w: %s does not match the %d+%d minute grid",
			ErrInvalidTimeSlot, interval.In(loc), settings.SessionDurationMinutes, settings.BufferTimeMinutes)
	}

	// 5. Клиент по нормализованному email (идемпотентно)
	client, err := uc.clientRepo.Upsert(ctx, &domain.Client{
		Name:  strings.TrimSpace(req.ClientName),
		Email: domain.NormalizeEmail(req.ClientEmail),
		Phone: req.ClientPhone,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve client: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve client: %v", ErrInternal, err)
	}

	// 6. Проверка и вставка в сериализуемой транзакции под блокировкой дня
	var result *domain.Booking

	admitCtx := ctx
	if uc.lockTimeout > 0 {
		var cancel context.CancelFunc
		admitCtx, cancel = context.WithTimeout(ctx, uc.lockTimeout)
		defer cancel()
	}

	err = uc.txManager.DoSerializable(admitCtx, func(txCtx context.Context) error {
		// 6.1. Ограничиваем ожидание блокировок
		if uc.lockTimeout > 0 {
			if err := uc.bookingRepo.SetLockTimeout(txCtx, uc.lockTimeout); err != nil {
				return fmt.Errorf("%w: failed to set lock timeout: %w", ErrInternal, err)
			}
		}

		// 6.2. Блокируем все затронутые дни по возрастанию
		for _, day := range interval.LocalDays(loc) {
			if err := uc.bookingRepo.LockDay(txCtx, day); err != nil {
				return fmt.Errorf("%w: failed to lock day %s: %w", ErrInternal, day.Format(domain.DateFormat), err)
			}
		}

		// 6.3. Активные бронирования, пересекающиеся с интервалом (FOR UPDATE)
		bookings, err := uc.bookingRepo.ListActive(txCtx, interval.Start, interval.End)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}
		for _, b := range bookings {
			if b.Interval().Overlaps(interval) {
				uc.logger.Warn("CreateBooking: interval %s overlaps booking id=%d", interval.In(loc), b.ID)
				return ErrSlotConflict
			}
		}

		// 6.4. Блокировки времени коуча
		blocked, err := uc.blockedRepo.ListInRange(txCtx, interval.Start, interval.End)
		if err != nil {
			return fmt.Errorf("%w: failed to get blocked times: %w", ErrInternal, err)
		}
		for _, b := range blocked {
			if b.Interval().Overlaps(interval) {
				uc.logger.Warn("CreateBooking: interval %s overlaps blocked time id=%d", interval.In(loc), b.ID)
				return ErrSlotConflict
			}
		}

		// 6.5. Создаем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ClientID:  client.ID,
			StartTime: interval.Start,
			EndTime:   interval.End,
			Status:    domain.StatusPending,
			Notes:     req.Notes,
			Token:     uuid.NewString(),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(ctx, interval, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d for client id=%d", result.ID, client.ID)

	return &Response{
		ID:          result.ID,
		ClientID:    result.ClientID,
		StartTime:   result.StartTime.In(loc),
		EndTime:     result.EndTime.In(loc),
		Status:      result.Status,
		Notes:       result.Notes,
		Token:       result.Token,
		ClientName:  client.Name,
		ClientEmail: client.Email,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}

// mapTxError сводит ошибки транзакции к ошибкам use case
// Ограничение исключения означает, что конкурент успел раньше.
func (uc *UseCase) mapTxError(ctx context.Context, interval domain.Interval, err error) error {
	switch {
	case errors.Is(err, ErrSlotConflict):
		return ErrSlotConflict
	case errors.Is(err, bookingRepo.ErrOverlap):
		uc.logger.Warn("CreateBooking: lost race for %s: %v", interval, err)
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)
	case errors.Is(err, txmanager.ErrSerializationFailure):
		return uc.recheckAfterAbort(ctx, interval, err)
	case errors.Is(err, txmanager.ErrLockTimeout), errors.Is(err, context.DeadlineExceeded):
		uc.logger.Warn("CreateBooking: timed out waiting for %s: %v", interval, err)
		return fmt.Errorf("%w: %v", ErrAdmissionTimeout, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: %v", err)
		return err
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// recheckAfterAbort перечитывает интервал после сбоя сериализации
// SERIALIZABLE может прервать транзакцию и без пересечения (например, из-за чтений по индексу
// соседней даты), поэтому конфликт возвращается, только если интервал действительно занят.
func (uc *UseCase) recheckAfterAbort(ctx context.Context, interval domain.Interval, cause error) error {
	bookings, err := uc.bookingRepo.ListActive(ctx, interval.Start, interval.End)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to recheck bookings after %v: %v", cause, err)
		return fmt.Errorf("%w: recheck bookings: %v", ErrInternal, err)
	}
	for _, b := range bookings {
		if b.Interval().Overlaps(interval) {
			uc.logger.Warn("CreateBooking: lost race for %s to booking id=%d: %v", interval, b.ID, cause)
			return fmt.Errorf("%w: %v", ErrSlotConflict, cause)
		}
	}

	blocked, err := uc.blockedRepo.ListInRange(ctx, interval.Start, interval.End)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to recheck blocked times after %v: %v", cause, err)
		return fmt.Errorf("%w: recheck blocked times: %v", ErrInternal, err)
	}
	for _, b := range blocked {
		if b.Interval().Overlaps(interval) {
			uc.logger.Warn("CreateBooking: %s was blocked concurrently (id=%d): %v", interval, b.ID, cause)
			return fmt.Errorf("%w: %v", ErrSlotConflict, cause)
		}
	}

	uc.logger.Warn("CreateBooking: %s is free but the transaction was aborted: %v", interval, cause)
	return fmt.Errorf("%w: %v", ErrAdmissionAborted, cause)
}

// outcome метка исхода для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.AdmissionCreated
	case errors.Is(err, domain.ErrSlotConflict):
		return metrics.AdmissionConflict
	case errors.Is(err, ErrAdmissionTimeout):
		return metrics.AdmissionTimeout
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConfiguration):
		return metrics.AdmissionRejected
	default:
		return metrics.AdmissionError
	}
}
