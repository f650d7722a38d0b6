package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/scheduling"
)

// UseCase use case для получения слотов дня с признаком доступности
// Только читает: бронирования и блокировки берутся без блокировок строк.
type UseCase struct {
	bookingRepo  BookingRepository
	blockedRepo  BlockedTimeRepository
	settings     SettingsProvider
	generator    *scheduling.Generator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blockedRepo BlockedTimeRepository,
	settings SettingsProvider,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		blockedRepo:  blockedRepo,
		settings:     settings,
		generator:    scheduling.NewGenerator(location),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	loc := uc.generator.Location()
	day := uc.generator.DayBounds(req.Date)
	uc.logger.Debug("GetAvailability: date=%s tz=%s", day.Start.Format(domain.DateFormat), loc)

	// 2. Настройки расписания
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			uc.logger.Warn("GetAvailability: settings unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		uc.logger.Error("GetAvailability: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 3. Кандидаты по рабочим часам
	candidates, err := uc.generator.Slots(day.Start, settings.WorkingHours, settings.Policy())
	if err != nil {
		uc.logger.Warn("GetAvailability: invalid settings: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	resp := &Response{
		Date:     day.Start,
		Timezone: loc.String(),
		Slots:    make([]Slot, 0),
	}

	if settings.WorkingHours.For(day.Start.Weekday()) == nil {
		uc.logger.Info("GetAvailability: %s is a day off", day.Start.Format(domain.DateFormat))
		return resp, nil
	}

	// 4. Занятые и заблокированные интервалы дня
	bookings, err := uc.bookingRepo.ListActive(ctx, day.Start, day.End)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	blocked, err := uc.blockedRepo.ListInRange(ctx, day.Start, day.End)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
	}

	// 5. Классификация каждого кандидата
	classifier := scheduling.NewClassifier(
		scheduling.BookingIntervals(bookings),
		scheduling.BlockedIntervals(blocked),
		uc.timeProvider.Now(),
	)

	available := 0
	for candidate := range candidates {
		slot := classifier.Slot(candidate)
		if slot.Available {
			available++
		}
		resp.Slots = append(resp.Slots, Slot{
			StartTime: slot.Start.In(loc),
			EndTime:   slot.End.In(loc),
			Available: slot.Available,
			Reason:    slot.Reason,
		})
	}

	uc.logger.Info("GetAvailability: %d/%d slots available on %s", available, len(resp.Slots), day.Start.Format(domain.DateFormat))

	return resp, nil
}
