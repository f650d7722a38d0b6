package get_availability

import (
	"context"
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/infra/storage/memory"
	settingsRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type staticSettings struct {
	settings *domain.Settings
	err      error
}

func (s staticSettings) Get(context.Context) (*domain.Settings, error) {
	return s.settings, s.err
}

// 2025-03-10 понедельник
var monday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func defaultSettings() *domain.Settings {
	return &domain.Settings{
		SessionDurationMinutes: 50,
		BufferTimeMinutes:      10,
		WorkingHours: domain.WorkingHours{
			"monday": {Start: "09:00", End: "12:00"},
		},
	}
}

type fixture struct {
	store  *memory.Store
	uc     *UseCase
	client *domain.Client
}

func newFixture(t *testing.T, settings SettingsProvider, now time.Time, loc *time.Location) *fixture {
	t.Helper()
	store := memory.NewStore()
	client, err := store.Clients().Upsert(context.Background(), &domain.Client{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	uc := NewUseCase(store.Bookings(), store.BlockedTimes(), settings, loc, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}

	return &fixture{store: store, uc: uc, client: client}
}

func (f *fixture) book(t *testing.T, start time.Time, minutes int, status domain.BookingStatus) {
	t.Helper()
	_, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		ClientID:  f.client.ID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Status:    status,
	})
	require.NoError(t, err)
}

func availability(resp *Response) []bool {
	out := make([]bool, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		out = append(out, s.Available)
	}
	return out
}

func TestUseCase_FreeDay(t *testing.T) {
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday.AddDate(0, 0, -1), time.UTC)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, []bool{true, true, true}, availability(resp))
	assert.Equal(t, monday.Add(9*time.Hour), resp.Slots[0].StartTime)
	assert.Equal(t, monday.Add(9*time.Hour+50*time.Minute), resp.Slots[0].EndTime)
	assert.Equal(t, monday.Add(11*time.Hour), resp.Slots[2].StartTime)
	assert.Equal(t, "UTC", resp.Timezone)
}

func TestUseCase_BookedSlot(t *testing.T) {
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday.AddDate(0, 0, -1), time.UTC)
	f.book(t, monday.Add(10*time.Hour), 50, domain.StatusApproved)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday})

	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, availability(resp))
	assert.Equal(t, domain.ConflictBooking, resp.Slots[1].Reason)
}

func TestUseCase_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday.AddDate(0, 0, -1), time.UTC)
	f.book(t, monday.Add(10*time.Hour), 50, domain.StatusCancelled)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday})

	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, availability(resp))
}

func TestUseCase_AdjacentBookingIsNotAConflict(t *testing.T) {
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday.AddDate(0, 0, -1), time.UTC)
	// заканчивается ровно в начале слота 10:00
	f.book(t, monday.Add(9*time.Hour+50*time.Minute), 10, domain.StatusPending)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday})

	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, availability(resp))
}

func TestUseCase_BlockedTime(t *testing.T) {
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday.AddDate(0, 0, -1), time.UTC)
	_, err := f.store.BlockedTimes().Create(context.Background(), &domain.BlockedTime{
		StartTime: monday.Add(11*time.Hour + 30*time.Minute),
		EndTime:   monday.Add(13 * time.Hour),
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday})

	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, availability(resp))
	assert.Equal(t, domain.ConflictBlocked, resp.Slots[2].Reason)
}

func TestUseCase_PastSlots(t *testing.T) {
	now := monday.Add(10*time.Hour + 10*time.Minute)
	f := newFixture(t, staticSettings{settings: defaultSettings()}, now, time.UTC)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday})

	require.NoError(t, err)
	// 10:00-10:50 еще идет, поэтому не считается прошедшим
	assert.Equal(t, []bool{false, true, true}, availability(resp))
	assert.Equal(t, domain.ConflictPast, resp.Slots[0].Reason)
}

func TestUseCase_DayOff(t *testing.T) {
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday.AddDate(0, 0, -1), time.UTC)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: monday.AddDate(0, 0, 1)})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_MissingSettings(t *testing.T) {
	notConfigured := fmt.Errorf("%w: settings: %v", domain.ErrConfiguration, settingsRepo.ErrSettingsNotFound)
	f := newFixture(t, staticSettings{err: notConfigured}, monday, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{Date: monday})

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
}

func TestUseCase_InvalidPolicy(t *testing.T) {
	broken := defaultSettings()
	broken.SessionDurationMinutes = 0
	f := newFixture(t, staticSettings{settings: broken}, monday, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{Date: monday})

	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
}

func TestUseCase_InvalidInput(t *testing.T) {
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Deterministic(t *testing.T) {
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday.Add(9*time.Hour), time.UTC)
	f.book(t, monday.Add(11*time.Hour), 50, domain.StatusPending)

	first, err := f.uc.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestUseCase_Timezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	f := newFixture(t, staticSettings{settings: defaultSettings()}, monday.AddDate(0, 0, -1), loc)
	// 10:00 по Нью-Йорку = 14:00 UTC (летнее время с 9 марта 2025)
	f.book(t, time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC), 50, domain.StatusApproved)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: time.Date(2025, time.March, 10, 0, 0, 0, 0, loc)})

	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, availability(resp))
	assert.Equal(t, "America/New_York", resp.Timezone)
	assert.Equal(t, 9, resp.Slots[0].StartTime.Hour())
}
