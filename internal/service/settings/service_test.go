package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/infra/cache"
	"github.com/m04kA/SMC-CoachBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CoachBooking/internal/service/settings/models"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
	"github.com/m04kA/SMC-CoachBooking/pkg/ptr"
)

type countingRepo struct {
	SettingsRepository
	gets int
}

func (r *countingRepo) Get(ctx context.Context) (*domain.Settings, error) {
	r.gets++
	return r.SettingsRepository.Get(ctx)
}

type failingCache struct{}

func (failingCache) Get(context.Context) (*domain.Settings, bool, error) {
	return nil, false, errors.New("redis down")
}
func (failingCache) Set(context.Context, *domain.Settings, time.Duration) error {
	return errors.New("redis down")
}
func (failingCache) Delete(context.Context) error { return errors.New("redis down") }

func validRequest() *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		SessionDurationMinutes: ptr.Ptr(50),
		BufferTimeMinutes:      ptr.Ptr(10),
		WorkingHours: &domain.WorkingHours{
			"monday": {Start: "09:00", End: "12:00"},
			"sunday": nil,
		},
		AdvanceBookingDays: ptr.Ptr(30),
	}
}

func newService(repo SettingsRepository, c Cache) *Service {
	return NewService(repo, c, time.Minute, time.UTC, logger.NewNop())
}

func TestService_Get_NotConfigured(t *testing.T) {
	svc := newService(memory.NewStore().Settings(), cache.NewMemory())

	_, err := svc.Get(context.Background())

	assert.ErrorIs(t, err, ErrSettingsNotConfigured)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
}

func TestService_Get_UsesCache(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{SettingsRepository: memory.NewStore().Settings()}
	svc := newService(repo, cache.NewMemory())
	_, err := svc.Update(ctx, validRequest())
	require.NoError(t, err)
	svc.Invalidate(ctx)
	repo.gets = 0

	for i := 0; i < 3; i++ {
		s, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 50, s.SessionDurationMinutes)
	}

	assert.Equal(t, 1, repo.gets)
}

func TestService_Update_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc := newService(memory.NewStore().Settings(), cache.NewMemory())
	_, err := svc.Update(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Get(ctx)
	require.NoError(t, err)

	_, err = svc.Update(ctx, &models.UpdateSettingsRequest{SessionDurationMinutes: ptr.Ptr(60)})
	require.NoError(t, err)

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, s.SessionDurationMinutes)
	assert.Equal(t, 10, s.BufferTimeMinutes, "untouched fields are kept")
}

func TestService_Update_PrimesCache(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{SettingsRepository: memory.NewStore().Settings()}
	svc := newService(repo, cache.NewMemory())
	_, err := svc.Update(ctx, validRequest())
	require.NoError(t, err)
	repo.gets = 0

	s, err := svc.Get(ctx)

	require.NoError(t, err)
	assert.Equal(t, 50, s.SessionDurationMinutes)
	assert.Zero(t, repo.gets)
}

// versionedRepo выдает каждой сохраненной версии UpdatedAt на минуту позже предыдущей
// beforeReturn вызывается в Get после чтения, до возврата результата
type versionedRepo struct {
	current      *domain.Settings
	beforeReturn func()
}

func (r *versionedRepo) Get(context.Context) (*domain.Settings, error) {
	copied := *r.current
	if hook := r.beforeReturn; hook != nil {
		r.beforeReturn = nil
		hook()
	}
	return &copied, nil
}

func (r *versionedRepo) Save(_ context.Context, s *domain.Settings) (*domain.Settings, error) {
	saved := *s
	saved.UpdatedAt = r.current.UpdatedAt.Add(time.Minute)
	r.current = &saved
	copied := saved
	return &copied, nil
}

func TestService_Get_DoesNotCacheValueReadBeforeUpdate(t *testing.T) {
	ctx := context.Background()
	repo := &versionedRepo{current: &domain.Settings{
		SessionDurationMinutes: 50,
		BufferTimeMinutes:      10,
		WorkingHours:           domain.WorkingHours{"monday": {Start: "09:00", End: "12:00"}},
		UpdatedAt:              time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
	}}
	shared := cache.NewMemory()
	reader := newService(repo, shared)
	writer := newService(repo, shared)

	// Обновление завершается между чтением репозитория и записью в кэш
	repo.beforeReturn = func() {
		_, err := writer.Update(ctx, &models.UpdateSettingsRequest{SessionDurationMinutes: ptr.Ptr(60)})
		require.NoError(t, err)
	}

	stale, err := reader.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, stale.SessionDurationMinutes)

	fresh, err := reader.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, fresh.SessionDurationMinutes)
}

func TestService_Get_CacheFailureFallsBackToRepository(t *testing.T) {
	ctx := context.Background()
	svc := newService(memory.NewStore().Settings(), failingCache{})
	_, err := svc.Update(ctx, validRequest())
	require.NoError(t, err)

	s, err := svc.Get(ctx)

	require.NoError(t, err)
	assert.Equal(t, 50, s.SessionDurationMinutes)
}

func TestService_Update_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.UpdateSettingsRequest)
	}{
		{"duration too short", func(r *models.UpdateSettingsRequest) { r.SessionDurationMinutes = ptr.Ptr(4) }},
		{"duration too long", func(r *models.UpdateSettingsRequest) { r.SessionDurationMinutes = ptr.Ptr(481) }},
		{"negative buffer", func(r *models.UpdateSettingsRequest) { r.BufferTimeMinutes = ptr.Ptr(-1) }},
		{"buffer too long", func(r *models.UpdateSettingsRequest) { r.BufferTimeMinutes = ptr.Ptr(241) }},
		{"advance too far", func(r *models.UpdateSettingsRequest) { r.AdvanceBookingDays = ptr.Ptr(366) }},
		{"no working hours", func(r *models.UpdateSettingsRequest) { r.WorkingHours = nil }},
		{"start after end", func(r *models.UpdateSettingsRequest) {
			r.WorkingHours = &domain.WorkingHours{"monday": {Start: "12:00", End: "09:00"}}
		}},
		{"bad time format", func(r *models.UpdateSettingsRequest) {
			r.WorkingHours = &domain.WorkingHours{"monday": {Start: "9am", End: "12:00"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(memory.NewStore().Settings(), cache.NewMemory())
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Update(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestService_GetSettings(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("Coach", 3*60*60)
	svc := NewService(memory.NewStore().Settings(), nil, 0, loc, logger.NewNop())
	_, err := svc.Update(ctx, validRequest())
	require.NoError(t, err)

	resp, err := svc.GetSettings(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Coach", resp.Timezone)
	assert.Equal(t, 30, resp.AdvanceBookingDays)
	assert.Nil(t, resp.WorkingHours["sunday"])
}
