package clients

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients/models"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
	"github.com/m04kA/SMC-CoachBooking/pkg/ptr"
)

var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	store *memory.Store
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store.Clients(), store.Bookings(), time.UTC, logger.NewNop())
	svc.timeProvider = fixedTime{now: now}
	return &fixture{store: store, svc: svc}
}

func (f *fixture) client(t *testing.T, name, email string) *models.ClientResponse {
	t.Helper()
	c, err := f.svc.Create(context.Background(), &models.CreateClientRequest{Name: name, Email: email})
	require.NoError(t, err)
	return c
}

func (f *fixture) book(t *testing.T, clientID int64, start time.Time, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		ClientID:  clientID,
		StartTime: start,
		EndTime:   start.Add(50 * time.Minute),
		Status:    status,
	})
	require.NoError(t, err)
	return b
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), &models.CreateClientRequest{
		Name:  "  Jane  ",
		Email: " Jane@Example.COM ",
		Phone: ptr.Ptr("+100"),
	})

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Jane", resp.Name)
	assert.Equal(t, "jane@example.com", resp.Email)
	assert.False(t, resp.Archived)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.client(t, "Jane", "jane@example.com")

	_, err := f.svc.Create(context.Background(), &models.CreateClientRequest{Name: "Other", Email: "JANE@example.com"})

	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, domain.KindAlreadyExists, domain.KindOf(err))
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateClientRequest
	}{
		{"empty name", models.CreateClientRequest{Name: "  ", Email: "a@b.c"}},
		{"no at sign", models.CreateClientRequest{Name: "Jane", Email: "jane.example.com"}},
		{"empty local part", models.CreateClientRequest{Name: "Jane", Email: "@example.com"}},
		{"empty domain", models.CreateClientRequest{Name: "Jane", Email: "jane@"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Create(context.Background(), &tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), 42, false)

	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestService_Get_WithStats(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Jane", "jane@example.com")
	f.book(t, c.ID, now.Add(-48*time.Hour), domain.StatusCompleted)
	f.book(t, c.ID, now.Add(24*time.Hour), domain.StatusApproved)
	f.book(t, c.ID, now.Add(48*time.Hour), domain.StatusPending)
	f.book(t, c.ID, now.Add(72*time.Hour), domain.StatusCancelled)

	resp, err := f.svc.Get(context.Background(), c.ID, true)

	require.NoError(t, err)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 4, resp.Stats.TotalSessions)
	assert.Equal(t, 2, resp.Stats.UpcomingSessions)

	plain, err := f.svc.Get(context.Background(), c.ID, false)
	require.NoError(t, err)
	assert.Nil(t, plain.Stats)
}

func TestService_Update(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Jane", "jane@example.com")

	resp, err := f.svc.Update(context.Background(), c.ID, &models.UpdateClientRequest{
		Name:  ptr.Ptr("Jane Doe"),
		Notes: ptr.Ptr("prefers mornings"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resp.Name)
	assert.Equal(t, "jane@example.com", resp.Email)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "prefers mornings", *resp.Notes)
}

func TestService_Update_EmailTaken(t *testing.T) {
	f := newFixture(t)
	f.client(t, "Jane", "jane@example.com")
	john := f.client(t, "John", "john@example.com")

	_, err := f.svc.Update(context.Background(), john.ID, &models.UpdateClientRequest{Email: ptr.Ptr("jane@example.com")})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestService_Update_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), 7, &models.UpdateClientRequest{Name: ptr.Ptr("X")})

	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestService_ArchiveHidesFromList(t *testing.T) {
	f := newFixture(t)
	jane := f.client(t, "Jane", "jane@example.com")
	f.client(t, "John", "john@example.com")

	archived, err := f.svc.Archive(context.Background(), jane.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	// повторная архивация не ошибка
	_, err = f.svc.Archive(context.Background(), jane.ID)
	require.NoError(t, err)

	active, err := f.svc.List(context.Background(), &models.ListClientsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, active.Total)
	assert.Equal(t, "john@example.com", active.Clients[0].Email)

	all, err := f.svc.List(context.Background(), &models.ListClientsRequest{IncludeArchived: true})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	restored, err := f.svc.Unarchive(context.Background(), jane.ID)
	require.NoError(t, err)
	assert.False(t, restored.Archived)

	active, err = f.svc.List(context.Background(), &models.ListClientsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, active.Total)
}

func TestService_Bookings(t *testing.T) {
	f := newFixture(t)
	jane := f.client(t, "Jane", "jane@example.com")
	john := f.client(t, "John", "john@example.com")
	older := f.book(t, jane.ID, now.Add(-24*time.Hour), domain.StatusCompleted)
	newer := f.book(t, jane.ID, now.Add(24*time.Hour), domain.StatusPending)
	f.book(t, john.ID, now.Add(2*time.Hour), domain.StatusApproved)

	resp, err := f.svc.Bookings(context.Background(), jane.ID)

	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, newer.ID, resp.Bookings[0].ID)
	assert.Equal(t, older.ID, resp.Bookings[1].ID)
	assert.Equal(t, "jane@example.com", resp.Bookings[0].Client.Email)
}

func TestService_Bookings_UnknownClient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Bookings(context.Background(), 99)

	assert.ErrorIs(t, err, ErrClientNotFound)
}
