package list_bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/service/bookings"
	"github.com/m04kA/SMC-CoachBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

type fakeService struct {
	got *models.ListBookingsRequest
	err error
}

func (f *fakeService) List(_ context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil
}

func TestHandler_Filters(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, time.UTC, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=pending&date=2025-03-10&clientId=4", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookings":[],"total":0}`, rec.Body.String())
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "pending", *svc.got.Status)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), *svc.got.Date)
	assert.Equal(t, int64(4), *svc.got.ClientID)
}

func TestHandler_NoFilters(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, time.UTC, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.got.Status)
	assert.Nil(t, svc.got.Date)
	assert.Nil(t, svc.got.ClientID)
}

func TestHandler_InvalidParams(t *testing.T) {
	for _, query := range []string{"?date=yesterday", "?clientId=abc", "?clientId=0"} {
		rec := httptest.NewRecorder()
		NewHandler(&fakeService{}, time.UTC, logger.NewNop()).
			Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}

	rec := httptest.NewRecorder()
	NewHandler(&fakeService{err: fmt.Errorf("%w: unknown status", bookings.ErrInvalidInput)}, time.UTC, logger.NewNop()).
		Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=lost", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
