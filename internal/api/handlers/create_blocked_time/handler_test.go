package create_blocked_time

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes"
	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes/models"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

type fakeService struct {
	got *models.CreateBlockedTimeRequest
	err error
}

func (f *fakeService) Create(_ context.Context, req *models.CreateBlockedTimeRequest) (*models.BlockedTimeResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BlockedTimeResponse{ID: 1, StartTime: req.StartTime, EndTime: req.EndTime, Reason: req.Reason}, nil
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/blocked-times", strings.NewReader(body)))
	return rec
}

const validBody = `{"startTime":"2025-03-10T12:00:00+01:00","endTime":"2025-03-10T14:00:00+01:00","reason":"dentist"}`

func TestHandler(t *testing.T) {
	svc := &fakeService{}

	rec := post(NewHandler(svc, logger.NewNop()), validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, svc.got.StartTime.Equal(time.Date(2025, time.March, 10, 11, 0, 0, 0, time.UTC)))
	assert.Equal(t, "dentist", *svc.got.Reason)
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, post(NewHandler(&fakeService{}, logger.NewNop()), `[]`).Code)
	assert.Equal(t, http.StatusBadRequest, post(NewHandler(&fakeService{}, logger.NewNop()), `{"startTime":"noon","endTime":"2025-03-10T14:00:00Z"}`).Code)

	svc := &fakeService{err: fmt.Errorf("%w: start >= end", blockedtimes.ErrInvalidInput)}
	assert.Equal(t, http.StatusBadRequest, post(NewHandler(svc, logger.NewNop()), validBody).Code)

	svc = &fakeService{err: fmt.Errorf("%w: day 2025-03-10", blockedtimes.ErrLockTimeout)}
	assert.Equal(t, http.StatusServiceUnavailable, post(NewHandler(svc, logger.NewNop()), validBody).Code)

	svc = &fakeService{err: errors.New("db")}
	assert.Equal(t, http.StatusInternalServerError, post(NewHandler(svc, logger.NewNop()), validBody).Code)
}
