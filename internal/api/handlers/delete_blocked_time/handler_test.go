package delete_blocked_time

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

type fakeService struct {
	gotID int64
	err   error
}

func (f *fakeService) Delete(_ context.Context, id int64) error {
	f.gotID = id
	return f.err
}

func del(svc BlockedTimeService, id string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/blocked-times/{blockedTimeId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodDelete)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/blocked-times/"+id, nil))
	return rec
}

func TestHandler(t *testing.T) {
	svc := &fakeService{}

	rec := del(svc, "9")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(9), svc.gotID)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, del(&fakeService{}, "nine").Code)
	assert.Equal(t, http.StatusNotFound, del(&fakeService{err: blockedtimes.ErrBlockedTimeNotFound}, "9").Code)
	assert.Equal(t, http.StatusInternalServerError, del(&fakeService{err: errors.New("db")}, "9").Code)
}
