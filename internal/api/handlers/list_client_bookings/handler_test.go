package list_client_bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

type fakeService struct {
	id  int64
	err error
}

func (f *fakeService) Bookings(_ context.Context, id int64) (*models.BookingListResponse, error) {
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{
		Bookings: []models.BookingResponse{
			{ID: 2, Status: "pending", Client: models.ClientInfo{ID: id}},
			{ID: 1, Status: "completed", Client: models.ClientInfo{ID: id}},
		},
		Total: 2,
	}, nil
}

func serve(h *Handler, id string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/clients/{clientId}/bookings", h.Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+id+"/bookings", nil))
	return rec
}

func TestHandler(t *testing.T) {
	svc := &fakeService{}

	rec := serve(NewHandler(svc, logger.NewNop()), "6")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(6), svc.id)
	var body models.BookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Total)
	assert.Equal(t, int64(2), body.Bookings[0].ID)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(NewHandler(&fakeService{}, logger.NewNop()), "x").Code)
	assert.Equal(t, http.StatusNotFound, serve(NewHandler(&fakeService{err: clients.ErrClientNotFound}, logger.NewNop()), "6").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(NewHandler(&fakeService{err: errors.New("db")}, logger.NewNop()), "6").Code)
}
