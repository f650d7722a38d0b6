package update_client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/service/clients"
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients/models"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

type fakeService struct {
	id  int64
	got *models.UpdateClientRequest
	err error
}

func (f *fakeService) Update(_ context.Context, id int64, req *models.UpdateClientRequest) (*models.ClientResponse, error) {
	f.id = id
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ClientResponse{ID: id}, nil
}

func patch(h *Handler, id, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/clients/{clientId}", h.Handle).Methods(http.MethodPatch)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/clients/"+id, strings.NewReader(body)))
	return rec
}

func TestHandler(t *testing.T) {
	svc := &fakeService{}

	rec := patch(NewHandler(svc, logger.NewNop()), "3", `{"notes": "knee injury", "archived": false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.id)
	assert.Nil(t, svc.got.Name)
	assert.Nil(t, svc.got.Email)
	require.NotNil(t, svc.got.Notes)
	assert.Equal(t, "knee injury", *svc.got.Notes)
	require.NotNil(t, svc.got.Archived)
	assert.False(t, *svc.got.Archived)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		err        error
		wantStatus int
	}{
		{"invalid id", "x", `{}`, nil, http.StatusBadRequest},
		{"malformed body", "3", `{"name":`, nil, http.StatusBadRequest},
		{"not found", "3", `{"name": "Jane"}`, clients.ErrClientNotFound, http.StatusNotFound},
		{"email taken", "3", `{"email": "john@example.com"}`, clients.ErrEmailExists, http.StatusConflict},
		{"invalid data", "3", `{"email": "nope"}`, fmt.Errorf("%w: invalid email", clients.ErrInvalidInput), http.StatusBadRequest},
		{"internal", "3", `{"name": "Jane"}`, errors.New("db"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := patch(NewHandler(&fakeService{err: tt.err}, logger.NewNop()), tt.id, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
