package upsert_profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/service/profiles"
	"github.com/m04kA/SMC-DetailingService/internal/service/profiles/models"
)

type stubService struct {
	gotUser uuid.UUID
	err     error
}

func (s *stubService) Upsert(_ context.Context, userID uuid.UUID, req *models.UpsertProfileRequest) (*models.ProfileResponse, error) {
	s.gotUser = userID
	if s.err != nil {
		return nil, s.err
	}
	return &models.ProfileResponse{ID: uuid.New(), UserID: userID, FullName: req.FullName}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "saved", wantStatus: http.StatusOK},
		{name: "bad phone", err: profiles.ErrInvalidPhone, wantStatus: http.StatusBadRequest},
		{name: "bad data", err: profiles.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "storage", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := uuid.New()
			svc := &stubService{err: tt.err}

			req := httptest.NewRequest(http.MethodPut, "/api/v1/profiles/me", strings.NewReader(`{"fullName":"Maria","phone":"(11) 98765-4321"}`))
			req = req.WithContext(middleware.WithUserID(req.Context(), userID))
			rec := httptest.NewRecorder()

			NewHandler(svc, nopLogger{}).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, userID, svc.gotUser)
		})
	}
}
