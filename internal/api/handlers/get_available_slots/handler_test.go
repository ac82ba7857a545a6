package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-DetailingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type stubUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc *stubUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/services/{serviceId}/available-slots", NewHandler(uc, nopLogger{}).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	serviceID := uuid.New()
	uc := &stubUseCase{resp: &getAvailableSlots.Response{
		Date:            time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		ServiceID:       serviceID,
		DurationMinutes: 60,
		InWindow:        true,
		Slots: []getAvailableSlots.Slot{
			{StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("09:00")},
			{StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("11:00")},
		},
	}}

	rec := serve(uc, "/services/"+serviceID.String()+"/available-slots?date=2025-06-10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, serviceID, uc.got.ServiceID)
	assert.Equal(t, 10, uc.got.Date.Day())

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-06-10", resp.Date)
	assert.True(t, resp.InWindow)
	assert.Equal(t, []AvailableSlot{
		{StartTime: "08:00", EndTime: "09:00"},
		{StartTime: "10:00", EndTime: "11:00"},
	}, resp.Slots)
}

func TestHandle_EmptySlotsSerializeAsArray(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{Date: time.Now()}}

	rec := serve(uc, "/services/"+uuid.NewString()+"/available-slots?date=2030-01-01")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_Errors(t *testing.T) {
	valid := "/services/" + uuid.NewString() + "/available-slots"

	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad service id", target: "/services/abc/available-slots?date=2025-06-10", wantStatus: http.StatusBadRequest},
		{name: "missing date", target: valid, wantStatus: http.StatusBadRequest},
		{name: "bad date", target: valid + "?date=10-06-2025", wantStatus: http.StatusBadRequest},
		{name: "not found", target: valid + "?date=2025-06-10", err: getAvailableSlots.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "inactive", target: valid + "?date=2025-06-10", err: getAvailableSlots.ErrServiceUnavailable, wantStatus: http.StatusBadRequest},
		{name: "storage", target: valid + "?date=2025-06-10", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
