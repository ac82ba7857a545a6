package list_blocked_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts/models"
)

const (
	msgMissingRange = "параметры from и to обязательны"
	msgInvalidRange = "некорректный период, ожидается from <= to в формате YYYY-MM-DD"
)

type Handler struct {
	service BlackoutService
	logger  Logger
}

func NewHandler(service BlackoutService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/blocked-slots
// Query params: from, to (required, YYYY-MM-DD, включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		h.logger.Warn("GET /admin/blocked-slots - Missing range: from=%q, to=%q", fromStr, toStr)
		handlers.RespondBadRequest(w, msgMissingRange)
		return
	}

	from, errFrom := time.Parse(domain.DateFormat, fromStr)
	to, errTo := time.Parse(domain.DateFormat, toStr)
	if err := errors.Join(errFrom, errTo); err != nil {
		h.logger.Warn("GET /admin/blocked-slots - Invalid range: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.service.ListRange(r.Context(), &models.ListBlockedSlotsRequest{From: from, To: to})
	if err != nil {
		if errors.Is(err, blackouts.ErrInvalidInput) {
			h.logger.Warn("GET /admin/blocked-slots - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}

		h.logger.Error("GET /admin/blocked-slots - Failed to list blocked slots: from=%s, to=%s, error=%v", fromStr, toStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/blocked-slots - Blocked slots retrieved: from=%s, to=%s, count=%d",
		fromStr, toStr, len(result.BlockedSlots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
