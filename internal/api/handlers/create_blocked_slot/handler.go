package create_blocked_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные блокировки"
	msgInvalidTimeRange   = "время начала блокировки должно быть раньше времени окончания"
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

// Handle POST /api/v1/admin/blocked-slots
// Уже существующие записи на заблокированное время не отменяются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBlockedSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/blocked-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, blackouts.ErrInvalidTimeRange):
			h.logger.Warn("POST /admin/blocked-slots - Invalid time range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, blackouts.ErrInvalidInput):
			h.logger.Warn("POST /admin/blocked-slots - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /admin/blocked-slots - Failed to create blocked slot: date=%s, error=%v", req.BlockedDate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/blocked-slots - Blocked slot created: id=%s, date=%s, full_day=%t",
		result.ID, result.BlockedDate, result.IsFullDay)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
