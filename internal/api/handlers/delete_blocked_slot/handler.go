package delete_blocked_slot

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
)

const (
	msgInvalidBlockedSlotID = "некорректный ID блокировки"
	msgNotFound             = "блокировка не найдена"
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

// Handle DELETE /api/v1/admin/blocked-slots/{blockedSlotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["blockedSlotId"])
	if err != nil {
		h.logger.Warn("DELETE /admin/blocked-slots/{id} - Invalid blocked slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockedSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, blackouts.ErrBlockedSlotNotFound) {
			h.logger.Warn("DELETE /admin/blocked-slots/{id} - Blocked slot not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("DELETE /admin/blocked-slots/{id} - Failed to delete blocked slot: id=%s, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/blocked-slots/{id} - Blocked slot deleted: id=%s", id)
	handlers.RespondNoContent(w)
}
