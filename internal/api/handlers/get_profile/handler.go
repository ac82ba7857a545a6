package get_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/service/profiles"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "профиль не найден"
)

type Handler struct {
	service ProfileService
	logger  Logger
}

func NewHandler(service ProfileService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/profiles/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /profiles/me - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			h.logger.Info("GET /profiles/me - Profile not found: user_id=%s", userID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /profiles/me - Failed to get profile: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
