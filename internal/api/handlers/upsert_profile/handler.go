package upsert_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/service/profiles"
	"github.com/m04kA/SMC-DetailingService/internal/service/profiles/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPhone       = "некорректный номер телефона"
	msgInvalidData        = "некорректные данные профиля"
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

// Handle PUT /api/v1/profiles/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /profiles/me - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpsertProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /profiles/me - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, profiles.ErrInvalidPhone):
			h.logger.Warn("PUT /profiles/me - Invalid phone: user_id=%s", userID)
			handlers.RespondBadRequest(w, msgInvalidPhone)

		case errors.Is(err, profiles.ErrInvalidInput):
			h.logger.Warn("PUT /profiles/me - Invalid data: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /profiles/me - Failed to save profile: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /profiles/me - Profile saved: user_id=%s, profile_id=%s", userID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
