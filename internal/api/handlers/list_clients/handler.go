package list_clients

import (
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
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

// Handle GET /api/v1/admin/clients
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListClients(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/clients - Failed to list clients: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/clients - Clients retrieved: count=%d", len(result.Clients))
	handlers.RespondJSON(w, http.StatusOK, result)
}
