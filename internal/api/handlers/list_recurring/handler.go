package list_recurring

import (
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
)

const msgInvalidClientID = "некорректный clientId"

type Handler struct {
	service RecurringService
	logger  Logger
}

func NewHandler(service RecurringService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/recurring
// Query params: clientId (опциональный)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.QueryID(r, "clientId")
	if err != nil {
		h.logger.Warn("GET /admin/recurring - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	result, err := h.service.List(r.Context(), clientID)
	if err != nil {
		h.logger.Error("GET /admin/recurring - Failed to list recurring appointments: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
