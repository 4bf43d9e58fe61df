package list_settings

import (
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/settings - Failed to list settings: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/settings - Settings retrieved successfully: count=%d", len(result.Configs))
	handlers.RespondJSON(w, http.StatusOK, result)
}
