package delete_service_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/settings"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgNotFound         = "конфигурация услуги не найдена"
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

// Handle DELETE /api/v1/admin/settings/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("DELETE /admin/settings/services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}
	actorID, _ := middleware.GetUserID(r.Context())

	if err := h.service.DeleteServiceConfig(r.Context(), serviceID, actorID); err != nil {
		if errors.Is(err, settings.ErrConfigNotFound) {
			h.logger.Warn("DELETE /admin/settings/services/{id} - Config not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/settings/services/{id} - Failed to delete config: service_id=%d, error=%v", serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/settings/services/{id} - Config deleted successfully: service_id=%d", serviceID)
	handlers.RespondNoContent(w)
}
