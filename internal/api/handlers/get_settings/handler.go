package get_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/service/settings"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgServiceNotFound  = "услуга не найдена"
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

// Handle GET /api/v1/settings
// Query params: serviceId (опционально)
// Публичный endpoint: действующие правила записи с учетом настроек услуги
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.QueryID(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /settings - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Если конфигурации нет, сервис вернет значения по умолчанию
	result, err := h.service.GetEffective(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, settings.ErrServiceNotFound) {
			h.logger.Warn("GET /settings - Service not found: service_id=%v", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)
			return
		}
		h.logger.Error("GET /settings - Failed to get settings: service_id=%v, error=%v", serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /settings - Settings retrieved successfully: service_id=%v, default=%t", serviceID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
