package list_services

import (
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

const msgInvalidParams = "некорректные параметры запроса"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services и GET /api/v1/admin/services
// Query params: category, includeInactive (только для администратора)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.logger.Warn("GET /services - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	filter := domain.ServiceFilter{
		Category:        handlers.QueryString(r, "category"),
		IncludeInactive: includeInactive && middleware.IsAdmin(r.Context()),
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
