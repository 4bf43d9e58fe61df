package list_reviews

import (
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
)

const msgInvalidServiceID = "некорректный serviceId"

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reviews
// Query params: serviceId (опциональный)
// Возвращает только одобренные отзывы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.QueryID(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /reviews - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.ListPublic(r.Context(), serviceID)
	if err != nil {
		h.logger.Error("GET /reviews - Failed to list reviews: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
