package list_all_reviews

import (
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
)

const msgInvalidPending = "параметр pending должен быть true или false"

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

// Handle GET /api/v1/admin/reviews
// Query params: pending (опциональный) - только ожидающие модерации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	pending, err := handlers.QueryBool(r, "pending")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPending)
		return
	}

	result, err := h.service.ListAll(r.Context(), pending)
	if err != nil {
		h.logger.Error("GET /admin/reviews - Failed to list reviews: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
