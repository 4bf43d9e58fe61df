package list_gallery

import (
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
)

const msgInvalidServiceID = "некорректный serviceId"

type Handler struct {
	service GalleryService
	logger  Logger
}

func NewHandler(service GalleryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/gallery
// Query params: serviceId (опциональный)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.QueryID(r, "serviceId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.List(r.Context(), serviceID)
	if err != nil {
		h.logger.Error("GET /gallery - Failed to list images: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
