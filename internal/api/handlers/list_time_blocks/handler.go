package list_time_blocks

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/service/timeblocks"
)

const msgInvalidParams = "укажите from и to в формате YYYY-MM-DD (не больше года)"

type Handler struct {
	service TimeBlockService
	logger  Logger
}

func NewHandler(service TimeBlockService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/time-blocks
// Query params: from, to (обязательные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	result, err := h.service.List(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, timeblocks.ErrInvalidInput) {
			h.logger.Warn("GET /admin/time-blocks - Invalid parameters: from=%q, to=%q", from, to)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /admin/time-blocks - Failed to list time blocks: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
