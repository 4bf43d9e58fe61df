package delete_time_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/timeblocks"
)

const (
	msgInvalidTimeBlockID = "некорректный ID блокировки"
	msgNotFound           = "блокировка не найдена"
)

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

// Handle DELETE /api/v1/admin/time-blocks/{timeBlockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	timeBlockID, err := handlers.PathID(r, "timeBlockId")
	if err != nil {
		h.logger.Warn("DELETE /admin/time-blocks/{id} - Invalid time block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimeBlockID)
		return
	}
	actorID, _ := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), timeBlockID, actorID); err != nil {
		if errors.Is(err, timeblocks.ErrTimeBlockNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/time-blocks/{id} - Failed to delete time block: time_block_id=%d, error=%v", timeBlockID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/time-blocks/{id} - Time block deleted successfully: time_block_id=%d", timeBlockID)
	handlers.RespondNoContent(w)
}
