package create_time_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/timeblocks"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidData          = "некорректные данные блокировки"
	msgOverlapsAppointments = "на это время уже есть записи; используйте force, чтобы заблокировать его все равно"
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

// Handle POST /api/v1/admin/time-blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req timeblocks.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/time-blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ActorID, _ = middleware.GetUserID(r.Context())

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, timeblocks.ErrOverlapsAppointments):
			h.logger.Warn("POST /admin/time-blocks - Overlaps appointments: date=%s, error=%v", req.Date, err)
			handlers.RespondConflict(w, msgOverlapsAppointments)

		case errors.Is(err, timeblocks.ErrInvalidInput):
			h.logger.Warn("POST /admin/time-blocks - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /admin/time-blocks - Failed to create time block: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/time-blocks - Time block created successfully: time_block_id=%d, conflicts=%d",
		result.ID, len(result.ConflictingAppointments))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
