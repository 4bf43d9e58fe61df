package leave_waitlist

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/waitlist"
)

const (
	msgInvalidEntryID = "некорректный ID заявки"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "заявка не найдена"
	msgForbidden      = "доступ запрещен"
	msgNotActive      = "заявка уже не активна"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/waitlist/{entryId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID, err := handlers.PathID(r, "entryId")
	if err != nil {
		h.logger.Warn("DELETE /waitlist/{id} - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Leave(r.Context(), entryID, userID); err != nil {
		switch {
		case errors.Is(err, waitlist.ErrEntryNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("DELETE /waitlist/{id} - Access denied: entry_id=%d, user_id=%d", entryID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, waitlist.ErrNotActive):
			handlers.RespondConflict(w, msgNotActive)

		default:
			h.logger.Error("DELETE /waitlist/{id} - Failed to leave waitlist: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /waitlist/{id} - Left waitlist: entry_id=%d, client_id=%d", entryID, userID)
	handlers.RespondNoContent(w)
}
