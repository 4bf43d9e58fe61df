package deactivate_recurring

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/recurring"
)

const (
	msgInvalidRecurringID = "некорректный ID повторяющейся записи"
	msgNotFound           = "повторяющаяся запись не найдена"
)

type Handler struct {
	service RecurringService
	logger  Logger
}

func NewHandler(service RecurringService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/recurring/{recurringId}
// Шаблон деактивируется, уже созданные записи остаются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	recurringID, err := handlers.PathID(r, "recurringId")
	if err != nil {
		h.logger.Warn("DELETE /admin/recurring/{id} - Invalid recurring ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRecurringID)
		return
	}
	actorID, _ := middleware.GetUserID(r.Context())

	if err := h.service.Deactivate(r.Context(), recurringID, actorID); err != nil {
		if errors.Is(err, recurring.ErrRecurringNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/recurring/{id} - Failed to deactivate: recurring_id=%d, error=%v", recurringID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/recurring/{id} - Recurring appointment deactivated: recurring_id=%d", recurringID)
	handlers.RespondNoContent(w)
}
