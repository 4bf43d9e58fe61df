package generate_recurring

import (
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
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

// Handle POST /api/v1/admin/recurring/generate
// Запускает генерацию записей по активным шаблонам вне расписания
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	result, err := h.service.Generate(r.Context(), actorID)
	if err != nil {
		h.logger.Error("POST /admin/recurring/generate - Failed to generate appointments: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/recurring/generate - Generation finished: created=%d, skipped=%d",
		result.Created, len(result.Skipped))
	handlers.RespondJSON(w, http.StatusOK, result)
}
