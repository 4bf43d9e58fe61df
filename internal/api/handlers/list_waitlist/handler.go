package list_waitlist

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/service/waitlist"
)

const msgInvalidParams = "некорректные параметры запроса"

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

// Handle GET /api/v1/admin/waitlist
// Query params: date, status, serviceId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.QueryID(r, "serviceId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), &waitlist.ListRequest{
		Date:      handlers.QueryString(r, "date"),
		Status:    handlers.QueryString(r, "status"),
		ServiceID: serviceID,
	})
	if err != nil {
		if errors.Is(err, waitlist.ErrInvalidInput) {
			h.logger.Warn("GET /admin/waitlist - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /admin/waitlist - Failed to list waitlist: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
