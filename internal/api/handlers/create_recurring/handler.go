package create_recurring

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/recurring"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidData          = "некорректные данные повторяющейся записи"
	msgClientNotFound       = "клиент не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgProfessionalNotFound = "мастер не найден"
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

// Handle POST /api/v1/admin/recurring
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req recurring.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/recurring - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ActorID, _ = middleware.GetUserID(r.Context())

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, recurring.ErrInvalidInput):
			h.logger.Warn("POST /admin/recurring - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, recurring.ErrClientNotFound):
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, recurring.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, recurring.ErrProfessionalNotFound):
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		default:
			h.logger.Error("POST /admin/recurring - Failed to create recurring appointment: client_id=%d, error=%v", req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/recurring - Recurring appointment created: recurring_id=%d, client_id=%d, frequency=%s",
		result.ID, req.ClientID, req.Frequency)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
