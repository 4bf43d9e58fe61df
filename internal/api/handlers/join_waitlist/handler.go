package join_waitlist

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/waitlist"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные заявки"
	msgServiceNotFound    = "услуга не найдена"
	msgAlreadyWaiting     = "вы уже в листе ожидания на эту дату"
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

// Handle POST /api/v1/waitlist
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req waitlist.JoinRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waitlist - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ClientID = userID

	result, err := h.service.Join(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, waitlist.ErrAlreadyWaiting):
			h.logger.Warn("POST /waitlist - Already waiting: client_id=%d, service_id=%d, date=%s", userID, req.ServiceID, req.Date)
			handlers.RespondConflict(w, msgAlreadyWaiting)

		case errors.Is(err, waitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /waitlist - Failed to join waitlist: client_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist - Joined waitlist: entry_id=%d, client_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
