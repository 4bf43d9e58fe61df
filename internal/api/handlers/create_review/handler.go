package create_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/reviews"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidData         = "оценка должна быть от 1 до 5, комментарий не длиннее 1000 символов"
	msgAppointmentNotFound = "запись не найдена"
	msgNotCompleted        = "отзыв можно оставить только после визита"
	msgAlreadyReviewed     = "отзыв на эту запись уже оставлен"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req reviews.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reviews - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ClientID, _ = middleware.GetUserID(r.Context())

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, reviews.ErrAppointmentNotFound):
			h.logger.Warn("POST /reviews - Appointment not found: appointment_id=%d, client_id=%d", req.AppointmentID, req.ClientID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, reviews.ErrNotCompleted):
			handlers.RespondBadRequest(w, msgNotCompleted)

		case errors.Is(err, reviews.ErrAlreadyReviewed):
			handlers.RespondConflict(w, msgAlreadyReviewed)

		default:
			h.logger.Error("POST /reviews - Failed to create review: appointment_id=%d, error=%v", req.AppointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reviews - Review created successfully: review_id=%d, appointment_id=%d", result.ID, req.AppointmentID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
