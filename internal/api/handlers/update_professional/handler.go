package update_professional

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/professionals"
)

const (
	msgInvalidProfessionalID = "некорректный ID мастера"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgNotFound              = "мастер не найден"
	msgInvalidData           = "некорректные данные мастера"
)

type Handler struct {
	service ProfessionalService
	logger  Logger
}

func NewHandler(service ProfessionalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/professionals/{professionalId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathID(r, "professionalId")
	if err != nil {
		h.logger.Warn("PUT /admin/professionals/{id} - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	var req professionals.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/professionals/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ActorID, _ = middleware.GetUserID(r.Context())

	result, err := h.service.Update(r.Context(), professionalID, &req)
	if err != nil {
		switch {
		case errors.Is(err, professionals.ErrProfessionalNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, professionals.ErrInvalidInput):
			h.logger.Warn("PUT /admin/professionals/{id} - Invalid data: professional_id=%d, error=%v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /admin/professionals/{id} - Failed to update professional: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/professionals/{id} - Professional updated successfully: professional_id=%d", professionalID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
