package create_professional

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/professionals"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные мастера"
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

// Handle POST /api/v1/admin/professionals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req professionals.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/professionals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ActorID, _ = middleware.GetUserID(r.Context())

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, professionals.ErrInvalidInput) {
			h.logger.Warn("POST /admin/professionals - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}
		h.logger.Error("POST /admin/professionals - Failed to create professional: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/professionals - Professional created successfully: professional_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
