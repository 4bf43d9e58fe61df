package list_commissions

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/service/commissions"
)

const (
	msgInvalidProfessionalID = "некорректный professionalId"
	msgInvalidFilter         = "некорректный фильтр: status = pending|paid, даты в формате YYYY-MM-DD"
)

type Handler struct {
	service CommissionService
	logger  Logger
}

func NewHandler(service CommissionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/commissions
// Query params: professionalId, status, from, to (все опциональные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.QueryID(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /admin/commissions - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	req := commissions.ListRequest{
		ProfessionalID: professionalID,
		Status:         handlers.QueryString(r, "status"),
		From:           handlers.QueryString(r, "from"),
		To:             handlers.QueryString(r, "to"),
	}

	result, err := h.service.List(r.Context(), &req)
	if err != nil {
		if errors.Is(err, commissions.ErrInvalidInput) {
			h.logger.Warn("GET /admin/commissions - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /admin/commissions - Failed to list commissions: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
