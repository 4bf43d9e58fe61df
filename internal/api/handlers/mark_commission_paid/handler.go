package mark_commission_paid

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/commissions"
)

const (
	msgInvalidCommissionID = "некорректный ID комиссии"
	msgNotFound            = "комиссия не найдена"
	msgAlreadyPaid         = "комиссия уже выплачена"
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

// Handle POST /api/v1/admin/commissions/{commissionId}/pay
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	commissionID, err := handlers.PathID(r, "commissionId")
	if err != nil {
		h.logger.Warn("POST /admin/commissions/{id}/pay - Invalid commission ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCommissionID)
		return
	}
	actorID, _ := middleware.GetUserID(r.Context())

	result, err := h.service.MarkPaid(r.Context(), commissionID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, commissions.ErrCommissionNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, commissions.ErrAlreadyPaid):
			handlers.RespondConflict(w, msgAlreadyPaid)

		default:
			h.logger.Error("POST /admin/commissions/{id}/pay - Failed to mark paid: commission_id=%d, error=%v", commissionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/commissions/{id}/pay - Commission paid: commission_id=%d, amount=%.2f", commissionID, result.Amount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
