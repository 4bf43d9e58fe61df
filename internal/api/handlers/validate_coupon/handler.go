package validate_coupon

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/service/coupons"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "укажите код купона и неотрицательную сумму"
	msgNotFound           = "купон не найден"
	msgNotApplicable      = "купон нельзя применить к этой сумме"
)

type Handler struct {
	service CouponService
	logger  Logger
}

func NewHandler(service CouponService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/coupons/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /coupons/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Validate(r.Context(), req.Code, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, coupons.ErrCouponNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, coupons.ErrNotApplicable):
			h.logger.Info("POST /coupons/validate - Coupon not applicable: code=%q, amount=%.2f", req.Code, req.Amount)
			handlers.RespondBadRequest(w, msgNotApplicable)

		default:
			h.logger.Error("POST /coupons/validate - Failed to validate coupon: code=%q, error=%v", req.Code, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
