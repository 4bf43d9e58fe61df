package update_coupon

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/coupons"
)

const (
	msgInvalidCouponID    = "некорректный ID купона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные условия купона"
	msgNotFound           = "купон не найден"
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

// Handle PATCH /api/v1/admin/coupons/{couponId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	couponID, err := handlers.PathID(r, "couponId")
	if err != nil {
		h.logger.Warn("PATCH /admin/coupons/{id} - Invalid coupon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCouponID)
		return
	}

	var req coupons.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/coupons/{id} - Invalid request body: coupon_id=%d, error=%v", couponID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ActorID, _ = middleware.GetUserID(r.Context())

	result, err := h.service.Update(r.Context(), couponID, &req)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/coupons/{id} - Invalid data: coupon_id=%d, error=%v", couponID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, coupons.ErrCouponNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /admin/coupons/{id} - Failed to update coupon: coupon_id=%d, error=%v", couponID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/coupons/{id} - Coupon updated successfully: coupon_id=%d", couponID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
