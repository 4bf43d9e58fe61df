package create_coupon

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/coupons"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные условия купона"
	msgCodeTaken          = "купон с таким кодом уже существует"
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

// Handle POST /api/v1/admin/coupons
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req coupons.CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/coupons - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ActorID, _ = middleware.GetUserID(r.Context())

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrInvalidInput):
			h.logger.Warn("POST /admin/coupons - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, coupons.ErrCodeTaken):
			handlers.RespondConflict(w, msgCodeTaken)

		default:
			h.logger.Error("POST /admin/coupons - Failed to create coupon: code=%q, error=%v", req.Code, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/coupons - Coupon created successfully: coupon_id=%d, code=%s", result.ID, result.Code)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
