package login

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/service/auth"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCredentials = "неверный email или пароль"
	msgTooManyAttempts    = "слишком много неудачных попыток входа, попробуйте позже"
	msgUserInactive       = "учетная запись отключена"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/login
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			handlers.RespondUnauthorized(w, msgInvalidCredentials)

		case errors.Is(err, auth.ErrTooManyAttempts):
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyAttempts)

		case errors.Is(err, auth.ErrUserInactive):
			handlers.RespondForbidden(w, msgUserInactive)

		default:
			h.logger.Error("POST /auth/login - Failed to log in: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/login - Signed in: user_id=%d, role=%s", result.User.ID, result.User.Role)
	handlers.RespondJSON(w, http.StatusOK, result)
}
