package google_callback

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/handlers/google_login"
	"github.com/m04kA/SMC-NailSalon/internal/service/auth"
)

const (
	msgInvalidState   = "некорректный параметр state"
	msgMissingCode    = "отсутствует код авторизации"
	msgGoogleDisabled = "вход через Google не настроен"
	msgGoogleFailed   = "не удалось войти через Google"
	msgUserInactive   = "учетная запись отключена"
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

// Handle GET /api/v1/auth/google/callback
// Query params: code, state
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(google_login.StateCookie)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		h.logger.Warn("GET /auth/google/callback - State mismatch")
		handlers.RespondBadRequest(w, msgInvalidState)
		return
	}

	// state одноразовый
	http.SetCookie(w, &http.Cookie{Name: google_login.StateCookie, Path: cookie.Path, MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		handlers.RespondBadRequest(w, msgMissingCode)
		return
	}

	result, err := h.service.GoogleCallback(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrGoogleDisabled):
			handlers.RespondNotFound(w, msgGoogleDisabled)

		case errors.Is(err, auth.ErrGoogleFailed), errors.Is(err, auth.ErrInvalidInput):
			h.logger.Warn("GET /auth/google/callback - Google sign-in failed: %v", err)
			handlers.RespondUnauthorized(w, msgGoogleFailed)

		case errors.Is(err, auth.ErrUserInactive):
			handlers.RespondForbidden(w, msgUserInactive)

		default:
			h.logger.Error("GET /auth/google/callback - Failed to sign in: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /auth/google/callback - Signed in with Google: user_id=%d", result.User.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
