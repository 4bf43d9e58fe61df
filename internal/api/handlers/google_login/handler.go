package google_login

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/service/auth"
)

// StateCookie cookie с параметром state для защиты от CSRF
const StateCookie = "oauth_state"

const stateTTL = 10 * time.Minute

const msgGoogleDisabled = "вход через Google не настроен"

type Handler struct {
	service AuthService
	logger  Logger
	secure  bool
}

// NewHandler secure включает флаг Secure у cookie (за HTTPS)
func NewHandler(service AuthService, logger Logger, secure bool) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		secure:  secure,
	}
}

// Handle GET /api/v1/auth/google
// Перенаправляет на страницу согласия Google
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	url, err := h.service.GoogleAuthURL(state)
	if err != nil {
		if errors.Is(err, auth.ErrGoogleDisabled) {
			handlers.RespondNotFound(w, msgGoogleDisabled)
			return
		}
		h.logger.Error("GET /auth/google - Failed to build auth URL: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     "/api/v1/auth/google",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, url, http.StatusFound)
}
