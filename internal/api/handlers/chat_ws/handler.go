package chat_ws

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/api/middleware"
	"github.com/m04kA/SMC-NailSalon/internal/service/auth"
)

const msgUserNotFound = "пользователь не найден"

type Handler struct {
	profiles ProfileService
	hub      ChatHub
	upgrader websocket.Upgrader
	logger   Logger
}

// NewHandler создает обработчик чата
// allowedOrigins пуст - проверяется только совпадение Origin с Host
func NewHandler(profiles ProfileService, hub ChatHub, allowedOrigins []string, logger Logger) *Handler {
	h := &Handler{
		profiles: profiles,
		hub:      hub,
		logger:   logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(allowedOrigins) > 0 {
		allowed := make(map[string]struct{}, len(allowedOrigins))
		for _, o := range allowedOrigins {
			allowed[o] = struct{}{}
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		}
	}
	return h
}

// Handle GET /api/v1/chat/ws
// Токен передается в заголовке Authorization или в query параметре token
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	role, _ := middleware.GetRole(r.Context())

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			handlers.RespondNotFound(w, msgUserNotFound)
			return
		}
		h.logger.Error("GET /chat/ws - Failed to load profile: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту с ошибкой
		h.logger.Warn("GET /chat/ws - Upgrade failed: user_id=%d, error=%v", userID, err)
		return
	}

	h.logger.Info("GET /chat/ws - Connected: user_id=%d, role=%s", userID, role)
	h.hub.Serve(conn, userID, role, profile.Name)
	h.logger.Info("GET /chat/ws - Disconnected: user_id=%d", userID)
}
