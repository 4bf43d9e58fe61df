package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/authtoken"
)

const (
	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный токен"
	msgExpiredToken = "срок действия токена истек"
	msgAdminOnly    = "доступно только администратору"
)

// Auth проверяет заголовок Authorization: Bearer <token> и кладет пользователя в контекст
func Auth(parser TokenParser, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				logger.Warn("%s %s - Rejected token: %v", r.Method, r.URL.Path, err)
				if errors.Is(err, authtoken.ErrExpiredToken) {
					handlers.RespondUnauthorized(w, msgExpiredToken)
					return
				}
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				logger.Warn("%s %s - Invalid subject: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			ctx := WithUser(r.Context(), userID, domain.Role(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только администраторов; ставится после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken токен из заголовка Authorization или, для WebSocket, из query параметра token
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if websocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

func websocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
