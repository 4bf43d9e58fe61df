package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SMC-NailSalon/internal/api/handlers"
)

// Recovery перехватывает панику в обработчике и отвечает 500
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error("%s %s - Panic recovered: request_id=%s, panic=%v\n%s",
						r.Method, r.URL.Path, GetRequestID(r.Context()), p, debug.Stack())
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
