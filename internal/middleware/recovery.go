package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/mmeshcher/agromart/internal/apperr"
)

// Recovery перехватывает панику обработчика и отвечает 500 в общем формате.
// Стек попадает в ответ только при exposeStack.
func Recovery(logger *zap.Logger, exposeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := string(debug.Stack())
				logger.Error("panic recovered",
					zap.Any("error", rec),
					zap.String("path", r.URL.Path),
					zap.String("stack", stack),
				)

				body := errorBody{Message: apperr.MsgInternal}
				if exposeStack {
					body.Stack = stack
				}
				writeError(w, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
