package middlewarex

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"flea_market/pkg/errcodes"
	"flea_market/pkg/httpx/reply"
	"flea_market/pkg/logx"
)

// Recovery turns a handler panic into a 500 reply with the request support id.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger(ctx).Error(
				"panic in handler",
				slog.Any(logx.FieldError, rec),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)

			reply.ErrorStatus(ctx, w, http.StatusInternalServerError, errcodes.InternalServerError, "internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}
