package middlewarex

import (
	"net/http"

	"github.com/rs/xid"

	"flea_market/pkg/contextx"
)

const headerNameTraceID = "X-Trace-Id"

// TraceID принимает trace id клиента, только если это валидный xid.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerNameTraceID)

		if _, err := xid.FromString(traceID); err != nil {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
