package middlewarex

import (
	"log/slog"
	"net/http"

	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

const headerNameProfileID = "X-Profile-Id"

// ProfileID кладёт профиль игрока из заголовка в контекст и в логгер.
func ProfileID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID := r.Header.Get(headerNameProfileID)
		if profileID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextx.WithProfileID(r.Context(), contextx.ProfileID(profileID))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldProfileID, profileID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
