package middleware

import (
	"net/http"

	"shareit/pkg/utils"

	"go.uber.org/zap"
)

const SharerUserHeader = "X-Sharer-User-Id"

// SharerUser reads the acting user from the X-Sharer-User-Id header.
// Identity is trusted as sent; existence is checked by the services.
func SharerUser(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(SharerUserHeader)
			if raw == "" {
				utils.ResponseBadRequest(w, "Missing "+SharerUserHeader+" header", nil)
				return
			}

			userID, err := utils.ParseID(raw)
			if err != nil {
				logger.Warn("Invalid sharer user header",
					zap.String("value", raw),
					zap.String("path", r.URL.Path))
				utils.ResponseBadRequest(w, "Invalid "+SharerUserHeader+" header", nil)
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
