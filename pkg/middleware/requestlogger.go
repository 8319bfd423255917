package middleware

import (
	"log/slog"
	"net/http"

	"github.com/jannathh/Scentify-Project/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// whatever ids earlier middleware placed there (correlation, client, trace).
// Mount it after RequestLogging and Tracing. Identity re-runs the enrichment
// once the client id is known.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
