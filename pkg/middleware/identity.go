package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/httputil"
	"github.com/jannathh/Scentify-Project/pkg/logger"
)

// TokenCodec issues and verifies the signed token stored in the identity cookie.
type TokenCodec interface {
	Issue(clientID string) (token string, expires time.Time, err error)
	Verify(token string) (clientID string, err error)
}

// IdentityConfig configures the Identity middleware.
type IdentityConfig struct {
	CookieName string
	Secure     bool
	Codec      TokenCodec
	Logger     *slog.Logger
}

// Identity resolves the anonymous client id from a signed cookie. Requests
// without a valid cookie get a fresh id and a Set-Cookie. The id is stored in
// the context and added to the request-scoped logger.
func Identity(cfg IdentityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			clientID := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				if id, err := cfg.Codec.Verify(c.Value); err == nil {
					clientID = id
				} else {
					cfg.Logger.DebugContext(ctx, "discarding invalid client cookie", slog.String("error", err.Error()))
				}
			}

			if clientID == "" {
				clientID = uuid.NewString()
				token, expires, err := cfg.Codec.Issue(clientID)
				if err != nil {
					httputil.WriteError(w, r, apperrors.Internal(err), cfg.Logger)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					Expires:  expires,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = logger.WithClientID(ctx, clientID)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("client_id", clientID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIDFromContext returns the client id set by Identity.
func ClientIDFromContext(ctx context.Context) string {
	return logger.ClientIDFromContext(ctx)
}
