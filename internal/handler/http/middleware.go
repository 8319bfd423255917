package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/jannathh/Scentify-Project/internal/service"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/httputil"
	"github.com/jannathh/Scentify-Project/pkg/logger"
	"github.com/jannathh/Scentify-Project/pkg/middleware"
)

type contextKey string

const clientKey contextKey = "storefront_client"

// ResolveClient attaches the registry client of the identified browser. It
// must run after middleware.Identity.
func ResolveClient(registry *service.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := middleware.ClientIDFromContext(r.Context())
			if id == "" {
				httputil.WriteError(w, r, apperrors.Internal(errMissingIdentity), nil)
				return
			}

			c := registry.Get(r.Context(), id)
			ctx := context.WithValue(r.Context(), clientKey, c)
			if u := c.Session.User(); u != nil {
				ctx = logger.WithUserID(ctx, u.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientFrom(r *http.Request) *service.Client {
	c, _ := r.Context().Value(clientKey).(*service.Client)
	return c
}

// RequireSession lets only signed-in clients through. While the session is
// still loading it answers 503 so the caller retries instead of being sent to
// the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := clientFrom(r)
		d := service.Gate(c.IsLoading(), c.Session.IsAuthenticated(), pagePath(r))

		switch d.Outcome {
		case service.GateWait:
			w.Header().Set("Retry-After", "1")
			httputil.WriteError(w, r, apperrors.Unavailable("SESSION_LOADING", "session is loading", nil), nil)
		case service.GateRedirect:
			httputil.WriteRedirect(w, r, d.Redirect)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// pagePath is the storefront page behind an API request, used as the return
// URL after sign-in.
func pagePath(r *http.Request) string {
	p := strings.TrimPrefix(r.URL.Path, apiPrefix)
	if r.URL.RawQuery != "" {
		p += "?" + r.URL.RawQuery
	}
	return p
}
