// Package http exposes the storefront over a JSON API under /api/v1.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jannathh/Scentify-Project/internal/catalog"
	"github.com/jannathh/Scentify-Project/internal/service"
	"github.com/jannathh/Scentify-Project/pkg/health"
	"github.com/jannathh/Scentify-Project/pkg/middleware"
)

// ClientCookie holds the signed client id.
const ClientCookie = "scentify_client"

const (
	serviceName = "storefront"
	apiPrefix   = "/api/v1"
)

// RouterConfig carries what the router needs beyond the services.
type RouterConfig struct {
	Registry     *service.Registry
	Catalog      *catalog.Catalog
	Health       *health.Handler
	Tokens       middleware.TokenCodec
	CORS         middleware.CORSConfig
	LoginLimiter *middleware.RateLimiter
	SecureCookie bool
	Logger       *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	products := NewProductHandler(cfg.Catalog)
	cart := NewCartHandler(cfg.Catalog, logger)
	wishlist := NewWishlistHandler(cfg.Catalog)
	auth := NewAuthHandler(logger)
	profile := NewProfileHandler()
	checkout := NewCheckoutHandler(logger)
	finder := NewScentFinderHandler()

	r.Route(apiPrefix, func(r chi.Router) {
		// The catalog is the same for every client.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(5 * time.Minute))

			r.Get("/products", products.List)
			r.Get("/products/{ref}", products.Get)
			r.Get("/categories/{category}/products", products.ByCategory)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.Identity(middleware.IdentityConfig{
				CookieName: ClientCookie,
				Secure:     cfg.SecureCookie,
				Codec:      cfg.Tokens,
				Logger:     logger,
			}))
			r.Use(ResolveClient(cfg.Registry))

			r.Get("/cart", cart.Get)
			r.Post("/cart/items", cart.AddItem)
			r.Put("/cart/items/{productId}/{size}", cart.UpdateQuantity)
			r.Delete("/cart/items/{productId}/{size}", cart.RemoveItem)
			r.Delete("/cart", cart.Clear)

			r.Get("/wishlist", wishlist.List)
			r.Get("/wishlist/{productId}", wishlist.Contains)
			r.Post("/wishlist/{productId}", wishlist.Add)
			r.Post("/wishlist/{productId}/toggle", wishlist.Toggle)
			r.Delete("/wishlist/{productId}", wishlist.Remove)
			r.Delete("/wishlist", wishlist.Clear)

			r.Get("/auth/session", auth.Session)
			r.With(cfg.LoginLimiter.Handler).Post("/auth/login", auth.Login)
			r.Post("/auth/register", auth.Register)
			r.Post("/auth/logout", auth.Logout)

			r.Get("/scent-finder", finder.Get)
			r.Post("/scent-finder/start", finder.Start)
			r.Post("/scent-finder/reset", finder.Reset)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(RequireSession)

				r.Get("/profile", profile.Get)
				r.Patch("/profile", profile.Update)
				r.Post("/profile/payment-methods", profile.AddPaymentMethod)
				r.Delete("/profile/payment-methods/{id}", profile.RemovePaymentMethod)
				r.Put("/profile/payment-methods/{id}/default", profile.SetDefaultPaymentMethod)

				r.Get("/orders", profile.Orders)

				r.Get("/checkout", checkout.Get)
				r.Post("/checkout/shipping", checkout.Shipping)
				r.Post("/checkout/payment", checkout.Payment)
			})
		})
	})

	return r
}
