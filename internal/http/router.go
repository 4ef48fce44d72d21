package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	Menu     *MenuHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
	Verifier TokenVerifier
	Health   map[string]HealthCheck
}

func NewRouter(h Handlers, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", healthHandler(h.Health))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", h.Menu.GetMenu)
		r.Get("/menu/items/{id}", h.Menu.GetItem)
		r.Get("/categories", h.Menu.ListCategories)
		r.Get("/settings", h.Menu.GetSettings)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.GetCart)
				r.Delete("/", h.Cart.ClearCart)
				r.Get("/quote", h.Cart.Quote)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{line_id}", h.Cart.UpdateQuantity)
				r.Delete("/items/{line_id}", h.Cart.RemoveItem)
			})
			r.Post("/checkout", h.Checkout.PlaceOrder)
		})

		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireOperator(h.Verifier))
			r.Get("/orders", h.Admin.ListOrders)
			r.Put("/orders/{id}/status", h.Admin.UpdateOrderStatus)
			r.Put("/menu/items", h.Admin.SaveMenuItem)
			r.Delete("/menu/items/{id}", h.Admin.DeleteMenuItem)
			r.Post("/categories", h.Admin.AddCategory)
			r.Delete("/categories/{id}", h.Admin.DeleteCategory)
			r.Put("/settings", h.Admin.SaveSettings)
		})
	})

	return otelhttp.NewHandler(r, "storefront",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		respondJSON(w, status, body)
	}
}
