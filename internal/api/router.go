package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiffinbox/ordering-service/internal/api/handlers"
	"github.com/tiffinbox/ordering-service/internal/api/middleware"
	"github.com/tiffinbox/ordering-service/internal/auth"
	"github.com/tiffinbox/ordering-service/internal/config"
	"github.com/tiffinbox/ordering-service/internal/service"
)

// NewRouter builds the HTTP router for the ordering service.
func NewRouter(orders *service.OrderService, offers *service.OfferService, authCfg config.AuthConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)

	orderHandler := handlers.NewOrderHandler(orders)
	offerHandler := handlers.NewOfferHandler(offers)
	authHandler := handlers.NewAuthHandler(authCfg)
	healthHandler := handlers.NewHealthHandler(orders)

	// Customer-facing endpoints
	r.Post("/cart/quote", orderHandler.Quote)
	r.Post("/offers/check", orderHandler.CheckOffer)
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.PlaceOrder)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Post("/{id}/confirm-delivery", orderHandler.ConfirmDelivery)

		r.With(middleware.RequireRole(authCfg.JWTSecret, auth.RoleAdmin, auth.RoleRestaurant)).
			Post("/{id}/status", orderHandler.UpdateStatus)
	})

	// Management endpoints
	r.Post("/admin/login", authHandler.AdminLogin)
	r.Route("/admin/offers", func(r chi.Router) {
		r.Use(middleware.RequireRole(authCfg.JWTSecret, auth.RoleAdmin))
		r.Post("/", offerHandler.Create)
		r.Post("/{id}/activate", offerHandler.Activate)
		r.Post("/{id}/deactivate", offerHandler.Deactivate)
	})

	// Health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/system/pricing-health", healthHandler.PricingHealth)

	return r
}
