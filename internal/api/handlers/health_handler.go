package handlers

import (
	"net/http"

	"github.com/tiffinbox/ordering-service/internal/service"
)

type HealthHandler struct {
	orders *service.OrderService
}

func NewHealthHandler(orders *service.OrderService) *HealthHandler {
	return &HealthHandler{orders: orders}
}

// PricingHealth handles GET /system/pricing-health: the backend vs.
// simulated-frontend total consistency check, per restaurant.
func (h *HealthHandler) PricingHealth(w http.ResponseWriter, r *http.Request) {
	results, err := h.orders.PricingHealth(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	status := http.StatusOK
	for _, res := range results {
		if res.Status != "green" {
			status = http.StatusConflict
			break
		}
	}
	writeJSON(w, status, map[string]interface{}{"restaurants": results})
}
