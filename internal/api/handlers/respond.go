package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tiffinbox/ordering-service/internal/pricing"
	"github.com/tiffinbox/ordering-service/internal/repository"
	"github.com/tiffinbox/ordering-service/internal/service"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses so handlers
// stay uniform.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart_empty")
	case errors.Is(err, service.ErrMissingIdentity):
		writeError(w, http.StatusBadRequest, "missing_identity")
	case errors.Is(err, service.ErrInvalidCoupon):
		writeError(w, http.StatusBadRequest, "invalid_coupon")
	case errors.Is(err, service.ErrRestaurantClosed):
		writeError(w, http.StatusConflict, "restaurant_closed")
	case errors.Is(err, pricing.ErrInvalidLineItem):
		writeError(w, http.StatusBadRequest, "invalid_line_item")
	case errors.Is(err, repository.ErrOfferAlreadyUsed):
		writeError(w, http.StatusConflict, "offer_already_used")
	case errors.Is(err, repository.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "invalid_otp")
	case errors.Is(err, service.ErrInvalidOfferType):
		writeError(w, http.StatusBadRequest, "invalid_offer_type")
	case errors.Is(err, service.ErrInvalidOfferValue):
		writeError(w, http.StatusBadRequest, "invalid_offer_value")
	case errors.Is(err, service.ErrInvalidOfferWindow):
		writeError(w, http.StatusBadRequest, "invalid_offer_window")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
