package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tiffinbox/ordering-service/internal/pricing"
	"github.com/tiffinbox/ordering-service/internal/repository"
	"github.com/tiffinbox/ordering-service/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{service.ErrEmptyCart, http.StatusBadRequest, "cart_empty"},
		{service.ErrMissingIdentity, http.StatusBadRequest, "missing_identity"},
		{service.ErrInvalidCoupon, http.StatusBadRequest, "invalid_coupon"},
		{service.ErrRestaurantClosed, http.StatusConflict, "restaurant_closed"},
		{pricing.ErrInvalidLineItem, http.StatusBadRequest, "invalid_line_item"},
		{repository.ErrOfferAlreadyUsed, http.StatusConflict, "offer_already_used"},
		{repository.ErrInvalidOTP, http.StatusBadRequest, "invalid_otp"},
		{service.ErrInvalidOfferType, http.StatusBadRequest, "invalid_offer_type"},
		{service.ErrInvalidOfferValue, http.StatusBadRequest, "invalid_offer_value"},
		{service.ErrInvalidOfferWindow, http.StatusBadRequest, "invalid_offer_window"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.wantMsg, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tc.err)

			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tc.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tc.wantMsg)
			}
		})
	}
}
