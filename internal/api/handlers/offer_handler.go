package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tiffinbox/ordering-service/internal/models"
	"github.com/tiffinbox/ordering-service/internal/service"
)

type OfferHandler struct {
	offers *service.OfferService
}

func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

type createOfferRequest struct {
	RestaurantID   int64   `json:"restaurant_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	OfferType      string  `json:"offer_type"`
	OfferValue     float64 `json:"offer_value"`
	MinOrderAmount float64 `json:"min_order_amount"`
	StartDate      string  `json:"start_date"` // RFC3339
	EndDate        string  `json:"end_date"`   // RFC3339
}

// Create handles POST /admin/offers. New offers start inactive;
// activation is a separate, invariant-preserving step.
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.RestaurantID == 0 || req.Title == "" {
		writeError(w, http.StatusBadRequest, "restaurant_id and title required")
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date; use RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date; use RFC3339")
		return
	}

	offer := &models.RestaurantOffer{
		RestaurantID:   req.RestaurantID,
		Title:          req.Title,
		Description:    req.Description,
		OfferType:      models.OfferType(req.OfferType),
		OfferValue:     req.OfferValue,
		MinOrderAmount: req.MinOrderAmount,
		StartDate:      start,
		EndDate:        end,
	}
	if err := h.offers.Create(r.Context(), offer); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "offer_created",
		"offer_id": offer.ID,
	})
}

// Activate handles POST /admin/offers/{id}/activate.
func (h *OfferHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if err := h.offers.Activate(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "offer_activated"})
}

// Deactivate handles POST /admin/offers/{id}/deactivate.
func (h *OfferHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if err := h.offers.Deactivate(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "offer_deactivated"})
}
