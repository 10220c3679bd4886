package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tiffinbox/ordering-service/internal/models"
	"github.com/tiffinbox/ordering-service/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Quote handles POST /cart/quote: the read-only cart preview.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	quote, err := h.orders.Quote(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

type placeOrderResponse struct {
	OrderID        int64   `json:"order_id"`
	OrderCode      string  `json:"order_code"`
	Status         string  `json:"status"`
	ItemsTotal     float64 `json:"items_total"`
	DeliveryCharge float64 `json:"delivery_charge"`
	OfferDiscount  float64 `json:"offer_discount"`
	CouponDiscount float64 `json:"coupon_discount"`
	FinalTotal     float64 `json:"final_total"`
	CouponUsed     string  `json:"coupon_used,omitempty"`
}

// PlaceOrder handles POST /orders: the commit path.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone required")
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, placeOrderResponse{
		OrderID:        order.ID,
		OrderCode:      order.Code,
		Status:         order.Status,
		ItemsTotal:     order.ItemsTotal,
		DeliveryCharge: order.DeliveryCharge,
		OfferDiscount:  order.OfferDiscount,
		CouponDiscount: order.CouponDiscount,
		FinalTotal:     order.FinalTotal,
		CouponUsed:     order.CouponUsed,
	})
}

// GetOrder handles GET /orders/{id}: the customer-facing status poll.
// The OTP is deliberately not included; it travels to the customer out
// of band.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":    order.ID,
		"order_code":  order.Code,
		"status":      order.Status,
		"final_total": order.FinalTotal,
		"created_at":  order.CreatedAt,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

var validStatuses = map[string]bool{
	models.StatusPending:        true,
	models.StatusAccepted:       true,
	models.StatusOutForDelivery: true,
	models.StatusCancelled:      true,
}

// UpdateStatus handles POST /orders/{id}/status (management only).
// Delivered is excluded here: it requires the OTP confirmation path.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if !validStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

type confirmDeliveryRequest struct {
	OTP string `json:"otp"`
}

// ConfirmDelivery handles POST /orders/{id}/confirm-delivery.
func (h *OrderHandler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req confirmDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	if err := h.orders.ConfirmDelivery(r.Context(), id, req.OTP); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusDelivered})
}

type checkOfferRequest struct {
	RestaurantID      int64  `json:"restaurant_id"`
	Phone             string `json:"phone"`
	DeviceFingerprint string `json:"device_fingerprint"`
}

// CheckOffer handles POST /offers/check.
func (h *OrderHandler) CheckOffer(w http.ResponseWriter, r *http.Request) {
	var req checkOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	check, err := h.orders.CheckOffer(r.Context(), req.RestaurantID, req.Phone, req.DeviceFingerprint)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
