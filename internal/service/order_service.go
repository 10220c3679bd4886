package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tiffinbox/ordering-service/internal/events"
	"github.com/tiffinbox/ordering-service/internal/ident"
	"github.com/tiffinbox/ordering-service/internal/models"
	"github.com/tiffinbox/ordering-service/internal/pricing"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	ErrEmptyCart        = errors.New("service: cart is empty")
	ErrMissingIdentity  = errors.New("service: phone or device fingerprint required for discount eligibility")
	ErrInvalidCoupon    = errors.New("service: unrecognized coupon code")
	ErrRestaurantClosed = errors.New("service: restaurant is currently closed")
)

// Stores required by the service (interfaces to allow mocking).

type RestaurantStore interface {
	GetByID(ctx context.Context, id int64) (*models.Restaurant, error)
	List(ctx context.Context) ([]models.Restaurant, error)
}

type OfferStore interface {
	ActiveOffer(ctx context.Context, restaurantID int64, now time.Time) (*models.RestaurantOffer, error)
	GetByID(ctx context.Context, id int64) (*models.RestaurantOffer, error)
	Create(ctx context.Context, offer *models.RestaurantOffer) error
	Activate(ctx context.Context, offerID int64) error
	Deactivate(ctx context.Context, offerID int64) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	DeliveredCount(ctx context.Context, phone, fingerprint string) (int, error)
	OfferUsed(ctx context.Context, offerID int64, phone, fingerprint string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	ConfirmDelivery(ctx context.Context, id int64, otp string, now time.Time) error
}

// OfferCacheStore is the advisory read cache in front of OfferStore.
type OfferCacheStore interface {
	Get(ctx context.Context, restaurantID int64) (*models.RestaurantOffer, bool)
	Set(ctx context.Context, restaurantID int64, offer *models.RestaurantOffer) error
	Invalidate(ctx context.Context, restaurantID int64) error
}

type OrderService struct {
	restaurants RestaurantStore
	offers      OfferStore
	orders      OrderStore
	cache       OfferCacheStore  // optional
	publisher   events.Publisher // optional
	now         func() time.Time
}

func NewOrderService(restaurants RestaurantStore, offers OfferStore, orders OrderStore, cache OfferCacheStore, publisher events.Publisher) *OrderService {
	return &OrderService{
		restaurants: restaurants,
		offers:      offers,
		orders:      orders,
		cache:       cache,
		publisher:   publisher,
		now:         time.Now,
	}
}

type CartLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type QuoteRequest struct {
	RestaurantID      int64      `json:"restaurant_id"`
	Items             []CartLine `json:"items"`
	Phone             string     `json:"phone"`
	DeviceFingerprint string     `json:"device_fingerprint"`
	ApplyOffer        bool       `json:"apply_offer"`
	ApplyCoupon       bool       `json:"apply_coupon"`
	CouponCode        string     `json:"coupon_code"`
}

// Quote is the read-only pricing breakdown shown on the cart page.
type Quote struct {
	ItemsTotal        float64 `json:"items_total"`
	DeliveryCharge    float64 `json:"delivery_charge"`
	OfferDiscount     float64 `json:"offer_discount"`
	CouponDiscount    float64 `json:"coupon_discount"`
	FinalTotal        float64 `json:"final_total"`
	CouponUsed        string  `json:"coupon_used,omitempty"`
	OfferID           int64   `json:"offer_id,omitempty"`
	OfferTitle        string  `json:"offer_title,omitempty"`
	FirstTimeCustomer bool    `json:"first_time_customer"`
	OfferAlreadyUsed  bool    `json:"offer_already_used"`
}

type PlaceOrderRequest struct {
	QuoteRequest

	CustomerName string `json:"customer_name"`
	AltPhone     string `json:"alt_phone"`
	Email        string `json:"email"`
	PaymentType  string `json:"payment_type"`

	HouseNo      string `json:"house_no"`
	Landmark     string `json:"landmark"`
	City         string `json:"city"`
	Pincode      string `json:"pincode"`
	DeliveryNote string `json:"delivery_note"`
}

// Quote prices a cart without committing anything. It shares the
// pricing path with PlaceOrder, so for identical inputs the two are
// numerically identical.
func (s *OrderService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	return s.price(ctx, req)
}

// PlaceOrder prices the cart, persists the order with a fresh OTP and
// order code, and publishes the placement event.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	restaurant, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsOpenAt(s.now()) {
		return nil, ErrRestaurantClosed
	}

	quote, err := s.price(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		RestaurantID:      req.RestaurantID,
		CustomerName:      req.CustomerName,
		Phone:             req.Phone,
		AltPhone:          req.AltPhone,
		Email:             req.Email,
		DeviceFingerprint: req.DeviceFingerprint,
		ItemsTotal:        quote.ItemsTotal,
		DeliveryCharge:    quote.DeliveryCharge,
		CouponDiscount:    quote.CouponDiscount,
		OfferDiscount:     quote.OfferDiscount,
		FinalTotal:        quote.FinalTotal,
		CouponUsed:        quote.CouponUsed,
		Status:            models.StatusPending,
		OTP:               ident.OTP(),
		PaymentType:       req.PaymentType,
		HouseNo:           req.HouseNo,
		Landmark:          req.Landmark,
		City:              req.City,
		Pincode:           req.Pincode,
		DeliveryNote:      req.DeliveryNote,
	}
	if quote.OfferID != 0 {
		id := quote.OfferID
		order.RestaurantOfferID = &id
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, models.OrderItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	if err := s.orders.Create(ctx, order, items); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderEvent{
		Type:         events.OrderPlaced,
		OrderID:      order.ID,
		OrderCode:    order.Code,
		RestaurantID: order.RestaurantID,
		Status:       order.Status,
		FinalTotal:   order.FinalTotal,
	})

	return order, nil
}

// price is the single pricing path behind Quote and PlaceOrder.
func (s *OrderService) price(ctx context.Context, req QuoteRequest) (*Quote, error) {
	restaurant, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	applyCoupon := req.ApplyCoupon
	if req.CouponCode != "" {
		if !strings.EqualFold(req.CouponCode, pricing.CouponCode) {
			return nil, ErrInvalidCoupon
		}
		applyCoupon = true
	}

	hasIdentity := req.Phone != "" || req.DeviceFingerprint != ""
	if (req.ApplyOffer || applyCoupon) && !hasIdentity {
		return nil, ErrMissingIdentity
	}

	now := s.now()

	var offer *models.RestaurantOffer
	if hasIdentity {
		offer, err = s.resolveOffer(ctx, req.RestaurantID, now)
		if err != nil {
			return nil, err
		}
	}

	var offerUsed bool
	if offer != nil {
		offerUsed, err = s.orders.OfferUsed(ctx, offer.ID, req.Phone, req.DeviceFingerprint)
		if err != nil {
			return nil, err
		}
	}

	var firstTime bool
	if hasIdentity {
		delivered, err := s.orders.DeliveredCount(ctx, req.Phone, req.DeviceFingerprint)
		if err != nil {
			return nil, err
		}
		firstTime = delivered == 0
	}

	lines := make([]pricing.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, pricing.LineItem{
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
		})
	}

	result, err := pricing.Compute(pricing.Input{
		Items:             lines,
		Delivery:          restaurant.DeliveryConfig(),
		Offer:             offer,
		OfferAlreadyUsed:  offerUsed,
		ApplyOffer:        req.ApplyOffer,
		ApplyCoupon:       applyCoupon,
		FirstTimeCustomer: firstTime,
	})
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		ItemsTotal:        result.ItemsTotal,
		DeliveryCharge:    result.DeliveryCharge,
		OfferDiscount:     result.OfferDiscount,
		CouponDiscount:    result.CouponDiscount,
		FinalTotal:        result.FinalTotal,
		CouponUsed:        result.CouponCode,
		OfferID:           result.OfferID,
		FirstTimeCustomer: firstTime,
		OfferAlreadyUsed:  offerUsed,
	}
	if offer != nil {
		quote.OfferTitle = offer.Title
	}
	return quote, nil
}

// resolveOffer goes through the advisory cache first. Cached entries
// are re-checked against the validity window since an offer can lapse
// inside the TTL.
func (s *OrderService) resolveOffer(ctx context.Context, restaurantID int64, now time.Time) (*models.RestaurantOffer, error) {
	if s.cache != nil {
		if offer, found := s.cache.Get(ctx, restaurantID); found {
			if offer == nil || offer.EligibleAt(now) {
				return offer, nil
			}
		}
	}

	offer, err := s.offers.ActiveOffer(ctx, restaurantID, now)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, restaurantID, offer); err != nil {
			logger.Warn().Err(err).Int64("restaurant_id", restaurantID).Msg("offer cache set failed")
		}
	}
	return offer, nil
}

// OfferCheck answers the pre-checkout "can I use this restaurant's
// offer" widget.
type OfferCheck struct {
	Allowed    bool    `json:"allowed"`
	Message    string  `json:"message,omitempty"`
	OfferID    int64   `json:"offer_id,omitempty"`
	Title      string  `json:"title,omitempty"`
	OfferType  string  `json:"offer_type,omitempty"`
	OfferValue float64 `json:"offer_value,omitempty"`
	MinOrder   float64 `json:"min_order,omitempty"`
}

func (s *OrderService) CheckOffer(ctx context.Context, restaurantID int64, phone, fingerprint string) (*OfferCheck, error) {
	if phone == "" && fingerprint == "" {
		return &OfferCheck{
			Allowed: false,
			Message: "Enter your mobile number to unlock restaurant offers",
		}, nil
	}

	offer, err := s.resolveOffer(ctx, restaurantID, s.now())
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return &OfferCheck{
			Allowed: false,
			Message: "No active offer available for this restaurant",
		}, nil
	}

	used, err := s.orders.OfferUsed(ctx, offer.ID, phone, fingerprint)
	if err != nil {
		return nil, err
	}
	if used {
		return &OfferCheck{
			Allowed: false,
			Message: "You have already used this restaurant offer",
		}, nil
	}

	return &OfferCheck{
		Allowed:    true,
		OfferID:    offer.ID,
		Title:      offer.Title,
		OfferType:  string(offer.OfferType),
		OfferValue: offer.OfferValue,
		MinOrder:   offer.MinOrderAmount,
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) error {
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("order_id", id).Msg("reload after status update failed")
		return nil
	}
	s.publish(ctx, events.OrderEvent{
		Type:         events.OrderStatusChanged,
		OrderID:      order.ID,
		OrderCode:    order.Code,
		RestaurantID: order.RestaurantID,
		Status:       status,
	})
	return nil
}

// ConfirmDelivery completes the order after the delivery person enters
// the customer's OTP. The OTP is single-use; the store invalidates it.
func (s *OrderService) ConfirmDelivery(ctx context.Context, id int64, otp string) error {
	if err := s.orders.ConfirmDelivery(ctx, id, otp, s.now()); err != nil {
		return err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("order_id", id).Msg("reload after delivery confirm failed")
		return nil
	}
	s.publish(ctx, events.OrderEvent{
		Type:         events.OrderDelivered,
		OrderID:      order.ID,
		OrderCode:    order.Code,
		RestaurantID: order.RestaurantID,
		Status:       models.StatusDelivered,
		FinalTotal:   order.FinalTotal,
	})
	return nil
}

func (s *OrderService) publish(ctx context.Context, ev events.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		// Events are best-effort; the order itself is already durable.
		logger.Error().Err(err).Str("type", ev.Type).Int64("order_id", ev.OrderID).Msg("event publish failed")
	}
}
