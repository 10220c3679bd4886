// Package pricing computes delivery charge, promotional discounts and
// the final payable total for a single order. It is pure arithmetic
// over resolved inputs: it never touches storage, so the cart preview
// and the order commit paths can share it and stay numerically
// identical.
package pricing

import (
	"errors"
	"math"

	"github.com/tiffinbox/ordering-service/internal/models"
)

// Platform coupon rule. Fixed platform-wide, not configurable per
// restaurant: 30% of the items total, capped, first delivered order
// only, minimum order value applies.
const (
	CouponCode     = "FIRST30"
	couponMinOrder = 199.0
	couponRate     = 0.30
	couponCap      = 60.0
)

var ErrInvalidLineItem = errors.New("pricing: line item price and quantity must be non-negative")

// LineItem exists only for the duration of one computation.
type LineItem struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

// Input carries everything Compute needs, resolved by the caller.
type Input struct {
	Items    []LineItem
	Delivery models.DeliveryConfig

	// Offer is the restaurant's currently eligible offer, nil when
	// there is none. OfferAlreadyUsed reflects the customer's prior
	// delivered orders against this exact offer.
	Offer            *models.RestaurantOffer
	OfferAlreadyUsed bool

	// Caller intent toggles: a discount is never applied unless the
	// customer asked for it.
	ApplyOffer  bool
	ApplyCoupon bool

	FirstTimeCustomer bool
}

type Result struct {
	ItemsTotal     float64
	DeliveryCharge float64
	OfferDiscount  float64
	CouponDiscount float64
	FinalTotal     float64

	// OfferID is non-zero when an offer was consumed, including a
	// free_delivery offer whose monetary discount is zero.
	OfferID    int64
	CouponCode string
}

// ItemsTotal sums quantity x unit price over the items. Rounding
// happens only at the final total, never per item.
func ItemsTotal(items []LineItem) (float64, error) {
	var total float64
	for _, it := range items {
		if it.UnitPrice < 0 || it.Quantity < 0 {
			return 0, ErrInvalidLineItem
		}
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total, nil
}

// DeliveryCharge returns the base charge, or zero once the items total
// reaches the restaurant's free-delivery threshold. A zero threshold
// means the restaurant offers no free delivery.
func DeliveryCharge(cfg models.DeliveryConfig, itemsTotal float64) float64 {
	if cfg.FreeDeliveryLimit > 0 && itemsTotal >= cfg.FreeDeliveryLimit {
		return 0
	}
	return cfg.BaseCharge
}

// ApplyOffer computes the offer's monetary discount and the delivery
// charge after the offer. A flat discount is deliberately not clamped
// to the items total and a percent discount carries no cap; both
// mirror the live rules.
func ApplyOffer(o *models.RestaurantOffer, itemsTotal, delivery float64) (discount, newDelivery float64) {
	newDelivery = delivery
	switch o.OfferType {
	case models.OfferPercent:
		discount = itemsTotal * o.OfferValue / 100
	case models.OfferFlat:
		discount = o.OfferValue
	case models.OfferFreeDelivery:
		newDelivery = 0
	}
	return discount, newDelivery
}

// CouponDiscount is the FIRST30 amount for a qualifying order:
// min(30% of items total, cap). Eligibility gating belongs to Compute.
func CouponDiscount(itemsTotal float64) float64 {
	return math.Min(itemsTotal*couponRate, couponCap)
}

// FinalTotal rounds to two decimals. No floor at zero: a flat offer
// larger than the order value produces a negative total today.
func FinalTotal(itemsTotal, delivery, offerDiscount, couponDiscount float64) float64 {
	return round2(itemsTotal + delivery - offerDiscount - couponDiscount)
}

// Compute runs the fixed precedence ladder:
//
//  1. items total
//  2. delivery charge with free-delivery threshold
//  3. restaurant offer, if requested, eligible, unused and above its
//     minimum (a free_delivery offer zeroes the delivery charge)
//  4. platform coupon, only when no monetary offer discount applied,
//     the customer is on their first order and the total qualifies
//  5. final total
//
// A restaurant offer with a monetary discount always suppresses the
// coupon, regardless of which would be larger.
func Compute(in Input) (Result, error) {
	itemsTotal, err := ItemsTotal(in.Items)
	if err != nil {
		return Result{}, err
	}

	delivery := DeliveryCharge(in.Delivery, itemsTotal)

	var res Result
	res.ItemsTotal = itemsTotal

	if in.ApplyOffer && in.Offer != nil && !in.OfferAlreadyUsed && itemsTotal >= in.Offer.MinOrderAmount {
		res.OfferDiscount, delivery = ApplyOffer(in.Offer, itemsTotal, delivery)
		res.OfferID = in.Offer.ID
	}

	if res.OfferDiscount == 0 && in.ApplyCoupon && in.FirstTimeCustomer && itemsTotal >= couponMinOrder {
		res.CouponDiscount = CouponDiscount(itemsTotal)
		res.CouponCode = CouponCode
	}

	res.DeliveryCharge = delivery
	res.FinalTotal = FinalTotal(itemsTotal, delivery, res.OfferDiscount, res.CouponDiscount)
	return res, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
