package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/tiffinbox/ordering-service/internal/models"
)

func percentOffer(value, minOrder float64) *models.RestaurantOffer {
	return &models.RestaurantOffer{
		ID:             7,
		RestaurantID:   1,
		OfferType:      models.OfferPercent,
		OfferValue:     value,
		MinOrderAmount: minOrder,
		StartDate:      time.Now().Add(-time.Hour),
		EndDate:        time.Now().Add(time.Hour),
		IsActive:       true,
	}
}

func TestItemsTotal(t *testing.T) {
	tests := []struct {
		name    string
		items   []LineItem
		want    float64
		wantErr bool
	}{
		{"empty cart", nil, 0, false},
		{"single item", []LineItem{{Name: "Biryani", UnitPrice: 250, Quantity: 2}}, 500, false},
		{"mixed items", []LineItem{
			{Name: "Pizza", UnitPrice: 199.50, Quantity: 1},
			{Name: "Rolls", UnitPrice: 60, Quantity: 3},
		}, 379.50, false},
		{"zero quantity contributes nothing", []LineItem{{Name: "Coke", UnitPrice: 40, Quantity: 0}}, 0, false},
		{"negative price rejected", []LineItem{{Name: "x", UnitPrice: -1, Quantity: 1}}, 0, true},
		{"negative quantity rejected", []LineItem{{Name: "x", UnitPrice: 10, Quantity: -2}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ItemsTotal(tt.items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ItemsTotal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ItemsTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeliveryCharge(t *testing.T) {
	cfg := models.DeliveryConfig{BaseCharge: 40, FreeDeliveryLimit: 499}

	tests := []struct {
		name       string
		itemsTotal float64
		want       float64
	}{
		{"below threshold", 498.99, 40},
		{"exactly at threshold", 499, 0},
		{"above threshold", 600, 0},
		{"zero order", 0, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeliveryCharge(cfg, tt.itemsTotal); got != tt.want {
				t.Fatalf("DeliveryCharge(%v) = %v, want %v", tt.itemsTotal, got, tt.want)
			}
		})
	}

	t.Run("no threshold keeps base charge", func(t *testing.T) {
		noFree := models.DeliveryConfig{BaseCharge: 30}
		if got := DeliveryCharge(noFree, 10000); got != 30 {
			t.Fatalf("DeliveryCharge without threshold = %v, want 30", got)
		}
	})

	// Charge never rises as the cart grows.
	t.Run("monotonically non-increasing", func(t *testing.T) {
		prev := DeliveryCharge(cfg, 0)
		for total := 1.0; total <= 1000; total += 7 {
			cur := DeliveryCharge(cfg, total)
			if cur > prev {
				t.Fatalf("charge rose from %v to %v at total %v", prev, cur, total)
			}
			prev = cur
		}
	})
}

func TestCompute_FirstTimeCoupon(t *testing.T) {
	// items_total=500, no offer, first-time customer, coupon requested.
	res, err := Compute(Input{
		Items:             []LineItem{{Name: "Thali", UnitPrice: 250, Quantity: 2}},
		Delivery:          models.DeliveryConfig{BaseCharge: 40},
		ApplyCoupon:       true,
		FirstTimeCustomer: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.CouponDiscount != 60 {
		t.Fatalf("coupon discount = %v, want 60 (30%% of 500 capped)", res.CouponDiscount)
	}
	if res.CouponCode != CouponCode {
		t.Fatalf("coupon code = %q, want %q", res.CouponCode, CouponCode)
	}
	if res.FinalTotal != 500+40-60 {
		t.Fatalf("final total = %v, want %v", res.FinalTotal, 500+40-60.0)
	}
}

func TestCompute_CouponBelowCap(t *testing.T) {
	// 30% of 199 = 59.70, under the cap.
	res, err := Compute(Input{
		Items:             []LineItem{{Name: "Meal", UnitPrice: 199, Quantity: 1}},
		ApplyCoupon:       true,
		FirstTimeCustomer: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.CouponDiscount-59.7) > 1e-9 {
		t.Fatalf("coupon discount = %v, want 59.7", res.CouponDiscount)
	}
}

func TestCompute_CouponMinimumOrder(t *testing.T) {
	res, err := Compute(Input{
		Items:             []LineItem{{Name: "Snack", UnitPrice: 198, Quantity: 1}},
		ApplyCoupon:       true,
		FirstTimeCustomer: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.CouponDiscount != 0 {
		t.Fatalf("coupon applied below 199 minimum: %v", res.CouponDiscount)
	}
}

func TestCompute_RepeatCustomerNoCoupon(t *testing.T) {
	res, err := Compute(Input{
		Items:             []LineItem{{Name: "Thali", UnitPrice: 250, Quantity: 2}},
		ApplyCoupon:       true,
		FirstTimeCustomer: false,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.CouponDiscount != 0 || res.CouponCode != "" {
		t.Fatalf("repeat customer got coupon: %+v", res)
	}
}

func TestCompute_PercentOfferSuppressesCoupon(t *testing.T) {
	// 10% offer on 500 with min 100: discount 50, coupon never evaluated
	// even though the customer qualifies and asked for it.
	res, err := Compute(Input{
		Items:             []LineItem{{Name: "Thali", UnitPrice: 250, Quantity: 2}},
		Delivery:          models.DeliveryConfig{BaseCharge: 40, FreeDeliveryLimit: 499},
		Offer:             percentOffer(10, 100),
		ApplyOffer:        true,
		ApplyCoupon:       true,
		FirstTimeCustomer: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OfferDiscount != 50 {
		t.Fatalf("offer discount = %v, want 50", res.OfferDiscount)
	}
	if res.CouponDiscount != 0 || res.CouponCode != "" {
		t.Fatalf("coupon applied alongside offer: %+v", res)
	}
	if res.OfferID == 0 {
		t.Fatal("offer ID not recorded")
	}
	if res.DeliveryCharge != 0 {
		t.Fatalf("delivery = %v, want 0 at free-delivery threshold", res.DeliveryCharge)
	}
}

func TestCompute_OfferBelowMinimum(t *testing.T) {
	res, err := Compute(Input{
		Items:      []LineItem{{Name: "Rolls", UnitPrice: 50, Quantity: 1}},
		Offer:      percentOffer(10, 100),
		ApplyOffer: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OfferDiscount != 0 || res.OfferID != 0 {
		t.Fatalf("offer applied below its minimum: %+v", res)
	}
}

func TestCompute_OfferAlreadyUsed(t *testing.T) {
	res, err := Compute(Input{
		Items:            []LineItem{{Name: "Thali", UnitPrice: 250, Quantity: 2}},
		Offer:            percentOffer(10, 100),
		ApplyOffer:       true,
		OfferAlreadyUsed: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OfferDiscount != 0 || res.OfferID != 0 {
		t.Fatalf("used offer applied again: %+v", res)
	}
}

func TestCompute_OfferNotRequested(t *testing.T) {
	res, err := Compute(Input{
		Items:      []LineItem{{Name: "Thali", UnitPrice: 250, Quantity: 2}},
		Offer:      percentOffer(10, 100),
		ApplyOffer: false,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OfferDiscount != 0 {
		t.Fatalf("offer applied without caller intent: %+v", res)
	}
}

func TestCompute_FlatOfferCanGoNegative(t *testing.T) {
	// Documents the live unclamped rule: flat 1000 on a 500 order
	// drives the total negative.
	flat := percentOffer(0, 0)
	flat.OfferType = models.OfferFlat
	flat.OfferValue = 1000

	res, err := Compute(Input{
		Items:      []LineItem{{Name: "Thali", UnitPrice: 250, Quantity: 2}},
		Delivery:   models.DeliveryConfig{BaseCharge: 40},
		Offer:      flat,
		ApplyOffer: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OfferDiscount != 1000 {
		t.Fatalf("flat discount = %v, want 1000", res.OfferDiscount)
	}
	if res.FinalTotal != 500+40-1000 {
		t.Fatalf("final total = %v, want %v", res.FinalTotal, 500+40-1000.0)
	}
}

func TestCompute_FreeDeliveryOfferZeroesCharge(t *testing.T) {
	fd := percentOffer(0, 0)
	fd.OfferType = models.OfferFreeDelivery

	res, err := Compute(Input{
		Items:      []LineItem{{Name: "Rolls", UnitPrice: 60, Quantity: 2}},
		Delivery:   models.DeliveryConfig{BaseCharge: 40, FreeDeliveryLimit: 499},
		Offer:      fd,
		ApplyOffer: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.DeliveryCharge != 0 {
		t.Fatalf("delivery = %v, want 0 under free_delivery offer", res.DeliveryCharge)
	}
	if res.OfferDiscount != 0 {
		t.Fatalf("free_delivery offer produced monetary discount %v", res.OfferDiscount)
	}
	if res.OfferID == 0 {
		t.Fatal("free_delivery offer consumption not recorded")
	}
}

func TestCompute_FreeDeliveryOfferDoesNotSuppressCoupon(t *testing.T) {
	// The coupon gate checks the monetary offer discount, which a
	// free_delivery offer leaves at zero. Both can land on one order.
	fd := percentOffer(0, 0)
	fd.OfferType = models.OfferFreeDelivery

	res, err := Compute(Input{
		Items:             []LineItem{{Name: "Thali", UnitPrice: 250, Quantity: 2}},
		Delivery:          models.DeliveryConfig{BaseCharge: 40},
		Offer:             fd,
		ApplyOffer:        true,
		ApplyCoupon:       true,
		FirstTimeCustomer: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.CouponDiscount != 60 {
		t.Fatalf("coupon discount = %v, want 60", res.CouponDiscount)
	}
	if res.DeliveryCharge != 0 {
		t.Fatalf("delivery = %v, want 0", res.DeliveryCharge)
	}
	if res.FinalTotal != 440 {
		t.Fatalf("final total = %v, want 440", res.FinalTotal)
	}
}

func TestCompute_RoundingOnlyAtFinalTotal(t *testing.T) {
	// 3 x 33.337 = 100.011; the per-item products stay unrounded and
	// only the final total is rounded to two decimals.
	res, err := Compute(Input{
		Items:    []LineItem{{Name: "Chai", UnitPrice: 33.337, Quantity: 3}},
		Delivery: models.DeliveryConfig{BaseCharge: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalTotal != 100.01 {
		t.Fatalf("final total = %v, want 100.01", res.FinalTotal)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	in := Input{
		Items:             []LineItem{{Name: "Thali", UnitPrice: 250, Quantity: 2}},
		Delivery:          models.DeliveryConfig{BaseCharge: 40, FreeDeliveryLimit: 499},
		Offer:             percentOffer(10, 100),
		ApplyOffer:        true,
		ApplyCoupon:       true,
		FirstTimeCustomer: true,
	}
	first, err := Compute(in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Compute(in)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("identical inputs diverged: %+v vs %+v", first, second)
	}
}

func TestCompute_InvalidItemFailsWhole(t *testing.T) {
	_, err := Compute(Input{
		Items: []LineItem{
			{Name: "ok", UnitPrice: 100, Quantity: 1},
			{Name: "bad", UnitPrice: -5, Quantity: 1},
		},
	})
	if err != ErrInvalidLineItem {
		t.Fatalf("err = %v, want ErrInvalidLineItem", err)
	}
}
