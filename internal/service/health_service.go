package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/tiffinbox/ordering-service/internal/models"
	"github.com/tiffinbox/ordering-service/internal/pricing"
)

// The simulated cart used by the consistency check: 2x200 + 1x100.
var healthCheckCart = []pricing.LineItem{
	{Name: "item-a", UnitPrice: 200, Quantity: 2},
	{Name: "item-b", UnitPrice: 100, Quantity: 1},
}

const healthCheckWorkers = 4

type RestaurantHealth struct {
	RestaurantID int64  `json:"restaurant_id"`
	Restaurant   string `json:"restaurant"`
	Status       string `json:"status"` // green / red
	Problem      string `json:"problem,omitempty"`
}

// PricingHealth runs the simulated cart through the backend engine and
// through a frontend-style recomputation for every restaurant, and
// flags any restaurant where the two totals diverge. Restaurants are
// checked on a small worker fan-out since each needs its own offer
// lookup.
func (s *OrderService) PricingHealth(ctx context.Context) ([]RestaurantHealth, error) {
	restaurants, err := s.restaurants.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return []RestaurantHealth{}, nil
	}

	results := make([]RestaurantHealth, len(restaurants))

	workers := healthCheckWorkers
	if len(restaurants) < workers {
		workers = len(restaurants)
	}

	idxCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				results[i] = s.checkRestaurant(ctx, &restaurants[i])
			}
		}()
	}
	for i := range restaurants {
		select {
		case idxCh <- i:
		case <-ctx.Done():
			close(idxCh)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(idxCh)
	wg.Wait()

	return results, nil
}

func (s *OrderService) checkRestaurant(ctx context.Context, restaurant *models.Restaurant) RestaurantHealth {
	health := RestaurantHealth{
		RestaurantID: restaurant.ID,
		Restaurant:   restaurant.Name,
	}

	offer, err := s.resolveOffer(ctx, restaurant.ID, s.now())
	if err != nil {
		health.Status = "red"
		health.Problem = "offer lookup failed: " + err.Error()
		return health
	}

	// Backend truth: the engine, with the offer applied and a
	// first-order coupon in play.
	backend, err := pricing.Compute(pricing.Input{
		Items:             healthCheckCart,
		Delivery:          restaurant.DeliveryConfig(),
		Offer:             offer,
		ApplyOffer:        true,
		ApplyCoupon:       true,
		FirstTimeCustomer: true,
	})
	if err != nil {
		health.Status = "red"
		health.Problem = "backend pricing failed: " + err.Error()
		return health
	}

	// Frontend simulation: what the cart page's own arithmetic should
	// produce from the same inputs.
	itemsTotal := 0.0
	for _, it := range healthCheckCart {
		itemsTotal += it.UnitPrice * float64(it.Quantity)
	}
	frontendDelivery := restaurant.DeliveryCharge
	if restaurant.FreeDeliveryLimit > 0 && itemsTotal >= restaurant.FreeDeliveryLimit {
		frontendDelivery = 0
	}
	if offer != nil && offer.OfferType == models.OfferFreeDelivery && itemsTotal >= offer.MinOrderAmount {
		frontendDelivery = 0
	}
	frontendFinal := pricing.FinalTotal(itemsTotal, frontendDelivery, backend.OfferDiscount, backend.CouponDiscount)

	if backend.FinalTotal == frontendFinal {
		health.Status = "green"
	} else {
		health.Status = "red"
		health.Problem = fmt.Sprintf("frontend mismatch: expected %.2f but frontend shows %.2f",
			backend.FinalTotal, frontendFinal)
	}
	return health
}
