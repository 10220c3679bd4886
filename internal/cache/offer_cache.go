// Package cache holds the redis-backed read cache for resolved
// restaurant offers. The cache is advisory: pricing correctness never
// depends on it, it only spares the offer lookup on hot restaurants.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tiffinbox/ordering-service/internal/models"
)

const offerTTL = 60 * time.Second

// sentinel stored for "no active offer" so a restaurant without
// offers does not hit the database on every cart view.
const noOffer = "none"

type OfferCache struct {
	rdb *redis.Client
}

func NewOfferCache(rdb *redis.Client) *OfferCache {
	return &OfferCache{rdb: rdb}
}

func offerKey(restaurantID int64) string {
	return fmt.Sprintf("restaurant:%d:active_offer", restaurantID)
}

// Get returns (offer, found). found=true with a nil offer means the
// cache knows the restaurant has no active offer right now.
func (c *OfferCache) Get(ctx context.Context, restaurantID int64) (*models.RestaurantOffer, bool) {
	raw, err := c.rdb.Get(ctx, offerKey(restaurantID)).Result()
	if err != nil {
		// redis.Nil or transport error: treat both as a miss.
		return nil, false
	}
	if raw == noOffer {
		return nil, true
	}

	var offer models.RestaurantOffer
	if err := json.Unmarshal([]byte(raw), &offer); err != nil {
		return nil, false
	}
	return &offer, true
}

// Set caches the resolved offer (or its absence) with a short TTL.
func (c *OfferCache) Set(ctx context.Context, restaurantID int64, offer *models.RestaurantOffer) error {
	if offer == nil {
		return c.rdb.Set(ctx, offerKey(restaurantID), noOffer, offerTTL).Err()
	}

	raw, err := json.Marshal(offer)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, offerKey(restaurantID), raw, offerTTL).Err()
}

// Invalidate drops the cached offer; called after any offer mutation
// so activation takes effect immediately rather than at TTL expiry.
func (c *OfferCache) Invalidate(ctx context.Context, restaurantID int64) error {
	err := c.rdb.Del(ctx, offerKey(restaurantID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
