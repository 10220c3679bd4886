package service

import (
	"context"
	"errors"

	"github.com/tiffinbox/ordering-service/internal/models"
)

var (
	ErrInvalidOfferType   = errors.New("service: offer_type must be percent, flat or free_delivery")
	ErrInvalidOfferValue  = errors.New("service: offer_value and min_order_amount must be non-negative")
	ErrInvalidOfferWindow = errors.New("service: offer end_date must be after start_date")
)

// OfferService owns offer management. Activation keeps the
// one-active-offer-per-restaurant invariant and drops the cached
// resolution so pricing sees the change immediately.
type OfferService struct {
	offers OfferStore
	cache  OfferCacheStore // optional
}

func NewOfferService(offers OfferStore, cache OfferCacheStore) *OfferService {
	return &OfferService{offers: offers, cache: cache}
}

func (s *OfferService) Create(ctx context.Context, offer *models.RestaurantOffer) error {
	switch offer.OfferType {
	case models.OfferPercent, models.OfferFlat, models.OfferFreeDelivery:
	default:
		return ErrInvalidOfferType
	}
	if offer.OfferValue < 0 || offer.MinOrderAmount < 0 {
		return ErrInvalidOfferValue
	}
	if !offer.EndDate.After(offer.StartDate) {
		return ErrInvalidOfferWindow
	}

	return s.offers.Create(ctx, offer)
}

func (s *OfferService) Activate(ctx context.Context, offerID int64) error {
	if err := s.offers.Activate(ctx, offerID); err != nil {
		return err
	}
	s.invalidate(ctx, offerID)
	return nil
}

func (s *OfferService) Deactivate(ctx context.Context, offerID int64) error {
	if err := s.offers.Deactivate(ctx, offerID); err != nil {
		return err
	}
	s.invalidate(ctx, offerID)
	return nil
}

func (s *OfferService) invalidate(ctx context.Context, offerID int64) {
	if s.cache == nil {
		return
	}
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		logger.Warn().Err(err).Int64("offer_id", offerID).Msg("offer reload for cache invalidation failed")
		return
	}
	if err := s.cache.Invalidate(ctx, offer.RestaurantID); err != nil {
		logger.Warn().Err(err).Int64("restaurant_id", offer.RestaurantID).Msg("offer cache invalidation failed")
	}
}
