package models

import "time"

type OfferType string

const (
	OfferPercent      OfferType = "percent"
	OfferFlat         OfferType = "flat"
	OfferFreeDelivery OfferType = "free_delivery"
)

// RestaurantOffer is a restaurant-scoped, time-bounded promotion.
// At most one offer per restaurant may be active at a time; the
// activation path deactivates siblings and the schema backs this with
// a partial unique index.
type RestaurantOffer struct {
	ID             int64
	RestaurantID   int64
	Title          string
	Description    string
	OfferType      OfferType
	OfferValue     float64
	MinOrderAmount float64
	StartDate      time.Time
	EndDate        time.Time
	IsActive       bool
}

// EligibleAt reports whether the offer is active and inside its
// validity window at the given instant.
func (o *RestaurantOffer) EligibleAt(now time.Time) bool {
	return o.IsActive && !now.Before(o.StartDate) && !now.After(o.EndDate)
}
