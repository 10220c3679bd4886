package models

import "time"

type Restaurant struct {
	ID      int64
	Name    string
	Address string
	Phone   string
	Email   string

	// Delivery pricing knobs, read-only to the pricing engine.
	DeliveryCharge    float64
	FreeDeliveryLimit float64 // 0 means no free-delivery threshold

	// Opening hours in "15:04" form. An empty value means the
	// restaurant never accepts orders.
	OpeningTime string
	ClosingTime string
}

// DeliveryConfig is the slice of Restaurant the pricing engine reads.
type DeliveryConfig struct {
	BaseCharge        float64
	FreeDeliveryLimit float64
}

func (r *Restaurant) DeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		BaseCharge:        r.DeliveryCharge,
		FreeDeliveryLimit: r.FreeDeliveryLimit,
	}
}

// IsOpenAt reports whether the restaurant accepts orders at t,
// handling overnight windows (e.g. 20:00-02:00).
func (r *Restaurant) IsOpenAt(t time.Time) bool {
	open, err1 := time.Parse("15:04", r.OpeningTime)
	close, err2 := time.Parse("15:04", r.ClosingTime)
	if err1 != nil || err2 != nil {
		return false
	}

	now := t.Hour()*60 + t.Minute()
	o := open.Hour()*60 + open.Minute()
	c := close.Hour()*60 + close.Minute()

	if o < c {
		return o <= now && now <= c
	}
	return now >= o || now <= c
}
