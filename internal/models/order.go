package models

import "time"

// Order status values. Matching against stored status is always
// case-insensitive; these are the canonical spellings.
const (
	StatusPending        = "Pending"
	StatusAccepted       = "Accepted"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

type Order struct {
	ID   int64
	Code string // human-readable, ORD-<id>-<RAND6>

	RestaurantID int64

	CustomerName      string
	Phone             string
	AltPhone          string
	Email             string
	DeviceFingerprint string

	ItemsTotal        float64
	DeliveryCharge    float64
	CouponDiscount    float64 // FIRST30 only
	OfferDiscount     float64
	FinalTotal        float64
	CouponUsed        string
	RestaurantOfferID *int64

	Status      string
	OTP         string
	PaymentType string // COD / Online

	HouseNo      string
	Landmark     string
	City         string
	Pincode      string
	DeliveryNote string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeliveredAt *time.Time
}

type OrderItem struct {
	ID       int64
	OrderID  int64
	Name     string
	Quantity int
	Price    float64
}

func (i *OrderItem) Total() float64 {
	return i.Price * float64(i.Quantity)
}
