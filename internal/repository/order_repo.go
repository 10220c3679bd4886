package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/tiffinbox/ordering-service/internal/ident"
	"github.com/tiffinbox/ordering-service/internal/models"
)

var (
	// ErrOfferAlreadyUsed surfaces the commit-time uniqueness check on
	// (restaurant_offer_id, phone): at most one successful use of an
	// offer per customer identity, even under concurrent requests.
	ErrOfferAlreadyUsed = errors.New("repository: offer already used by this customer")

	// ErrInvalidOTP is returned when a delivery confirmation carries
	// the wrong code.
	ErrInvalidOTP = errors.New("repository: otp does not match")
)

const pqUniqueViolation = "23505"

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create persists the order and its items in one transaction and
// derives the human-readable order code from the assigned id. A
// unique-violation on the offer-usage index rolls the whole order
// back and reports ErrOfferAlreadyUsed.
func (r *OrderRepo) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertOrder := `
		INSERT INTO orders
		(restaurant_id, customer_name, phone, alt_phone, email, device_fingerprint,
		 items_total, delivery_charge, coupon_discount, offer_discount, final_total,
		 coupon_used, restaurant_offer_id, status, otp, payment_type,
		 house_no, landmark, city, pincode, delivery_note, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,NOW(),NOW())
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, insertOrder,
		order.RestaurantID,
		order.CustomerName,
		order.Phone,
		order.AltPhone,
		order.Email,
		order.DeviceFingerprint,
		order.ItemsTotal,
		order.DeliveryCharge,
		order.CouponDiscount,
		order.OfferDiscount,
		order.FinalTotal,
		nullString(order.CouponUsed),
		order.RestaurantOfferID,
		order.Status,
		order.OTP,
		order.PaymentType,
		order.HouseNo,
		order.Landmark,
		order.City,
		order.Pincode,
		order.DeliveryNote,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return translateOrderErr(err)
	}

	order.Code = ident.OrderCode(order.ID)
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET order_code = $1 WHERE id = $2`,
		order.Code, order.ID,
	); err != nil {
		return err
	}

	insertItem := `INSERT INTO order_items (order_id, item_name, quantity, price) VALUES ($1, $2, $3, $4)`
	for i := range items {
		if items[i].Quantity <= 0 {
			continue
		}
		items[i].OrderID = order.ID
		if _, err := tx.ExecContext(ctx, insertItem,
			order.ID, items[i].Name, items[i].Quantity, items[i].Price,
		); err != nil {
			return err
		}
	}

	return translateOrderErr(tx.Commit())
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `
		SELECT id, COALESCE(order_code, ''), restaurant_id, customer_name, phone,
		       alt_phone, email, device_fingerprint,
		       items_total, delivery_charge, coupon_discount, offer_discount,
		       final_total, COALESCE(coupon_used, ''), restaurant_offer_id,
		       status, COALESCE(otp, ''), payment_type,
		       house_no, landmark, city, pincode, delivery_note,
		       created_at, updated_at, delivered_at
		FROM orders
		WHERE id = $1
	`

	var o models.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Code, &o.RestaurantID, &o.CustomerName, &o.Phone,
		&o.AltPhone, &o.Email, &o.DeviceFingerprint,
		&o.ItemsTotal, &o.DeliveryCharge, &o.CouponDiscount, &o.OfferDiscount,
		&o.FinalTotal, &o.CouponUsed, &o.RestaurantOfferID,
		&o.Status, &o.OTP, &o.PaymentType,
		&o.HouseNo, &o.Landmark, &o.City, &o.Pincode, &o.DeliveryNote,
		&o.CreatedAt, &o.UpdatedAt, &o.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// DeliveredCount counts delivered orders for the identity across all
// restaurants. Zero means first-time customer. Status comparison is
// case-insensitive; identity matches on phone OR fingerprint. Empty
// identity fields never match: stored rows keep '' for a missing
// fingerprint, and '' = '' would tie every fingerprint-less customer
// to every other one's history.
func (r *OrderRepo) DeliveredCount(ctx context.Context, phone, fingerprint string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE ((phone = $1 AND $1 <> '') OR (device_fingerprint = $2 AND $2 <> ''))
		  AND LOWER(status) = 'delivered'
	`

	var n int
	if err := r.db.QueryRowContext(ctx, query, phone, fingerprint).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// OfferUsed reports whether the identity already completed a delivered
// order that consumed the given offer.
func (r *OrderRepo) OfferUsed(ctx context.Context, offerID int64, phone, fingerprint string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE restaurant_offer_id = $1
		  AND ((phone = $2 AND $2 <> '') OR (device_fingerprint = $3 AND $3 <> ''))
		  AND LOWER(status) = 'delivered'
	`

	var n int
	if err := r.db.QueryRowContext(ctx, query, offerID, phone, fingerprint).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ConfirmDelivery marks the order delivered after checking the OTP,
// and invalidates the OTP so it cannot be replayed.
func (r *OrderRepo) ConfirmDelivery(ctx context.Context, id int64, otp string, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var stored sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT otp FROM orders WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if !stored.Valid || stored.String == "" || stored.String != otp {
		return ErrInvalidOTP
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, delivered_at = $2, updated_at = $2, otp = NULL
		WHERE id = $3
	`, models.StatusDelivered, now, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func translateOrderErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrOfferAlreadyUsed
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
