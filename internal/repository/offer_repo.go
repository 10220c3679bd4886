package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tiffinbox/ordering-service/internal/models"
)

type OfferRepo struct {
	db *sql.DB
}

func NewOfferRepo(db *sql.DB) *OfferRepo {
	return &OfferRepo{db: db}
}

const offerColumns = `id, restaurant_id, title, description, offer_type, offer_value,
	min_order_amount, start_date, end_date, is_active`

// ActiveOffer resolves the restaurant's currently eligible offer:
// is_active and inside its validity window at now. The single-active
// invariant is schema-enforced, but should the data ever violate it
// the largest id (most recently created) wins deterministically.
// Returns (nil, nil) when there is no eligible offer.
func (r *OfferRepo) ActiveOffer(ctx context.Context, restaurantID int64, now time.Time) (*models.RestaurantOffer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM restaurant_offers
		WHERE restaurant_id = $1
		  AND is_active = TRUE
		  AND start_date <= $2
		  AND end_date >= $2
		ORDER BY id DESC
		LIMIT 1
	`

	offer, err := scanOffer(r.db.QueryRowContext(ctx, query, restaurantID, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return offer, nil
}

func (r *OfferRepo) GetByID(ctx context.Context, id int64) (*models.RestaurantOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM restaurant_offers WHERE id = $1`

	offer, err := scanOffer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return offer, nil
}

func (r *OfferRepo) Create(ctx context.Context, offer *models.RestaurantOffer) error {
	query := `
		INSERT INTO restaurant_offers
		(restaurant_id, title, description, offer_type, offer_value,
		 min_order_amount, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		offer.RestaurantID,
		offer.Title,
		offer.Description,
		offer.OfferType,
		offer.OfferValue,
		offer.MinOrderAmount,
		offer.StartDate,
		offer.EndDate,
	).Scan(&offer.ID)
}

// Activate makes the offer the restaurant's single active one. The
// sibling deactivation and the activation run in one transaction so
// the partial unique index on (restaurant_id) WHERE is_active never
// trips under normal operation.
func (r *OfferRepo) Activate(ctx context.Context, offerID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var restaurantID int64
	err = tx.QueryRowContext(ctx,
		`SELECT restaurant_id FROM restaurant_offers WHERE id = $1 FOR UPDATE`,
		offerID,
	).Scan(&restaurantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE restaurant_offers SET is_active = FALSE WHERE restaurant_id = $1 AND id <> $2`,
		restaurantID, offerID,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE restaurant_offers SET is_active = TRUE WHERE id = $1`,
		offerID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *OfferRepo) Deactivate(ctx context.Context, offerID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE restaurant_offers SET is_active = FALSE WHERE id = $1`,
		offerID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type offerRow interface {
	Scan(dest ...any) error
}

func scanOffer(row offerRow) (*models.RestaurantOffer, error) {
	var o models.RestaurantOffer
	err := row.Scan(
		&o.ID,
		&o.RestaurantID,
		&o.Title,
		&o.Description,
		&o.OfferType,
		&o.OfferValue,
		&o.MinOrderAmount,
		&o.StartDate,
		&o.EndDate,
		&o.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
