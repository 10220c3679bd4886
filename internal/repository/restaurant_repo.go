package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tiffinbox/ordering-service/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("repository: not found")

type RestaurantRepo struct {
	db *sql.DB
}

func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

func (r *RestaurantRepo) GetByID(ctx context.Context, id int64) (*models.Restaurant, error) {
	query := `
		SELECT id, name, address, phone, email,
		       delivery_charge, free_delivery_limit,
		       opening_time, closing_time
		FROM restaurants
		WHERE id = $1
	`

	var rest models.Restaurant
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rest.ID,
		&rest.Name,
		&rest.Address,
		&rest.Phone,
		&rest.Email,
		&rest.DeliveryCharge,
		&rest.FreeDeliveryLimit,
		&rest.OpeningTime,
		&rest.ClosingTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepo) List(ctx context.Context) ([]models.Restaurant, error) {
	query := `
		SELECT id, name, address, phone, email,
		       delivery_charge, free_delivery_limit,
		       opening_time, closing_time
		FROM restaurants
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Restaurant
	for rows.Next() {
		var rest models.Restaurant
		if err := rows.Scan(
			&rest.ID,
			&rest.Name,
			&rest.Address,
			&rest.Phone,
			&rest.Email,
			&rest.DeliveryCharge,
			&rest.FreeDeliveryLimit,
			&rest.OpeningTime,
			&rest.ClosingTime,
		); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}
