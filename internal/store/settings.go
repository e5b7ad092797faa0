// Package store holds the singleton store-wide settings every pricing
// computation reads.
package store

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrInvalidDeliveryCharge = errors.New("invalid delivery charge")
	ErrInvalidFreeThreshold  = errors.New("invalid free-delivery threshold")
)

// Settings is the single row (id=1) of store_settings. A nil
// FreeDeliveryAbove disables the delivery-fee waiver entirely.
type Settings struct {
	DeliveryCharge    float64  `json:"delivery_charge"`
	FreeDeliveryAbove *float64 `json:"free_delivery_above"`
}

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, s *Settings) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.db.QueryRowContext(ctx, `
		SELECT delivery_charge, free_delivery_above
		FROM store_settings WHERE id = 1
	`).Scan(&s.DeliveryCharge, &s.FreeDeliveryAbove)
	if errors.Is(err, sql.ErrNoRows) {
		// Missing singleton row behaves as "no delivery charge".
		return &Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Settings) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE store_settings
		SET delivery_charge = $1, free_delivery_above = $2, updated_at = NOW()
		WHERE id = 1
	`, s.DeliveryCharge, s.FreeDeliveryAbove)
	return err
}

type Service interface {
	Get(ctx context.Context) (*Settings, error)
	UpdateDelivery(ctx context.Context, charge float64, freeAbove *float64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *service) UpdateDelivery(ctx context.Context, charge float64, freeAbove *float64) error {
	if charge < 0 {
		return ErrInvalidDeliveryCharge
	}
	if freeAbove != nil && *freeAbove < 0 {
		return ErrInvalidFreeThreshold
	}
	return s.repo.Update(ctx, &Settings{DeliveryCharge: charge, FreeDeliveryAbove: freeAbove})
}
