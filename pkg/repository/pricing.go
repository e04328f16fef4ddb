package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

type pricingRepository struct {
	db *sql.DB
}

func NewPricingRepository(db *sql.DB) *pricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) List(ctx context.Context) ([]domain.Pricing, error) {
	const query = `
		SELECT id, mode, quality, api_cost, sale_price, updated_at
		FROM pricing
		ORDER BY mode, CASE quality WHEN 'low' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pricing: %w", err)
	}
	defer rows.Close()

	var prices []domain.Pricing
	for rows.Next() {
		var p domain.Pricing
		var mode, quality string
		if err := rows.Scan(&p.ID, &mode, &quality, &p.Cost, &p.SalePrice, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning pricing: %w", err)
		}
		p.Mode, p.Quality = domain.Mode(mode), domain.Quality(quality)
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func (r *pricingRepository) Update(ctx context.Context, id int64, cost, salePrice float64) error {
	if cost < 0 || salePrice < 0 {
		return fmt.Errorf("prices must not be negative")
	}

	const query = `
		UPDATE pricing
		SET api_cost = $2, sale_price = $3, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, cost, salePrice)
	if err != nil {
		return fmt.Errorf("updating pricing: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
