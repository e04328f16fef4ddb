package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

type generationsRepository struct {
	db *sql.DB
}

func NewGenerationsRepository(db *sql.DB) *generationsRepository {
	return &generationsRepository{db: db}
}

// Log appends a generation entry with cost and sale price copied from the
// pricing row current at insert time.
func (r *generationsRepository) Log(ctx context.Context, g domain.Generation) (*domain.Generation, error) {
	const query = `
		INSERT INTO generations (user_id, mode, quality, aspect_ratio, prompt, success, cost, sale_price)
		SELECT $1::BIGINT, $2::TEXT, $3::TEXT, $4::TEXT, $5::TEXT, $6::BOOLEAN,
			COALESCE(p.api_cost, 0), COALESCE(p.sale_price, 0)
		FROM (SELECT 1) AS one
		LEFT JOIN pricing p ON p.mode = $2::TEXT AND p.quality = $3::TEXT
		RETURNING id, cost, sale_price, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		g.UserID, string(g.Mode), string(g.Quality), g.AspectRatio, g.Prompt, g.Success,
	).Scan(&g.ID, &g.Cost, &g.SalePrice, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("logging generation: %w", err)
	}

	return &g, nil
}

func (r *generationsRepository) CountSuccessful(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM generations WHERE user_id = $1 AND success`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting generations: %w", err)
	}
	return n, nil
}

func (r *generationsRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Generation, error) {
	const query = `
		SELECT id, user_id, mode, quality, aspect_ratio, prompt, success, cost, sale_price, created_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}
	defer rows.Close()

	var gens []domain.Generation
	for rows.Next() {
		var g domain.Generation
		var mode, quality string
		if err := rows.Scan(&g.ID, &g.UserID, &mode, &quality, &g.AspectRatio, &g.Prompt, &g.Success, &g.Cost, &g.SalePrice, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning generation: %w", err)
		}
		g.Mode, g.Quality = domain.Mode(mode), domain.Quality(quality)
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

func (r *generationsRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users),
			COUNT(*),
			COUNT(*) FILTER (WHERE success),
			COALESCE(SUM(cost), 0),
			COALESCE(SUM(sale_price) FILTER (WHERE success), 0)
		FROM generations
	`

	var s domain.Stats
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Users, &s.Generations, &s.Successful, &s.Cost, &s.Revenue); err != nil {
		return nil, fmt.Errorf("fetching stats: %w", err)
	}
	return &s, nil
}
