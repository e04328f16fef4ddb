package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

type usersRepository struct {
	db               *sql.DB
	defaultAllowance int
}

func NewUsersRepository(db *sql.DB, defaultAllowance int) *usersRepository {
	return &usersRepository{db: db, defaultAllowance: defaultAllowance}
}

const userColumns = `id, display_name, allowance, blocked, admin, locale, created_at, last_active`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var locale string
	if err := row.Scan(&u.ID, &u.DisplayName, &u.Allowance, &u.Blocked, &u.Admin, &locale, &u.CreatedAt, &u.LastActive); err != nil {
		return nil, err
	}
	u.Locale = domain.Locale(locale)
	return &u, nil
}

// Touch registers the user or refreshes the display name and last-active time.
func (r *usersRepository) Touch(ctx context.Context, id int64, displayName string) (*domain.User, error) {
	query := `
		INSERT INTO users (id, display_name, allowance, locale)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			last_active = NOW()
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, displayName, r.defaultAllowance, string(domain.DefaultLocale)))
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	return u, nil
}

func (r *usersRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return u, nil
}

func (r *usersRepository) List(ctx context.Context) ([]domain.UserSummary, error) {
	query := `
		SELECT ` + prefixed("u", userColumns) + `,
			COUNT(g.id) FILTER (WHERE g.success),
			COALESCE(SUM(g.cost), 0)
		FROM users u
		LEFT JOIN generations g ON g.user_id = u.id
		GROUP BY u.id
		ORDER BY u.last_active DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []domain.UserSummary
	for rows.Next() {
		var s domain.UserSummary
		var locale string
		if err := rows.Scan(
			&s.ID, &s.DisplayName, &s.Allowance, &s.Blocked, &s.Admin, &locale, &s.CreatedAt, &s.LastActive,
			&s.Generations, &s.Spent,
		); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		s.Locale = domain.Locale(locale)
		users = append(users, s)
	}
	return users, rows.Err()
}

func (r *usersRepository) SetLocale(ctx context.Context, id int64, locale domain.Locale) error {
	return r.update(ctx, `UPDATE users SET locale = $2 WHERE id = $1`, id, string(locale))
}

func (r *usersRepository) SetAllowance(ctx context.Context, id int64, allowance int) error {
	if allowance < 0 {
		return fmt.Errorf("allowance must not be negative, got %d", allowance)
	}
	return r.update(ctx, `UPDATE users SET allowance = $2 WHERE id = $1`, id, allowance)
}

func (r *usersRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return r.update(ctx, `UPDATE users SET blocked = $2 WHERE id = $1`, id, blocked)
}

func (r *usersRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.update(ctx, `UPDATE users SET admin = $2 WHERE id = $1`, id, admin)
}

// GrantAdmin sets the admin flag, creating the user record if it does not exist yet.
func (r *usersRepository) GrantAdmin(ctx context.Context, id int64) error {
	const query = `
		INSERT INTO users (id, allowance, admin)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (id)
		DO UPDATE SET admin = TRUE
	`

	if _, err := r.db.ExecContext(ctx, query, id, r.defaultAllowance); err != nil {
		return fmt.Errorf("granting admin: %w", err)
	}
	return nil
}

func (r *usersRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
