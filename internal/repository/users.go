package repository

import (
	"context"
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Users struct {
	db *pgxpool.Pool
}

func NewUsers(db *pgxpool.Pool) *Users {
	return &Users{db: db}
}

// FindOrCreate upserts the user by telegram id, refreshing name, username
// and admin flag on every contact.
func (r *Users) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (telegram_id, first_name, username, is_admin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id)
		DO UPDATE SET first_name = $2, username = $3, is_admin = $4, updated_at = NOW()
		RETURNING id, telegram_id, first_name, username, is_admin, is_active, created_at, updated_at`,
		telegramID, firstName, username, isAdmin).Scan(
		&u.ID, &u.TelegramID, &u.FirstName, &u.Username, &u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}
	return &u, nil
}

func (r *Users) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		SELECT id, telegram_id, first_name, username, is_admin, is_active, created_at, updated_at
		FROM users WHERE id = $1`, id).Scan(
		&u.ID, &u.TelegramID, &u.FirstName, &u.Username, &u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ActiveIDs returns every active user id, for broadcast targeting that
// bypasses the subscription table.
func (r *Users) ActiveIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users WHERE is_active`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TelegramIDs maps internal user ids to telegram chat ids, preserving only
// users that still exist and are active.
func (r *Users) TelegramIDs(ctx context.Context, userIDs []int64) (map[int64]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, telegram_id FROM users WHERE id = ANY($1) AND is_active`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("map telegram ids: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int64, len(userIDs))
	for rows.Next() {
		var id, tgID int64
		if err := rows.Scan(&id, &tgID); err != nil {
			return nil, fmt.Errorf("scan telegram id: %w", err)
		}
		out[id] = tgID
	}
	return out, rows.Err()
}

func (r *Users) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
