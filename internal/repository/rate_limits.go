package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RateLimits struct {
	db *pgxpool.Pool
}

func NewRateLimits(db *pgxpool.Pool) *RateLimits {
	return &RateLimits{db: db}
}

// CheckAndIncrement bumps the per-chat counter for the current minute
// window and returns the new count.
func (r *RateLimits) CheckAndIncrement(ctx context.Context, chatID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		INSERT INTO rate_limits (chat_id, window_start, count)
		VALUES ($1, date_trunc('minute', NOW()), 1)
		ON CONFLICT (chat_id, window_start)
		DO UPDATE SET count = rate_limits.count + 1
		RETURNING count`, chatID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment rate limit: %w", err)
	}
	return count, nil
}

// CleanupStale drops rate-limit windows older than five minutes.
func (r *RateLimits) CleanupStale(ctx context.Context) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM rate_limits WHERE window_start < NOW() - INTERVAL '5 minutes'`)
	if err != nil {
		return fmt.Errorf("cleanup rate limits: %w", err)
	}
	return nil
}
