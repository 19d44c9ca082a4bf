package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Promotions persists promotions and their product associations.
type Promotions struct {
	db *pgxpool.Pool
}

func NewPromotions(db *pgxpool.Pool) *Promotions {
	return &Promotions{db: db}
}

const promotionColumns = `id, name, description, discount_type, discount_value,
	start_date, end_date, is_active, created_by, created_at, updated_at`

func scanPromotion(row pgx.Row) (*domain.Promotion, error) {
	var p domain.Promotion
	var discountType string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &discountType, &p.DiscountValue,
		&p.StartDate, &p.EndDate, &p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.DiscountType, err = domain.ParseDiscountType(discountType)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Promotions) Create(ctx context.Context, p *domain.Promotion) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO promotions (name, description, discount_type, discount_value,
			start_date, end_date, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		p.Name, p.Description, p.DiscountType.String(), p.DiscountValue,
		p.StartDate, p.EndDate, p.IsActive, p.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert promotion: %w", err)
	}
	return id, nil
}

func (r *Promotions) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id)
	p, err := scanPromotion(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return p, nil
}

// promotionColumnsByField whitelists the columns the edit flow may touch.
var promotionColumnsByField = map[string]string{
	"name":           "name",
	"description":    "description",
	"discount_type":  "discount_type",
	"discount_value": "discount_value",
	"start_date":     "start_date",
	"end_date":       "end_date",
}

func (r *Promotions) UpdateField(ctx context.Context, id int64, field string, value any) error {
	column, ok := promotionColumnsByField[field]
	if !ok {
		return fmt.Errorf("update promotion: unknown field %q", field)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE promotions SET `+column+` = $2, updated_at = NOW() WHERE id = $1`,
		id, value)
	if err != nil {
		return fmt.Errorf("update promotion %s: %w", field, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromotionNotFound
	}
	return nil
}

func (r *Promotions) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE promotions SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active)
	if err != nil {
		return fmt.Errorf("set promotion active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromotionNotFound
	}
	return nil
}

// Delete removes the promotion; its product associations go with it via the
// ON DELETE CASCADE constraint.
func (r *Promotions) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromotionNotFound
	}
	return nil
}

func (r *Promotions) List(ctx context.Context, limit, offset int) ([]domain.Promotion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()
	return collectPromotions(rows)
}

func (r *Promotions) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM promotions`).Scan(&n)
	return n, err
}

// ListValidAt returns promotions applicable at the given moment.
func (r *Promotions) ListValidAt(ctx context.Context, now time.Time) ([]domain.Promotion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+promotionColumns+` FROM promotions
		WHERE is_active AND start_date <= $1 AND (end_date IS NULL OR end_date >= $1)
		ORDER BY start_date`, now)
	if err != nil {
		return nil, fmt.Errorf("list valid promotions: %w", err)
	}
	defer rows.Close()
	return collectPromotions(rows)
}

func collectPromotions(rows pgx.Rows) ([]domain.Promotion, error) {
	var out []domain.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
