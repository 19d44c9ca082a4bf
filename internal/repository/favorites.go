package repository

import (
	"context"
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Favorites struct {
	db *pgxpool.Pool
}

func NewFavorites(db *pgxpool.Pool) *Favorites {
	return &Favorites{db: db}
}

// Toggle removes the favorite when present, adds it otherwise. Returns the
// new state.
func (r *Favorites) Toggle(ctx context.Context, userID, productID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO favorites (user_id, product_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, productID,
	)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, nil
}

func (r *Favorites) ProductIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id FROM favorites WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Favorites) ListByUser(ctx context.Context, userID int64) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.id, p.name, p.description, p.price, p.in_stock, p.image_url, p.created_at, p.updated_at
		 FROM products p
		 JOIN favorites f ON f.product_id = p.id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}
