package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

// ApplyProduct links a product to a promotion. Re-applying an existing link
// is a no-op, not an error.
func (r *Promotions) ApplyProduct(ctx context.Context, promoID, productID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO product_promotions (product_id, promo_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT uq_product_promotion DO NOTHING`,
		productID, promoID)
	if err != nil {
		return fmt.Errorf("apply product %d to promotion %d: %w", productID, promoID, err)
	}
	return nil
}

// RemoveProduct unlinks a product from a promotion. Removing an absent link
// is a no-op.
func (r *Promotions) RemoveProduct(ctx context.Context, promoID, productID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM product_promotions WHERE promo_id = $1 AND product_id = $2`,
		promoID, productID)
	if err != nil {
		return fmt.Errorf("remove product %d from promotion %d: %w", productID, promoID, err)
	}
	return nil
}

// ReplaceProducts makes the association set of the promotion exactly equal
// to productIDs. Delete and re-insert run in one transaction so callers
// never observe a half-replaced set.
func (r *Promotions) ReplaceProducts(ctx context.Context, promoID int64, productIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM product_promotions WHERE promo_id = $1`, promoID); err != nil {
		return fmt.Errorf("clear promotion products: %w", err)
	}

	for _, productID := range productIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_promotions (product_id, promo_id)
			VALUES ($1, $2)
			ON CONFLICT ON CONSTRAINT uq_product_promotion DO NOTHING`,
			productID, promoID); err != nil {
			return fmt.Errorf("link product %d: %w", productID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ProductIDsForPromotion lists the ids of products linked to a promotion.
func (r *Promotions) ProductIDsForPromotion(ctx context.Context, promoID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id FROM product_promotions WHERE promo_id = $1 ORDER BY created_at`,
		promoID)
	if err != nil {
		return nil, fmt.Errorf("list promotion product ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ProductsForPromotion lists products linked to a promotion.
func (r *Promotions) ProductsForPromotion(ctx context.Context, promoID int64) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, p.description, p.price, p.in_stock, p.image_url, p.created_at, p.updated_at
		FROM products p
		JOIN product_promotions pp ON pp.product_id = p.id
		WHERE pp.promo_id = $1
		ORDER BY pp.created_at`, promoID)
	if err != nil {
		return nil, fmt.Errorf("list promotion products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// PromotionsForProduct lists the promotions valid right now for a product.
func (r *Promotions) PromotionsForProduct(ctx context.Context, productID int64, now time.Time) ([]domain.Promotion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pr.id, pr.name, pr.description, pr.discount_type, pr.discount_value,
			pr.start_date, pr.end_date, pr.is_active, pr.created_by, pr.created_at, pr.updated_at
		FROM promotions pr
		JOIN product_promotions pp ON pp.promo_id = pr.id
		WHERE pp.product_id = $1
			AND pr.is_active AND pr.start_date <= $2
			AND (pr.end_date IS NULL OR pr.end_date >= $2)
		ORDER BY pr.start_date`, productID, now)
	if err != nil {
		return nil, fmt.Errorf("list product promotions: %w", err)
	}
	defer rows.Close()
	return collectPromotions(rows)
}
