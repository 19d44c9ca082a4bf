package service

import (
	"context"
	"fmt"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
)

type promotionStore interface {
	Create(ctx context.Context, p *domain.Promotion) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Promotion, error)
	UpdateField(ctx context.Context, id int64, field string, value any) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Promotion, error)
	Count(ctx context.Context) (int64, error)
	ListValidAt(ctx context.Context, now time.Time) ([]domain.Promotion, error)

	ApplyProduct(ctx context.Context, promoID, productID int64) error
	RemoveProduct(ctx context.Context, promoID, productID int64) error
	ReplaceProducts(ctx context.Context, promoID int64, productIDs []int64) error
	ProductIDsForPromotion(ctx context.Context, promoID int64) ([]int64, error)
	ProductsForPromotion(ctx context.Context, promoID int64) ([]domain.Product, error)
	PromotionsForProduct(ctx context.Context, productID int64, now time.Time) ([]domain.Promotion, error)
}

// PromotionService owns the promotion lifecycle and the promotion-product
// association set.
type PromotionService struct {
	promos promotionStore
	audit  *AuditService
}

func NewPromotionService(promos promotionStore, audit *AuditService) *PromotionService {
	return &PromotionService{promos: promos, audit: audit}
}

// CreateInput carries the wizard output for a new promotion.
type CreateInput struct {
	Promotion  domain.Promotion
	ProductIDs []int64
}

// Create inserts the promotion and then attaches the selected products.
// The two writes are separate commits on purpose: if the association step
// fails, the promotion stays behind with an empty product set, which the
// detail view renders as such.
func (s *PromotionService) Create(ctx context.Context, in CreateInput) (*domain.Promotion, error) {
	p := in.Promotion

	if err := domain.ValidatePromotionName(p.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateDiscount(p.DiscountType, p.DiscountValue); err != nil {
		return nil, err
	}
	if err := domain.ValidateDateRange(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}

	p.IsActive = true
	id, err := s.promos.Create(ctx, &p)
	if err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	p.ID = id

	if len(in.ProductIDs) > 0 {
		if err := s.promos.ReplaceProducts(ctx, id, in.ProductIDs); err != nil {
			return nil, fmt.Errorf("attach products to promotion %d: %w", id, err)
		}
	}

	s.audit.RecordEntity(ctx, p.CreatedBy, domain.ActionCreatePromotion, domain.EntityPromotion, id,
		fmt.Sprintf("name=%q type=%s value=%s products=%d",
			p.Name, p.DiscountType, p.DiscountValue, len(in.ProductIDs)))

	return &p, nil
}

// UpdateField changes a single promotion field from the edit flow. The
// value must already be validated by the wizard's field rules.
func (s *PromotionService) UpdateField(ctx context.Context, adminID, promoID int64, field string, value any) error {
	if err := s.promos.UpdateField(ctx, promoID, field, value); err != nil {
		return err
	}
	s.audit.RecordEntity(ctx, adminID, domain.ActionEditPromotion, domain.EntityPromotion, promoID,
		fmt.Sprintf("field=%s value=%v", field, value))
	return nil
}

// ToggleActive flips is_active and returns the new state.
func (s *PromotionService) ToggleActive(ctx context.Context, adminID, promoID int64) (bool, error) {
	p, err := s.promos.GetByID(ctx, promoID)
	if err != nil {
		return false, err
	}
	next := !p.IsActive
	if err := s.promos.SetActive(ctx, promoID, next); err != nil {
		return false, err
	}
	s.audit.RecordEntity(ctx, adminID, domain.ActionTogglePromotion, domain.EntityPromotion, promoID,
		fmt.Sprintf("is_active=%t", next))
	return next, nil
}

func (s *PromotionService) Delete(ctx context.Context, adminID, promoID int64) error {
	if err := s.promos.Delete(ctx, promoID); err != nil {
		return err
	}
	s.audit.RecordEntity(ctx, adminID, domain.ActionDeletePromotion, domain.EntityPromotion, promoID, "")
	return nil
}

func (s *PromotionService) Get(ctx context.Context, promoID int64) (*domain.Promotion, error) {
	return s.promos.GetByID(ctx, promoID)
}

func (s *PromotionService) List(ctx context.Context, limit, offset int) ([]domain.Promotion, error) {
	return s.promos.List(ctx, limit, offset)
}

func (s *PromotionService) Count(ctx context.Context) (int64, error) {
	return s.promos.Count(ctx)
}

func (s *PromotionService) ListValid(ctx context.Context) ([]domain.Promotion, error) {
	return s.promos.ListValidAt(ctx, time.Now())
}

// Apply links one product idempotently, outside the wizard (product
// management submenu on an existing promotion).
func (s *PromotionService) Apply(ctx context.Context, adminID, promoID, productID int64) error {
	if err := s.promos.ApplyProduct(ctx, promoID, productID); err != nil {
		return err
	}
	s.audit.RecordEntity(ctx, adminID, domain.ActionEditPromotion, domain.EntityPromotion, promoID,
		fmt.Sprintf("apply product=%d", productID))
	return nil
}

func (s *PromotionService) Remove(ctx context.Context, adminID, promoID, productID int64) error {
	if err := s.promos.RemoveProduct(ctx, promoID, productID); err != nil {
		return err
	}
	s.audit.RecordEntity(ctx, adminID, domain.ActionEditPromotion, domain.EntityPromotion, promoID,
		fmt.Sprintf("remove product=%d", productID))
	return nil
}

// ReplaceAll reconciles the association set with exactly productIDs.
func (s *PromotionService) ReplaceAll(ctx context.Context, adminID, promoID int64, productIDs []int64) error {
	if err := s.promos.ReplaceProducts(ctx, promoID, productIDs); err != nil {
		return err
	}
	s.audit.RecordEntity(ctx, adminID, domain.ActionEditPromotion, domain.EntityPromotion, promoID,
		fmt.Sprintf("replace products=%v", productIDs))
	return nil
}

// ProductIDs returns the ids of products currently linked to the promotion.
func (s *PromotionService) ProductIDs(ctx context.Context, promoID int64) ([]int64, error) {
	return s.promos.ProductIDsForPromotion(ctx, promoID)
}

// ForProduct lists the promotions currently applying to a product, for the
// shopper-facing catalog.
func (s *PromotionService) ForProduct(ctx context.Context, productID int64) ([]domain.Promotion, error) {
	return s.promos.PromotionsForProduct(ctx, productID, time.Now())
}

// Products lists products linked to the promotion. With onlyValid set the
// list is empty unless the promotion itself currently applies.
func (s *PromotionService) Products(ctx context.Context, promoID int64, onlyValid bool) ([]domain.Product, error) {
	if onlyValid {
		p, err := s.promos.GetByID(ctx, promoID)
		if err != nil {
			return nil, err
		}
		if !p.IsValidAt(time.Now()) {
			return nil, nil
		}
	}
	return s.promos.ProductsForPromotion(ctx, promoID)
}
