package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/shopspring/decimal"
)

type fakePromotionStore struct {
	promos map[int64]*domain.Promotion
	nextID int64

	linked map[int64][]int64 // promoID -> productIDs

	replaceCalls [][]int64
	replaceErr   error
}

func newFakePromotionStore() *fakePromotionStore {
	return &fakePromotionStore{
		promos: make(map[int64]*domain.Promotion),
		nextID: 1,
		linked: make(map[int64][]int64),
	}
}

func (f *fakePromotionStore) Create(_ context.Context, p *domain.Promotion) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *p
	cp.ID = id
	f.promos[id] = &cp
	return id, nil
}

func (f *fakePromotionStore) GetByID(_ context.Context, id int64) (*domain.Promotion, error) {
	p, ok := f.promos[id]
	if !ok {
		return nil, domain.ErrPromotionNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePromotionStore) UpdateField(_ context.Context, id int64, field string, value any) error {
	if _, ok := f.promos[id]; !ok {
		return domain.ErrPromotionNotFound
	}
	if field == "name" {
		f.promos[id].Name = value.(string)
	}
	return nil
}

func (f *fakePromotionStore) SetActive(_ context.Context, id int64, active bool) error {
	p, ok := f.promos[id]
	if !ok {
		return domain.ErrPromotionNotFound
	}
	p.IsActive = active
	return nil
}

func (f *fakePromotionStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.promos[id]; !ok {
		return domain.ErrPromotionNotFound
	}
	delete(f.promos, id)
	delete(f.linked, id)
	return nil
}

func (f *fakePromotionStore) List(_ context.Context, limit, offset int) ([]domain.Promotion, error) {
	return nil, nil
}

func (f *fakePromotionStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.promos)), nil
}

func (f *fakePromotionStore) ListValidAt(_ context.Context, now time.Time) ([]domain.Promotion, error) {
	var out []domain.Promotion
	for _, p := range f.promos {
		if p.IsValidAt(now) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePromotionStore) ApplyProduct(_ context.Context, promoID, productID int64) error {
	for _, id := range f.linked[promoID] {
		if id == productID {
			return nil // idempotent
		}
	}
	f.linked[promoID] = append(f.linked[promoID], productID)
	return nil
}

func (f *fakePromotionStore) RemoveProduct(_ context.Context, promoID, productID int64) error {
	ids := f.linked[promoID]
	for i, id := range ids {
		if id == productID {
			f.linked[promoID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil // absent association is a no-op
}

func (f *fakePromotionStore) ReplaceProducts(_ context.Context, promoID int64, productIDs []int64) error {
	f.replaceCalls = append(f.replaceCalls, productIDs)
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.linked[promoID] = append([]int64(nil), productIDs...)
	return nil
}

func (f *fakePromotionStore) ProductIDsForPromotion(_ context.Context, promoID int64) ([]int64, error) {
	return f.linked[promoID], nil
}

func (f *fakePromotionStore) ProductsForPromotion(_ context.Context, promoID int64) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range f.linked[promoID] {
		out = append(out, domain.Product{ID: id})
	}
	return out, nil
}

func (f *fakePromotionStore) PromotionsForProduct(_ context.Context, productID int64, now time.Time) ([]domain.Promotion, error) {
	var out []domain.Promotion
	for promoID, ids := range f.linked {
		for _, id := range ids {
			if id == productID && f.promos[promoID].IsValidAt(now) {
				out = append(out, *f.promos[promoID])
			}
		}
	}
	return out, nil
}

func validInput() CreateInput {
	return CreateInput{
		Promotion: domain.Promotion{
			Name:          "Весна 2025",
			Description:   "Скидки на всё",
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(15),
			StartDate:     time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			CreatedBy:     7,
		},
		ProductIDs: []int64{10, 20},
	}
}

func TestPromotionCreate(t *testing.T) {
	store := newFakePromotionStore()
	audit := &fakeAuditStore{}
	svc := NewPromotionService(store, NewAuditService(audit))

	p, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.ID == 0 {
		t.Error("id not assigned")
	}
	if !p.IsActive {
		t.Error("a new promotion must start active")
	}

	if len(store.replaceCalls) != 1 || len(store.replaceCalls[0]) != 2 {
		t.Fatalf("replaceCalls = %v, want one call with both products", store.replaceCalls)
	}

	rows := audit.byAction(domain.ActionCreatePromotion)
	if len(rows) != 1 {
		t.Fatalf("create audit rows = %d, want 1", len(rows))
	}
	if rows[0].AdminID != 7 || rows[0].EntityType != domain.EntityPromotion {
		t.Errorf("audit row = %+v", rows[0])
	}
}

func TestPromotionCreateNoProducts(t *testing.T) {
	store := newFakePromotionStore()
	svc := NewPromotionService(store, NewAuditService(&fakeAuditStore{}))

	in := validInput()
	in.ProductIDs = nil
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(store.replaceCalls) != 0 {
		t.Errorf("ReplaceProducts called with an empty selection")
	}
}

func TestPromotionCreateValidation(t *testing.T) {
	svc := NewPromotionService(newFakePromotionStore(), NewAuditService(&fakeAuditStore{}))

	tests := []struct {
		name    string
		mutate  func(*CreateInput)
		wantErr error
	}{
		{
			name:    "empty name",
			mutate:  func(in *CreateInput) { in.Promotion.Name = "" },
			wantErr: domain.ErrNameLength,
		},
		{
			name: "percentage over 100",
			mutate: func(in *CreateInput) {
				in.Promotion.DiscountValue = decimal.NewFromInt(150)
			},
			wantErr: domain.ErrPercentageTooLarge,
		},
		{
			name: "non-positive discount",
			mutate: func(in *CreateInput) {
				in.Promotion.DiscountValue = decimal.Zero
			},
			wantErr: domain.ErrDiscountNotPositive,
		},
		{
			name: "end before start",
			mutate: func(in *CreateInput) {
				end := in.Promotion.StartDate.AddDate(0, -1, 0)
				in.Promotion.EndDate = &end
			},
			wantErr: domain.ErrEndBeforeStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPromotionCreateAssociationFailure(t *testing.T) {
	store := newFakePromotionStore()
	store.replaceErr = errors.New("deadlock detected")
	svc := NewPromotionService(store, NewAuditService(&fakeAuditStore{}))

	_, err := svc.Create(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected an error from the association step")
	}
	// The promotion itself was committed first and stays behind.
	if len(store.promos) != 1 {
		t.Errorf("promotions stored = %d, want the orphaned promotion to remain", len(store.promos))
	}
}

func TestToggleActive(t *testing.T) {
	store := newFakePromotionStore()
	audit := &fakeAuditStore{}
	svc := NewPromotionService(store, NewAuditService(audit))

	p, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	next, err := svc.ToggleActive(context.Background(), 7, p.ID)
	if err != nil {
		t.Fatalf("ToggleActive error: %v", err)
	}
	if next {
		t.Error("first toggle should disable")
	}
	next, err = svc.ToggleActive(context.Background(), 7, p.ID)
	if err != nil {
		t.Fatalf("ToggleActive error: %v", err)
	}
	if !next {
		t.Error("second toggle should re-enable")
	}
	if rows := audit.byAction(domain.ActionTogglePromotion); len(rows) != 2 {
		t.Errorf("toggle audit rows = %d, want 2", len(rows))
	}
}

func TestDeleteMissingPromotion(t *testing.T) {
	svc := NewPromotionService(newFakePromotionStore(), NewAuditService(&fakeAuditStore{}))
	if err := svc.Delete(context.Background(), 7, 404); !errors.Is(err, domain.ErrPromotionNotFound) {
		t.Errorf("Delete = %v, want ErrPromotionNotFound", err)
	}
}

func TestApplyRemoveIdempotent(t *testing.T) {
	store := newFakePromotionStore()
	svc := NewPromotionService(store, NewAuditService(&fakeAuditStore{}))

	p, _ := svc.Create(context.Background(), CreateInput{Promotion: validInput().Promotion})

	for i := 0; i < 2; i++ {
		if err := svc.Apply(context.Background(), 7, p.ID, 10); err != nil {
			t.Fatalf("Apply #%d error: %v", i+1, err)
		}
	}
	ids, _ := svc.ProductIDs(context.Background(), p.ID)
	if len(ids) != 1 {
		t.Fatalf("linked products = %v, want a single association", ids)
	}

	if err := svc.Remove(context.Background(), 7, p.ID, 999); err != nil {
		t.Errorf("removing an absent association should be a no-op, got %v", err)
	}
}

func TestForProduct(t *testing.T) {
	store := newFakePromotionStore()
	svc := NewPromotionService(store, NewAuditService(&fakeAuditStore{}))

	in := validInput()
	in.Promotion.StartDate = time.Now().AddDate(0, 0, -1)
	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	promos, err := svc.ForProduct(context.Background(), 10)
	if err != nil {
		t.Fatalf("ForProduct error: %v", err)
	}
	if len(promos) != 1 || promos[0].ID != p.ID {
		t.Fatalf("ForProduct = %v, want the linked promotion", promos)
	}

	if promos, _ := svc.ForProduct(context.Background(), 999); len(promos) != 0 {
		t.Errorf("unlinked product should have no promotions, got %v", promos)
	}

	if _, err := svc.ToggleActive(context.Background(), 7, p.ID); err != nil {
		t.Fatalf("ToggleActive error: %v", err)
	}
	if promos, _ := svc.ForProduct(context.Background(), 10); len(promos) != 0 {
		t.Errorf("disabled promotion should not surface in the catalog, got %v", promos)
	}
}

func TestProductsOnlyValid(t *testing.T) {
	store := newFakePromotionStore()
	svc := NewPromotionService(store, NewAuditService(&fakeAuditStore{}))

	in := validInput()
	in.Promotion.StartDate = time.Now().AddDate(0, 0, -1)
	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	products, err := svc.Products(context.Background(), p.ID, true)
	if err != nil {
		t.Fatalf("Products error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("valid promotion products = %d, want 2", len(products))
	}

	if _, err := svc.ToggleActive(context.Background(), 7, p.ID); err != nil {
		t.Fatalf("ToggleActive error: %v", err)
	}
	products, err = svc.Products(context.Background(), p.ID, true)
	if err != nil {
		t.Fatalf("Products error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("disabled promotion should expose no products in valid-only mode, got %d", len(products))
	}

	products, err = svc.Products(context.Background(), p.ID, false)
	if err != nil {
		t.Fatalf("Products error: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("admin view should still list %d products, got %d", 2, len(products))
	}
}
