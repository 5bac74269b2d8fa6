package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// seedProduct registers a product with one base unit ("tablet") and one pack
// unit ("strip" of 10) at the given sell prices.
func seedProduct(r *stubProductRepo, name string, tabletPrice, stripPrice int64) *model.Product {
	p := &model.Product{
		ID:       uuid.New(),
		Code:     fmt.Sprintf("P-%s", uuid.NewString()[:8]),
		Name:     name,
		Category: "obat",
		MinStock: 10,
		Active:   true,
		Units: []model.ProductUnit{
			{Name: "tablet", SellPrice: decimal.NewFromInt(tabletPrice), ConversionFactor: 1, IsBase: true, Position: 0},
			{Name: "strip", SellPrice: decimal.NewFromInt(stripPrice), ConversionFactor: 10, IsBase: false, Position: 1},
		},
	}
	r.products[p.ID] = p
	return p
}

// stubRecipeRepo is an in-memory RecipeRepository.
type stubRecipeRepo struct {
	recipes map[uuid.UUID]*model.CompoundingRecipe
}

func newStubRecipeRepo() *stubRecipeRepo {
	return &stubRecipeRepo{recipes: make(map[uuid.UUID]*model.CompoundingRecipe)}
}

func (r *stubRecipeRepo) Create(_ context.Context, rec *model.CompoundingRecipe) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.recipes[rec.ID] = rec
	return nil
}

func (r *stubRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CompoundingRecipe, error) {
	rec, ok := r.recipes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec, nil
}

func (r *stubRecipeRepo) List(_ context.Context) ([]model.CompoundingRecipe, error) {
	out := make([]model.CompoundingRecipe, 0, len(r.recipes))
	for _, rec := range r.recipes {
		out = append(out, *rec)
	}
	return out, nil
}

var _ repository.RecipeRepository = (*stubRecipeRepo)(nil)

// seedRecipe registers a puyer recipe: grinding 1000 and wrapping 500 per
// started tier of 10.
func seedRecipe(r *stubRecipeRepo, name string) *model.CompoundingRecipe {
	rec := &model.CompoundingRecipe{
		ID:   uuid.New(),
		Name: name,
		Grinding: model.FeeSchedule{
			BaseFee:             decimal.NewFromInt(1000),
			TierSize:            10,
			AboveTierMultiplier: decimal.NewFromFloat(1.5),
		},
		Wrapping: model.FeeSchedule{
			BaseFee:             decimal.NewFromInt(500),
			TierSize:            10,
			AboveTierMultiplier: decimal.NewFromFloat(1.5),
		},
		Active: true,
	}
	r.recipes[rec.ID] = rec
	return rec
}

// stubSaleRepo is an in-memory SaleRepository.
type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.Sale
	receiptSeq int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) NextReceiptNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.receiptSeq++
	return r.receiptSeq, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubStockRepo is an in-memory StockRepository keyed by branch+product.
type stubStockRepo struct {
	stock     map[string]int
	movements []model.StockMovement
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{stock: make(map[string]int)}
}

func stockKey(branchID, productID uuid.UUID) string {
	return branchID.String() + "/" + productID.String()
}

func (r *stubStockRepo) set(branchID, productID uuid.UUID, qty int) {
	r.stock[stockKey(branchID, productID)] = qty
}

func (r *stubStockRepo) Get(_ context.Context, branchID, productID uuid.UUID) (*model.BranchStock, error) {
	qty, ok := r.stock[stockKey(branchID, productID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.BranchStock{BranchID: branchID, ProductID: productID, Quantity: qty}, nil
}

func (r *stubStockRepo) GetTx(_ *gorm.DB, branchID, productID uuid.UUID) (*model.BranchStock, error) {
	return r.Get(context.Background(), branchID, productID)
}

func (r *stubStockRepo) ListByBranch(_ context.Context, branchID uuid.UUID) ([]model.BranchStock, error) {
	return nil, nil
}

func (r *stubStockRepo) DeductTx(_ *gorm.DB, branchID, productID uuid.UUID, qty int) error {
	key := stockKey(branchID, productID)
	next := r.stock[key] - qty
	if next < 0 {
		next = 0
	}
	r.stock[key] = next
	return nil
}

func (r *stubStockRepo) AddTx(_ *gorm.DB, branchID, productID uuid.UUID, qty int) error {
	r.stock[stockKey(branchID, productID)] += qty
	return nil
}

func (r *stubStockRepo) CreateMovementTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) ListMovements(_ context.Context, _ dto.MovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *stubStockRepo) ListBelowMin(_ context.Context, _ uuid.UUID) ([]model.BranchStock, error) {
	return nil, nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// stubInvoiceRepo is an in-memory InvoiceRepository.
type stubInvoiceRepo struct {
	invoices   map[uuid.UUID]*model.PurchaseInvoice
	payments   map[uuid.UUID]*model.Payment
	receiptSeq int64
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{
		invoices: make(map[uuid.UUID]*model.PurchaseInvoice),
		payments: make(map[uuid.UUID]*model.Payment),
	}
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *model.PurchaseInvoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseInvoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return inv, nil
}

// List applies the same predicates and pagination as the SQL repository:
// filter first, count the filtered set, then slice the requested page in
// due-date order.
func (r *stubInvoiceRepo) List(_ context.Context, filter dto.InvoiceFilter) ([]model.PurchaseInvoice, int64, error) {
	out := make([]model.PurchaseInvoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		if filter.SupplierID != "" && inv.SupplierID.String() != filter.SupplierID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.OpenOnly && inv.Status == model.InvoicePaid {
			continue
		}
		if filter.DueFrom != nil && inv.DueDate.Before(*filter.DueFrom) {
			continue
		}
		if filter.DueBefore != nil && !inv.DueDate.Before(*filter.DueBefore) {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })

	total := int64(len(out))
	start := (filter.Page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *stubInvoiceRepo) AppendPaymentTx(_ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments[p.ID] = p
	return nil
}

func (r *stubInvoiceRepo) UpdateLedgerTx(_ *gorm.DB, invoiceID uuid.UUID, paidTotal decimal.Decimal, status string) error {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return errors.New("not found")
	}
	inv.PaidTotal = paidTotal
	inv.Status = status
	return nil
}

func (r *stubInvoiceRepo) NextPaymentReceiptNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.receiptSeq++
	return r.receiptSeq, nil
}

func (r *stubInvoiceRepo) FindPaymentByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubInvoiceRepo) ListOpenDueWithin(_ context.Context, from, to time.Time, _ int) ([]model.PurchaseInvoice, error) {
	var out []model.PurchaseInvoice
	for _, inv := range r.invoices {
		if inv.Status == model.InvoicePaid {
			continue
		}
		if !inv.DueDate.Before(from) && !inv.DueDate.After(to) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// stubSupplierRepo is an in-memory SupplierRepository.
type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)
