package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
)

// InvoiceRepository is the invoice store of the accounts-payable ledger.
// Payments are append-only: there is deliberately no update or delete for
// them anywhere on this interface.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.PurchaseInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseInvoice, error)
	List(ctx context.Context, filter dto.InvoiceFilter) ([]model.PurchaseInvoice, int64, error)

	AppendPaymentTx(tx *gorm.DB, p *model.Payment) error
	// UpdateLedgerTx persists the recomputed paid total and derived status.
	UpdateLedgerTx(tx *gorm.DB, invoiceID uuid.UUID, paidTotal decimal.Decimal, status string) error
	NextPaymentReceiptNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	FindPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)

	// ListOpenDueWithin returns non-paid invoices whose due date falls inside
	// [from, to] — the reminder cron's work list.
	ListOpenDueWithin(ctx context.Context, from, to time.Time, limit int) ([]model.PurchaseInvoice, error)

	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, inv *model.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseInvoice, error) {
	var inv model.PurchaseInvoice
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Lines.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.PurchaseInvoice, int64, error) {
	var invoices []model.PurchaseInvoice
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.PurchaseInvoice{})
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.OpenOnly {
		q = q.Where("status <> ?", model.InvoicePaid)
	}
	// Due dates are stored at local midnight, so half-open day bounds match
	// the badge day math exactly.
	if filter.DueFrom != nil {
		q = q.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", *filter.DueBefore)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Supplier").Preload("Payments").
		Order("due_date ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepo) AppendPaymentTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Create(p).Error
}

func (r *invoiceRepo) UpdateLedgerTx(tx *gorm.DB, invoiceID uuid.UUID, paidTotal decimal.Decimal, status string) error {
	return tx.Model(&model.PurchaseInvoice{}).Where("id = ?", invoiceID).
		Updates(map[string]interface{}{
			"paid_total": paidTotal,
			"status":     status,
		}).Error
}

func (r *invoiceRepo) NextPaymentReceiptNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('payments_receipt_number_seq')").Scan(&num).Error
	return num, err
}

func (r *invoiceRepo) FindPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *invoiceRepo) ListOpenDueWithin(ctx context.Context, from, to time.Time, limit int) ([]model.PurchaseInvoice, error) {
	var invoices []model.PurchaseInvoice
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("status <> ? AND due_date BETWEEN ? AND ?", model.InvoicePaid, from, to).
		Order("due_date ASC").
		Limit(limit).
		Find(&invoices).Error
	return invoices, err
}
