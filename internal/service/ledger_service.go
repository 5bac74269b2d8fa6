package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
	"github.com/kasukras-star/Apotikme-sub004/internal/pricing"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
)

// DueSoonWindowDays is the horizon for the due-soon badge: an open invoice
// whose due date is today through seven days out is flagged.
const DueSoonWindowDays = 7

// Badge values the front office renders on the payables list.
const (
	BadgePaid    = "paid"
	BadgeOverdue = "overdue"
	BadgeDueSoon = "due_soon"
	BadgePartial = "partial"
	BadgeUnpaid  = "unpaid"
)

// ReceiptEnqueuer hands finished payments to the background pipeline that
// renders and mails receipts. Enqueue failures never fail the payment.
type ReceiptEnqueuer interface {
	EnqueueReceipt(ctx context.Context, paymentID uuid.UUID) error
}

// LedgerService is the accounts-payable surface: invoice intake, append-only
// payment recording, and due-date classification.
type LedgerService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	RecordPayment(ctx context.Context, invoiceID uuid.UUID, req dto.RecordPaymentRequest) (*dto.InvoiceResponse, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error)

	ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error)
	CreateSupplier(ctx context.Context, s *model.Supplier) (*dto.SupplierResponse, error)
}

type ledgerService struct {
	invoices  repository.InvoiceRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	receipts  ReceiptEnqueuer // nil disables receipt jobs
	locks     *keyedMutex
	now       func() time.Time
}

func NewLedgerService(invoices repository.InvoiceRepository, suppliers repository.SupplierRepository, products repository.ProductRepository, receipts ReceiptEnqueuer) LedgerService {
	return &ledgerService{
		invoices:  invoices,
		suppliers: suppliers,
		products:  products,
		receipts:  receipts,
		locks:     &keyedMutex{},
		now:       time.Now,
	}
}

// DaysUntilDue counts calendar days from now to due, both normalized to
// midnight so the result is stable across the day and across DST shifts.
// Negative means overdue.
func DaysUntilDue(due, now time.Time) int {
	d := midnight(due)
	n := midnight(now)
	return int(math.Round(d.Sub(n).Hours() / 24))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsOverdue reports whether an open invoice is past its due date. A paid
// invoice is never overdue regardless of when it was settled.
func IsOverdue(status string, due, now time.Time) bool {
	return status != model.InvoicePaid && DaysUntilDue(due, now) < 0
}

// IsDueSoon reports whether an open invoice falls due within the window,
// today included.
func IsDueSoon(status string, due, now time.Time) bool {
	if status == model.InvoicePaid {
		return false
	}
	days := DaysUntilDue(due, now)
	return days >= 0 && days <= DueSoonWindowDays
}

// Badge resolves the single chip shown per invoice. Precedence:
// paid > overdue > due_soon > partial > unpaid.
func Badge(status string, due, now time.Time) string {
	switch {
	case status == model.InvoicePaid:
		return BadgePaid
	case IsOverdue(status, due, now):
		return BadgeOverdue
	case IsDueSoon(status, due, now):
		return BadgeDueSoon
	case status == model.InvoicePartial:
		return BadgePartial
	default:
		return BadgeUnpaid
	}
}

// deriveStatus maps paid versus total to the tri-state invoice status.
func deriveStatus(paid, total decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(total):
		return model.InvoicePaid
	case paid.IsPositive():
		return model.InvoicePartial
	default:
		return model.InvoiceUnpaid
	}
}

func (s *ledgerService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.NewValidation("invalid supplier_id")
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, apierror.NewValidation("invalid branch_id")
	}
	dueDate, err := time.ParseInLocation("2006-01-02", req.DueDate, time.Local)
	if err != nil {
		return nil, apierror.NewValidation("invalid due_date")
	}
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return nil, apierror.NewNotFound("supplier", supplierID.String())
	}

	lines := make([]model.PurchaseInvoiceLine, 0, len(req.Lines))
	subtotals := make([]decimal.Decimal, 0, len(req.Lines))
	for _, lr := range req.Lines {
		productID, err := uuid.Parse(lr.ProductID)
		if err != nil {
			return nil, apierror.NewFieldValidation(map[string]string{"product_id": "invalid uuid"})
		}
		if _, err := s.products.FindByID(ctx, productID); err != nil {
			return nil, apierror.NewNotFound("product", productID.String())
		}
		sub, err := pricing.LineSubtotal(lr.Quantity, lr.UnitPrice, decimal.Zero)
		if err != nil {
			return nil, err
		}
		lines = append(lines, model.PurchaseInvoiceLine{
			ProductID: productID,
			UnitName:  lr.Unit,
			Quantity:  lr.Quantity,
			UnitPrice: lr.UnitPrice,
			Subtotal:  sub,
		})
		subtotals = append(subtotals, sub)
	}

	totals, err := pricing.SumSubtotals(subtotals, req.DiscountPct, req.VATRate)
	if err != nil {
		return nil, err
	}

	inv := &model.PurchaseInvoice{
		InvoiceNumber:  req.InvoiceNumber,
		SupplierID:     supplierID,
		BranchID:       branchID,
		Subtotal:       totals.Subtotal,
		DiscountPct:    req.DiscountPct,
		DiscountAmount: totals.DiscountAmount,
		VATRate:        req.VATRate,
		VATAmount:      totals.VATAmount,
		Total:          totals.Total,
		PaidTotal:      decimal.Zero,
		Status:         model.InvoiceUnpaid,
		DueDate:        dueDate,
		Lines:          lines,
		Supplier:       supplier,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	return invoiceToResponse(inv, s.now()), nil
}

func (s *ledgerService) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("invoice", id.String())
	}
	return invoiceToResponse(inv, s.now()), nil
}

func (s *ledgerService) ListInvoices(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	now := s.now()

	// Translate the bucket into query bounds so pagination and the total
	// count see the filtered set, not a page of it. The bounds mirror the
	// badge day math: overdue = due before today, due_soon = due within the
	// window starting today. Both exclude settled invoices, as the badges do.
	if filter.Bucket != "" {
		today := midnight(now)
		filter.OpenOnly = true
		switch filter.Bucket {
		case "overdue":
			filter.DueBefore = &today
		case "due_soon":
			end := today.AddDate(0, 0, DueSoonWindowDays+1)
			filter.DueFrom = &today
			filter.DueBefore = &end
		}
	}

	invoices, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *invoiceToResponse(&invoices[i], now))
	}
	return &dto.InvoiceListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *ledgerService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apierror.NewFieldValidation(map[string]string{"amount": "must be positive"})
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, apierror.NewValidation("invalid date")
	}

	unlock := s.locks.Lock(invoiceID.String())
	defer unlock()

	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, apierror.NewNotFound("invoice", invoiceID.String())
	}

	remaining := inv.Remaining()
	if req.Amount.GreaterThan(remaining) {
		return nil, &apierror.OverpaymentError{Amount: req.Amount, Remaining: remaining}
	}

	paid := inv.PaidTotal.Add(req.Amount)
	status := deriveStatus(paid, inv.Total)

	var payment *model.Payment
	txErr := runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		seq, err := s.invoices.NextPaymentReceiptNumber(ctx, tx)
		if err != nil {
			return err
		}
		payment = &model.Payment{
			InvoiceID:     invoiceID,
			ReceiptNumber: fmt.Sprintf("RCP-%06d", seq),
			Date:          date,
			Amount:        req.Amount,
			Method:        req.Method,
			Reference:     req.Reference,
			ProofRef:      req.ProofRef,
		}
		if err := s.invoices.AppendPaymentTx(tx, payment); err != nil {
			return err
		}
		return s.invoices.UpdateLedgerTx(tx, invoiceID, paid, status)
	})
	if txErr != nil {
		return nil, txErr
	}

	inv.PaidTotal = paid
	inv.Status = status
	inv.Payments = append(inv.Payments, *payment)

	if s.receipts != nil {
		if err := s.receipts.EnqueueReceipt(ctx, payment.ID); err != nil {
			log.Warn().Err(err).
				Str("payment_id", payment.ID.String()).
				Msg("failed to enqueue payment receipt")
		}
	}

	return invoiceToResponse(inv, s.now()), nil
}

func (s *ledgerService) GetPayment(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error) {
	p, err := s.invoices.FindPaymentByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("payment", id.String())
	}
	resp := paymentToResponse(p)
	return &resp, nil
}

func (s *ledgerService) ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func (s *ledgerService) CreateSupplier(ctx context.Context, sup *model.Supplier) (*dto.SupplierResponse, error) {
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, err
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func invoiceToResponse(inv *model.PurchaseInvoice, now time.Time) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		SupplierID:     inv.SupplierID.String(),
		BranchID:       inv.BranchID.String(),
		Subtotal:       inv.Subtotal,
		DiscountAmount: inv.DiscountAmount,
		VATRate:        inv.VATRate,
		VATAmount:      inv.VATAmount,
		Total:          inv.Total,
		PaidTotal:      inv.PaidTotal,
		Remaining:      inv.Remaining(),
		Status:         inv.Status,
		DueDate:        inv.DueDate.Format("2006-01-02"),
		DaysUntilDue:   DaysUntilDue(inv.DueDate, now),
		Badge:          Badge(inv.Status, inv.DueDate, now),
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.Supplier != nil {
		resp.SupplierName = inv.Supplier.Name
	}
	for _, l := range inv.Lines {
		item := dto.InvoiceLineResponse{
			ProductID: l.ProductID.String(),
			Unit:      l.UnitName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
		if l.Product != nil {
			item.ProductName = l.Product.Name
		}
		resp.Lines = append(resp.Lines, item)
	}
	for i := range inv.Payments {
		resp.Payments = append(resp.Payments, paymentToResponse(&inv.Payments[i]))
	}
	return resp
}

func paymentToResponse(p *model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID.String(),
		InvoiceID:     p.InvoiceID.String(),
		ReceiptNumber: p.ReceiptNumber,
		Date:          p.Date.Format("2006-01-02"),
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		ProofRef:      p.ProofRef,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		TaxID:       s.TaxID,
		Phone:       s.Phone,
		Email:       s.Email,
		PaymentTerm: s.PaymentTerm,
	}
}
