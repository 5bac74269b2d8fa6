package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
	"github.com/kasukras-star/Apotikme-sub004/internal/service"
)

// ── LedgerService factory for tests ──────────────────────────────────────────

func buildLedgerSvc() (service.LedgerService, *stubInvoiceRepo, *stubSupplierRepo, *stubProductRepo) {
	invoiceRepo := newStubInvoiceRepo()
	supplierRepo := newStubSupplierRepo()
	productRepo := newStubProductRepo()
	svc := service.NewLedgerService(invoiceRepo, supplierRepo, productRepo, nil)
	return svc, invoiceRepo, supplierRepo, productRepo
}

func seedSupplier(r *stubSupplierRepo, name string) *model.Supplier {
	s := &model.Supplier{ID: uuid.New(), Name: name, TaxID: uuid.NewString()[:12], Active: true}
	r.suppliers[s.ID] = s
	return s
}

// seedInvoice stores an open invoice with the given total and due date.
func seedInvoice(r *stubInvoiceRepo, sup *model.Supplier, total int64, due time.Time) *model.PurchaseInvoice {
	inv := &model.PurchaseInvoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-" + uuid.NewString()[:8],
		SupplierID:    sup.ID,
		BranchID:      uuid.New(),
		Subtotal:      decimal.NewFromInt(total),
		Total:         decimal.NewFromInt(total),
		PaidTotal:     decimal.Zero,
		Status:        model.InvoiceUnpaid,
		DueDate:       due,
		Supplier:      sup,
	}
	r.invoices[inv.ID] = inv
	return inv
}

// ── Due-date classification ──────────────────────────────────────────────────

func TestDaysUntilDue(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)
	cases := []struct {
		due  time.Time
		want int
	}{
		{time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), 0},  // due today
		{time.Date(2026, 3, 15, 23, 59, 0, 0, time.Local), 0}, // time of day ignored
		{time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local), -1}, // yesterday
		{time.Date(2026, 3, 22, 0, 0, 0, 0, time.Local), 7},
		{time.Date(2026, 3, 23, 0, 0, 0, 0, time.Local), 8},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, service.DaysUntilDue(c.due, now))
	}
}

func TestBadge_Precedence(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)
	today := now
	inFive := now.AddDate(0, 0, 5)
	inTwenty := now.AddDate(0, 0, 20)

	// Paid wins even when overdue.
	assert.Equal(t, service.BadgePaid, service.Badge(model.InvoicePaid, yesterday, now))
	// Overdue beats partial.
	assert.Equal(t, service.BadgeOverdue, service.Badge(model.InvoicePartial, yesterday, now))
	// Due today is due_soon, not overdue.
	assert.Equal(t, service.BadgeDueSoon, service.Badge(model.InvoiceUnpaid, today, now))
	// Inside the window beats partial.
	assert.Equal(t, service.BadgeDueSoon, service.Badge(model.InvoicePartial, inFive, now))
	// Outside the window the payment status shows.
	assert.Equal(t, service.BadgePartial, service.Badge(model.InvoicePartial, inTwenty, now))
	assert.Equal(t, service.BadgeUnpaid, service.Badge(model.InvoiceUnpaid, inTwenty, now))
}

func TestIsOverdue_PaidNever(t *testing.T) {
	now := time.Now()
	assert.False(t, service.IsOverdue(model.InvoicePaid, now.AddDate(0, 0, -30), now))
	assert.True(t, service.IsOverdue(model.InvoiceUnpaid, now.AddDate(0, 0, -1), now))
	assert.False(t, service.IsOverdue(model.InvoiceUnpaid, now, now))
}

// ── Payment recording ────────────────────────────────────────────────────────

func TestRecordPayment_PartialThenOverpayThenSettle(t *testing.T) {
	svc, invoiceRepo, supplierRepo, _ := buildLedgerSvc()
	sup := seedSupplier(supplierRepo, "PT Kimia Farma")
	inv := seedInvoice(invoiceRepo, sup, 10000, time.Now().AddDate(0, 0, 30))

	// Partial payment of 6000.
	resp, err := svc.RecordPayment(context.Background(), inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(6000),
		Date:   "2026-03-01",
		Method: "transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePartial, resp.Status)
	assert.Equal(t, "6000", resp.PaidTotal.String())
	assert.Equal(t, "4000", resp.Remaining.String())

	// 4001 exceeds the remaining 4000: rejected, ledger untouched.
	_, err = svc.RecordPayment(context.Background(), inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(4001),
		Date:   "2026-03-02",
		Method: "cash",
	})
	var overErr *apierror.OverpaymentError
	require.ErrorAs(t, err, &overErr)
	assert.Equal(t, "4001", overErr.Amount.String())
	assert.Equal(t, "4000", overErr.Remaining.String())
	assert.Equal(t, "6000", invoiceRepo.invoices[inv.ID].PaidTotal.String())
	assert.Len(t, invoiceRepo.payments, 1)

	// Exact remainder settles the invoice.
	resp, err = svc.RecordPayment(context.Background(), inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(4000),
		Date:   "2026-03-02",
		Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, resp.Status)
	assert.Equal(t, "0", resp.Remaining.String())
	assert.Equal(t, service.BadgePaid, resp.Badge)

	// A further payment of any amount is an overpayment against zero.
	_, err = svc.RecordPayment(context.Background(), inv.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(1),
		Date:   "2026-03-03",
		Method: "cash",
	})
	assert.ErrorAs(t, err, &overErr)
}

func TestRecordPayment_NonPositiveAmount(t *testing.T) {
	svc, invoiceRepo, supplierRepo, _ := buildLedgerSvc()
	sup := seedSupplier(supplierRepo, "PT Dexa Medica")
	inv := seedInvoice(invoiceRepo, sup, 5000, time.Now().AddDate(0, 0, 10))

	for _, amount := range []int64{0, -100} {
		_, err := svc.RecordPayment(context.Background(), inv.ID, dto.RecordPaymentRequest{
			Amount: decimal.NewFromInt(amount),
			Date:   "2026-03-01",
			Method: "cash",
		})
		var verr *apierror.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
	assert.Empty(t, invoiceRepo.payments)
}

func TestRecordPayment_ReceiptNumbersSequential(t *testing.T) {
	svc, invoiceRepo, supplierRepo, _ := buildLedgerSvc()
	sup := seedSupplier(supplierRepo, "PT Kalbe")
	inv := seedInvoice(invoiceRepo, sup, 9000, time.Now().AddDate(0, 0, 10))

	for i := 1; i <= 3; i++ {
		_, err := svc.RecordPayment(context.Background(), inv.ID, dto.RecordPaymentRequest{
			Amount: decimal.NewFromInt(1000),
			Date:   "2026-03-01",
			Method: "giro",
		})
		require.NoError(t, err)
	}
	seen := make(map[string]bool)
	for _, p := range invoiceRepo.payments {
		seen[p.ReceiptNumber] = true
	}
	assert.True(t, seen["RCP-000001"])
	assert.True(t, seen["RCP-000002"])
	assert.True(t, seen["RCP-000003"])
}

func TestRecordPayment_UnknownInvoice(t *testing.T) {
	svc, _, _, _ := buildLedgerSvc()
	_, err := svc.RecordPayment(context.Background(), uuid.New(), dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(100),
		Date:   "2026-03-01",
		Method: "cash",
	})
	var nfErr *apierror.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

// ── Invoice intake and listing ───────────────────────────────────────────────

func TestCreateInvoice_TotalsAndStatus(t *testing.T) {
	svc, _, supplierRepo, productRepo := buildLedgerSvc()
	sup := seedSupplier(supplierRepo, "PT Sanbe")
	p := seedProduct(productRepo, "Paracetamol 500mg", 1000, 9000)

	resp, err := svc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		InvoiceNumber: "INV-2026-0001",
		SupplierID:    sup.ID.String(),
		BranchID:      uuid.New().String(),
		Lines: []dto.InvoiceLineRequest{
			{ProductID: p.ID.String(), Unit: "strip", Quantity: 20, UnitPrice: decimal.NewFromInt(5000)},
		},
		DiscountPct: decimal.NewFromInt(10),
		VATRate:     11,
		DueDate:     "2026-04-01",
	})
	require.NoError(t, err)
	// 20 × 5000 = 100000; -10% = 90000; VAT 9900; total 99900.
	assert.Equal(t, "100000", resp.Subtotal.String())
	assert.Equal(t, "99900", resp.Total.String())
	assert.Equal(t, model.InvoiceUnpaid, resp.Status)
	assert.Equal(t, "PT Sanbe", resp.SupplierName)
	assert.Equal(t, "0", resp.PaidTotal.String())
}

func TestCreateInvoice_UnknownSupplier(t *testing.T) {
	svc, _, _, productRepo := buildLedgerSvc()
	p := seedProduct(productRepo, "Ibuprofen", 1500, 13000)

	_, err := svc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		InvoiceNumber: "INV-X",
		SupplierID:    uuid.New().String(),
		BranchID:      uuid.New().String(),
		Lines: []dto.InvoiceLineRequest{
			{ProductID: p.ID.String(), Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
		DueDate: "2026-04-01",
	})
	var nfErr *apierror.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestListInvoices_BucketFilters(t *testing.T) {
	svc, invoiceRepo, supplierRepo, _ := buildLedgerSvc()
	sup := seedSupplier(supplierRepo, "PT Phapros")
	now := time.Now()
	overdue := seedInvoice(invoiceRepo, sup, 1000, now.AddDate(0, 0, -3))
	dueSoon := seedInvoice(invoiceRepo, sup, 2000, now.AddDate(0, 0, 2))
	seedInvoice(invoiceRepo, sup, 3000, now.AddDate(0, 0, 60))

	resp, err := svc.ListInvoices(context.Background(), dto.InvoiceFilter{Bucket: "overdue"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, overdue.ID.String(), resp.Data[0].ID)
	assert.Equal(t, service.BadgeOverdue, resp.Data[0].Badge)

	resp, err = svc.ListInvoices(context.Background(), dto.InvoiceFilter{Bucket: "due_soon"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, dueSoon.ID.String(), resp.Data[0].ID)
}

func TestListInvoices_BucketFilterAppliedBeforePagination(t *testing.T) {
	svc, invoiceRepo, supplierRepo, _ := buildLedgerSvc()
	sup := seedSupplier(supplierRepo, "PT Indofarma")
	now := time.Now()

	// More than one page of overdue invoices sorts ahead of every due-soon
	// one in due-date order; the bucket must be a query predicate, not a
	// post-pagination skip, for the due-soon page to come back non-empty.
	for i := 0; i < 60; i++ {
		seedInvoice(invoiceRepo, sup, 1000, now.AddDate(0, 0, -2))
	}
	first := seedInvoice(invoiceRepo, sup, 2000, now.AddDate(0, 0, 2))
	second := seedInvoice(invoiceRepo, sup, 3000, now.AddDate(0, 0, 5))

	resp, err := svc.ListInvoices(context.Background(), dto.InvoiceFilter{Bucket: "due_soon", Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, first.ID.String(), resp.Data[0].ID)
	assert.Equal(t, second.ID.String(), resp.Data[1].ID)
	for _, item := range resp.Data {
		assert.Equal(t, service.BadgeDueSoon, item.Badge)
	}

	// The overdue bucket paginates over its own filtered count.
	resp, err = svc.ListInvoices(context.Background(), dto.InvoiceFilter{Bucket: "overdue", Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(60), resp.Total)
	assert.Len(t, resp.Data, 50)

	resp, err = svc.ListInvoices(context.Background(), dto.InvoiceFilter{Bucket: "overdue", Page: 2, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 10)
}
