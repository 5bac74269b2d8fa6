package worker

// receipt_worker.go
// Processes payment-receipt jobs from QueueReceipts.
// Generates the supplier payment receipt PDF and, when the supplier has an
// email on file, enqueues a delivery job for the email worker.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/kasukras-star/Apotikme-sub004/internal/infra"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipts.
type ReceiptJobPayload struct {
	PaymentID string `json:"payment_id"`
}

// ReceiptWorker generates PDF receipts for recorded supplier payments.
type ReceiptWorker struct {
	invoices       repository.InvoiceRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
}

// NewReceiptWorker wires all dependencies for the receipt worker.
func NewReceiptWorker(invoices repository.InvoiceRepository, dispatcher *Dispatcher, rdb *redis.Client, pdfStoragePath string) *ReceiptWorker {
	return &ReceiptWorker{
		invoices:       invoices,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the payment and its invoice (with supplier) from DB
//  3. Render the PDF receipt into the storage path
//  4. Enqueue an email job when the supplier has an email on file
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	paymentID, err := uuid.Parse(payload.PaymentID)
	if err != nil {
		log.Error().Str("payment_id", payload.PaymentID).Msg("receipt_worker: invalid payment_id")
		return
	}

	payment, err := w.invoices.FindPaymentByID(ctx, paymentID)
	if err != nil {
		log.Error().Err(err).Str("payment_id", payload.PaymentID).Msg("receipt_worker: payment not found")
		return
	}
	invoice, err := w.invoices.FindByID(ctx, payment.InvoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payment.InvoiceID.String()).Msg("receipt_worker: invoice not found")
		return
	}

	pdfPath, err := infra.GeneratePaymentReceiptPDF(payment, invoice, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("payment_id", payload.PaymentID).Msg("receipt_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueReceipts, "receipt", raw,
			fmt.Sprintf("pdf generation failed: %v", err), 1)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("payment_id", payload.PaymentID).Msg("receipt_worker: PDF generated")

	if invoice.Supplier == nil || invoice.Supplier.Email == nil || *invoice.Supplier.Email == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: *invoice.Supplier.Email,
		Subject: fmt.Sprintf("Apotikme — Payment Receipt %s", payment.ReceiptNumber),
		Body: fmt.Sprintf(
			"Attached is the receipt for your payment against invoice %s.\nAmount: Rp %s",
			invoice.InvoiceNumber, payment.Amount.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *invoice.Supplier.Email).Msg("receipt_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", *invoice.Supplier.Email).Msg("receipt_worker: email job enqueued")
}
