package infra

// pdf.go — Payment receipt generation using go-pdf/fpdf.
// Renders an A5 receipt for one supplier payment with:
//   - Pharmacy name header
//   - Receipt number and payment date
//   - Invoice number, supplier, and branch reference
//   - Amount paid, method, and remaining balance after this payment
//
// The output file is saved to storagePath/{receiptNumber}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/kasukras-star/Apotikme-sub004/internal/model"
)

// GeneratePaymentReceiptPDF renders the receipt for a recorded payment.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GeneratePaymentReceiptPDF(payment *model.Payment, invoice *model.PurchaseInvoice, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := payment.ReceiptNumber + ".pdf"
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Apotikme", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Supplier Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Receipt info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Receipt "+payment.ReceiptNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, payment.Date.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Invoice reference ────────────────────────────────────────────────────
	label := contentW * 0.4
	value := contentW * 0.6

	row := func(k, v string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(label, 6, k, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(value, 6, v, "", 1, "R", false, 0, "")
	}

	row("Invoice", invoice.InvoiceNumber)
	if invoice.Supplier != nil {
		row("Supplier", invoice.Supplier.Name)
	}
	row("Method", payment.Method)
	if payment.Reference != nil {
		row("Reference", *payment.Reference)
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Amounts ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(label, 8, "AMOUNT PAID", "", 0, "L", false, 0, "")
	pdf.CellFormat(value, 8, "Rp "+payment.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	row("Invoice total", "Rp "+invoice.Total.StringFixed(2))
	row("Paid to date", "Rp "+invoice.PaidTotal.StringFixed(2))
	row("Remaining", "Rp "+invoice.Remaining().StringFixed(2))

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Generated automatically — no signature required.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
