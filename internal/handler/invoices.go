package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
	"github.com/kasukras-star/Apotikme-sub004/internal/service"
)

type InvoicesHandler struct {
	svc     service.LedgerService
	pdfPath string
}

func NewInvoicesHandler(svc service.LedgerService, pdfPath string) *InvoicesHandler {
	return &InvoicesHandler{svc: svc, pdfPath: pdfPath}
}

// Create godoc
// @Summary      Register a purchase invoice
// @Description  Creates an open payable with its lines and totals; status starts at unpaid.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.InvoiceResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/invoices [post]
func (h *InvoicesHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List purchase invoices
// @Description  Paginated payables list with status, bucket (due_soon, overdue) and supplier filters. Each item carries its badge and days-until-due.
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "unpaid | partial | paid"
// @Param        bucket query string false "due_soon | overdue"
// @Success      200 {object} dto.InvoiceListResponse
// @Router       /v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get an invoice with its payment history
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      404 {object} apierror.NotFoundError
// @Router       /v1/invoices/{id} [get]
func (h *InvoicesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordPayment godoc
// @Summary      Record a payment against an invoice
// @Description  Appends an installment, advances paid total and status, and schedules the receipt PDF. Overpayments are rejected with the remaining balance.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Invoice UUID"
// @Param        body body dto.RecordPaymentRequest true "Payment"
// @Success      201 {object} dto.InvoiceResponse
// @Failure      409 {object} apierror.OverpaymentError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/invoices/{id}/payments [post]
func (h *InvoicesHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DownloadReceipt godoc
// @Summary      Download the receipt PDF of a payment
// @Description  Serves the PDF rendered by the background worker; 404 until the job has completed.
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        payment_id path string true "Payment UUID"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /v1/payments/{payment_id}/receipt [get]
func (h *InvoicesHandler) DownloadReceipt(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("payment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid payment_id"))
		return
	}
	payment, err := h.svc.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}
	path := filepath.Join(h.pdfPath, payment.ReceiptNumber+".pdf")
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("receipt not generated yet"))
		return
	}
	c.FileAttachment(path, payment.ReceiptNumber+".pdf")
}

// ListSuppliers godoc
// @Summary      List active suppliers
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.SupplierResponse
// @Router       /v1/suppliers [get]
func (h *InvoicesHandler) ListSuppliers(c *gin.Context) {
	resp, err := h.svc.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSupplier godoc
// @Summary      Register a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSupplierRequest true "Supplier"
// @Success      201 {object} dto.SupplierResponse
// @Router       /v1/suppliers [post]
func (h *InvoicesHandler) CreateSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sup := &model.Supplier{
		Name:        req.Name,
		TaxID:       req.TaxID,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		PaymentTerm: req.PaymentTerm,
		Active:      true,
	}
	resp, err := h.svc.CreateSupplier(c.Request.Context(), sup)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
