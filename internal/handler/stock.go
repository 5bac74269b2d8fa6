package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/service"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// ListByBranch godoc
// @Summary      Branch stock levels
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        branch_id path string true "Branch UUID"
// @Success      200 {array} dto.BranchStockResponse
// @Router       /v1/stock/{branch_id} [get]
func (h *StockHandler) ListByBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid branch_id"))
		return
	}
	resp, err := h.svc.ListByBranch(c.Request.Context(), branchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Adjust godoc
// @Summary      Adjust branch stock manually
// @Description  Applies a signed delta with an audit note; the balance floors at zero.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustStockRequest true "Adjustment"
// @Success      200 {object} dto.BranchStockResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      Stock movement history
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        branch_id  query string false "Branch UUID"
// @Param        product_id query string false "Product UUID"
// @Param        type       query string false "Movement type"
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/stock/movements [get]
func (h *StockHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts godoc
// @Summary      Products below their minimum stock
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        branch_id path string true "Branch UUID"
// @Success      200 {array} dto.StockAlertResponse
// @Router       /v1/stock/{branch_id}/alerts [get]
func (h *StockHandler) Alerts(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid branch_id"))
		return
	}
	resp, err := h.svc.Alerts(c.Request.Context(), branchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
