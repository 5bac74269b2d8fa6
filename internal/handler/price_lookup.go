package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/pricing"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
)

const priceCacheTTL = 4 * time.Hour

// PriceLookupHandler serves the public price check endpoint used by in-store
// kiosks. No authentication required — no side effects whatsoever.
type PriceLookupHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewPriceLookupHandler(repo repository.ProductRepository, rdb *redis.Client) *PriceLookupHandler {
	return &PriceLookupHandler{repo: repo, rdb: rdb}
}

// GetPriceByCode godoc
// @Summary Price lookup by product code (no authentication)
// @Tags price
// @Produce json
// @Param code path string true "Product code"
// @Success 200 {object} dto.PriceLookupResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/price/{code} [get]
func (h *PriceLookupHandler) GetPriceByCode(c *gin.Context) {
	code := c.Param("code")
	ctx := c.Request.Context()
	cacheKey := "price:" + code

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceLookupResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB and price the base unit
	product, err := h.repo.FindByCode(ctx, code)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	unit, err := pricing.ResolveUnit(product, "")
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product has no sellable units"))
		return
	}

	resp := dto.PriceLookupResponse{
		Code:     product.Code,
		Name:     product.Name,
		Unit:     unit.UnitName,
		Price:    unit.SellPrice,
		Category: product.Category,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
