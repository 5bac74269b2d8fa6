package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/service"
)

type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary      List products
// @Description  Returns a paginated product catalog filtered by name and category.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name     query string false "Name filter (substring)"
// @Param        category query string false "Category filter"
// @Success      200 {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get product with its sellable units
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.NotFoundError
// @Router       /v1/products/{id} [get]
func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveUnit godoc
// @Summary      Resolve the selling unit for a product
// @Description  Returns the unit price and conversion factor the cart will use for the given unit name, falling back to the base unit when the name is unknown.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string true  "Product UUID"
// @Param        unit query string false "Unit name"
// @Success      200 {object} dto.ResolvedUnitResponse
// @Failure      404 {object} apierror.NotFoundError
// @Router       /v1/products/{id}/resolve-unit [get]
func (h *ProductsHandler) ResolveUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.ResolveUnit(c.Request.Context(), id, c.Query("unit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecipe godoc
// @Summary      Get a compounding recipe with its fee schedules
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Recipe UUID"
// @Success      200 {object} dto.RecipeResponse
// @Failure      404 {object} apierror.NotFoundError
// @Router       /v1/recipes/{id} [get]
func (h *ProductsHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuoteFee godoc
// @Summary      Quote the compounding fee for a quantity
// @Description  Computes the tiered grinding + wrapping fee and the amortized per-unit price without creating anything.
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string true "Recipe UUID"
// @Param        qty query int    true "Quantity to prepare"
// @Success      200 {object} dto.RecipeFeeResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/recipes/{id}/fee [get]
func (h *ProductsHandler) QuoteFee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	qty, err := strconv.Atoi(c.Query("qty"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("qty must be an integer"))
		return
	}
	resp, err := h.svc.QuoteFee(c.Request.Context(), id, qty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
