package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
	"github.com/kasukras-star/Apotikme-sub004/internal/pricing"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
)

// CatalogService is the read surface over products and compounding recipes,
// plus the unit-resolution and fee-quote contracts the POS screens call while
// a cart is being edited.
type CatalogService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	ResolveUnit(ctx context.Context, productID uuid.UUID, unitName string) (*dto.ResolvedUnitResponse, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*dto.RecipeResponse, error)
	QuoteFee(ctx context.Context, recipeID uuid.UUID, quantity int) (*dto.RecipeFeeResponse, error)
}

type catalogService struct {
	products repository.ProductRepository
	recipes  repository.RecipeRepository
}

func NewCatalogService(products repository.ProductRepository, recipes repository.RecipeRepository) CatalogService {
	return &catalogService{products: products, recipes: recipes}
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("product", id.String())
	}
	return productToResponse(p), nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ResolveUnit surfaces the unit price resolver. Switching a cart line's unit
// on the POS uses this to recompute price and subtotal while keeping quantity
// and discount — the resolver fails only when the product itself is unknown.
func (s *catalogService) ResolveUnit(ctx context.Context, productID uuid.UUID, unitName string) (*dto.ResolvedUnitResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apierror.NewNotFound("product", productID.String())
	}
	resolved, err := pricing.ResolveUnit(p, unitName)
	if err != nil {
		return nil, apierror.NewValidation(err.Error())
	}
	return &dto.ResolvedUnitResponse{
		ProductID:        p.ID.String(),
		UnitName:         resolved.UnitName,
		SellPrice:        resolved.SellPrice,
		ConversionFactor: resolved.ConversionFactor,
	}, nil
}

func (s *catalogService) GetRecipe(ctx context.Context, id uuid.UUID) (*dto.RecipeResponse, error) {
	r, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("recipe", id.String())
	}
	return &dto.RecipeResponse{
		ID:       r.ID.String(),
		Name:     r.Name,
		Grinding: scheduleToResponse(r.Grinding),
		Wrapping: scheduleToResponse(r.Wrapping),
	}, nil
}

func (s *catalogService) QuoteFee(ctx context.Context, recipeID uuid.UUID, quantity int) (*dto.RecipeFeeResponse, error) {
	r, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apierror.NewNotFound("recipe", recipeID.String())
	}
	fee, err := pricing.CompoundingFee(r, quantity)
	if err != nil {
		return nil, err
	}
	return &dto.RecipeFeeResponse{
		RecipeID:  r.ID.String(),
		Name:      r.Name,
		Quantity:  quantity,
		TotalFee:  fee,
		UnitPrice: pricing.AmortizedUnitPrice(fee, quantity),
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) *dto.ProductResponse {
	units := make([]dto.ProductUnitResponse, 0, len(p.Units))
	for _, u := range p.Units {
		units = append(units, dto.ProductUnitResponse{
			Name:             u.Name,
			SellPrice:        u.SellPrice,
			BuyPrice:         u.BuyPrice,
			ConversionFactor: u.ConversionFactor,
			IsBase:           u.IsBase,
		})
	}
	return &dto.ProductResponse{
		ID:       p.ID.String(),
		Code:     p.Code,
		Name:     p.Name,
		Category: p.Category,
		MinStock: p.MinStock,
		Units:    units,
	}
}

func scheduleToResponse(s model.FeeSchedule) dto.FeeScheduleResponse {
	return dto.FeeScheduleResponse{
		BaseFee:             s.BaseFee,
		TierSize:            s.TierSize,
		AboveTierMultiplier: s.AboveTierMultiplier,
	}
}
