package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
	"github.com/kasukras-star/Apotikme-sub004/internal/pricing"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
)

// SaleService runs the checkout flow: resolve each line to a price, compute
// cart totals, then persist the sale and deduct stock in one transaction.
type SaleService interface {
	Checkout(ctx context.Context, cashierID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	recipes  repository.RecipeRepository
	stock    StockService
}

func NewSaleService(sales repository.SaleRepository, products repository.ProductRepository, recipes repository.RecipeRepository, stock StockService) SaleService {
	return &saleService{
		sales:    sales,
		products: products,
		recipes:  recipes,
		stock:    stock,
	}
}

// pricedLine pairs a persisted line with its display name; the name lives on
// the preloaded association after a read but must be carried by hand here.
type pricedLine struct {
	line model.SaleLine
	name string
}

func (s *saleService) Checkout(ctx context.Context, cashierID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, apierror.NewValidation("invalid branch_id")
	}
	var customerID *uuid.UUID
	if req.CustomerID != nil {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apierror.NewValidation("invalid customer_id")
		}
		customerID = &id
	}

	priced := make([]pricedLine, 0, len(req.Lines))
	var requirements []StockRequirement

	for _, lr := range req.Lines {
		switch lr.Kind {
		case model.LineKindProduct:
			pl, reqm, err := s.priceProductLine(ctx, lr)
			if err != nil {
				return nil, err
			}
			priced = append(priced, *pl)
			requirements = append(requirements, *reqm)

		case model.LineKindCompound:
			pl, err := s.priceCompoundLine(ctx, lr)
			if err != nil {
				return nil, err
			}
			// Compounding is a service fee; it consumes no tracked stock.
			priced = append(priced, *pl)

		default:
			return nil, apierror.NewFieldValidation(map[string]string{"kind": "must be product or compound"})
		}
	}

	lines := make([]model.SaleLine, len(priced))
	for i, pl := range priced {
		lines[i] = pl.line
	}
	totals, err := pricing.CartTotals(lines, req.DiscountPct, req.VATRate)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		BranchID:       branchID,
		CustomerID:     customerID,
		Subtotal:       totals.Subtotal,
		DiscountPct:    req.DiscountPct,
		DiscountAmount: totals.DiscountAmount,
		VATRate:        req.VATRate,
		VATAmount:      totals.VATAmount,
		Total:          totals.Total,
		PaymentMethod:  req.PaymentMethod,
		CashierID:      cashierID,
		Lines:          lines,
	}

	// Branch serialization lives in StockService: ReserveAndDeductTx takes
	// the branch lock, the one place every stock mutation goes through.
	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		num, err := s.sales.NextReceiptNumber(ctx, tx)
		if err != nil {
			return err
		}
		sale.ReceiptNumber = num
		if err := s.sales.Create(ctx, tx, sale); err != nil {
			return err
		}
		return s.stock.ReserveAndDeductTx(ctx, tx, branchID, requirements, &sale.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := saleToResponse(sale)
	for i, pl := range priced {
		resp.Lines[i].Name = pl.name
	}
	return resp, nil
}

func (s *saleService) priceProductLine(ctx context.Context, lr dto.SaleLineRequest) (*pricedLine, *StockRequirement, error) {
	if lr.ProductID == nil {
		return nil, nil, apierror.NewFieldValidation(map[string]string{"product_id": "required for product lines"})
	}
	productID, err := uuid.Parse(*lr.ProductID)
	if err != nil {
		return nil, nil, apierror.NewFieldValidation(map[string]string{"product_id": "invalid uuid"})
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, nil, apierror.NewNotFound("product", productID.String())
	}
	unit, err := pricing.ResolveUnit(product, lr.Unit)
	if err != nil {
		if errors.Is(err, pricing.ErrNoUnits) {
			return nil, nil, apierror.NewValidation("product " + product.Code + " has no sellable units")
		}
		return nil, nil, err
	}
	subtotal, err := pricing.LineSubtotal(lr.Quantity, unit.SellPrice, lr.Discount)
	if err != nil {
		return nil, nil, err
	}

	pl := &pricedLine{
		line: model.SaleLine{
			Kind:             model.LineKindProduct,
			ProductID:        &productID,
			UnitName:         unit.UnitName,
			ConversionFactor: unit.ConversionFactor,
			Quantity:         lr.Quantity,
			UnitPrice:        unit.SellPrice,
			Discount:         lr.Discount,
			Subtotal:         subtotal,
		},
		name: product.Name,
	}
	reqm := &StockRequirement{
		ProductID:   productID,
		ProductName: product.Name,
		BaseUnits:   lr.Quantity * unit.ConversionFactor,
	}
	return pl, reqm, nil
}

func (s *saleService) priceCompoundLine(ctx context.Context, lr dto.SaleLineRequest) (*pricedLine, error) {
	if lr.RecipeID == nil {
		return nil, apierror.NewFieldValidation(map[string]string{"recipe_id": "required for compound lines"})
	}
	recipeID, err := uuid.Parse(*lr.RecipeID)
	if err != nil {
		return nil, apierror.NewFieldValidation(map[string]string{"recipe_id": "invalid uuid"})
	}
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apierror.NewNotFound("recipe", recipeID.String())
	}
	fee, err := pricing.CompoundingFee(recipe, lr.Quantity)
	if err != nil {
		return nil, err
	}
	// Subtotal comes from the total fee, not quantity times the amortized
	// unit price: the division may not terminate, the fee always does.
	subtotal := fee.Sub(lr.Discount)
	if subtotal.IsNegative() {
		return nil, apierror.NewFieldValidation(map[string]string{"discount": "exceeds line amount"})
	}

	return &pricedLine{
		line: model.SaleLine{
			Kind:      model.LineKindCompound,
			RecipeID:  &recipeID,
			Quantity:  lr.Quantity,
			UnitPrice: pricing.AmortizedUnitPrice(fee, lr.Quantity),
			Discount:  lr.Discount,
			Subtotal:  subtotal,
		},
		name: recipe.Name,
	}, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("sale", id.String())
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:             sale.ID.String(),
		ReceiptNumber:  sale.ReceiptNumber,
		BranchID:       sale.BranchID.String(),
		Subtotal:       sale.Subtotal,
		DiscountPct:    sale.DiscountPct,
		DiscountAmount: sale.DiscountAmount,
		VATRate:        sale.VATRate,
		VATAmount:      sale.VATAmount,
		Total:          sale.Total,
		PaymentMethod:  sale.PaymentMethod,
		CreatedAt:      sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.CustomerID != nil {
		id := sale.CustomerID.String()
		resp.CustomerID = &id
	}
	resp.Lines = make([]dto.SaleLineResponse, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		item := dto.SaleLineResponse{
			Kind:      l.Kind,
			Unit:      l.UnitName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Subtotal:  l.Subtotal,
		}
		if l.ProductID != nil {
			id := l.ProductID.String()
			item.ProductID = &id
		}
		if l.RecipeID != nil {
			id := l.RecipeID.String()
			item.RecipeID = &id
		}
		if l.Product != nil {
			item.Name = l.Product.Name
		}
		if l.Recipe != nil {
			item.Name = l.Recipe.Name
		}
		resp.Lines = append(resp.Lines, item)
	}
	return resp
}
