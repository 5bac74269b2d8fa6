package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
)

// StockRequirement is the aggregated base-unit demand of one product within
// a single sale.
type StockRequirement struct {
	ProductID   uuid.UUID
	ProductName string
	BaseUnits   int
}

// AggregateRequirements merges per-line demands into one requirement per
// product, preserving first-seen order. A sale may reference the same
// product under two packaging units; validation must see the sum.
func AggregateRequirements(reqs []StockRequirement) []StockRequirement {
	index := make(map[uuid.UUID]int, len(reqs))
	out := make([]StockRequirement, 0, len(reqs))
	for _, r := range reqs {
		if i, ok := index[r.ProductID]; ok {
			out[i].BaseUnits += r.BaseUnits
			continue
		}
		index[r.ProductID] = len(out)
		out = append(out, r)
	}
	return out
}

// StockService validates and mutates branch-scoped stock. Deductions are
// all-or-nothing: either every aggregated quantity is applied or none is.
type StockService interface {
	// ReserveAndDeductTx runs inside the caller's sale transaction. It
	// aggregates requirements, validates every product against branch stock
	// (collecting all shortfalls, not just the first), and only then deducts,
	// writing one movement row per product. It holds the branch lock across
	// both passes, so manual adjustments on the same branch cannot land
	// between validation and deduction.
	ReserveAndDeductTx(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, reqs []StockRequirement, refID *uuid.UUID) error

	Adjust(ctx context.Context, req dto.AdjustStockRequest) (*dto.BranchStockResponse, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]dto.BranchStockResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	Alerts(ctx context.Context, branchID uuid.UUID) ([]dto.StockAlertResponse, error)
}

type stockService struct {
	repo     repository.StockRepository
	branches *keyedMutex
}

func NewStockService(repo repository.StockRepository) StockService {
	return &stockService{repo: repo, branches: &keyedMutex{}}
}

func (s *stockService) ReserveAndDeductTx(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, reqs []StockRequirement, refID *uuid.UUID) error {
	aggregated := AggregateRequirements(reqs)
	if len(aggregated) == 0 {
		return nil
	}

	// Same lock Adjust takes — every stock mutation for a branch funnels
	// through this service, so this is the single serialization point.
	unlock := s.branches.Lock(branchID.String())
	defer unlock()

	// Validation pass: read every balance first, collect every shortfall.
	available := make(map[uuid.UUID]int, len(aggregated))
	var shortages []apierror.StockShortage
	for _, r := range aggregated {
		qty := 0
		if stock, err := s.repo.GetTx(tx, branchID, r.ProductID); err == nil {
			qty = stock.Quantity
		}
		available[r.ProductID] = qty
		if qty < r.BaseUnits {
			shortages = append(shortages, apierror.StockShortage{
				ProductID:   r.ProductID.String(),
				ProductName: r.ProductName,
				Available:   qty,
				Required:    r.BaseUnits,
			})
		}
	}
	if len(shortages) > 0 {
		return &apierror.InsufficientStockError{Shortages: shortages}
	}

	// Deduction pass. The store clamps at zero as a defensive floor even
	// though validation already guarantees sufficiency.
	for _, r := range aggregated {
		if err := s.repo.DeductTx(tx, branchID, r.ProductID, r.BaseUnits); err != nil {
			return fmt.Errorf("deduct stock of %s: %w", r.ProductName, err)
		}
		before := available[r.ProductID]
		mov := &model.StockMovement{
			BranchID:       branchID,
			ProductID:      r.ProductID,
			Type:           "sale",
			Quantity:       -r.BaseUnits,
			QuantityBefore: before,
			QuantityAfter:  before - r.BaseUnits,
			Note:           "sale deduction",
			ReferenceID:    refID,
		}
		if err := s.repo.CreateMovementTx(tx, mov); err != nil {
			return err
		}
	}
	return nil
}

func (s *stockService) Adjust(ctx context.Context, req dto.AdjustStockRequest) (*dto.BranchStockResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, apierror.NewValidation("invalid branch_id")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.NewValidation("invalid product_id")
	}
	if req.Delta == 0 {
		return nil, apierror.NewValidation("delta cannot be zero")
	}

	unlock := s.branches.Lock(branchID.String())
	defer unlock()

	before := 0
	if stock, err := s.repo.Get(ctx, branchID, productID); err == nil {
		before = stock.Quantity
	}
	after := before + req.Delta
	if after < 0 {
		after = 0
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Delta > 0 {
			if err := s.repo.AddTx(tx, branchID, productID, req.Delta); err != nil {
				return err
			}
		} else {
			if err := s.repo.DeductTx(tx, branchID, productID, -req.Delta); err != nil {
				return err
			}
		}
		return s.repo.CreateMovementTx(tx, &model.StockMovement{
			BranchID:       branchID,
			ProductID:      productID,
			Type:           "adjustment",
			Quantity:       after - before,
			QuantityBefore: before,
			QuantityAfter:  after,
			Note:           req.Note,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.BranchStockResponse{
		BranchID:  branchID.String(),
		ProductID: productID.String(),
		Quantity:  after,
	}, nil
}

func (s *stockService) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]dto.BranchStockResponse, error) {
	rows, err := s.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchStockResponse, 0, len(rows))
	for _, row := range rows {
		resp := dto.BranchStockResponse{
			BranchID:  row.BranchID.String(),
			ProductID: row.ProductID.String(),
			Quantity:  row.Quantity,
		}
		if row.Product != nil {
			resp.ProductName = row.Product.Name
			resp.MinStock = row.Product.MinStock
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.repo.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		item := dto.StockMovementResponse{
			ID:             m.ID.String(),
			BranchID:       m.BranchID.String(),
			ProductID:      m.ProductID.String(),
			Type:           m.Type,
			Quantity:       m.Quantity,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Note:           m.Note,
			CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		}
		if m.Product != nil {
			item.ProductName = m.Product.Name
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			item.ReferenceID = &ref
		}
		items = append(items, item)
	}
	return &dto.MovementListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stockService) Alerts(ctx context.Context, branchID uuid.UUID) ([]dto.StockAlertResponse, error) {
	rows, err := s.repo.ListBelowMin(ctx, branchID)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.StockAlertResponse, 0, len(rows))
	for _, row := range rows {
		alert := dto.StockAlertResponse{
			ProductID: row.ProductID.String(),
			Quantity:  row.Quantity,
		}
		if row.Product != nil {
			alert.ProductName = row.Product.Name
			alert.MinStock = row.Product.MinStock
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}
