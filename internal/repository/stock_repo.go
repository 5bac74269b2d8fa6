package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
)

// StockRepository is the branch-scoped stock store. Mutating methods come in
// Tx variants because deductions always run inside a sale transaction.
type StockRepository interface {
	Get(ctx context.Context, branchID, productID uuid.UUID) (*model.BranchStock, error)
	GetTx(tx *gorm.DB, branchID, productID uuid.UUID) (*model.BranchStock, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]model.BranchStock, error)

	// DeductTx subtracts qty base units, clamped so the result never goes
	// negative. The caller validates availability first; the clamp is a
	// defensive floor.
	DeductTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) error
	// AddTx increases stock, creating the row when the branch has never held
	// the product.
	AddTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) error

	CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error
	ListMovements(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	ListBelowMin(ctx context.Context, branchID uuid.UUID) ([]model.BranchStock, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Get(ctx context.Context, branchID, productID uuid.UUID) (*model.BranchStock, error) {
	var s model.BranchStock
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		First(&s).Error
	return &s, err
}

func (r *stockRepo) GetTx(tx *gorm.DB, branchID, productID uuid.UUID) (*model.BranchStock, error) {
	var s model.BranchStock
	err := tx.Where("branch_id = ? AND product_id = ?", branchID, productID).First(&s).Error
	return &s, err
}

func (r *stockRepo) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]model.BranchStock, error) {
	var rows []model.BranchStock
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("branch_id = ?", branchID).
		Find(&rows).Error
	return rows, err
}

func (r *stockRepo) DeductTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) error {
	return tx.Model(&model.BranchStock{}).
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		Update("quantity", gorm.Expr("GREATEST(quantity - ?, 0)", qty)).Error
}

func (r *stockRepo) AddTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) error {
	res := tx.Model(&model.BranchStock{}).
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&model.BranchStock{
			BranchID:  branchID,
			ProductID: productID,
			Quantity:  qty,
		}).Error
	}
	return nil
}

func (r *stockRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockRepo) ListMovements(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{})
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&movements).Error
	return movements, total, err
}

func (r *stockRepo) ListBelowMin(ctx context.Context, branchID uuid.UUID) ([]model.BranchStock, error) {
	var rows []model.BranchStock
	err := r.db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN products ON products.id = branch_stock.product_id").
		Where("branch_stock.branch_id = ? AND branch_stock.quantity <= products.min_stock AND products.active = true", branchID).
		Find(&rows).Error
	return rows, err
}

func (r *stockRepo) DB() *gorm.DB { return r.db }
