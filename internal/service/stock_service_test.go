package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/dto"
	"github.com/kasukras-star/Apotikme-sub004/internal/service"
)

func TestAggregateRequirements_MergesByProduct(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	reqs := []service.StockRequirement{
		{ProductID: a, ProductName: "A", BaseUnits: 10},
		{ProductID: b, ProductName: "B", BaseUnits: 2},
		{ProductID: a, ProductName: "A", BaseUnits: 3},
	}
	got := service.AggregateRequirements(reqs)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ProductID)
	assert.Equal(t, 13, got[0].BaseUnits)
	assert.Equal(t, b, got[1].ProductID)
	assert.Equal(t, 2, got[1].BaseUnits)
}

func TestReserveAndDeduct_CollectsAllShortages(t *testing.T) {
	stockRepo := newStubStockRepo()
	svc := service.NewStockService(stockRepo)
	branchID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	stockRepo.set(branchID, a, 1)
	stockRepo.set(branchID, c, 50)
	// b has no stock row at all: treated as zero available.

	err := svc.ReserveAndDeductTx(context.Background(), nil, branchID, []service.StockRequirement{
		{ProductID: a, ProductName: "A", BaseUnits: 5},
		{ProductID: b, ProductName: "B", BaseUnits: 2},
		{ProductID: c, ProductName: "C", BaseUnits: 10},
	}, nil)

	var insErr *apierror.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	require.Len(t, insErr.Shortages, 2)
	assert.Equal(t, "A", insErr.Shortages[0].ProductName)
	assert.Equal(t, 1, insErr.Shortages[0].Available)
	assert.Equal(t, "B", insErr.Shortages[1].ProductName)
	assert.Equal(t, 0, insErr.Shortages[1].Available)

	// Even the sufficient product is untouched.
	assert.Equal(t, 50, stockRepo.stock[stockKey(branchID, c)])
	assert.Empty(t, stockRepo.movements)
}

func TestReserveAndDeduct_WritesMovementPerProduct(t *testing.T) {
	stockRepo := newStubStockRepo()
	svc := service.NewStockService(stockRepo)
	branchID := uuid.New()
	a, b := uuid.New(), uuid.New()
	stockRepo.set(branchID, a, 20)
	stockRepo.set(branchID, b, 7)
	saleID := uuid.New()

	err := svc.ReserveAndDeductTx(context.Background(), nil, branchID, []service.StockRequirement{
		{ProductID: a, ProductName: "A", BaseUnits: 12},
		{ProductID: b, ProductName: "B", BaseUnits: 7},
	}, &saleID)
	require.NoError(t, err)

	assert.Equal(t, 8, stockRepo.stock[stockKey(branchID, a)])
	assert.Equal(t, 0, stockRepo.stock[stockKey(branchID, b)])
	require.Len(t, stockRepo.movements, 2)

	m := stockRepo.movements[0]
	assert.Equal(t, "sale", m.Type)
	assert.Equal(t, -12, m.Quantity)
	assert.Equal(t, 20, m.QuantityBefore)
	assert.Equal(t, 8, m.QuantityAfter)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, saleID, *m.ReferenceID)
}

func TestReserveAndDeduct_EmptyRequirementsIsNoop(t *testing.T) {
	stockRepo := newStubStockRepo()
	svc := service.NewStockService(stockRepo)
	err := svc.ReserveAndDeductTx(context.Background(), nil, uuid.New(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, stockRepo.movements)
}

func TestAdjust_PositiveDelta(t *testing.T) {
	stockRepo := newStubStockRepo()
	svc := service.NewStockService(stockRepo)
	branchID, productID := uuid.New(), uuid.New()
	stockRepo.set(branchID, productID, 4)

	resp, err := svc.Adjust(context.Background(), dto.AdjustStockRequest{
		BranchID:  branchID.String(),
		ProductID: productID.String(),
		Delta:     10,
		Note:      "restock from warehouse",
	})
	require.NoError(t, err)
	assert.Equal(t, 14, resp.Quantity)
	assert.Equal(t, 14, stockRepo.stock[stockKey(branchID, productID)])

	require.Len(t, stockRepo.movements, 1)
	assert.Equal(t, "adjustment", stockRepo.movements[0].Type)
	assert.Equal(t, 10, stockRepo.movements[0].Quantity)
	assert.Equal(t, "restock from warehouse", stockRepo.movements[0].Note)
}

func TestAdjust_NegativeDeltaFloorsAtZero(t *testing.T) {
	stockRepo := newStubStockRepo()
	svc := service.NewStockService(stockRepo)
	branchID, productID := uuid.New(), uuid.New()
	stockRepo.set(branchID, productID, 3)

	resp, err := svc.Adjust(context.Background(), dto.AdjustStockRequest{
		BranchID:  branchID.String(),
		ProductID: productID.String(),
		Delta:     -5,
		Note:      "expired batch written off",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Quantity)
	require.Len(t, stockRepo.movements, 1)
	assert.Equal(t, -3, stockRepo.movements[0].Quantity)
	assert.Equal(t, 3, stockRepo.movements[0].QuantityBefore)
	assert.Equal(t, 0, stockRepo.movements[0].QuantityAfter)
}

func TestAdjust_ZeroDeltaRejected(t *testing.T) {
	svc := service.NewStockService(newStubStockRepo())
	_, err := svc.Adjust(context.Background(), dto.AdjustStockRequest{
		BranchID:  uuid.New().String(),
		ProductID: uuid.New().String(),
		Delta:     0,
		Note:      "noop",
	})
	var verr *apierror.ValidationError
	assert.ErrorAs(t, err, &verr)
}
