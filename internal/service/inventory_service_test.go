package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dantetripodi/gestor-perfumes/internal/currency"
	"github.com/Dantetripodi/gestor-perfumes/internal/dto"
	"github.com/Dantetripodi/gestor-perfumes/internal/model"
)

func newTestInventory(sell int64, products ...model.Product) (InventoryService, *State, *stubProductRepo, *stubPurchaseRepo) {
	state := NewState()
	state.ReplaceAll(products, nil, nil)
	productRepo := newStubProductRepo()
	purchaseRepo := &stubPurchaseRepo{}
	svc := NewInventoryService(state, productRepo, purchaseRepo, newTestProvider(sell), nil)
	return svc, state, productRepo, purchaseRepo
}

func usdProduct(stock int, avg int64) model.Product {
	return model.Product{
		ID:           uuid.New(),
		Name:         "Sauvage 100ml",
		SKU:          "SVG-100",
		CurrentStock: stock,
		CostValue:    decimal.NewFromInt(avg),
		CostCurrency: currency.USD,
		AvgCostUSD:   decimal.NewFromInt(avg),
		TargetMargin: decimal.NewFromInt(40),
	}
}

func TestAddProductNormalizesCostToUSD(t *testing.T) {
	svc, state, repo, _ := newTestInventory(1200)

	resp, err := svc.AddProduct(context.Background(), dto.CreateProductRequest{
		Name:         "One Million 50ml",
		SKU:          "OM-50",
		CurrentStock: 3,
		CostValue:    decimal.NewFromInt(120000),
		CostCurrency: currency.ARS,
		TargetMargin: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.Equal(t, "100", resp.AvgCostUSD.String())
	require.Len(t, repo.created, 1)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	stored, ok := state.Product(id)
	require.True(t, ok)
	assert.Equal(t, "100", stored.AvgCostUSD.String())
}

func TestAddProductSuggestedPrices(t *testing.T) {
	svc, _, _, _ := newTestInventory(1200)

	resp, err := svc.AddProduct(context.Background(), dto.CreateProductRequest{
		Name:         "Invictus 100ml",
		SKU:          "INV-100",
		CostValue:    decimal.NewFromInt(100),
		CostCurrency: currency.USD,
		TargetMargin: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	assert.Equal(t, "140", resp.SuggestedPriceUSD.String())
	assert.Equal(t, "168000", resp.SuggestedPriceARS.String())
}

func TestAddStockWeightedAverage(t *testing.T) {
	p := usdProduct(10, 85)
	svc, state, repo, purchases := newTestInventory(1200, p)

	resp, err := svc.AddStock(context.Background(), p.ID, dto.AddStockRequest{
		Quantity:     5,
		CostValue:    decimal.NewFromInt(90),
		CostCurrency: currency.USD,
	})
	require.NoError(t, err)

	// (10*85 + 5*90) / 15
	assert.Equal(t, "86.6667", resp.AvgCostUSD.StringFixed(4))
	assert.Equal(t, 15, resp.CurrentStock)

	require.Len(t, purchases.created, 1)
	entry := purchases.created[0]
	assert.Equal(t, p.ID, entry.ProductID)
	assert.Equal(t, 5, entry.Quantity)
	assert.Equal(t, "90", entry.CostPerUnitUSD.String())
	assert.Equal(t, "1200", entry.ExchangeRateUsed.String())

	assert.Equal(t, 15, repo.stockSets[p.ID])

	stored, _ := state.Product(p.ID)
	assert.Equal(t, "86.6667", stored.AvgCostUSD.StringFixed(4))
}

func TestAddStockCurrencyMismatchRederivesDisplayCost(t *testing.T) {
	// Product tracked in ARS; restock entered in USD. The display cost must
	// follow the fresh USD average instead of blending incompatible units.
	p := model.Product{
		ID:           uuid.New(),
		Name:         "Acqua di Gio 75ml",
		SKU:          "ADG-75",
		CurrentStock: 10,
		CostValue:    decimal.NewFromInt(102000),
		CostCurrency: currency.ARS,
		AvgCostUSD:   decimal.NewFromInt(85),
	}
	svc, state, _, _ := newTestInventory(1200, p)

	resp, err := svc.AddStock(context.Background(), p.ID, dto.AddStockRequest{
		Quantity:     5,
		CostValue:    decimal.NewFromInt(90),
		CostCurrency: currency.USD,
	})
	require.NoError(t, err)

	assert.Equal(t, "86.6667", resp.AvgCostUSD.StringFixed(4))

	stored, _ := state.Product(p.ID)
	expected := stored.AvgCostUSD.Mul(decimal.NewFromInt(1200))
	assert.True(t, stored.CostValue.Equal(expected),
		"cost value %s should equal avg*rate %s", stored.CostValue, expected)
}

func TestAddStockSameCurrencyBlendsDisplayCost(t *testing.T) {
	p := usdProduct(10, 85)
	svc, state, _, _ := newTestInventory(1200, p)

	_, err := svc.AddStock(context.Background(), p.ID, dto.AddStockRequest{
		Quantity:     5,
		CostValue:    decimal.NewFromInt(90),
		CostCurrency: currency.USD,
	})
	require.NoError(t, err)

	stored, _ := state.Product(p.ID)
	assert.Equal(t, "86.6667", stored.CostValue.StringFixed(4))
}

func TestAddStockRejectsNonPositiveQuantity(t *testing.T) {
	p := usdProduct(10, 85)
	svc, state, _, purchases := newTestInventory(1200, p)

	for _, qty := range []int{0, -3} {
		_, err := svc.AddStock(context.Background(), p.ID, dto.AddStockRequest{
			Quantity:     qty,
			CostValue:    decimal.NewFromInt(90),
			CostCurrency: currency.USD,
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}

	assert.Empty(t, purchases.created)
	stored, _ := state.Product(p.ID)
	assert.Equal(t, 10, stored.CurrentStock)
}

func TestAddStockUnknownProduct(t *testing.T) {
	svc, _, _, _ := newTestInventory(1200)

	_, err := svc.AddStock(context.Background(), uuid.New(), dto.AddStockRequest{
		Quantity:     1,
		CostValue:    decimal.NewFromInt(90),
		CostCurrency: currency.USD,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddStockPersistenceFailureLeavesStateUntouched(t *testing.T) {
	p := usdProduct(10, 85)
	svc, state, repo, _ := newTestInventory(1200, p)
	repo.txErr = assert.AnError

	_, err := svc.AddStock(context.Background(), p.ID, dto.AddStockRequest{
		Quantity:     5,
		CostValue:    decimal.NewFromInt(90),
		CostCurrency: currency.USD,
	})
	require.Error(t, err)

	stored, _ := state.Product(p.ID)
	assert.Equal(t, 10, stored.CurrentStock)
	assert.Equal(t, "85", stored.AvgCostUSD.String())
	assert.Empty(t, state.Purchases())
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _, _, _ := newTestInventory(1200)

	name := "renamed"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateProductRecomputesAvgOnCostChange(t *testing.T) {
	p := usdProduct(10, 85)
	svc, _, _, _ := newTestInventory(1200, p)

	newCost := decimal.NewFromInt(120000)
	ars := currency.ARS
	resp, err := svc.UpdateProduct(context.Background(), p.ID, dto.UpdateProductRequest{
		CostValue:    &newCost,
		CostCurrency: &ars,
	})
	require.NoError(t, err)
	assert.Equal(t, "100", resp.AvgCostUSD.String())
}

func TestUpdateProductPreservesUntouchedFields(t *testing.T) {
	p := usdProduct(10, 85)
	p.Brand = "Dior"
	svc, state, _, _ := newTestInventory(1200, p)

	name := "Sauvage Elixir"
	resp, err := svc.UpdateProduct(context.Background(), p.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Sauvage Elixir", resp.Name)
	assert.Equal(t, "Dior", resp.Brand)
	assert.Equal(t, "85", resp.AvgCostUSD.String())

	stored, _ := state.Product(p.ID)
	assert.Equal(t, "Sauvage Elixir", stored.Name)
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, _, _, _ := newTestInventory(1200)

	err := svc.DeleteProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProductCascadesPurchases(t *testing.T) {
	p := usdProduct(10, 85)
	other := usdProduct(2, 50)
	other.SKU = "OTH-1"

	state := NewState()
	state.ReplaceAll(
		[]model.Product{p, other},
		nil,
		[]model.PurchaseEntry{
			{ID: uuid.New(), ProductID: p.ID, Quantity: 10},
			{ID: uuid.New(), ProductID: other.ID, Quantity: 2},
		},
	)
	productRepo := newStubProductRepo()
	purchaseRepo := &stubPurchaseRepo{}
	svc := NewInventoryService(state, productRepo, purchaseRepo, newTestProvider(1200), nil)

	require.NoError(t, svc.DeleteProduct(context.Background(), p.ID))

	assert.Equal(t, []uuid.UUID{p.ID}, productRepo.deleted)
	assert.Equal(t, []uuid.UUID{p.ID}, purchaseRepo.deletedProduct)

	_, ok := state.Product(p.ID)
	assert.False(t, ok)
	remaining := state.Purchases()
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].ProductID)
}

func TestRevalueUpdatesARSTrackedProducts(t *testing.T) {
	// Tracked in ARS at 120000; the stored average was computed at 1200.
	p := model.Product{
		ID:           uuid.New(),
		Name:         "CH 212 VIP",
		SKU:          "CH-212",
		CurrentStock: 4,
		CostValue:    decimal.NewFromInt(120000),
		CostCurrency: currency.ARS,
		AvgCostUSD:   decimal.NewFromInt(100),
	}
	usd := usdProduct(10, 85)
	svc, state, repo, purchases := newTestInventory(1500, p, usd)

	changed := svc.Revalue(context.Background())

	assert.Equal(t, 1, changed)
	assert.Equal(t, "80", repo.avgUpdates[p.ID].String())

	stored, _ := state.Product(p.ID)
	assert.Equal(t, "80", stored.AvgCostUSD.String())

	// USD-tracked products are rate-independent.
	unchanged, _ := state.Product(usd.ID)
	assert.Equal(t, "85", unchanged.AvgCostUSD.String())

	// Revaluation is not a business event.
	assert.Empty(t, purchases.created)
	assert.Empty(t, state.Purchases())
}

func TestListProductPurchasesNotFound(t *testing.T) {
	svc, _, _, _ := newTestInventory(1200)

	_, err := svc.ListProductPurchases(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}
