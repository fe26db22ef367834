package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Dantetripodi/gestor-perfumes/internal/currency"
	"github.com/Dantetripodi/gestor-perfumes/internal/dto"
	"github.com/Dantetripodi/gestor-perfumes/internal/model"
	"github.com/Dantetripodi/gestor-perfumes/internal/rates"
	"github.com/Dantetripodi/gestor-perfumes/internal/repository"
	"github.com/Dantetripodi/gestor-perfumes/internal/snapshot"
)

var (
	// ErrProductNotFound is returned by every operation referencing a missing
	// product id. Delete is loud too: a delete that silently no-ops would hide
	// the same data-integrity problems an update surfaces.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidQuantity rejects zero or negative quantities before any state
	// is touched.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

var oneHundred = decimal.NewFromInt(100)

// InventoryService owns the product catalog and purchase history: weighted
// average cost recomputation on restock, cost-basis currency reconciliation,
// and the derived-field revaluation pass after rate changes.
type InventoryService interface {
	AddProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) []dto.ProductResponse
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AddStock(ctx context.Context, id uuid.UUID, req dto.AddStockRequest) (*dto.ProductResponse, error)
	ListPurchases(ctx context.Context) []dto.PurchaseResponse
	ListProductPurchases(ctx context.Context, id uuid.UUID) ([]dto.PurchaseResponse, error)

	// Revalue recomputes avgCostUSD for the whole catalog from each product's
	// stored costValue/costCurrency at the current sell rate. It is a derived
	// field refresh, not a business event: no PurchaseEntry is created and no
	// sale is touched. Returns the number of products whose valuation changed.
	Revalue(ctx context.Context) int
}

type inventoryService struct {
	state     *State
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	rates     *rates.Provider
	snap      *snapshot.Cache
}

func NewInventoryService(
	state *State,
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	provider *rates.Provider,
	snap *snapshot.Cache,
) InventoryService {
	return &inventoryService{
		state:     state,
		products:  products,
		purchases: purchases,
		rates:     provider,
		snap:      snap,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// persistSnapshot rewrites the offline snapshots after a committed mutation.
func persistSnapshot(ctx context.Context, snap *snapshot.Cache, state *State) {
	products, sales, purchases := state.snapshotView()
	snap.Save(ctx, products, sales, purchases)
}

func (s *inventoryService) AddProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	rate := s.rates.SellRate()
	p := model.Product{
		ID:           uuid.New(),
		Name:         req.Name,
		Brand:        req.Brand,
		Description:  req.Description,
		SKU:          req.SKU,
		CurrentStock: req.CurrentStock,
		CostValue:    req.CostValue,
		CostCurrency: req.CostCurrency,
		AvgCostUSD:   currency.ToUSD(req.CostValue, req.CostCurrency, rate),
		TargetMargin: req.TargetMargin,
	}

	if err := s.products.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.state.putProduct(p)
	persistSnapshot(ctx, s.snap, s.state)

	resp := productToResponse(&p, rate)
	return &resp, nil
}

func (s *inventoryService) GetProduct(_ context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, ok := s.state.Product(id)
	if !ok {
		return nil, ErrProductNotFound
	}
	resp := productToResponse(&p, s.rates.SellRate())
	return &resp, nil
}

func (s *inventoryService) ListProducts(_ context.Context) []dto.ProductResponse {
	rate := s.rates.SellRate()
	products := s.state.Products()
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i], rate))
	}
	return out
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, ok := s.state.Product(id)
	if !ok {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.CurrentStock != nil {
		p.CurrentStock = *req.CurrentStock
	}
	if req.CostValue != nil {
		p.CostValue = *req.CostValue
	}
	if req.CostCurrency != nil {
		p.CostCurrency = *req.CostCurrency
	}
	if req.TargetMargin != nil {
		p.TargetMargin = *req.TargetMargin
	}

	rate := s.rates.SellRate()
	// A changed cost pair re-normalizes the USD valuation; the unchanged half
	// of the pair is the one already merged from the existing record.
	if req.CostValue != nil || req.CostCurrency != nil {
		p.AvgCostUSD = currency.ToUSD(p.CostValue, p.CostCurrency, rate)
	}

	if err := s.products.Update(ctx, &p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.state.putProduct(p)
	persistSnapshot(ctx, s.snap, s.state)

	resp := productToResponse(&p, rate)
	return &resp, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.state.Product(id); !ok {
		return ErrProductNotFound
	}

	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.purchases.DeleteByProductTx(tx, id); err != nil {
			return err
		}
		return s.products.DeleteTx(tx, id)
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.state.removeProduct(id)
	persistSnapshot(ctx, s.snap, s.state)
	return nil
}

func (s *inventoryService) AddStock(ctx context.Context, id uuid.UUID, req dto.AddStockRequest) (*dto.ProductResponse, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	p, ok := s.state.Product(id)
	if !ok {
		return nil, ErrProductNotFound
	}

	rate := s.rates.SellRate()
	costInUSD := currency.ToUSD(req.CostValue, req.CostCurrency, rate)

	entry := model.PurchaseEntry{
		ID:               uuid.New(),
		ProductID:        id,
		Date:             time.Now().UTC(),
		Quantity:         req.Quantity,
		CostPerUnitUSD:   costInUSD,
		CostCurrency:     req.CostCurrency,
		CostValue:        req.CostValue,
		ExchangeRateUsed: rate,
	}

	oldStock := decimal.NewFromInt(int64(p.CurrentStock))
	qty := decimal.NewFromInt(int64(req.Quantity))
	newStockInt := p.CurrentStock + req.Quantity
	newStock := decimal.NewFromInt(int64(newStockInt))

	newAvg := costInUSD
	if newStockInt > 0 {
		newAvg = oldStock.Mul(p.AvgCostUSD).Add(qty.Mul(costInUSD)).Div(newStock)
	}

	// Keep the native-currency view coherent: same-currency restocks blend
	// the entered values; a currency mismatch re-derives the display cost
	// from the fresh USD average instead.
	var newCostValue decimal.Decimal
	if req.CostCurrency == p.CostCurrency {
		newCostValue = oldStock.Mul(p.CostValue).Add(qty.Mul(req.CostValue)).Div(newStock)
	} else {
		newCostValue = currency.FromUSD(newAvg, p.CostCurrency, rate)
	}

	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.purchases.CreateTx(tx, &entry); err != nil {
			return err
		}
		return s.products.SetValuationTx(tx, id, newStockInt, newAvg, newCostValue)
	})
	if err != nil {
		return nil, fmt.Errorf("restock: %w", err)
	}

	p.CurrentStock = newStockInt
	p.AvgCostUSD = newAvg
	p.CostValue = newCostValue
	s.state.applyRestock(p, entry)
	persistSnapshot(ctx, s.snap, s.state)

	resp := productToResponse(&p, rate)
	return &resp, nil
}

func (s *inventoryService) ListPurchases(_ context.Context) []dto.PurchaseResponse {
	return purchasesToResponses(s.state.Purchases())
}

func (s *inventoryService) ListProductPurchases(_ context.Context, id uuid.UUID) ([]dto.PurchaseResponse, error) {
	if _, ok := s.state.Product(id); !ok {
		return nil, ErrProductNotFound
	}
	return purchasesToResponses(s.state.PurchasesByProduct(id)), nil
}

func (s *inventoryService) Revalue(ctx context.Context) int {
	rate := s.rates.SellRate()
	changed := 0
	for _, p := range s.state.Products() {
		newAvg := currency.ToUSD(p.CostValue, p.CostCurrency, rate)
		if newAvg.Equal(p.AvgCostUSD) {
			continue
		}
		if err := s.products.UpdateAvgCost(ctx, p.ID, newAvg); err != nil {
			log.Warn().Err(err).Str("product_id", p.ID.String()).
				Msg("revalue: persist failed, keeping previous valuation")
			continue
		}
		s.state.setAvgCost(p.ID, newAvg)
		changed++
	}
	if changed > 0 {
		persistSnapshot(ctx, s.snap, s.state)
		log.Info().Int("products", changed).Str("sell_rate", rate.String()).
			Msg("inventory revalued after rate change")
	}
	return changed
}

func productToResponse(p *model.Product, rate decimal.Decimal) dto.ProductResponse {
	suggestedUSD := p.AvgCostUSD.Mul(decimal.NewFromInt(1).Add(p.TargetMargin.Div(oneHundred)))
	return dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Brand:             p.Brand,
		Description:       p.Description,
		SKU:               p.SKU,
		CurrentStock:      p.CurrentStock,
		CostValue:         p.CostValue,
		CostCurrency:      p.CostCurrency,
		AvgCostUSD:        p.AvgCostUSD,
		TargetMargin:      p.TargetMargin,
		SuggestedPriceUSD: suggestedUSD,
		SuggestedPriceARS: currency.FromUSD(suggestedUSD, currency.ARS, rate),
	}
}

func purchasesToResponses(entries []model.PurchaseEntry) []dto.PurchaseResponse {
	out := make([]dto.PurchaseResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.PurchaseResponse{
			ID:               e.ID.String(),
			ProductID:        e.ProductID.String(),
			Date:             e.Date.Format(time.RFC3339),
			Quantity:         e.Quantity,
			CostPerUnitUSD:   e.CostPerUnitUSD,
			CostCurrency:     e.CostCurrency,
			CostValue:        e.CostValue,
			ExchangeRateUsed: e.ExchangeRateUsed,
		})
	}
	return out
}
