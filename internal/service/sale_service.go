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

	"github.com/Dantetripodi/gestor-perfumes/internal/dto"
	"github.com/Dantetripodi/gestor-perfumes/internal/model"
	"github.com/Dantetripodi/gestor-perfumes/internal/rates"
	"github.com/Dantetripodi/gestor-perfumes/internal/repository"
	"github.com/Dantetripodi/gestor-perfumes/internal/snapshot"
	"github.com/Dantetripodi/gestor-perfumes/internal/worker"
)

// ErrEmptySale is returned when, after dropping unmatched product references,
// no cart line is left to settle.
var ErrEmptySale = errors.New("sale has no items")

// SaleService settles carts into immutable sale records and serves history.
type SaleService interface {
	RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordSaleResponse, error)
	ListSales(ctx context.Context) []dto.SaleResponse
}

type saleService struct {
	state      *State
	sales      repository.SaleRepository
	products   repository.ProductRepository
	rates      *rates.Provider
	snap       *snapshot.Cache
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	state *State,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	provider *rates.Provider,
	snap *snapshot.Cache,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		state:      state,
		sales:      sales,
		products:   products,
		rates:      provider,
		snap:       snap,
		dispatcher: dispatcher,
	}
}

// RecordSale settles the cart at the current sell rate. Lines referencing
// unknown products are skipped and reported back rather than failing the
// whole cart; a line with a non-positive quantity fails the whole cart, since
// that is operator input error rather than stale catalog data. Stock is
// decremented with a floor of zero, so overselling is allowed but never
// produces negative stock.
func (s *saleService) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordSaleResponse, error) {
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	rate := s.rates.SellRate()
	sale := model.Sale{
		ID:               uuid.New(),
		Date:             time.Now().UTC(),
		TotalARS:         decimal.Zero,
		TotalUSD:         decimal.Zero,
		ExchangeRateUsed: rate,
		Channel:          model.SaleChannel(req.Channel),
		CustomerName:     req.CustomerName,
	}

	var skipped []string
	decrements := make(map[uuid.UUID]int)

	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			skipped = append(skipped, line.ProductID)
			continue
		}
		p, ok := s.state.Product(productID)
		if !ok {
			skipped = append(skipped, line.ProductID)
			continue
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		lineARS := line.UnitPriceARS.Mul(qty)
		sale.TotalARS = sale.TotalARS.Add(lineARS)
		sale.TotalUSD = sale.TotalUSD.Add(lineARS.Div(rate))

		sale.Items = append(sale.Items, model.SaleItem{
			ID:                uuid.New(),
			SaleID:            sale.ID,
			Position:          len(sale.Items),
			ProductID:         p.ID,
			ProductName:       p.Name,
			Quantity:          line.Quantity,
			UnitPriceARS:      line.UnitPriceARS,
			UnitCostAtSaleUSD: p.AvgCostUSD,
		})
		decrements[p.ID] += line.Quantity
	}

	if len(sale.Items) == 0 {
		return nil, ErrEmptySale
	}

	// Aggregate decrements per product before clamping, so two cart lines of
	// the same product oversell together instead of clamping independently.
	stocks := make(map[uuid.UUID]int, len(decrements))
	for id, qty := range decrements {
		p, _ := s.state.Product(id)
		remaining := p.CurrentStock - qty
		if remaining < 0 {
			remaining = 0
		}
		stocks[id] = remaining
	}

	err := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return err
		}
		for id, stock := range stocks {
			if err := s.products.SetStockTx(tx, id, stock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}

	s.state.applySale(sale, stocks)
	persistSnapshot(ctx, s.snap, s.state)

	if err := s.dispatcher.EnqueueReceipt(ctx, sale.ID); err != nil {
		log.Warn().Err(err).Str("sale_id", sale.ID.String()).
			Msg("receipt enqueue failed, sale is committed")
	}

	return &dto.RecordSaleResponse{
		Sale:              saleToResponse(sale),
		SkippedProductIDs: skipped,
	}, nil
}

func (s *saleService) ListSales(_ context.Context) []dto.SaleResponse {
	sales := s.state.Sales()
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, saleToResponse(sale))
	}
	return out
}

func saleToResponse(sale model.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:         it.ProductID.String(),
			ProductName:       it.ProductName,
			Quantity:          it.Quantity,
			UnitPriceARS:      it.UnitPriceARS,
			UnitCostAtSaleUSD: it.UnitCostAtSaleUSD,
		})
	}
	return dto.SaleResponse{
		ID:               sale.ID.String(),
		Date:             sale.Date.Format(time.RFC3339),
		Items:            items,
		TotalARS:         sale.TotalARS,
		TotalUSD:         sale.TotalUSD,
		ExchangeRateUsed: sale.ExchangeRateUsed,
		Channel:          string(sale.Channel),
		CustomerName:     sale.CustomerName,
	}
}
