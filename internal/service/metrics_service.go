package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/currency"
	"github.com/Dantetripodi/gestor-perfumes/internal/dto"
	"github.com/Dantetripodi/gestor-perfumes/internal/rates"
)

// MetricsService aggregates the dashboard summary over the in-memory state.
type MetricsService interface {
	Summary(ctx context.Context) dto.MetricsResponse
}

type metricsService struct {
	state *State
	rates *rates.Provider
}

func NewMetricsService(state *State, provider *rates.Provider) MetricsService {
	return &metricsService{state: state, rates: provider}
}

// Summary computes revenue and gross profit from the sales journal, costing
// each sale at its own frozen exchange rate so historical profit never moves
// when today's rate does. Stock value uses the current rate: it prices what
// is on the shelf right now.
func (s *metricsService) Summary(_ context.Context) dto.MetricsResponse {
	revenue := decimal.Zero
	profit := decimal.Zero
	for _, sale := range s.state.Sales() {
		revenue = revenue.Add(sale.TotalARS)
		costUSD := decimal.Zero
		for _, it := range sale.Items {
			costUSD = costUSD.Add(it.UnitCostAtSaleUSD.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		profit = profit.Add(sale.TotalARS.Sub(costUSD.Mul(sale.ExchangeRateUsed)))
	}

	stockUSD := decimal.Zero
	for _, p := range s.state.Products() {
		stockUSD = stockUSD.Add(p.AvgCostUSD.Mul(decimal.NewFromInt(int64(p.CurrentStock))))
	}
	rate := s.rates.SellRate()

	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = profit.Div(revenue).Mul(oneHundred)
	}

	return dto.MetricsResponse{
		TotalRevenueARS:    revenue,
		GrossProfitARS:     profit,
		TotalStockValueUSD: stockUSD,
		TotalStockValueARS: currency.FromUSD(stockUSD, currency.ARS, rate),
		MarginPct:          margin,
	}
}
