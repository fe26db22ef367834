package dto

import "github.com/shopspring/decimal"

type RateResponse struct {
	Buy         decimal.Decimal `json:"buy"`
	Sell        decimal.Decimal `json:"sell"`
	LastUpdated string          `json:"last_updated"`
	Source      string          `json:"source"`
}

type SetManualRateRequest struct {
	Sell decimal.Decimal `json:"sell" validate:"required"`
}

type SetRateSourceRequest struct {
	Source string `json:"source" validate:"required,oneof=AUTOMATIC MANUAL"`
}

// MetricsResponse mirrors the dashboard summary: revenue and profit are ARS
// aggregates over the sales journal using each sale's frozen rate; stock
// value is USD (canonical) with an ARS equivalent at the current rate.
type MetricsResponse struct {
	TotalRevenueARS   decimal.Decimal `json:"total_revenue_ars"`
	GrossProfitARS    decimal.Decimal `json:"gross_profit_ars"`
	TotalStockValueUSD decimal.Decimal `json:"total_stock_value_usd"`
	TotalStockValueARS decimal.Decimal `json:"total_stock_value_ars"`
	MarginPct         decimal.Decimal `json:"margin_pct"`
}
