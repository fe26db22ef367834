package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/currency"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string            `json:"name"          validate:"required,min=2,max=120"`
	Brand        string            `json:"brand"         validate:"max=80"`
	Description  string            `json:"description"   validate:"max=500"`
	SKU          string            `json:"sku"           validate:"required,min=2,max=64"`
	CurrentStock int               `json:"current_stock" validate:"min=0"`
	CostValue    decimal.Decimal   `json:"cost_value"    validate:"min=0"`
	CostCurrency currency.Currency `json:"cost_currency" validate:"required,oneof=USD ARS"`
	TargetMargin decimal.Decimal   `json:"target_margin" validate:"min=0"`
}

// UpdateProductRequest is a shallow merge: only non-nil fields are applied.
type UpdateProductRequest struct {
	Name         *string            `json:"name"          validate:"omitempty,min=2,max=120"`
	Brand        *string            `json:"brand"         validate:"omitempty,max=80"`
	Description  *string            `json:"description"   validate:"omitempty,max=500"`
	SKU          *string            `json:"sku"           validate:"omitempty,min=2,max=64"`
	CurrentStock *int               `json:"current_stock" validate:"omitempty,min=0"`
	CostValue    *decimal.Decimal   `json:"cost_value"    validate:"omitempty,min=0"`
	CostCurrency *currency.Currency `json:"cost_currency" validate:"omitempty,oneof=USD ARS"`
	TargetMargin *decimal.Decimal   `json:"target_margin" validate:"omitempty,min=0"`
}

type AddStockRequest struct {
	Quantity     int               `json:"quantity"      validate:"required,gt=0"`
	CostValue    decimal.Decimal   `json:"cost_value"    validate:"min=0"`
	CostCurrency currency.Currency `json:"cost_currency" validate:"required,oneof=USD ARS"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Brand        string            `json:"brand"`
	Description  string            `json:"description"`
	SKU          string            `json:"sku"`
	CurrentStock int               `json:"current_stock"`
	CostValue    decimal.Decimal   `json:"cost_value"`
	CostCurrency currency.Currency `json:"cost_currency"`
	AvgCostUSD   decimal.Decimal   `json:"avg_cost_usd"`
	TargetMargin decimal.Decimal   `json:"target_margin"`
	// Advisory price suggestion derived from AvgCostUSD and TargetMargin at
	// the current sell rate; never enforced.
	SuggestedPriceUSD decimal.Decimal `json:"suggested_price_usd"`
	SuggestedPriceARS decimal.Decimal `json:"suggested_price_ars"`
}

type PurchaseResponse struct {
	ID               string            `json:"id"`
	ProductID        string            `json:"product_id"`
	Date             string            `json:"date"`
	Quantity         int               `json:"quantity"`
	CostPerUnitUSD   decimal.Decimal   `json:"cost_per_unit_usd"`
	CostCurrency     currency.Currency `json:"cost_currency"`
	CostValue        decimal.Decimal   `json:"cost_value"`
	ExchangeRateUsed decimal.Decimal   `json:"exchange_rate_used"`
}
