package dto

import "github.com/shopspring/decimal"

// CartItemRequest is one line of the cart, in the order the operator rang it.
type CartItemRequest struct {
	ProductID    string          `json:"product_id"     validate:"required"`
	Quantity     int             `json:"quantity"       validate:"required,gt=0"`
	UnitPriceARS decimal.Decimal `json:"unit_price_ars" validate:"required"`
}

type RecordSaleRequest struct {
	Items        []CartItemRequest `json:"items"         validate:"required,min=1,dive"`
	Channel      string            `json:"channel"       validate:"required,oneof=Online Local WhatsApp Otro"`
	CustomerName *string           `json:"customer_name" validate:"omitempty,max=120"`
}

type SaleItemResponse struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity"`
	UnitPriceARS      decimal.Decimal `json:"unit_price_ars"`
	UnitCostAtSaleUSD decimal.Decimal `json:"unit_cost_at_sale_usd"`
}

type SaleResponse struct {
	ID               string             `json:"id"`
	Date             string             `json:"date"`
	Items            []SaleItemResponse `json:"items"`
	TotalARS         decimal.Decimal    `json:"total_ars"`
	TotalUSD         decimal.Decimal    `json:"total_usd"`
	ExchangeRateUsed decimal.Decimal    `json:"exchange_rate_used"`
	Channel          string             `json:"channel"`
	CustomerName     *string            `json:"customer_name"`
}

// RecordSaleResponse reports the settled sale plus every cart reference that
// could not be matched to a product, so callers can detect data-integrity
// problems instead of losing lines silently.
type RecordSaleResponse struct {
	Sale              SaleResponse `json:"sale"`
	SkippedProductIDs []string     `json:"skipped_product_ids"`
}
