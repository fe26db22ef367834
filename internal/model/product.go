package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/currency"
)

// Product is a catalog entry. Cost basis is carried twice: CostValue in the
// operator's native currency (CostCurrency), and AvgCostUSD as the canonical
// USD valuation. The two must stay consistent whenever CostValue,
// CostCurrency or the prevailing sell rate changes.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Brand       string
	Description string
	// SKU should be unique, but uniqueness is not enforced atomically.
	SKU          string            `gorm:"index"`
	CurrentStock int               `gorm:"not null;default:0"`
	CostValue    decimal.Decimal   `gorm:"type:decimal(14,4);not null"`
	CostCurrency currency.Currency `gorm:"type:varchar(3);not null"`
	AvgCostUSD   decimal.Decimal   `gorm:"type:decimal(14,4);not null"`
	// TargetMargin is a percentage used only for price suggestion, never enforced.
	TargetMargin decimal.Decimal `gorm:"type:decimal(5,2)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
