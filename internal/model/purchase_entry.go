package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/currency"
)

// PurchaseEntry is the immutable record of one restock event. All monetary
// fields are snapshots taken at the moment of purchase; later changes to the
// product or the exchange rate never rewrite them. Entries are removed only
// as a cascade of product deletion.
type PurchaseEntry struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Date             time.Time `gorm:"not null"`
	Quantity         int       `gorm:"not null"`
	CostPerUnitUSD   decimal.Decimal   `gorm:"type:decimal(14,4);not null"`
	CostCurrency     currency.Currency `gorm:"type:varchar(3);not null"`
	CostValue        decimal.Decimal   `gorm:"type:decimal(14,4);not null"`
	ExchangeRateUsed decimal.Decimal   `gorm:"type:decimal(14,4);not null"`
	CreatedAt        time.Time
}

func (PurchaseEntry) TableName() string { return "purchase_entries" }
