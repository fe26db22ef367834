package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleChannel enumerates where a sale originated.
type SaleChannel string

const (
	ChannelOnline   SaleChannel = "Online"
	ChannelStore    SaleChannel = "Local"
	ChannelWhatsApp SaleChannel = "WhatsApp"
	ChannelOther    SaleChannel = "Otro"
)

func (c SaleChannel) Valid() bool {
	switch c {
	case ChannelOnline, ChannelStore, ChannelWhatsApp, ChannelOther:
		return true
	default:
		return false
	}
}

// Sale is the immutable record of one completed transaction. Totals and the
// exchange rate are frozen at settlement time; they never change even when
// later edits touch the referenced products or the global rate.
type Sale struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date             time.Time  `gorm:"not null;index"`
	Items            []SaleItem `gorm:"foreignKey:SaleID"`
	TotalARS         decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	TotalUSD         decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	ExchangeRateUsed decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Channel          SaleChannel     `gorm:"type:varchar(16);not null"`
	CustomerName     *string
	CreatedAt        time.Time
}

// SaleItem is one line of a Sale, in cart order. ProductName and
// UnitCostAtSaleUSD are denormalized snapshots so history survives product
// renames, deletions and cost changes.
type SaleItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Position          int       `gorm:"not null"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName       string    `gorm:"not null"`
	Quantity          int       `gorm:"not null"`
	UnitPriceARS      decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	UnitCostAtSaleUSD decimal.Decimal `gorm:"type:decimal(14,4);not null"`
}
