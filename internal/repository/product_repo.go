package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Dantetripodi/gestor-perfumes/internal/model"
)

// ProductRepository is the persistence contract for the catalog. Services
// depend on this interface, not on the concrete GORM implementation, so unit
// tests can run against in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error

	// UpdateAvgCost rewrites the derived USD valuation of one product. Used by
	// the revaluation pass after a rate change; touches nothing else.
	UpdateAvgCost(ctx context.Context, id uuid.UUID, avgCostUSD decimal.Decimal) error

	// Tx variants run inside a transaction owned by the service layer.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error
	SetValuationTx(tx *gorm.DB, id uuid.UUID, stock int, avgCostUSD, costValue decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) UpdateAvgCost(ctx context.Context, id uuid.UUID, avgCostUSD decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).
		Update("avg_cost_usd", avgCostUSD).Error
}

func (r *productRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, id).Error
}

func (r *productRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("current_stock", stock).Error
}

func (r *productRepo) SetValuationTx(tx *gorm.DB, id uuid.UUID, stock int, avgCostUSD, costValue decimal.Decimal) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_stock": stock,
		"avg_cost_usd":  avgCostUSD,
		"cost_value":    costValue,
	}).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
