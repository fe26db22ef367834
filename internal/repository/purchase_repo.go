package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dantetripodi/gestor-perfumes/internal/model"
)

// PurchaseRepository persists the immutable restock history. Entries are only
// ever created (inside the restock transaction) or removed as a cascade of
// product deletion; there is no update path.
type PurchaseRepository interface {
	CreateTx(tx *gorm.DB, e *model.PurchaseEntry) error
	List(ctx context.Context) ([]model.PurchaseEntry, error)
	DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) CreateTx(tx *gorm.DB, e *model.PurchaseEntry) error {
	return tx.Create(e).Error
}

func (r *purchaseRepo) List(ctx context.Context) ([]model.PurchaseEntry, error) {
	var entries []model.PurchaseEntry
	err := r.db.WithContext(ctx).Order("date DESC").Find(&entries).Error
	return entries, err
}

func (r *purchaseRepo) DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Where("product_id = ?", productID).Delete(&model.PurchaseEntry{}).Error
}
