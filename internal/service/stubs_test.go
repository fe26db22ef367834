package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Dantetripodi/gestor-perfumes/internal/model"
	"github.com/Dantetripodi/gestor-perfumes/internal/rates"
)

// Stub repositories record calls and never touch a database. DB() returns nil
// so runTx executes callbacks directly.

type stubProductRepo struct {
	listResult []model.Product
	listErr    error

	createErr error
	updateErr error
	txErr     error

	created      []model.Product
	updated      []model.Product
	avgUpdates   map[uuid.UUID]decimal.Decimal
	avgUpdateErr error
	deleted      []uuid.UUID
	stockSets    map[uuid.UUID]int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		avgUpdates: make(map[uuid.UUID]decimal.Decimal),
		stockSets:  make(map[uuid.UUID]int),
	}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	for i := range r.listResult {
		if r.listResult[i].ID == id {
			p := r.listResult[i]
			return &p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	return r.listResult, r.listErr
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, *p)
	return nil
}

func (r *stubProductRepo) UpdateAvgCost(_ context.Context, id uuid.UUID, avg decimal.Decimal) error {
	if r.avgUpdateErr != nil {
		return r.avgUpdateErr
	}
	r.avgUpdates[id] = avg
	return nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if r.txErr != nil {
		return r.txErr
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	if r.txErr != nil {
		return r.txErr
	}
	r.stockSets[id] = stock
	return nil
}

func (r *stubProductRepo) SetValuationTx(_ *gorm.DB, id uuid.UUID, stock int, avg, costValue decimal.Decimal) error {
	if r.txErr != nil {
		return r.txErr
	}
	r.stockSets[id] = stock
	r.avgUpdates[id] = avg
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

type stubPurchaseRepo struct {
	listResult []model.PurchaseEntry
	listErr    error
	createErr  error

	created        []model.PurchaseEntry
	deletedProduct []uuid.UUID
}

func (r *stubPurchaseRepo) CreateTx(_ *gorm.DB, e *model.PurchaseEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *e)
	return nil
}

func (r *stubPurchaseRepo) List(_ context.Context) ([]model.PurchaseEntry, error) {
	return r.listResult, r.listErr
}

func (r *stubPurchaseRepo) DeleteByProductTx(_ *gorm.DB, productID uuid.UUID) error {
	r.deletedProduct = append(r.deletedProduct, productID)
	return nil
}

type stubSaleRepo struct {
	listResult []model.Sale
	listErr    error
	createErr  error

	created []model.Sale
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for i := range r.listResult {
		if r.listResult[i].ID == id {
			s := r.listResult[i]
			return &s, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubSaleRepo) List(_ context.Context) ([]model.Sale, error) {
	return r.listResult, r.listErr
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

// staticFeed returns a fixed quote, or an error when failing is set.
type staticFeed struct {
	buy, sell decimal.Decimal
	failing   bool
	calls     int
}

func (f *staticFeed) Fetch(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	f.calls++
	if f.failing {
		return decimal.Zero, decimal.Zero, errors.New("feed down")
	}
	return f.buy, f.sell, nil
}

// newTestProvider returns a provider pinned to the given sell rate via a
// refreshed automatic quote.
func newTestProvider(sell int64) *rates.Provider {
	feed := &staticFeed{
		buy:  decimal.NewFromInt(sell - 20),
		sell: decimal.NewFromInt(sell),
	}
	p := rates.NewProvider(feed)
	p.Refresh(context.Background())
	return p
}
