package service

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/model"
)

// State is the in-memory copy of the three collections, owned by the Store
// orchestrator. Reads are served from here; mutations go through the services,
// which persist first and commit to State only on success so memory is never
// ahead of storage. All accessors return copies — callers must not retain
// references across operations.
type State struct {
	mu        sync.RWMutex
	products  map[uuid.UUID]*model.Product
	sales     []model.Sale
	purchases []model.PurchaseEntry
}

func NewState() *State {
	return &State{products: make(map[uuid.UUID]*model.Product)}
}

// ReplaceAll swaps in a full set of collections atomically. Used by the
// initial load so no partial state is ever observable.
func (s *State) ReplaceAll(products []model.Product, sales []model.Sale, purchases []model.PurchaseEntry) {
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		p := products[i]
		byID[p.ID] = &p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = byID
	s.sales = append([]model.Sale(nil), sales...)
	s.purchases = append([]model.PurchaseEntry(nil), purchases...)
}

// Product returns a copy of one catalog entry.
func (s *State) Product(id uuid.UUID) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, false
	}
	return *p, true
}

// Products returns the catalog sorted by name.
func (s *State) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Sales returns the journal newest-first, with item slices copied so recorded
// sales stay immutable no matter what callers do.
func (s *State) Sales() []model.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Sale, 0, len(s.sales))
	for i := len(s.sales) - 1; i >= 0; i-- {
		out = append(out, copySale(s.sales[i]))
	}
	return out
}

// Purchases returns the restock history newest-first.
func (s *State) Purchases() []model.PurchaseEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PurchaseEntry, 0, len(s.purchases))
	for i := len(s.purchases) - 1; i >= 0; i-- {
		out = append(out, s.purchases[i])
	}
	return out
}

// PurchasesByProduct filters the restock history for one product, newest-first.
func (s *State) PurchasesByProduct(productID uuid.UUID) []model.PurchaseEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.PurchaseEntry
	for i := len(s.purchases) - 1; i >= 0; i-- {
		if s.purchases[i].ProductID == productID {
			out = append(out, s.purchases[i])
		}
	}
	return out
}

func copySale(sale model.Sale) model.Sale {
	sale.Items = append([]model.SaleItem(nil), sale.Items...)
	return sale
}

// ── Mutators (called by services after a successful persist) ────────────────

func (s *State) putProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

// removeProduct drops the product and cascades over its purchase history.
func (s *State) removeProduct(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	kept := s.purchases[:0]
	for _, e := range s.purchases {
		if e.ProductID != id {
			kept = append(kept, e)
		}
	}
	s.purchases = kept
}

func (s *State) applyRestock(p model.Product, entry model.PurchaseEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
	s.purchases = append(s.purchases, entry)
}

func (s *State) applySale(sale model.Sale, stocks map[uuid.UUID]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, copySale(sale))
	for id, stock := range stocks {
		if p, ok := s.products[id]; ok {
			p.CurrentStock = stock
		}
	}
}

func (s *State) setAvgCost(id uuid.UUID, avgCostUSD decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.AvgCostUSD = avgCostUSD
	}
}

// snapshotView exports copies of the three collections for the snapshot cache.
func (s *State) snapshotView() ([]model.Product, []model.Sale, []model.PurchaseEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	sales := make([]model.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		sales = append(sales, copySale(sale))
	}
	purchases := append([]model.PurchaseEntry(nil), s.purchases...)
	return products, sales, purchases
}
