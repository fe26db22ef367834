package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/model"
	"github.com/Dantetripodi/gestor-perfumes/internal/rates"
	"github.com/Dantetripodi/gestor-perfumes/internal/repository"
	"github.com/Dantetripodi/gestor-perfumes/internal/snapshot"
)

// Store ties the shared in-memory state to its persistence and to the rate
// provider. It owns bootstrap and every rate transition, because a rate
// change must be followed by a catalog revaluation pass.
type Store struct {
	state     *State
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	rates     *rates.Provider
	snap      *snapshot.Cache
	inventory InventoryService
}

func NewStore(
	state *State,
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	sales repository.SaleRepository,
	provider *rates.Provider,
	snap *snapshot.Cache,
	inventory InventoryService,
) *Store {
	return &Store{
		state:     state,
		products:  products,
		purchases: purchases,
		sales:     sales,
		rates:     provider,
		snap:      snap,
		inventory: inventory,
	}
}

// LoadAll fetches the three collections concurrently and swaps them into the
// state in one step. When any fetch fails it falls back to the last persisted
// snapshot so the app still opens with data, and returns the load error so
// the caller can decide how loudly to complain.
func (st *Store) LoadAll(ctx context.Context) error {
	var (
		wg        sync.WaitGroup
		products  []model.Product
		sales     []model.Sale
		purchases []model.PurchaseEntry
		errP      error
		errS      error
		errE      error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		products, errP = st.products.List(ctx)
	}()
	go func() {
		defer wg.Done()
		sales, errS = st.sales.List(ctx)
	}()
	go func() {
		defer wg.Done()
		purchases, errE = st.purchases.List(ctx)
	}()
	wg.Wait()

	if err := errors.Join(errP, errS, errE); err != nil {
		if p, s, e, ok := st.snap.Load(ctx); ok {
			st.state.ReplaceAll(p, s, e)
			log.Warn().Err(err).Msg("database load failed, serving last snapshot")
		} else {
			log.Error().Err(err).Msg("database load failed and no snapshot available")
		}
		return fmt.Errorf("load collections: %w", err)
	}

	st.state.ReplaceAll(products, sales, purchases)
	st.snap.Save(ctx, products, sales, purchases)
	log.Info().
		Int("products", len(products)).
		Int("sales", len(sales)).
		Int("purchases", len(purchases)).
		Msg("state loaded")
	return nil
}

func (st *Store) RateQuote() rates.Quote {
	return st.rates.Quote()
}

// RefreshRate pulls a fresh automatic quote and revalues the catalog when the
// rate actually moved. While the provider is in MANUAL mode this is a no-op.
func (st *Store) RefreshRate(ctx context.Context) rates.Quote {
	before := st.rates.Quote().Sell
	q := st.rates.Refresh(ctx)
	if !q.Sell.Equal(before) {
		st.inventory.Revalue(ctx)
	}
	return q
}

func (st *Store) SetManualRate(ctx context.Context, sell decimal.Decimal) (rates.Quote, error) {
	if err := st.rates.SetManual(sell); err != nil {
		return rates.Quote{}, err
	}
	st.inventory.Revalue(ctx)
	return st.rates.Quote(), nil
}

func (st *Store) SetRateSource(ctx context.Context, source rates.Source) (rates.Quote, error) {
	q, err := st.rates.SetSource(ctx, source)
	if err != nil {
		return q, err
	}
	st.inventory.Revalue(ctx)
	return q, nil
}
