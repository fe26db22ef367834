// Package snapshot keeps JSON snapshots of the three collections in Redis so
// the service can bootstrap with the last known state when the database is
// unreachable. Snapshots are best-effort: a write failure is logged, a
// malformed or missing snapshot falls back to an empty collection, and a nil
// cache disables the whole feature.
package snapshot

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Dantetripodi/gestor-perfumes/internal/model"
)

const (
	keyProducts  = "snapshot:products"
	keySales     = "snapshot:sales"
	keyPurchases = "snapshot:purchases"
)

type Cache struct{ rdb *redis.Client }

// New returns a Cache over rdb. A nil client yields a disabled cache whose
// Save is a no-op and whose Load reports no data.
func New(rdb *redis.Client) *Cache { return &Cache{rdb: rdb} }

func (c *Cache) enabled() bool { return c != nil && c.rdb != nil }

// Save rewrites all three collection snapshots. Called after every successful
// mutation; failures are logged and swallowed so they never fail the
// triggering operation.
func (c *Cache) Save(ctx context.Context, products []model.Product, sales []model.Sale, purchases []model.PurchaseEntry) {
	if !c.enabled() {
		return
	}
	c.write(ctx, keyProducts, products)
	c.write(ctx, keySales, sales)
	c.write(ctx, keyPurchases, purchases)
}

func (c *Cache) write(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("snapshot: marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("snapshot: write failed")
	}
}

// Load reads the three collection snapshots. ok is false only when the cache
// is disabled or nothing was ever snapshotted; individual malformed payloads
// degrade to empty collections rather than failing the bootstrap.
func (c *Cache) Load(ctx context.Context) (products []model.Product, sales []model.Sale, purchases []model.PurchaseEntry, ok bool) {
	if !c.enabled() {
		return nil, nil, nil, false
	}

	var found bool
	products, ok = readCollection[model.Product](ctx, c.rdb, keyProducts)
	found = found || ok
	sales, ok = readCollection[model.Sale](ctx, c.rdb, keySales)
	found = found || ok
	purchases, ok = readCollection[model.PurchaseEntry](ctx, c.rdb, keyPurchases)
	found = found || ok

	return products, sales, purchases, found
}

func readCollection[T any](ctx context.Context, rdb *redis.Client, key string) ([]T, bool) {
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("snapshot: read failed")
		}
		return []T{}, false
	}
	return decodeCollection[T](key, data)
}

// decodeCollection tolerates malformed payloads: startup must never crash on
// a bad snapshot.
func decodeCollection[T any](key string, data []byte) ([]T, bool) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("snapshot: malformed payload, using empty collection")
		return []T{}, false
	}
	if items == nil {
		items = []T{}
	}
	return items, true
}
