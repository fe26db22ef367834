package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/infra"
)

// Feed is the external exchange rate source consumed by the Provider. Any
// failure mode (timeout, malformed payload, non-2xx status) is reported the
// same way: a non-nil error.
type Feed interface {
	Fetch(ctx context.Context) (buy, sell decimal.Decimal, err error)
}

const feedCacheKey = "dolar-blue"

// DolarAPIFeed pulls the blue-dollar quote from a DolarAPI-style endpoint.
// Responses are cached for a short TTL so rapid refreshes don't hammer the
// public API, and calls go through a circuit breaker so a dead feed fails
// fast instead of stalling every refresh.
type DolarAPIFeed struct {
	url     string
	client  *http.Client
	breaker *infra.CircuitBreaker
	cache   *gocache.Cache
}

func NewDolarAPIFeed(url string) *DolarAPIFeed {
	return &DolarAPIFeed{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		cache:   gocache.New(time.Minute, 5*time.Minute),
	}
}

type dolarAPIResponse struct {
	Compra json.Number `json:"compra"`
	Venta  json.Number `json:"venta"`
}

type cachedQuote struct {
	buy, sell decimal.Decimal
}

func (f *DolarAPIFeed) Fetch(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if hit, ok := f.cache.Get(feedCacheKey); ok {
		q := hit.(cachedQuote)
		return q.buy, q.sell, nil
	}

	var quote cachedQuote
	err := f.breaker.Execute(func() error {
		var innerErr error
		quote, innerErr = f.fetch(ctx)
		return innerErr
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	f.cache.Set(feedCacheKey, quote, gocache.DefaultExpiration)
	return quote.buy, quote.sell, nil
}

func (f *DolarAPIFeed) fetch(ctx context.Context) (cachedQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return cachedQuote{}, fmt.Errorf("rate feed: create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return cachedQuote{}, fmt.Errorf("rate feed: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cachedQuote{}, fmt.Errorf("rate feed: status %d", resp.StatusCode)
	}

	var body dolarAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return cachedQuote{}, fmt.Errorf("rate feed: decode response: %w", err)
	}

	buy, err := decimal.NewFromString(body.Compra.String())
	if err != nil {
		return cachedQuote{}, fmt.Errorf("rate feed: malformed compra %q", body.Compra)
	}
	sell, err := decimal.NewFromString(body.Venta.String())
	if err != nil {
		return cachedQuote{}, fmt.Errorf("rate feed: malformed venta %q", body.Venta)
	}
	if !sell.IsPositive() || !buy.IsPositive() {
		return cachedQuote{}, fmt.Errorf("rate feed: non-positive quote buy=%s sell=%s", buy, sell)
	}

	return cachedQuote{buy: buy, sell: sell}, nil
}
