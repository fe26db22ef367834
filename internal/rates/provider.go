// Package rates holds the current buy/sell exchange rate, its source, and the
// refresh/override operations. The Provider is owned by the composition root
// and injected into every component that converts money; there is no package
// level rate state.
package rates

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Dantetripodi/gestor-perfumes/internal/currency"
)

// Source tells whether the quote came from the automatic feed or was fixed by
// the operator (or by the feed-failure fallback).
type Source string

const (
	SourceAutomatic Source = "AUTOMATIC"
	SourceManual    Source = "MANUAL"
)

func (s Source) Valid() bool { return s == SourceAutomatic || s == SourceManual }

// ErrInvalidRate is returned by SetManual for a zero or negative sell rate.
var ErrInvalidRate = errors.New("exchange rate must be positive")

// ErrInvalidSource is returned by SetSource for an unknown source value.
var ErrInvalidSource = errors.New("invalid rate source")

// fallbackBuy pairs with currency.FallbackSellRate when the feed fails.
var fallbackBuy = decimal.NewFromInt(1180)

// manualSpread approximates the buy rate from an operator-supplied sell rate.
var manualSpread = decimal.NewFromFloat(0.95)

// Quote is an immutable snapshot of the rate state.
type Quote struct {
	Buy         decimal.Decimal
	Sell        decimal.Decimal
	LastUpdated time.Time
	Source      Source
}

// Provider holds the current quote and serializes all transitions:
//
//	AUTOMATIC --refresh ok-->   AUTOMATIC
//	AUTOMATIC --refresh fail--> MANUAL (fallback 1180/1200)
//	MANUAL    --SetSource(AUTOMATIC)--> triggers one refresh
//	*         --SetManual-->    MANUAL
type Provider struct {
	mu    sync.RWMutex
	quote Quote
	feed  Feed
}

// NewProvider starts in AUTOMATIC with a zero quote; callers are expected to
// Refresh at startup. Until then SellRate serves the fallback.
func NewProvider(feed Feed) *Provider {
	return &Provider{
		feed:  feed,
		quote: Quote{Source: SourceAutomatic, LastUpdated: time.Now()},
	}
}

// Refresh pulls the feed and replaces the quote. While the source is MANUAL
// the operator's rate is pinned and refresh is a no-op. A feed failure is
// never fatal: the quote falls back to the documented safe defaults and the
// source flips to MANUAL so the operator can see the feed is not live.
func (p *Provider) Refresh(ctx context.Context) Quote {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quote.Source == SourceManual {
		return p.quote
	}
	p.refreshLocked(ctx)
	return p.quote
}

// refreshLocked must be called with p.mu held.
func (p *Provider) refreshLocked(ctx context.Context) {
	buy, sell, err := p.feed.Fetch(ctx)
	if err != nil {
		log.Warn().Err(err).
			Str("fallback_sell", currency.FallbackSellRate.String()).
			Msg("rate feed failed, using fallback quote")
		p.quote = Quote{
			Buy:         fallbackBuy,
			Sell:        currency.FallbackSellRate,
			LastUpdated: time.Now(),
			Source:      SourceManual,
		}
		return
	}
	p.quote = Quote{
		Buy:         buy,
		Sell:        sell,
		LastUpdated: time.Now(),
		Source:      SourceAutomatic,
	}
}

// SetManual pins the sell rate supplied by the operator. The buy rate is
// derived with an approximate spread; it is informational only.
func (p *Provider) SetManual(sell decimal.Decimal) error {
	if !sell.IsPositive() {
		return ErrInvalidRate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.quote = Quote{
		Buy:         sell.Mul(manualSpread),
		Sell:        sell,
		LastUpdated: time.Now(),
		Source:      SourceManual,
	}
	return nil
}

// SetSource switches between the automatic feed and the manual override.
// Switching to AUTOMATIC triggers exactly one refresh attempt; on failure the
// fallback path inside refresh flips the source back to MANUAL. Switching to
// MANUAL freezes the last known quote until SetManual supplies a value.
func (p *Provider) SetSource(ctx context.Context, src Source) (Quote, error) {
	if !src.Valid() {
		return Quote{}, ErrInvalidSource
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.quote.Source = src
	if src == SourceAutomatic {
		p.refreshLocked(ctx)
	}
	return p.quote, nil
}

// Quote returns a snapshot of the current rate state.
func (p *Provider) Quote() Quote {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.quote
}

// SellRate returns the sell rate used for every conversion in the system.
// It never returns a non-positive value: before the first successful refresh
// (or after a malformed manual state) it serves the fallback constant so no
// caller ever divides by zero.
func (p *Provider) SellRate() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.quote.Sell.IsPositive() {
		return currency.FallbackSellRate
	}
	return p.quote.Sell
}
