package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFeed counts fetches and either serves a fixed quote or fails.
type stubFeed struct {
	buy, sell decimal.Decimal
	err       error
	calls     int
}

func (f *stubFeed) Fetch(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, decimal.Zero, f.err
	}
	return f.buy, f.sell, nil
}

var _ Feed = (*stubFeed)(nil)

func TestRefreshSuccess(t *testing.T) {
	feed := &stubFeed{buy: decimal.NewFromInt(1150), sell: decimal.NewFromInt(1190)}
	p := NewProvider(feed)

	q := p.Refresh(context.Background())

	assert.Equal(t, SourceAutomatic, q.Source)
	assert.True(t, q.Sell.Equal(decimal.NewFromInt(1190)))
	assert.True(t, q.Buy.Equal(decimal.NewFromInt(1150)))
	assert.False(t, q.LastUpdated.IsZero())
}

func TestRefreshFailureFallsBackToManual(t *testing.T) {
	feed := &stubFeed{err: errors.New("timeout")}
	p := NewProvider(feed)

	q := p.Refresh(context.Background())

	assert.Equal(t, SourceManual, q.Source)
	assert.True(t, q.Sell.Equal(decimal.NewFromInt(1200)))
	assert.True(t, q.Buy.Equal(decimal.NewFromInt(1180)))
}

func TestRefreshIsNoOpWhileManual(t *testing.T) {
	feed := &stubFeed{buy: decimal.NewFromInt(1150), sell: decimal.NewFromInt(1190)}
	p := NewProvider(feed)
	require.NoError(t, p.SetManual(decimal.NewFromInt(1500)))

	q := p.Refresh(context.Background())

	assert.Equal(t, 0, feed.calls)
	assert.Equal(t, SourceManual, q.Source)
	assert.True(t, q.Sell.Equal(decimal.NewFromInt(1500)))
}

func TestSetManualDerivesBuyWithSpread(t *testing.T) {
	p := NewProvider(&stubFeed{})

	require.NoError(t, p.SetManual(decimal.NewFromInt(1500)))

	q := p.Quote()
	assert.Equal(t, SourceManual, q.Source)
	assert.True(t, q.Sell.Equal(decimal.NewFromInt(1500)))
	assert.True(t, q.Buy.Equal(decimal.NewFromInt(1425)))
}

func TestSetManualRejectsNonPositive(t *testing.T) {
	p := NewProvider(&stubFeed{})

	assert.ErrorIs(t, p.SetManual(decimal.Zero), ErrInvalidRate)
	assert.ErrorIs(t, p.SetManual(decimal.NewFromInt(-1200)), ErrInvalidRate)
}

func TestSwitchToAutomaticTriggersExactlyOneRefresh(t *testing.T) {
	feed := &stubFeed{buy: decimal.NewFromInt(1100), sell: decimal.NewFromInt(1130)}
	p := NewProvider(feed)
	require.NoError(t, p.SetManual(decimal.NewFromInt(1500)))

	q, err := p.SetSource(context.Background(), SourceAutomatic)

	require.NoError(t, err)
	assert.Equal(t, 1, feed.calls)
	assert.Equal(t, SourceAutomatic, q.Source)
	assert.True(t, q.Sell.Equal(decimal.NewFromInt(1130)))
}

func TestSwitchToAutomaticWithDeadFeedEndsManual(t *testing.T) {
	feed := &stubFeed{err: errors.New("503")}
	p := NewProvider(feed)
	require.NoError(t, p.SetManual(decimal.NewFromInt(1500)))

	q, err := p.SetSource(context.Background(), SourceAutomatic)

	require.NoError(t, err)
	assert.Equal(t, 1, feed.calls)
	assert.Equal(t, SourceManual, q.Source)
	assert.True(t, q.Sell.Equal(decimal.NewFromInt(1200)))
}

func TestSwitchToManualFreezesQuote(t *testing.T) {
	feed := &stubFeed{buy: decimal.NewFromInt(1150), sell: decimal.NewFromInt(1190)}
	p := NewProvider(feed)
	p.Refresh(context.Background())

	q, err := p.SetSource(context.Background(), SourceManual)

	require.NoError(t, err)
	assert.Equal(t, 1, feed.calls)
	assert.Equal(t, SourceManual, q.Source)
	assert.True(t, q.Sell.Equal(decimal.NewFromInt(1190)))
}

func TestSetSourceRejectsUnknownValue(t *testing.T) {
	p := NewProvider(&stubFeed{})

	_, err := p.SetSource(context.Background(), Source("FEED"))
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestSellRateNeverNonPositive(t *testing.T) {
	p := NewProvider(&stubFeed{})

	assert.True(t, p.SellRate().Equal(decimal.NewFromInt(1200)))

	require.NoError(t, p.SetManual(decimal.NewFromInt(900)))
	assert.True(t, p.SellRate().Equal(decimal.NewFromInt(900)))
}
