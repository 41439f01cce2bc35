package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"
	"marketpulse/internal/pulse/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name     string
	supports map[dto.InstrumentType]bool
	last     float64
	pct      float64
	err      error
	calls    int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Supports(t dto.InstrumentType) bool {
	if p.supports == nil {
		return true
	}
	return p.supports[t]
}

func (p *fakeProvider) Quote(ctx context.Context, symbol string, t dto.InstrumentType) (float64, float64, error) {
	p.calls++
	if p.err != nil {
		return 0, 0, p.err
	}
	return p.last, p.pct, nil
}

func testMarketConfig(specs ...dto.SymbolSpec) *config.Config {
	return &config.Config{
		Market: config.Market{
			Symbols:       specs,
			QuoteCacheTTL: time.Minute,
		},
	}
}

func TestQuoteResolver_FirstProviderWins(t *testing.T) {
	primary := &fakeProvider{name: "primary", last: 5321.5, pct: 0.4}
	secondary := &fakeProvider{name: "secondary", last: 1.0, pct: 1.0}

	spec := dto.SymbolSpec{Label: "S&P 500", Symbol: "GSPC", Type: dto.InstrumentIndex, Role: dto.RoleEquity}
	r := NewQuoteResolver(testMarketConfig(spec), testLogger(t), []repository.QuoteProvider{primary, secondary})

	q := r.ResolveQuote(context.Background(), spec)
	require.True(t, q.Available())
	assert.Equal(t, 5321.5, *q.Value)
	assert.Equal(t, 0.4, *q.PctChange)
	assert.Zero(t, secondary.calls)
}

func TestQuoteResolver_FallsThroughOnError(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: fmt.Errorf("upstream down")}
	secondary := &fakeProvider{name: "secondary", last: 7100.0, pct: -0.2}

	spec := dto.SymbolSpec{Label: "ASX 200", Symbol: "AXJO", Type: dto.InstrumentIndex}
	r := NewQuoteResolver(testMarketConfig(spec), testLogger(t), []repository.QuoteProvider{primary, secondary})

	q := r.ResolveQuote(context.Background(), spec)
	require.True(t, q.Available())
	assert.Equal(t, 7100.0, *q.Value)
	assert.Equal(t, 1, primary.calls)
}

func TestQuoteResolver_SkipsUnsupportedProviders(t *testing.T) {
	indexOnly := &fakeProvider{
		name:     "index-only",
		supports: map[dto.InstrumentType]bool{dto.InstrumentIndex: true},
		last:     1.0, pct: 1.0,
	}
	all := &fakeProvider{name: "all", last: 0.65, pct: 0.1}

	spec := dto.SymbolSpec{Label: "AUD/USD", Symbol: "AUDUSD=X", Type: dto.InstrumentForex, Role: dto.RoleFX}
	r := NewQuoteResolver(testMarketConfig(spec), testLogger(t), []repository.QuoteProvider{indexOnly, all})

	q := r.ResolveQuote(context.Background(), spec)
	require.True(t, q.Available())
	assert.Equal(t, 0.65, *q.Value)
	assert.Zero(t, indexOnly.calls)
}

func TestQuoteResolver_EmptyQuoteWhenChainExhausted(t *testing.T) {
	broken := &fakeProvider{name: "broken", err: fmt.Errorf("no data")}

	spec := dto.SymbolSpec{Label: "VIX", Symbol: "VIX", Type: dto.InstrumentIndex, Role: dto.RoleVolatility}
	r := NewQuoteResolver(testMarketConfig(spec), testLogger(t), []repository.QuoteProvider{broken})

	q := r.ResolveQuote(context.Background(), spec)
	assert.False(t, q.Available())
	assert.Equal(t, "VIX", q.Label)
}

func TestQuoteResolver_MemoizesSuccessOnly(t *testing.T) {
	flaky := &fakeProvider{name: "flaky", err: fmt.Errorf("down")}

	spec := dto.SymbolSpec{Label: "Gold", Symbol: "GC=F", Type: dto.InstrumentCommodity, Role: dto.RoleCommodity}
	r := NewQuoteResolver(testMarketConfig(spec), testLogger(t), []repository.QuoteProvider{flaky})

	r.ResolveQuote(context.Background(), spec)
	r.ResolveQuote(context.Background(), spec)
	assert.Equal(t, 2, flaky.calls, "failures must not be memoized")

	flaky.err = nil
	flaky.last, flaky.pct = 2400.0, 0.8

	first := r.ResolveQuote(context.Background(), spec)
	second := r.ResolveQuote(context.Background(), spec)
	assert.Equal(t, 3, flaky.calls, "success must be memoized")
	assert.Equal(t, first, second)
}

func TestQuoteResolver_FetchPulsePreservesOrder(t *testing.T) {
	provider := &fakeProvider{name: "p", last: 1.0, pct: 0.0}
	specs := []dto.SymbolSpec{
		{Label: "S&P 500", Symbol: "GSPC", Type: dto.InstrumentIndex},
		{Label: "VIX", Symbol: "VIX", Type: dto.InstrumentIndex},
		{Label: "Gold", Symbol: "GC=F", Type: dto.InstrumentCommodity},
	}
	r := NewQuoteResolver(testMarketConfig(specs...), testLogger(t), []repository.QuoteProvider{provider})

	snapshot := r.FetchPulse(context.Background())
	require.Len(t, snapshot, 3)
	assert.Equal(t, "S&P 500", snapshot[0].Label)
	assert.Equal(t, "VIX", snapshot[1].Label)
	assert.Equal(t, "Gold", snapshot[2].Label)
}
