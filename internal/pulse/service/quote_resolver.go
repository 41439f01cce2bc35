package service

import (
	"context"
	"fmt"

	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"
	"marketpulse/internal/pulse/repository"
	"marketpulse/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// QuoteResolver resolves the configured symbol set into a market snapshot
// through an ordered chain of quote providers.
type QuoteResolver interface {
	FetchPulse(ctx context.Context) dto.MarketSnapshot
	ResolveQuote(ctx context.Context, spec dto.SymbolSpec) dto.Quote
}

// NewQuoteResolver creates a quote resolver over the given provider chain.
// Provider order is fallback order.
func NewQuoteResolver(cfg *config.Config, log *logger.Logger, providers []repository.QuoteProvider) QuoteResolver {
	return &quoteResolver{
		cfg:           cfg,
		logger:        log,
		providers:     providers,
		inmemoryCache: cache.New(cfg.Market.QuoteCacheTTL, 2*cfg.Market.QuoteCacheTTL),
	}
}

type quoteResolver struct {
	cfg           *config.Config
	logger        *logger.Logger
	providers     []repository.QuoteProvider
	inmemoryCache *cache.Cache
}

// FetchPulse resolves every configured symbol in order. Symbols whose
// providers all fail come back as empty quotes; the snapshot always has one
// entry per symbol, in configuration order.
func (s *quoteResolver) FetchPulse(ctx context.Context) dto.MarketSnapshot {
	snapshot := make(dto.MarketSnapshot, 0, len(s.cfg.Market.Symbols))
	for _, spec := range s.cfg.Market.Symbols {
		snapshot = append(snapshot, s.ResolveQuote(ctx, spec))
	}
	return snapshot
}

// ResolveQuote walks the provider chain for one symbol, first success wins.
// Only successful resolutions are memoized.
func (s *quoteResolver) ResolveQuote(ctx context.Context, spec dto.SymbolSpec) dto.Quote {
	cacheKey := fmt.Sprintf("quote:%s:%s", spec.Type, spec.Symbol)
	if cached, found := s.inmemoryCache.Get(cacheKey); found {
		if q, ok := cached.(dto.Quote); ok {
			return q
		}
	}

	for _, provider := range s.providers {
		if !provider.Supports(spec.Type) {
			continue
		}
		last, pct, err := provider.Quote(ctx, spec.Symbol, spec.Type)
		if err != nil {
			s.logger.WarnContext(ctx, "Quote provider failed",
				logger.StringField("provider", provider.Name()),
				logger.StringField("symbol", spec.Symbol),
				logger.ErrorField(err),
			)
			continue
		}
		quote := dto.NewQuote(spec.Label, last, pct)
		s.inmemoryCache.Set(cacheKey, quote, cache.DefaultExpiration)
		return quote
	}

	s.logger.WarnContext(ctx, "All quote providers exhausted",
		logger.StringField("symbol", spec.Symbol),
	)
	return dto.EmptyQuote(spec.Label)
}
