package repository

import (
	"context"
	"errors"

	"marketpulse/internal/entity"
	"marketpulse/internal/pulse/dto"
)

// ErrCacheMiss is returned when a cache key has never been written.
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository is the TTL cache contract: an upserting string key/value
// store with an update timestamp. Freshness is decided by callers.
type CacheRepository interface {
	// Get returns the stored value and its last update time (unix seconds).
	Get(ctx context.Context, key string) (string, int64, error)
	// Set unconditionally replaces the value and refreshes the timestamp.
	Set(ctx context.Context, key, value string) error
}

// QuoteProvider is one tier of the quote fallback chain. A provider either
// returns a fully resolved (last, pct) pair or an error; there is no partial
// success.
type QuoteProvider interface {
	Name() string
	Supports(instrumentType dto.InstrumentType) bool
	Quote(ctx context.Context, symbol string, instrumentType dto.InstrumentType) (last, pct float64, err error)
}

// DecisionEngineRepository is the generative backend boundary. Any error,
// timeout, or schema-incompatible response surfaces as an error here and the
// caller resolves it with the deterministic synthesizer.
type DecisionEngineRepository interface {
	GenerateDecision(ctx context.Context, snapshot dto.MarketSnapshot, headlines []dto.Headline) (*dto.DecisionRecord, error)
	GenerateBrief(ctx context.Context, pack string) (string, error)
}

// ArticleRepository fetches the readable body of a news link for prompt
// enrichment. Failures degrade to title-only prompts.
type ArticleRepository interface {
	FetchReadable(ctx context.Context, link string) (string, error)
}

// TaskRepository defines the task-list store.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	FindOpen(ctx context.Context) ([]entity.Task, error)
	MarkDone(ctx context.Context, id uint, doneAt int64) error
}

// DecisionHistoryRepository persists generated decision records.
type DecisionHistoryRepository interface {
	Create(ctx context.Context, history *entity.DecisionHistory) error
	FindLatest(ctx context.Context) (*entity.DecisionHistory, error)
}
