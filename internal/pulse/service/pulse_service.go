package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketpulse/internal/entity"
	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"
	"marketpulse/internal/pulse/repository"
	"marketpulse/pkg/codec"
	"marketpulse/pkg/common"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/telegram"
	"marketpulse/pkg/utils"
)

// PulseService orchestrates feeds, quotes, caching, and decision generation.
// GetDecision and GenerateBrief always produce a result; backend failures
// degrade to the deterministic synthesizer and the draft brief.
type PulseService interface {
	GetHeadlines(ctx context.Context, force bool) ([]dto.Headline, error)
	GetPulse(ctx context.Context, force bool) (dto.MarketSnapshot, error)
	GetDecision(ctx context.Context, force bool) (*dto.DecisionRecord, string)
	BuildBriefPack(ctx context.Context) (*dto.BriefPack, error)
	GenerateBrief(ctx context.Context) string
	RefreshAll(ctx context.Context)
}

// NewPulseService creates the orchestration service. engine and notifier may
// be nil; both paths then run in degraded (fallback-only, no-notify) mode.
func NewPulseService(
	cfg *config.Config,
	log *logger.Logger,
	cacheRepo repository.CacheRepository,
	aggregator FeedAggregator,
	resolver QuoteResolver,
	synthesizer DecisionSynthesizer,
	engine repository.DecisionEngineRepository,
	historyRepo repository.DecisionHistoryRepository,
	taskSvc TaskService,
	notifier telegram.Notifier,
) PulseService {
	return &pulseService{
		cfg:           cfg,
		logger:        log,
		cacheRepo:     cacheRepo,
		aggregator:    aggregator,
		resolver:      resolver,
		synthesizer:   synthesizer,
		engine:        engine,
		historyRepo:   historyRepo,
		taskSvc:       taskSvc,
		notifier:      notifier,
		headlineCodec: codec.HeadlineCodec{},
		quoteCodec:    codec.QuoteCodec{},
		decisionCodec: codec.DecisionCodec{},
		now:           time.Now,
	}
}

type pulseService struct {
	cfg           *config.Config
	logger        *logger.Logger
	cacheRepo     repository.CacheRepository
	aggregator    FeedAggregator
	resolver      QuoteResolver
	synthesizer   DecisionSynthesizer
	engine        repository.DecisionEngineRepository
	historyRepo   repository.DecisionHistoryRepository
	taskSvc       TaskService
	notifier      telegram.Notifier
	headlineCodec codec.HeadlineCodec
	quoteCodec    codec.QuoteCodec
	decisionCodec codec.DecisionCodec
	now           func() time.Time
}

// fresh classifies a cache timestamp against a TTL window.
func fresh(updatedAt int64, ttl time.Duration, now time.Time) bool {
	return now.Unix()-updatedAt < int64(ttl.Seconds())
}

// GetHeadlines returns cached headlines within the snapshot TTL, otherwise
// re-aggregates. A corrupt cache entry counts as a miss. When aggregation
// fails or comes back empty, a stale but decodable entry is served as a last
// resort; empty results are never cached.
func (s *pulseService) GetHeadlines(ctx context.Context, force bool) ([]dto.Headline, error) {
	value, updatedAt, err := s.cacheRepo.Get(ctx, common.CacheKeyHeadlines)
	cachedOK := err == nil

	if !force && cachedOK && fresh(updatedAt, s.cfg.Cache.SnapshotTTL, s.now()) {
		headlines, decErr := s.headlineCodec.Decode(value)
		if decErr == nil {
			return headlines, nil
		}
		s.logger.WarnContext(ctx, "Corrupt headline cache entry, refetching", logger.ErrorField(decErr))
	}

	headlines, err := s.aggregator.FetchHeadlines(ctx)
	if err != nil || len(headlines) == 0 {
		if cachedOK {
			if stale, decErr := s.headlineCodec.Decode(value); decErr == nil && len(stale) > 0 {
				s.logger.WarnContext(ctx, "Serving stale headlines, aggregation yielded nothing", logger.ErrorField(err))
				return stale, nil
			}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate headlines: %w", err)
		}
		return []dto.Headline{}, nil
	}

	if setErr := s.cacheRepo.Set(ctx, common.CacheKeyHeadlines, s.headlineCodec.Encode(headlines)); setErr != nil {
		s.logger.ErrorContext(ctx, "Failed to cache headlines", logger.ErrorField(setErr))
	}
	return headlines, nil
}

// GetPulse returns the cached market snapshot within the snapshot TTL,
// otherwise resolves the full symbol set again.
func (s *pulseService) GetPulse(ctx context.Context, force bool) (dto.MarketSnapshot, error) {
	if !force {
		value, updatedAt, err := s.cacheRepo.Get(ctx, common.CacheKeyPulse)
		if err == nil && fresh(updatedAt, s.cfg.Cache.SnapshotTTL, s.now()) {
			snapshot, decErr := s.quoteCodec.Decode(value)
			if decErr == nil {
				return snapshot, nil
			}
			s.logger.WarnContext(ctx, "Corrupt pulse cache entry, refetching", logger.ErrorField(decErr))
		}
	}

	snapshot := s.resolver.FetchPulse(ctx)
	if setErr := s.cacheRepo.Set(ctx, common.CacheKeyPulse, s.quoteCodec.Encode(snapshot)); setErr != nil {
		s.logger.ErrorContext(ctx, "Failed to cache pulse", logger.ErrorField(setErr))
	}
	return snapshot, nil
}

// GetDecision returns a decision record and its source. It never fails: when
// the generative engine is absent, errors, or returns an invalid record, the
// synthesizer supplies the result.
func (s *pulseService) GetDecision(ctx context.Context, force bool) (*dto.DecisionRecord, string) {
	cachedValue, updatedAt, cacheErr := s.cacheRepo.Get(ctx, common.CacheKeyDecision)

	if !force && cacheErr == nil && fresh(updatedAt, s.cfg.Cache.DecisionTTL, s.now()) {
		record, decErr := s.decisionCodec.Decode(cachedValue)
		if decErr == nil {
			return record, common.DecisionSourceCache
		}
		s.logger.WarnContext(ctx, "Corrupt decision cache entry, regenerating", logger.ErrorField(decErr))
	}

	// Regime comparison baseline: whatever was cached before, fresh or not.
	// With no usable cache entry the latest persisted decision stands in.
	var prevRegime string
	if cacheErr == nil {
		if prev, decErr := s.decisionCodec.Decode(cachedValue); decErr == nil {
			prevRegime = prev.Regime
		}
	}
	if prevRegime == "" && s.historyRepo != nil {
		last, histErr := s.historyRepo.FindLatest(ctx)
		if histErr != nil {
			s.logger.WarnContext(ctx, "Failed to load last decision for regime baseline", logger.ErrorField(histErr))
		} else if last != nil {
			prevRegime = last.Regime
		}
	}

	headlines, err := s.GetHeadlines(ctx, false)
	if err != nil {
		s.logger.WarnContext(ctx, "Deciding without headlines", logger.ErrorField(err))
		headlines = nil
	}
	snapshot, _ := s.GetPulse(ctx, false)

	record, source := s.generateDecision(ctx, snapshot, headlines)

	s.persistDecision(ctx, record, source, snapshot, len(headlines))

	if encoded, encErr := s.decisionCodec.Encode(record); encErr == nil {
		if setErr := s.cacheRepo.Set(ctx, common.CacheKeyDecision, encoded); setErr != nil {
			s.logger.ErrorContext(ctx, "Failed to cache decision", logger.ErrorField(setErr))
		}
	} else {
		s.logger.ErrorContext(ctx, "Failed to encode decision", logger.ErrorField(encErr))
	}

	s.notifyRegimeChange(ctx, prevRegime, record)

	return record, source
}

func (s *pulseService) generateDecision(ctx context.Context, snapshot dto.MarketSnapshot, headlines []dto.Headline) (*dto.DecisionRecord, string) {
	if s.engine != nil {
		record, err := s.engine.GenerateDecision(ctx, snapshot, headlines)
		if err == nil {
			return record, common.DecisionSourceGenerative
		}
		s.logger.WarnContext(ctx, "Decision engine failed, using synthesizer", logger.ErrorField(err))
	}
	record := s.synthesizer.Synthesize(snapshot, len(headlines))
	return &record, common.DecisionSourceFallback
}

func (s *pulseService) persistDecision(ctx context.Context, record *dto.DecisionRecord, source string, snapshot dto.MarketSnapshot, headlineCount int) {
	if s.historyRepo == nil {
		return
	}

	complete := true
	for _, q := range snapshot {
		if !q.Available() {
			complete = false
			break
		}
	}

	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal decision payload", logger.ErrorField(err))
		return
	}

	history := &entity.DecisionHistory{
		Regime:           record.Regime,
		Source:           source,
		WhatChanged:      record.WhatChanged,
		Winners:          record.Winners,
		Losers:           record.Losers,
		Signals:          record.Signals,
		Payload:          payload,
		HeadlineCount:    headlineCount,
		SnapshotComplete: complete,
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist decision history", logger.ErrorField(err))
	}
}

func (s *pulseService) notifyRegimeChange(ctx context.Context, prevRegime string, record *dto.DecisionRecord) {
	if s.notifier == nil || prevRegime == "" || prevRegime == record.Regime {
		return
	}
	message := telegram.FormatRegimeChange(prevRegime, record.Regime, record.WhatChanged)
	utils.GoSafe(func() {
		if err := s.notifier.SendMessage(message); err != nil {
			s.logger.ErrorContext(ctx, "Failed to send regime change notification", logger.ErrorField(err))
		}
	})
}

// BuildBriefPack assembles the retrieval pack for brief generation.
func (s *pulseService) BuildBriefPack(ctx context.Context) (*dto.BriefPack, error) {
	snapshot, err := s.GetPulse(ctx, false)
	if err != nil {
		return nil, err
	}
	headlines, err := s.GetHeadlines(ctx, false)
	if err != nil {
		s.logger.WarnContext(ctx, "Building brief pack without headlines", logger.ErrorField(err))
		headlines = nil
	}

	var tasks []dto.TaskResponse
	if s.taskSvc != nil {
		tasks, err = s.taskSvc.ListOpen(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Building brief pack without tasks", logger.ErrorField(err))
			tasks = nil
		}
	}

	pack := &dto.BriefPack{
		Time:      s.now().Format(time.RFC1123),
		Pulse:     snapshot,
		Headlines: headlines,
		Tasks:     tasks,
	}
	pack.Text = renderBriefPack(pack)
	return pack, nil
}

func renderBriefPack(pack *dto.BriefPack) string {
	var sb strings.Builder
	sb.WriteString("TIME: " + pack.Time + "\n\n")

	sb.WriteString("MARKET PULSE:\n")
	for _, q := range pack.Pulse {
		if q.Available() {
			sb.WriteString(fmt.Sprintf("- %s: %.2f (%+.2f%%)\n", q.Label, *q.Value, *q.PctChange))
		} else {
			sb.WriteString(fmt.Sprintf("- %s: unavailable\n", q.Label))
		}
	}

	sb.WriteString("\nTOP HEADLINES:\n")
	for _, h := range pack.Headlines {
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", h.Source, h.Title))
	}

	sb.WriteString("\nOPEN TASKS:\n")
	if len(pack.Tasks) == 0 {
		sb.WriteString("- none\n")
	}
	for _, t := range pack.Tasks {
		sb.WriteString(fmt.Sprintf("- %s\n", t.Title))
	}
	return sb.String()
}

// GenerateBrief produces the morning brief, degrading to a deterministic
// draft when the pack cannot be built or the engine fails.
func (s *pulseService) GenerateBrief(ctx context.Context) string {
	pack, err := s.BuildBriefPack(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build brief pack", logger.ErrorField(err))
		return draftBrief("")
	}

	if s.engine != nil {
		brief, genErr := s.engine.GenerateBrief(ctx, pack.Text)
		if genErr == nil {
			return brief
		}
		s.logger.WarnContext(ctx, "Brief generation failed, using draft", logger.ErrorField(genErr))
	}
	return draftBrief(pack.Text)
}

// draftBrief is the deterministic placeholder brief, seeded with a sample of
// headline lines from the pack text.
func draftBrief(packText string) string {
	var headlineLines []string
	for _, line := range strings.Split(packText, "\n") {
		if strings.HasPrefix(line, "- ") {
			headlineLines = append(headlineLines, line)
		}
		if len(headlineLines) == 6 {
			break
		}
	}
	return "AM BRIEF (DRAFT)\n" +
		"* Market state: see pulse data\n" +
		"* What matters: review top headlines below\n" +
		"* Risks / watch-outs: volatility and rate moves\n" +
		"* Top items (sample):\n" +
		strings.Join(headlineLines, "\n")
}

// RefreshAll force-refreshes the headline and pulse caches. Cron warmer
// target.
func (s *pulseService) RefreshAll(ctx context.Context) {
	if _, err := s.GetHeadlines(ctx, true); err != nil {
		s.logger.ErrorContext(ctx, "Headline refresh failed", logger.ErrorField(err))
	}
	if _, err := s.GetPulse(ctx, true); err != nil {
		s.logger.ErrorContext(ctx, "Pulse refresh failed", logger.ErrorField(err))
	}
	s.logger.InfoContext(ctx, "Cache refresh completed")
}
