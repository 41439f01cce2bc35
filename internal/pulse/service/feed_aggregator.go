package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/utils"

	"github.com/mmcdole/gofeed"
)

// FeedAggregator fetches all configured RSS sources and merges them into one
// deduplicated, keyword-prioritized headline list.
type FeedAggregator interface {
	FetchHeadlines(ctx context.Context) ([]dto.Headline, error)
}

// NewFeedAggregator creates a new feed aggregator.
func NewFeedAggregator(cfg *config.Config, log *logger.Logger) FeedAggregator {
	return &feedAggregator{
		cfg:    cfg,
		logger: log,
	}
}

type feedAggregator struct {
	cfg    *config.Config
	logger *logger.Logger
}

// FetchHeadlines pulls every source concurrently. A failing source only
// drops its own items; even with every source down the result is an empty
// list, never an error.
func (s *feedAggregator) FetchHeadlines(ctx context.Context) ([]dto.Headline, error) {
	sources := s.cfg.Feeds.Sources
	perSource := make([][]dto.Headline, len(sources))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Feeds.MaxConcurrent)
	for i, src := range sources {
		wg.Add(1)
		i, src := i, src
		utils.GoSafe(func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if !utils.ShouldContinue(ctx, s.logger) {
				return
			}
			items, err := s.fetchSource(ctx, src)
			if err != nil {
				s.logger.WarnContext(ctx, "Feed source failed",
					logger.StringField("source", src.Name),
					logger.ErrorField(err),
				)
				return
			}
			perSource[i] = items
		})
	}
	wg.Wait()

	var merged []dto.Headline
	for _, items := range perSource {
		merged = append(merged, items...)
	}
	if len(merged) == 0 {
		s.logger.WarnContext(ctx, "No feed source yielded headlines",
			logger.IntField("sources", len(sources)),
		)
		return []dto.Headline{}, nil
	}

	merged = dedupeNewestFirst(merged)
	merged = s.prioritize(merged)

	if len(merged) > s.cfg.Feeds.TotalLimit {
		merged = merged[:s.cfg.Feeds.TotalLimit]
	}

	s.logger.InfoContext(ctx, "Headlines aggregated",
		logger.IntField("count", len(merged)),
		logger.IntField("sources", len(sources)),
	)
	return merged, nil
}

func (s *feedAggregator) fetchSource(ctx context.Context, src dto.FeedSource) ([]dto.Headline, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.Feeds.FetchTimeout)
	defer cancel()

	feed, err := gofeed.NewParser().ParseURLWithContext(src.URL, fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	now := time.Now().Unix()
	var items []dto.Headline
	for _, item := range feed.Items {
		if len(items) >= s.cfg.Feeds.PerSourceLimit {
			break
		}
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}
		items = append(items, dto.Headline{
			Source:      src.Name,
			Title:       utils.CleanToValidUTF8(title),
			Link:        link,
			PublishedTS: publishedTimestamp(item, now),
		})
	}
	return items, nil
}

// publishedTimestamp prefers the published time, then the updated time, then
// the fetch time.
func publishedTimestamp(item *gofeed.Item, now int64) int64 {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Unix()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.Unix()
	}
	return now
}

// dedupeNewestFirst sorts newest first and keeps the first occurrence of
// each title/link identity.
func dedupeNewestFirst(headlines []dto.Headline) []dto.Headline {
	sort.SliceStable(headlines, func(i, j int) bool {
		return headlines[i].PublishedTS > headlines[j].PublishedTS
	})

	seen := make(map[string]struct{}, len(headlines))
	deduped := headlines[:0]
	for _, h := range headlines {
		key := h.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, h)
	}
	return deduped
}

// prioritize partitions into keyword matches and the rest, preserving
// relative order within each bucket. A headline qualifies when either its
// title or its source name carries a priority keyword.
func (s *feedAggregator) prioritize(headlines []dto.Headline) []dto.Headline {
	var priority, rest []dto.Headline
	for _, h := range headlines {
		if s.matchesKeyword(h.Title) || s.matchesKeyword(h.Source) {
			priority = append(priority, h)
		} else {
			rest = append(rest, h)
		}
	}
	return append(priority, rest...)
}

func (s *feedAggregator) matchesKeyword(text string) bool {
	for _, kw := range s.cfg.Feeds.PriorityKeywords {
		if utils.ContainsFold(text, kw) {
			return true
		}
	}
	return false
}
