package dto

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Headline is a normalized news item produced by the feed aggregator.
type Headline struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	PublishedTS int64  `json:"published_ts"`
}

// DedupKey returns the identity used for deduplication: an md5 over the
// case-folded title and link pair.
func (h Headline) DedupKey() string {
	sum := md5.Sum([]byte(strings.ToLower(h.Title) + "|" + strings.ToLower(h.Link)))
	return hex.EncodeToString(sum[:])
}

// FeedSource is one RSS source to aggregate, in priority order.
type FeedSource struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
}
