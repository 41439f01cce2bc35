package config

import (
	"time"

	"marketpulse/internal/pulse/dto"
	"marketpulse/pkg/config"
)

// Cache holds the TTL cache configuration. The store itself carries no TTL
// policy; the windows here are applied by callers when classifying freshness.
type Cache struct {
	Driver      string        `mapstructure:"driver"` // postgres | redis
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
	DecisionTTL time.Duration `mapstructure:"decision_ttl"`
}

// Feeds holds the feed aggregator configuration.
type Feeds struct {
	Sources          []dto.FeedSource `mapstructure:"sources"`
	PerSourceLimit   int              `mapstructure:"per_source_limit"`
	TotalLimit       int              `mapstructure:"total_limit"`
	MaxConcurrent    int              `mapstructure:"max_concurrent"`
	FetchTimeout     time.Duration    `mapstructure:"fetch_timeout"`
	PriorityKeywords []string         `mapstructure:"priority_keywords"`
}

// Provider holds the settings of one quote provider endpoint.
type Provider struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Market holds the quote resolver configuration.
type Market struct {
	Symbols       []dto.SymbolSpec `mapstructure:"symbols"`
	Yahoo         Provider         `mapstructure:"yahoo"`
	Stooq         Provider         `mapstructure:"stooq"`
	QuoteCacheTTL time.Duration    `mapstructure:"quote_cache_ttl"`
}

// AI holds configuration for the generative decision engine.
type AI struct {
	Provider string `mapstructure:"provider"` // gemini | none
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Telegram holds configuration for the regime-change notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Scheduler holds the cache warmer configuration.
type Scheduler struct {
	Enabled     bool   `mapstructure:"enabled"`
	RefreshSpec string `mapstructure:"refresh_spec"`
}

// Config holds the full configuration for the pulse service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Cache     Cache           `mapstructure:"cache"`
	Feeds     Feeds           `mapstructure:"feeds"`
	Market    Market          `mapstructure:"market"`
	AI        AI              `mapstructure:"ai"`
	Gemini    Gemini          `mapstructure:"gemini"`
	Telegram  Telegram        `mapstructure:"telegram"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

// Load loads the pulse service configuration from the given path and fills
// in defaults for anything the file leaves out.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Feeds.Sources) == 0 {
		c.Feeds.Sources = DefaultFeedSources
	}
	if c.Feeds.PerSourceLimit == 0 {
		c.Feeds.PerSourceLimit = 40
	}
	if c.Feeds.TotalLimit == 0 {
		c.Feeds.TotalLimit = 60
	}
	if c.Feeds.MaxConcurrent == 0 {
		c.Feeds.MaxConcurrent = 5
	}
	if c.Feeds.FetchTimeout == 0 {
		c.Feeds.FetchTimeout = 10 * time.Second
	}
	if len(c.Feeds.PriorityKeywords) == 0 {
		c.Feeds.PriorityKeywords = DefaultPriorityKeywords
	}
	if len(c.Market.Symbols) == 0 {
		c.Market.Symbols = DefaultSymbols
	}
	if c.Market.Yahoo.BaseURL == "" {
		c.Market.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Market.Yahoo.MaxRequestPerMinute == 0 {
		c.Market.Yahoo.MaxRequestPerMinute = 60
	}
	if c.Market.Stooq.BaseURL == "" {
		c.Market.Stooq.BaseURL = "https://stooq.com"
	}
	if c.Market.Stooq.MaxRequestPerMinute == 0 {
		c.Market.Stooq.MaxRequestPerMinute = 30
	}
	if c.Market.QuoteCacheTTL == 0 {
		c.Market.QuoteCacheTTL = time.Minute
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "postgres"
	}
	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = 10 * time.Minute
	}
	if c.Cache.DecisionTTL == 0 {
		c.Cache.DecisionTTL = 5 * time.Minute
	}
	if c.Scheduler.RefreshSpec == "" {
		c.Scheduler.RefreshSpec = "@every 10m"
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.MaxRequestPerMinute == 0 {
		c.Gemini.MaxRequestPerMinute = 10
	}
	if c.Gemini.MaxTokenPerMinute == 0 {
		c.Gemini.MaxTokenPerMinute = 250000
	}
}
