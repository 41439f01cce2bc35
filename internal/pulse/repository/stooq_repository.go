package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"
	"marketpulse/pkg/logger"

	"golang.org/x/time/rate"
)

// stooqRepository is the secondary quote provider, used for index-class
// symbols only: a line-oriented CSV of daily history rows
// (Date,Open,High,Low,Close,Volume).
type stooqRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewStooqRepository creates the secondary quote provider.
func NewStooqRepository(cfg *config.Config, log *logger.Logger) QuoteProvider {
	secondsPerRequest := time.Minute / time.Duration(cfg.Market.Stooq.MaxRequestPerMinute)
	return &stooqRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *stooqRepository) Name() string {
	return "stooq"
}

// Supports restricts this tier to index symbols; Stooq has no usable feed
// for the other instrument types in our format.
func (r *stooqRepository) Supports(instrumentType dto.InstrumentType) bool {
	return instrumentType == dto.InstrumentIndex
}

// normalizeSymbol maps to Stooq's lowercase caret format.
func (r *stooqRepository) normalizeSymbol(symbol string) string {
	symbol = strings.ToLower(symbol)
	if !strings.HasPrefix(symbol, "^") {
		return "^" + symbol
	}
	return symbol
}

// Quote computes last close and percent change from the final two history
// rows. Fewer than three lines (header plus two rows) is a failure.
func (r *stooqRepository) Quote(ctx context.Context, symbol string, instrumentType dto.InstrumentType) (float64, float64, error) {
	if !r.Supports(instrumentType) {
		return 0, 0, fmt.Errorf("stooq does not support instrument type %s", instrumentType)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/q/d/l/?s=%s&i=d",
		r.cfg.Market.Stooq.BaseURL, url.QueryEscape(r.normalizeSymbol(symbol)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("history request for %s returned status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read history response: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) < 3 {
		return 0, 0, fmt.Errorf("history for %s has %d lines, need header plus two rows", symbol, len(lines))
	}

	lastClose, err := parseCloseField(lines[len(lines)-1])
	if err != nil {
		return 0, 0, err
	}
	prevClose, err := parseCloseField(lines[len(lines)-2])
	if err != nil {
		return 0, 0, err
	}

	r.log.DebugContext(ctx, "Stooq closes fetched",
		logger.StringField("symbol", symbol),
		logger.Float64Field("last", lastClose),
		logger.Float64Field("prev", prevClose),
	)

	return lastClose, pctChange(lastClose, prevClose), nil
}

func parseCloseField(row string) (float64, error) {
	fields := strings.Split(row, ",")
	if len(fields) < 5 {
		return 0, fmt.Errorf("history row %q has %d fields, need at least 5", row, len(fields))
	}
	closeVal, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed close field in row %q: %w", row, err)
	}
	return closeVal, nil
}
