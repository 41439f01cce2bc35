package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"
	"marketpulse/pkg/logger"

	"golang.org/x/time/rate"
)

// yahooFinanceRepository is the primary quote provider: last five daily
// closes from the Yahoo chart API.
type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates the primary quote provider.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) QuoteProvider {
	secondsPerRequest := time.Minute / time.Duration(cfg.Market.Yahoo.MaxRequestPerMinute)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *yahooFinanceRepository) Name() string {
	return "yahoo_finance"
}

// Supports reports true for every instrument type; Yahoo is tier one for all.
func (r *yahooFinanceRepository) Supports(dto.InstrumentType) bool {
	return true
}

// normalizeSymbol applies Yahoo's index prefix to index and bond symbols.
// Forex and commodity symbols are already in provider format.
func (r *yahooFinanceRepository) normalizeSymbol(symbol string, instrumentType dto.InstrumentType) string {
	switch instrumentType {
	case dto.InstrumentIndex, dto.InstrumentBond:
		if !strings.HasPrefix(symbol, "^") {
			return "^" + symbol
		}
	}
	return symbol
}

// Quote resolves the last close and day-over-day percent change for one
// symbol from up to five daily closes.
func (r *yahooFinanceRepository) Quote(ctx context.Context, symbol string, instrumentType dto.InstrumentType) (float64, float64, error) {
	closes, err := r.fetchDailyCloses(ctx, r.normalizeSymbol(symbol, instrumentType))
	if err != nil {
		return 0, 0, err
	}

	switch {
	case len(closes) == 0:
		return 0, 0, fmt.Errorf("no close data for symbol %s", symbol)
	case len(closes) == 1:
		return closes[0], 0.0, nil
	default:
		last := closes[len(closes)-1]
		prev := closes[len(closes)-2]
		return last, pctChange(last, prev), nil
	}
}

func (r *yahooFinanceRepository) fetchDailyCloses(ctx context.Context, symbol string) ([]float64, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=5d&interval=1d",
		r.cfg.Market.Yahoo.BaseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s returned status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart response: %w", err)
	}

	var chart dto.YahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart response for %s has no quote series", symbol)
	}

	var closes []float64
	for _, c := range chart.Chart.Result[0].Indicators.Quote[0].Close {
		if c == nil {
			continue
		}
		closes = append(closes, *c)
	}

	r.log.DebugContext(ctx, "Yahoo closes fetched",
		logger.StringField("symbol", symbol),
		logger.IntField("count", len(closes)),
	)

	return closes, nil
}

// pctChange computes the day-over-day change, treating a zero previous close
// as no change.
func pctChange(last, prev float64) float64 {
	if prev == 0 {
		return 0.0
	}
	return (last - prev) / prev * 100.0
}
