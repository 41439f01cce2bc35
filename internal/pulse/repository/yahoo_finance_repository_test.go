package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"
	"marketpulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func yahooConfig(baseURL string) *config.Config {
	return &config.Config{
		Market: config.Market{
			Yahoo: config.Provider{BaseURL: baseURL, MaxRequestPerMinute: 6000},
		},
	}
}

func chartBody(closes string) string {
	return fmt.Sprintf(`{"chart":{"result":[{"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, closes)
}

func TestYahooRepository_PctFromLastTwoCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		assert.Equal(t, "5d", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartBody("100.0,101.0,102.0,100.0,104.0"))
	}))
	t.Cleanup(srv.Close)

	repo := NewYahooFinanceRepository(yahooConfig(srv.URL), testLogger(t))

	last, pct, err := repo.Quote(context.Background(), "GSPC", dto.InstrumentIndex)
	require.NoError(t, err)
	assert.Equal(t, 104.0, last)
	assert.InDelta(t, 4.0, pct, 1e-9)
}

func TestYahooRepository_SingleCloseMeansZeroPct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody("100.0"))
	}))
	t.Cleanup(srv.Close)

	repo := NewYahooFinanceRepository(yahooConfig(srv.URL), testLogger(t))

	last, pct, err := repo.Quote(context.Background(), "GSPC", dto.InstrumentIndex)
	require.NoError(t, err)
	assert.Equal(t, 100.0, last)
	assert.Equal(t, 0.0, pct)
}

func TestYahooRepository_NullClosesAreSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody("100.0,null,null,102.0,null"))
	}))
	t.Cleanup(srv.Close)

	repo := NewYahooFinanceRepository(yahooConfig(srv.URL), testLogger(t))

	last, pct, err := repo.Quote(context.Background(), "GSPC", dto.InstrumentIndex)
	require.NoError(t, err)
	assert.Equal(t, 102.0, last)
	assert.InDelta(t, 2.0, pct, 1e-9)
}

func TestYahooRepository_AllNullClosesIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody("null,null"))
	}))
	t.Cleanup(srv.Close)

	repo := NewYahooFinanceRepository(yahooConfig(srv.URL), testLogger(t))

	_, _, err := repo.Quote(context.Background(), "GSPC", dto.InstrumentIndex)
	assert.Error(t, err)
}

func TestYahooRepository_ZeroPrevCloseMeansZeroPct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody("0.0,104.0"))
	}))
	t.Cleanup(srv.Close)

	repo := NewYahooFinanceRepository(yahooConfig(srv.URL), testLogger(t))

	last, pct, err := repo.Quote(context.Background(), "GSPC", dto.InstrumentIndex)
	require.NoError(t, err)
	assert.Equal(t, 104.0, last)
	assert.Equal(t, 0.0, pct)
}

func TestYahooRepository_ForexSymbolIsNotPrefixed(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, chartBody("0.65,0.66"))
	}))
	t.Cleanup(srv.Close)

	repo := NewYahooFinanceRepository(yahooConfig(srv.URL), testLogger(t))

	_, _, err := repo.Quote(context.Background(), "AUDUSD=X", dto.InstrumentForex)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/AUDUSD=X", gotPath)
}

func TestYahooRepository_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	t.Cleanup(srv.Close)

	repo := NewYahooFinanceRepository(yahooConfig(srv.URL), testLogger(t))

	_, _, err := repo.Quote(context.Background(), "BOGUS", dto.InstrumentIndex)
	assert.Error(t, err)
}
