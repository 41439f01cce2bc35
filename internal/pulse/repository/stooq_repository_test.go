package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketpulse/internal/pulse/config"
	"marketpulse/internal/pulse/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stooqConfig(baseURL string) *config.Config {
	return &config.Config{
		Market: config.Market{
			Stooq: config.Provider{BaseURL: baseURL, MaxRequestPerMinute: 6000},
		},
	}
}

const stooqCSV = `Date,Open,High,Low,Close,Volume
2026-08-20,100,105,99,100.0,1000
2026-08-21,100,106,100,104.0,1200`

func TestStooqRepository_ParsesLastTwoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "^gspc", r.URL.Query().Get("s"))
		assert.Equal(t, "d", r.URL.Query().Get("i"))
		fmt.Fprint(w, stooqCSV)
	}))
	t.Cleanup(srv.Close)

	repo := NewStooqRepository(stooqConfig(srv.URL), testLogger(t))

	last, pct, err := repo.Quote(context.Background(), "GSPC", dto.InstrumentIndex)
	require.NoError(t, err)
	assert.Equal(t, 104.0, last)
	assert.InDelta(t, 4.0, pct, 1e-9)
}

func TestStooqRepository_TooFewLinesIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Date,Open,High,Low,Close,Volume\n2026-08-21,100,106,100,104.0,1200")
	}))
	t.Cleanup(srv.Close)

	repo := NewStooqRepository(stooqConfig(srv.URL), testLogger(t))

	_, _, err := repo.Quote(context.Background(), "GSPC", dto.InstrumentIndex)
	assert.Error(t, err)
}

func TestStooqRepository_OnlySupportsIndexSymbols(t *testing.T) {
	repo := NewStooqRepository(stooqConfig("http://unused"), testLogger(t))

	assert.True(t, repo.Supports(dto.InstrumentIndex))
	assert.False(t, repo.Supports(dto.InstrumentForex))
	assert.False(t, repo.Supports(dto.InstrumentCommodity))
	assert.False(t, repo.Supports(dto.InstrumentBond))

	_, _, err := repo.Quote(context.Background(), "AUDUSD=X", dto.InstrumentForex)
	assert.Error(t, err)
}

func TestStooqRepository_MalformedCloseFieldIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Date,Open,High,Low,Close,Volume\n2026-08-20,100,105,99,abc,1000\n2026-08-21,100,106,100,104.0,1200")
	}))
	t.Cleanup(srv.Close)

	repo := NewStooqRepository(stooqConfig(srv.URL), testLogger(t))

	_, _, err := repo.Quote(context.Background(), "GSPC", dto.InstrumentIndex)
	assert.Error(t, err)
}
