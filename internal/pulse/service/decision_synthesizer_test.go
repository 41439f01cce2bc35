package service

import (
	"testing"

	"marketpulse/internal/pulse/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthSpecs() []dto.SymbolSpec {
	return []dto.SymbolSpec{
		{Label: "S&P 500", Symbol: "GSPC", Type: dto.InstrumentIndex, Role: dto.RoleEquity},
		{Label: "NASDAQ", Symbol: "IXIC", Type: dto.InstrumentIndex, Role: dto.RoleGrowth},
		{Label: "VIX", Symbol: "VIX", Type: dto.InstrumentIndex, Role: dto.RoleVolatility},
		{Label: "10Y Treasury", Symbol: "TNX", Type: dto.InstrumentBond, Role: dto.RoleRate},
		{Label: "Gold", Symbol: "GC=F", Type: dto.InstrumentCommodity, Role: dto.RoleCommodity},
	}
}

func TestSynthesizer_VolatilityRuleWinsOverRates(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())
	snapshot := dto.MarketSnapshot{
		dto.NewQuote("S&P 500", 5300.0, -0.2),
		dto.NewQuote("VIX", 25.0, 3.0),
		dto.NewQuote("10Y Treasury", 3.5, 0.0),
	}

	record := s.Synthesize(snapshot, 10)
	assert.Equal(t, "RISK-OFF | VOLATILITY-LED | US10Y at 3.50%", record.Regime)
	require.NoError(t, record.Validate())
}

func TestSynthesizer_RatesRule(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())
	snapshot := dto.MarketSnapshot{
		dto.NewQuote("VIX", 15.0, 0.0),
		dto.NewQuote("10Y Treasury", 4.5, 0.05),
	}

	record := s.Synthesize(snapshot, 0)
	assert.Equal(t, "RISK-OFF | RATES-LED | US10Y at 4.50%", record.Regime)
	assert.Contains(t, record.Winners[0], "Defensive sectors")
	assert.Contains(t, record.Losers[0], "Long-duration growth")
}

func TestSynthesizer_EquityRules(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())

	down := s.Synthesize(dto.MarketSnapshot{dto.NewQuote("S&P 500", 5200.0, -1.5)}, 0)
	assert.Equal(t, "RISK-OFF | EQUITY-LED", down.Regime)

	up := s.Synthesize(dto.MarketSnapshot{dto.NewQuote("S&P 500", 5400.0, 1.5)}, 0)
	assert.Equal(t, "RISK-ON | MOMENTUM-LED", up.Regime)
}

func TestSynthesizer_NeutralWithEmptySnapshot(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())

	record := s.Synthesize(dto.MarketSnapshot{}, 0)
	assert.Equal(t, "NEUTRAL | DATA-DRIVEN", record.Regime)
	require.NoError(t, record.Validate(), "every list must be populated even without data")
	assert.Equal(t, []string{"Markets consolidating -> FORECAST: awaiting catalyst for direction"}, record.WhatChanged)
	assert.Equal(t, []string{"FORECAST: Monitoring market data for signals"}, record.Signals)
}

func TestSynthesizer_UnavailableQuotesAreIgnored(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())
	snapshot := dto.MarketSnapshot{
		dto.EmptyQuote("S&P 500"),
		dto.EmptyQuote("VIX"),
		dto.NewQuote("10Y Treasury", 4.2, 0.0),
	}

	record := s.Synthesize(snapshot, 0)
	assert.Equal(t, "RISK-OFF | RATES-LED | US10Y at 4.20%", record.Regime)
}

func TestSynthesizer_Deterministic(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())
	snapshot := dto.MarketSnapshot{
		dto.NewQuote("S&P 500", 5321.5, 0.8),
		dto.NewQuote("NASDAQ", 17000.0, -1.2),
		dto.NewQuote("VIX", 19.0, 1.0),
		dto.NewQuote("10Y Treasury", 4.1, 0.2),
		dto.NewQuote("Gold", 2400.0, 0.9),
	}

	first := s.Synthesize(snapshot, 42)
	second := s.Synthesize(snapshot, 42)
	assert.Equal(t, first, second)
}

func TestSynthesizer_ListsAreCapped(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())
	snapshot := dto.MarketSnapshot{
		dto.NewQuote("S&P 500", 5200.0, -2.0),
		dto.NewQuote("NASDAQ", 16000.0, -2.5),
		dto.NewQuote("VIX", 30.0, 10.0),
		dto.NewQuote("10Y Treasury", 4.8, 0.5),
		dto.NewQuote("Gold", 2450.0, 1.2),
	}

	record := s.Synthesize(snapshot, 100)
	assert.LessOrEqual(t, len(record.WhatChanged), 3)
	assert.LessOrEqual(t, len(record.Winners), 3)
	assert.LessOrEqual(t, len(record.Losers), 3)
	assert.LessOrEqual(t, len(record.WhatBreaks), 3)
	assert.LessOrEqual(t, len(record.Signals), 3)
	assert.LessOrEqual(t, len(record.OpportunityZones), 5)
}

func TestSynthesizer_RateBandsInWhatBreaks(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())
	snapshot := dto.MarketSnapshot{
		dto.NewQuote("10Y Treasury", 4.0, 0.0),
	}

	record := s.Synthesize(snapshot, 0)
	require.Len(t, record.WhatBreaks, 2)
	assert.Contains(t, record.WhatBreaks[0], "IF US10Y < 3.75%")
	assert.Contains(t, record.WhatBreaks[1], "IF US10Y > 4.25%")
}

func TestSynthesizer_VixFloorClampsAt15(t *testing.T) {
	s := NewDecisionSynthesizer(synthSpecs())
	snapshot := dto.MarketSnapshot{
		dto.NewQuote("VIX", 17.0, 0.0),
	}

	record := s.Synthesize(snapshot, 0)
	require.NotEmpty(t, record.WhatBreaks)
	assert.Contains(t, record.WhatBreaks[0], "IF VIX < 15.0")
}
