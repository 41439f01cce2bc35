package service

import (
	"fmt"

	"marketpulse/internal/pulse/dto"
)

// DecisionSynthesizer deterministically derives a decision record from a
// market snapshot. Same snapshot and headline count, same record.
type DecisionSynthesizer interface {
	Synthesize(snapshot dto.MarketSnapshot, headlineCount int) dto.DecisionRecord
}

// NewDecisionSynthesizer creates a synthesizer whose driver lookup is built
// from the symbol specs: each role maps to the label carrying it.
func NewDecisionSynthesizer(specs []dto.SymbolSpec) DecisionSynthesizer {
	roleLabels := make(map[dto.QuoteRole]string, len(specs))
	for _, spec := range specs {
		if spec.Role == dto.RoleNone {
			continue
		}
		if _, taken := roleLabels[spec.Role]; !taken {
			roleLabels[spec.Role] = spec.Label
		}
	}
	return &decisionSynthesizer{roleLabels: roleLabels}
}

type decisionSynthesizer struct {
	roleLabels map[dto.QuoteRole]string
}

// drivers is the per-role quote view the rules consume. A nil entry means
// the driver is unavailable in this snapshot.
type drivers struct {
	equity     *dto.Quote
	growth     *dto.Quote
	volatility *dto.Quote
	rate       *dto.Quote
	commodity  *dto.Quote
}

func (s *decisionSynthesizer) resolveDrivers(snapshot dto.MarketSnapshot) drivers {
	byLabel := make(map[string]*dto.Quote, len(snapshot))
	for i := range snapshot {
		if snapshot[i].Available() {
			byLabel[snapshot[i].Label] = &snapshot[i]
		}
	}
	lookup := func(role dto.QuoteRole) *dto.Quote {
		return byLabel[s.roleLabels[role]]
	}
	return drivers{
		equity:     lookup(dto.RoleEquity),
		growth:     lookup(dto.RoleGrowth),
		volatility: lookup(dto.RoleVolatility),
		rate:       lookup(dto.RoleRate),
		commodity:  lookup(dto.RoleCommodity),
	}
}

// Synthesize builds the full record. Rules are ordered; the first regime
// rule that fires wins.
func (s *decisionSynthesizer) Synthesize(snapshot dto.MarketSnapshot, headlineCount int) dto.DecisionRecord {
	d := s.resolveDrivers(snapshot)

	return dto.DecisionRecord{
		Regime:            regimeLabel(d),
		WhatChanged:       capList(whatChanged(d), 3),
		Winners:           capList(winners(d), 3),
		Losers:            capList(losers(d), 3),
		OpportunityZones:  capList(opportunityZones(), 5),
		WhatBreaks:        capList(whatBreaks(d), 3),
		TimeHorizons:      timeHorizons(d),
		StructuralContext: "FORECAST: Market dynamics driven by current data. Monitor key levels for regime shifts.",
		MarketSentiment:   marketSentiment(d),
		Signals:           capList(signals(d, headlineCount), 3),
	}
}

func regimeLabel(d drivers) string {
	regime := "NEUTRAL | DATA-DRIVEN"
	switch {
	case d.volatility != nil && *d.volatility.Value > 20:
		regime = "RISK-OFF | VOLATILITY-LED"
	case d.rate != nil && *d.rate.Value > 4.0:
		regime = "RISK-OFF | RATES-LED"
	case d.equity != nil && *d.equity.PctChange < -1.0:
		regime = "RISK-OFF | EQUITY-LED"
	case d.equity != nil && *d.equity.PctChange > 1.0:
		regime = "RISK-ON | MOMENTUM-LED"
	}
	if d.rate != nil {
		regime += fmt.Sprintf(" | US10Y at %.2f%%", *d.rate.Value)
	}
	return regime
}

func whatChanged(d drivers) []string {
	var changed []string
	if d.equity != nil && abs(*d.equity.PctChange) > 0.5 {
		changed = append(changed, fmt.Sprintf("%s at %.2f, %+.2f%% -> FORECAST: trend likely to continue near-term",
			d.equity.Label, *d.equity.Value, *d.equity.PctChange))
	}
	if d.rate != nil && abs(*d.rate.PctChange) > 0.1 {
		changed = append(changed, fmt.Sprintf("US10Y at %.2f%%, %+.2f%% -> FORECAST: rate moves likely to drive equity direction",
			*d.rate.Value, *d.rate.PctChange))
	}
	if d.volatility != nil && *d.volatility.Value > 18 {
		changed = append(changed, fmt.Sprintf("%s at %.2f -> FORECAST: elevated volatility likely to persist",
			d.volatility.Label, *d.volatility.Value))
	}
	if len(changed) == 0 {
		changed = append(changed, "Markets consolidating -> FORECAST: awaiting catalyst for direction")
	}
	return changed
}

func winners(d drivers) []string {
	var w []string
	if d.rate != nil && *d.rate.Value > 4.0 {
		w = append(w, "Defensive sectors (healthcare, staples) - FORECAST: likely to outperform in higher rate environment")
	}
	if d.volatility != nil && *d.volatility.Value > 20 {
		w = append(w, "Quality defensives with strong balance sheets - FORECAST: likely to outperform in volatile environment")
	}
	if d.commodity != nil && *d.commodity.PctChange > 0.5 {
		w = append(w, "Gold and real assets - FORECAST: inflation hedge demand likely to persist")
	}
	if len(w) == 0 {
		w = append(w, "Market-neutral strategies - FORECAST: await clearer direction")
	}
	return w
}

func losers(d drivers) []string {
	var l []string
	if d.rate != nil && *d.rate.Value > 4.0 {
		l = append(l, "Long-duration growth equities - FORECAST: likely to underperform if rates stay elevated")
	}
	if d.volatility != nil && *d.volatility.Value > 20 {
		l = append(l, "Speculative tech and high-beta names - FORECAST: likely to underperform if volatility persists")
	}
	if d.growth != nil && *d.growth.PctChange < -1.0 {
		l = append(l, "Tech sector - FORECAST: underperformance likely to continue if risk-off persists")
	}
	if len(l) == 0 {
		l = append(l, "High-beta names - FORECAST: vulnerable to volatility spikes")
	}
	return l
}

func opportunityZones() []string {
	return []string{
		"Quality defensives with pricing power - FORECAST: research companies with strong margins",
		"Relative value trades - FORECAST: spread opportunities if dispersion increases",
		"Volatility strategies - FORECAST: consider if VIX remains elevated",
	}
}

func whatBreaks(d drivers) []string {
	var b []string
	if d.rate != nil {
		b = append(b, fmt.Sprintf("IF US10Y < %.2f%% -> FORECAST: regime shifts to risk-on, equity upside likely", *d.rate.Value-0.25))
		b = append(b, fmt.Sprintf("IF US10Y > %.2f%% -> FORECAST: further equity downside likely", *d.rate.Value+0.25))
	}
	if d.volatility != nil {
		floor := *d.volatility.Value - 5
		if floor < 15 {
			floor = 15
		}
		b = append(b, fmt.Sprintf("IF VIX < %.1f -> FORECAST: risk-on resumes, growth likely to outperform", floor))
	}
	if len(b) == 0 {
		b = append(b, "Incoming data surprises - FORECAST: watch for regime-defining catalysts")
	}
	return b
}

func timeHorizons(d drivers) dto.TimeHorizons {
	shortView := "FORECAST: Monitor key levels for direction"
	if d.volatility != nil {
		shortView = fmt.Sprintf("FORECAST: Current volatility (%.1f) likely to drive intraday moves", *d.volatility.Value)
	}
	mediumView := "FORECAST: Rate environment likely to drive sector rotation"
	if d.rate != nil {
		mediumView = fmt.Sprintf("FORECAST: Rate environment (%.2f%%) likely to drive sector rotation", *d.rate.Value)
	}
	return dto.TimeHorizons{
		ShortTerm: dto.HorizonView{
			Horizon: "1-5 days",
			View:    shortView,
			Action:  "Monitor key levels and avoid adding beta until direction clears",
		},
		MediumTerm: dto.HorizonView{
			Horizon: "2-8 weeks",
			View:    mediumView,
			Action:  "Favor quality and defensives until trend reverses",
		},
		LongTerm: dto.HorizonView{
			Horizon: "3-12 months",
			View:    "FORECAST: Structural backdrop will determine regime - monitor inflation and policy",
			Action:  "Monitor structural shifts and position accordingly",
		},
	}
}

func marketSentiment(d drivers) string {
	var parts []string
	if d.equity != nil {
		parts = append(parts, fmt.Sprintf("%s at %.2f", d.equity.Label, *d.equity.Value))
	}
	if d.volatility != nil {
		parts = append(parts, fmt.Sprintf("%s at %.2f", d.volatility.Label, *d.volatility.Value))
	}
	if d.rate != nil {
		parts = append(parts, fmt.Sprintf("US10Y at %.2f%%", *d.rate.Value))
	}
	driver := "current data"
	if len(parts) > 0 {
		driver = joinParts(parts)
	}
	return fmt.Sprintf("FORECAST: Market sentiment driven by %s. Monitor key levels for regime shifts.", driver)
}

func signals(d drivers, headlineCount int) []string {
	var sig []string
	if d.equity != nil {
		sig = append(sig, fmt.Sprintf("FORECAST: %s at %.2f (%+.2f%%) - likely to drive near-term direction",
			d.equity.Label, *d.equity.Value, *d.equity.PctChange))
	}
	if headlineCount > 0 {
		sig = append(sig, fmt.Sprintf("FORECAST: %d news items monitored - key events likely to drive volatility", headlineCount))
	}
	if len(sig) == 0 {
		sig = append(sig, "FORECAST: Monitoring market data for signals")
	}
	return sig
}

func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func joinParts(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += " | " + p
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
