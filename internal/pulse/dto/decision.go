package dto

import "fmt"

// HorizonView is one time-horizon bucket of a decision record.
type HorizonView struct {
	Horizon string `json:"horizon"`
	View    string `json:"view"`
	Action  string `json:"action"`
}

// TimeHorizons holds the three fixed horizon buckets.
type TimeHorizons struct {
	ShortTerm  HorizonView `json:"shortTerm"`
	MediumTerm HorizonView `json:"mediumTerm"`
	LongTerm   HorizonView `json:"longTerm"`
}

// DecisionRecord is the fixed-schema market-posture summary produced by the
// generative engine or the deterministic synthesizer. Every field is always
// present and every list has at least one entry.
type DecisionRecord struct {
	Regime            string       `json:"regime"`
	WhatChanged       []string     `json:"whatChanged"`
	Winners           []string     `json:"winners"`
	Losers            []string     `json:"losers"`
	OpportunityZones  []string     `json:"opportunityZones"`
	WhatBreaks        []string     `json:"whatBreaks"`
	TimeHorizons      TimeHorizons `json:"timeHorizons"`
	StructuralContext string       `json:"structuralContext"`
	MarketSentiment   string       `json:"marketSentiment"`
	Signals           []string     `json:"signals"`
}

// Validate checks the schema invariants. A record failing validation is
// treated as a backend failure and replaced by the synthesizer's output.
func (d *DecisionRecord) Validate() error {
	if d.Regime == "" {
		return fmt.Errorf("regime is empty")
	}
	lists := map[string][]string{
		"whatChanged":      d.WhatChanged,
		"winners":          d.Winners,
		"losers":           d.Losers,
		"opportunityZones": d.OpportunityZones,
		"whatBreaks":       d.WhatBreaks,
		"signals":          d.Signals,
	}
	for name, list := range lists {
		if len(list) == 0 {
			return fmt.Errorf("list %s is empty", name)
		}
	}
	for name, h := range map[string]HorizonView{
		"shortTerm":  d.TimeHorizons.ShortTerm,
		"mediumTerm": d.TimeHorizons.MediumTerm,
		"longTerm":   d.TimeHorizons.LongTerm,
	} {
		if h.Horizon == "" || h.View == "" || h.Action == "" {
			return fmt.Errorf("time horizon %s is incomplete", name)
		}
	}
	if d.StructuralContext == "" {
		return fmt.Errorf("structuralContext is empty")
	}
	if d.MarketSentiment == "" {
		return fmt.Errorf("marketSentiment is empty")
	}
	return nil
}
