package codec

import (
	"testing"

	"marketpulse/internal/pulse/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *dto.DecisionRecord {
	return &dto.DecisionRecord{
		Regime:           "NEUTRAL | DATA-DRIVEN",
		WhatChanged:      []string{"nothing notable"},
		Winners:          []string{"quality"},
		Losers:           []string{"high beta"},
		OpportunityZones: []string{"relative value"},
		WhatBreaks:       []string{"rate spike"},
		TimeHorizons: dto.TimeHorizons{
			ShortTerm:  dto.HorizonView{Horizon: "1-5 days", View: "v", Action: "a"},
			MediumTerm: dto.HorizonView{Horizon: "2-8 weeks", View: "v", Action: "a"},
			LongTerm:   dto.HorizonView{Horizon: "3-12 months", View: "v", Action: "a"},
		},
		StructuralContext: "context",
		MarketSentiment:   "sentiment",
		Signals:           []string{"watch levels"},
	}
}

func TestDecisionCodec_RoundTrip(t *testing.T) {
	c := DecisionCodec{}
	record := validRecord()

	encoded, err := c.Encode(record)
	require.NoError(t, err)

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestDecisionCodec_RejectsInvalidRecord(t *testing.T) {
	c := DecisionCodec{}

	record := validRecord()
	record.Winners = nil
	encoded, err := c.Encode(record)
	require.NoError(t, err)

	_, err = c.Decode(encoded)
	assert.Error(t, err)
}

func TestDecisionCodec_RejectsGarbage(t *testing.T) {
	c := DecisionCodec{}
	_, err := c.Decode("not json at all")
	assert.Error(t, err)
}
