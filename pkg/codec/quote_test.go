package codec

import (
	"testing"

	"marketpulse/internal/pulse/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteCodec_RoundTrip(t *testing.T) {
	c := QuoteCodec{}
	snapshot := dto.MarketSnapshot{
		dto.NewQuote("S&P 500", 5321.5, 0.42),
		dto.EmptyQuote("VIX"),
		dto.NewQuote("10Y Treasury", 4.31, -0.12),
	}

	decoded, err := c.Decode(c.Encode(snapshot))
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	assert.Equal(t, snapshot, decoded)
	assert.False(t, decoded[1].Available())
}

func TestQuoteCodec_UnpairedNAIsRejected(t *testing.T) {
	c := QuoteCodec{}

	_, err := c.Decode("VIX|NA|1.5")
	assert.Error(t, err)

	_, err = c.Decode("VIX|17.2|NA")
	assert.Error(t, err)
}

func TestQuoteCodec_MalformedNumbers(t *testing.T) {
	c := QuoteCodec{}

	_, err := c.Decode("S&P 500|abc|0.1")
	assert.Error(t, err)

	_, err = c.Decode("S&P 500|5321.5|xyz")
	assert.Error(t, err)
}

func TestQuoteCodec_LabelEscaping(t *testing.T) {
	c := QuoteCodec{}
	snapshot := dto.MarketSnapshot{dto.NewQuote("A|B", 1.0, 2.0)}

	decoded, err := c.Decode(c.Encode(snapshot))
	require.NoError(t, err)
	assert.Equal(t, "A|B", decoded[0].Label)
}
