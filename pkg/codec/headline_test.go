package codec

import (
	"testing"

	"marketpulse/internal/pulse/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlineCodec_RoundTrip(t *testing.T) {
	c := HeadlineCodec{}
	headlines := []dto.Headline{
		{PublishedTS: 1700000000, Source: "Reuters", Title: "Fed holds rates", Link: "https://example.com/fed"},
		{PublishedTS: 1700000100, Source: "AFR", Title: "ASX rallies", Link: "https://example.com/asx?a=1&b=2"},
	}

	decoded, err := c.Decode(c.Encode(headlines))
	require.NoError(t, err)
	assert.Equal(t, headlines, decoded)
}

func TestHeadlineCodec_EscapesDelimiters(t *testing.T) {
	c := HeadlineCodec{}
	headlines := []dto.Headline{
		{PublishedTS: 42, Source: "A|B", Title: `Pipes | and \ slashes`, Link: "https://example.com/x"},
	}

	decoded, err := c.Decode(c.Encode(headlines))
	require.NoError(t, err)
	assert.Equal(t, headlines, decoded)
}

func TestHeadlineCodec_LinkMayContainPipes(t *testing.T) {
	c := HeadlineCodec{}
	headlines := []dto.Headline{
		{PublishedTS: 7, Source: "Feed", Title: "Title", Link: "https://example.com/a|b|c"},
	}

	decoded, err := c.Decode(c.Encode(headlines))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a|b|c", decoded[0].Link)
}

func TestHeadlineCodec_MalformedRowFailsWholePayload(t *testing.T) {
	c := HeadlineCodec{}

	cases := map[string]string{
		"too few fields":    "1700000000|Reuters|only-three",
		"bad timestamp":     "not-a-ts|Reuters|Title|https://example.com",
		"missing title":     "1700000000|Reuters||https://example.com",
		"missing link":      "1700000000|Reuters|Title|",
		"valid then broken": "1700000000|Reuters|Title|https://example.com\ngarbage",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(payload)
			assert.Error(t, err)
		})
	}
}

func TestHeadlineCodec_EmptyPayload(t *testing.T) {
	c := HeadlineCodec{}
	decoded, err := c.Decode("")
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
