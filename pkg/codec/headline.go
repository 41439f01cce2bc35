package codec

import (
	"fmt"
	"strconv"
	"strings"

	"marketpulse/internal/pulse/dto"
)

// HeadlineCodec serializes a headline list as one row per item:
// published_ts|source|title|link. Pipes inside source and title are escaped;
// the link is the unescaped remainder of the row.
type HeadlineCodec struct{}

// Encode renders the headline list into the cache format.
func (HeadlineCodec) Encode(headlines []dto.Headline) string {
	rows := make([]string, 0, len(headlines))
	for _, h := range headlines {
		rows = append(rows, fmt.Sprintf("%d|%s|%s|%s",
			h.PublishedTS, escapeField(h.Source), escapeField(h.Title), h.Link))
	}
	return strings.Join(rows, "\n")
}

// Decode parses a cached headline payload. Any malformed row fails the whole
// payload so the caller re-fetches.
func (HeadlineCodec) Decode(value string) ([]dto.Headline, error) {
	if strings.TrimSpace(value) == "" {
		return []dto.Headline{}, nil
	}

	var headlines []dto.Headline
	for _, row := range strings.Split(value, "\n") {
		if row == "" {
			continue
		}
		fields, err := splitRow(row, 4, true)
		if err != nil {
			return nil, fmt.Errorf("malformed headline row: %w", err)
		}
		ts, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed headline timestamp %q: %w", fields[0], err)
		}
		if fields[2] == "" || fields[3] == "" {
			return nil, fmt.Errorf("headline row missing title or link: %q", row)
		}
		headlines = append(headlines, dto.Headline{
			PublishedTS: ts,
			Source:      fields[1],
			Title:       fields[2],
			Link:        fields[3],
		})
	}
	return headlines, nil
}
