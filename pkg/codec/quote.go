package codec

import (
	"fmt"
	"strconv"
	"strings"

	"marketpulse/internal/pulse/dto"
)

const naField = "NA"

// QuoteCodec serializes a market snapshot as one row per quote:
// label|value-or-NA|pct-or-NA. Value and percent change are paired: either
// both numbers or both NA.
type QuoteCodec struct{}

// Encode renders the snapshot into the cache format.
func (QuoteCodec) Encode(snapshot dto.MarketSnapshot) string {
	rows := make([]string, 0, len(snapshot))
	for _, q := range snapshot {
		value, pct := naField, naField
		if q.Available() {
			value = strconv.FormatFloat(*q.Value, 'f', -1, 64)
			pct = strconv.FormatFloat(*q.PctChange, 'f', -1, 64)
		}
		rows = append(rows, fmt.Sprintf("%s|%s|%s", escapeField(q.Label), value, pct))
	}
	return strings.Join(rows, "\n")
}

// Decode parses a cached snapshot payload. Half-NA rows violate the quote
// invariant and fail the payload.
func (QuoteCodec) Decode(value string) (dto.MarketSnapshot, error) {
	if strings.TrimSpace(value) == "" {
		return dto.MarketSnapshot{}, nil
	}

	var snapshot dto.MarketSnapshot
	for _, row := range strings.Split(value, "\n") {
		if row == "" {
			continue
		}
		fields, err := splitRow(row, 3, false)
		if err != nil {
			return nil, fmt.Errorf("malformed quote row: %w", err)
		}

		label := fields[0]
		if (fields[1] == naField) != (fields[2] == naField) {
			return nil, fmt.Errorf("quote row %q has unpaired NA fields", row)
		}
		if fields[1] == naField {
			snapshot = append(snapshot, dto.EmptyQuote(label))
			continue
		}

		last, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed quote value %q: %w", fields[1], err)
		}
		pct, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed quote pct %q: %w", fields[2], err)
		}
		snapshot = append(snapshot, dto.NewQuote(label, last, pct))
	}
	return snapshot, nil
}
