package codec

import (
	"encoding/json"
	"fmt"

	"marketpulse/internal/pulse/dto"
)

// DecisionCodec serializes decision records as JSON and re-validates the
// schema on decode, so a cached record that no longer conforms is treated as
// a miss instead of being served.
type DecisionCodec struct{}

// Encode renders the decision record as JSON.
func (DecisionCodec) Encode(record *dto.DecisionRecord) (string, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal decision record: %w", err)
	}
	return string(b), nil
}

// Decode parses and validates a cached decision record.
func (DecisionCodec) Decode(value string) (*dto.DecisionRecord, error) {
	var record dto.DecisionRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision record: %w", err)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("cached decision record is invalid: %w", err)
	}
	return &record, nil
}
