package sqlite

import (
	"encoding/json"
	"fmt"
	"time"
)

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// marshalJSON encodes v for a JSON column
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalJSON decodes a JSON column into target
func unmarshalJSON(s string, target any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), target)
}

// ============================================================================
// Time Helpers
// ============================================================================

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
