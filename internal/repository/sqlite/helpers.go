package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// parseTimestamp decodes a JSON-quoted RFC3339 metadata value
func parseTimestamp(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal([]byte(ns.String), &s); err != nil {
		return nil, fmt.Errorf("failed to decode timestamp: %w", err)
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return &t, nil
}
