package datasource

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// LoadWeeksFile reads a calendar saved to disk. Three shapes are accepted: a
// bare array of weeks, an object with a "weeks" key, or a complete GraphQL
// response as returned by the API.
func LoadWeeksFile(path string) ([]Week, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}
	return ParseWeeks(raw)
}

// ParseWeeks decodes any of the shapes LoadWeeksFile accepts.
func ParseWeeks(raw []byte) ([]Week, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("calendar is empty")
	}

	if trimmed[0] == '[' {
		var weeks []Week
		if err := json.Unmarshal(trimmed, &weeks); err != nil {
			return nil, fmt.Errorf("decoding weeks: %w", err)
		}
		return weeks, nil
	}

	var probe struct {
		Weeks []Week          `json:"weeks"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("decoding calendar: %w", err)
	}
	if probe.Data == nil && probe.Weeks != nil {
		return probe.Weeks, nil
	}
	return decodeCalendar(trimmed, "")
}
