package tool

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Clock reports the current time. Input is an optional IANA timezone name;
// empty input means UTC.
type Clock struct {
	now func() time.Time
}

// NewClock constructs the clock tool.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Name implements Tool.
func (c *Clock) Name() string { return "time" }

// Description implements Tool.
func (c *Clock) Description() string { return "Get current time information" }

// Parameters implements Tool.
func (c *Clock) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timezone": map[string]any{
				"type":        "string",
				"description": "IANA timezone name, e.g. Europe/Berlin (default UTC)",
			},
		},
	}
}

// Call implements Tool.
func (c *Clock) Call(_ context.Context, input string) (any, error) {
	zone := "UTC"
	loc := time.UTC
	if name := timezoneFromInput(input); name != "" {
		parsed, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
		}
		zone = name
		loc = parsed
	}

	now := c.now().In(loc)
	return map[string]any{
		"timestamp": float64(now.UnixNano()) / 1e9,
		"formatted": now.Format(time.RFC1123),
		"timezone":  zone,
	}, nil
}

// timezoneFromInput extracts a timezone name from the raw input. Queries are
// passed through verbatim by the selector, so only tokens that look like a
// zone name (Region/City) are honored; everything else falls back to UTC.
func timezoneFromInput(input string) string {
	for _, field := range strings.Fields(input) {
		if strings.Contains(field, "/") {
			return field
		}
	}
	return ""
}
