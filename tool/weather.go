package tool

import (
	"context"
	"strings"

	"github.com/agentfold/agentfold/weather"
)

// Weather looks up conditions through a weather.Provider. The input is the
// location text; when the selector passes a whole query through, a trailing
// "in <place>" phrase is preferred over the raw text.
type Weather struct {
	provider weather.Provider
}

// NewWeather constructs the weather tool over the given provider.
func NewWeather(provider weather.Provider) *Weather {
	return &Weather{provider: provider}
}

// Name implements Tool.
func (w *Weather) Name() string { return "weather" }

// Description implements Tool.
func (w *Weather) Description() string { return "Get weather information" }

// Parameters implements Tool.
func (w *Weather) Parameters() map[string]any {
	return stringParameters("location", "Location to look up, e.g. Berlin")
}

// Call implements Tool.
func (w *Weather) Call(ctx context.Context, input string) (any, error) {
	return w.provider.Lookup(ctx, extractLocation(input))
}

// extractLocation pulls the location out of a query like "what's the weather
// in New York?". Without an "in" phrase the trimmed input is used verbatim.
func extractLocation(input string) string {
	trimmed := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(input), "?!."))
	lower := strings.ToLower(trimmed)
	if idx := strings.LastIndex(lower, " in "); idx >= 0 {
		if loc := strings.TrimSpace(trimmed[idx+len(" in "):]); loc != "" {
			return loc
		}
	}
	return trimmed
}
