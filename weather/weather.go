// Package weather defines the weather-lookup capability interface with a
// deterministic simulated provider and a wttr.in-backed network provider
// behind the same interface.
package weather

import (
	"context"
	"hash/fnv"
	"strings"
)

// Report is the structured result of a weather lookup.
type Report struct {
	Location    string `json:"location"`
	Temperature int    `json:"temperature"` // degrees Celsius
	Condition   string `json:"condition"`
	Humidity    int    `json:"humidity"` // percent
}

// Provider is the abstract weather capability the weather tool depends on.
type Provider interface {
	Lookup(ctx context.Context, location string) (*Report, error)
}

var conditions = []string{"sunny", "cloudy", "rainy", "snowy"}

// Simulated derives a stable pseudo-random report from the location string,
// so repeated lookups for the same place agree within a process and across
// runs. It never fails and makes no network calls.
type Simulated struct{}

// NewSimulated constructs a Simulated provider.
func NewSimulated() *Simulated { return &Simulated{} }

// Lookup implements Provider.
func (s *Simulated) Lookup(ctx context.Context, location string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(location))))
	seed := h.Sum32()

	return &Report{
		Location:    location,
		Temperature: int(seed%46) - 10, // -10..35
		Condition:   conditions[seed%uint32(len(conditions))],
		Humidity:    30 + int(seed%61), // 30..90
	}, nil
}
