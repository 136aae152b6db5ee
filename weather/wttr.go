package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultWttrEndpoint = "https://wttr.in"

// WttrOptions configure the wttr.in provider.
type WttrOptions struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Wttr is a Provider backed by the wttr.in JSON API. It needs no API key.
type Wttr struct {
	endpoint string
	client   *http.Client
}

// NewWttr constructs a Wttr provider.
func NewWttr(optFns ...func(o *WttrOptions)) *Wttr {
	opts := WttrOptions{
		Endpoint: defaultWttrEndpoint,
		Timeout:  10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Wttr{endpoint: opts.Endpoint, client: client}
}

type wttrResponse struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		Humidity    string `json:"humidity"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
}

// Lookup implements Provider.
func (w *Wttr) Lookup(ctx context.Context, location string) (*Report, error) {
	u := fmt.Sprintf("%s/%s?format=j1", w.endpoint, url.PathEscape(location))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather api error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api status %d", resp.StatusCode)
	}

	var body wttrResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if len(body.CurrentCondition) == 0 {
		return nil, fmt.Errorf("weather api returned no conditions for %q", location)
	}

	cur := body.CurrentCondition[0]
	temp, _ := strconv.Atoi(cur.TempC)
	humidity, _ := strconv.Atoi(cur.Humidity)
	condition := ""
	if len(cur.WeatherDesc) > 0 {
		condition = cur.WeatherDesc[0].Value
	}

	return &Report{
		Location:    location,
		Temperature: temp,
		Condition:   condition,
		Humidity:    humidity,
	}, nil
}
