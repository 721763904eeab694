// Package weathergov reads the NWS forecast and active alerts for the town
// from api.weather.gov.
package weathergov

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/env-context-service/internal/adapter/httpjson"
	"github.com/couchcryptid/env-context-service/internal/domain"
)

const geoJSON = "application/geo+json"

// Client fetches forecasts from the NWS API. The API rejects requests without
// a User-Agent identifying the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a weather.gov client.
func NewClient(userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.weather.gov",
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Forecast resolves the town's grid point, returns its current forecast period
// and attaches the names of any active alerts. A failed alerts lookup is
// logged and leaves Hazards empty.
func (c *Client) Forecast(ctx context.Context) (*domain.CoastalForecast, error) {
	var point pointResponse
	pointURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, domain.TownLat, domain.TownLon)
	if err := c.get(ctx, pointURL, &point); err != nil {
		return nil, fmt.Errorf("resolve point: %w", err)
	}
	if point.Properties.Forecast == "" {
		return nil, fmt.Errorf("weathergov point has no forecast URL: %w", domain.ErrNoData)
	}

	var fc forecastResponse
	if err := c.get(ctx, point.Properties.Forecast, &fc); err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	if len(fc.Properties.Periods) == 0 {
		return nil, fmt.Errorf("weathergov forecast: %w", domain.ErrNoData)
	}

	current := fc.Properties.Periods[0]
	forecast := &domain.CoastalForecast{
		Zone:       domain.MarineZoneName,
		PeriodName: current.Name,
		Conditions: current.DetailedForecast,
		Wind:       joinWind(current.WindSpeed, current.WindDirection),
	}

	hazards, err := c.alerts(ctx)
	if err != nil {
		c.logger.Warn("weather alerts unavailable", "error", err)
	}
	forecast.Hazards = hazards
	return forecast, nil
}

func (c *Client) alerts(ctx context.Context) ([]string, error) {
	params := url.Values{"point": {fmt.Sprintf("%.4f,%.4f", domain.TownLat, domain.TownLon)}}
	var resp alertsResponse
	if err := c.get(ctx, c.baseURL+"/alerts/active?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	var events []string
	for _, f := range resp.Features {
		if f.Properties.Event != "" {
			events = append(events, f.Properties.Event)
		}
	}
	return events, nil
}

func (c *Client) get(ctx context.Context, fullURL string, dst any) error {
	header := http.Header{
		"User-Agent": {c.userAgent},
		"Accept":     {geoJSON},
	}
	return httpjson.Get(ctx, c.httpClient, "weathergov", fullURL, header, dst)
}

func joinWind(speed, direction string) string {
	switch {
	case speed == "":
		return ""
	case direction == "":
		return speed
	default:
		return direction + " " + speed
	}
}

// NWS API response types.

type pointResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []period `json:"periods"`
	} `json:"properties"`
}

type period struct {
	Name             string `json:"name"`
	DetailedForecast string `json:"detailedForecast"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
}

type alertsResponse struct {
	Features []struct {
		Properties struct {
			Event string `json:"event"`
		} `json:"properties"`
	} `json:"features"`
}
