// Package airnow reads current air quality observations from the EPA AirNow API.
package airnow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/env-context-service/internal/adapter/httpjson"
	"github.com/couchcryptid/env-context-service/internal/domain"
)

// searchMiles is how far from the town AirNow may look for a reporting area.
const searchMiles = 25

// Client fetches current observations near the town.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an AirNow client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://www.airnowapi.org/aq/observation/latLong/current/",
		logger:     logger,
	}
}

// AirQuality returns the current PM2.5 and ozone readings combined into one
// record. Without an API key it returns domain.ErrNotConfigured and makes no
// request.
func (c *Client) AirQuality(ctx context.Context, apiKey string) (*domain.AirQualityContext, error) {
	if apiKey == "" {
		return nil, domain.ErrNotConfigured
	}

	params := url.Values{
		"latitude":  {strconv.FormatFloat(domain.TownLat, 'f', 4, 64)},
		"longitude": {strconv.FormatFloat(domain.TownLon, 'f', 4, 64)},
		"distance":  {strconv.Itoa(searchMiles)},
		"format":    {"application/json"},
		"API_KEY":   {apiKey},
	}

	var obs []observation
	if err := httpjson.Get(ctx, c.httpClient, "airnow", c.baseURL+"?"+params.Encode(), nil, &obs); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, domain.ErrNoData
	}

	readings := make([]domain.AirQualityReading, 0, len(obs))
	for _, o := range obs {
		pollutant := pollutantOf(o.ParameterName)
		if pollutant == "" || o.AQI < 0 {
			c.logger.Debug("airnow observation skipped", "parameter", o.ParameterName, "aqi", o.AQI)
			continue
		}
		readings = append(readings, domain.AirQualityReading{
			Pollutant:     pollutant,
			AQI:           o.AQI,
			Concentration: o.Concentration,
		})
	}

	aq, err := domain.NewAirQuality(readings)
	if err != nil {
		return nil, fmt.Errorf("airnow: %w", err)
	}
	return aq, nil
}

func pollutantOf(parameter string) string {
	p := strings.ToUpper(parameter)
	switch {
	case strings.Contains(p, "PM2.5"):
		return domain.PollutantPM25
	case strings.Contains(p, "OZONE"), strings.Contains(p, "O3"):
		return domain.PollutantOzone
	default:
		return ""
	}
}

// AirNow API response types.

type observation struct {
	DateObserved  string   `json:"DateObserved"`
	HourObserved  int      `json:"HourObserved"`
	ReportingArea string   `json:"ReportingArea"`
	ParameterName string   `json:"ParameterName"`
	AQI           int      `json:"AQI"`
	Concentration *float64 `json:"Concentration"`
	Category      category `json:"Category"`
}

type category struct {
	Number int    `json:"Number"`
	Name   string `json:"Name"`
}
