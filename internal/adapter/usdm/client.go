// Package usdm reads county drought statistics from the US Drought Monitor
// data services.
package usdm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/env-context-service/internal/adapter/httpjson"
	"github.com/couchcryptid/env-context-service/internal/domain"
)

// lookback covers at least one weekly map release before the target date.
const lookback = 7 * 24 * time.Hour

// USDM expects M/D/YYYY dates.
const dateLayout = "1/2/2006"

// Client fetches drought severity percentages for Essex County.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a US Drought Monitor client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://usdmdataservices.unl.edu/api/CountyStatistics",
		logger:     logger,
	}
}

// Drought returns the drought status from the latest weekly map at or before
// date. An all-zero map is a confirmed no-drought record, not an error.
func (c *Client) Drought(ctx context.Context, date time.Time) (*domain.DroughtContext, error) {
	params := url.Values{
		"aoi":            {domain.EssexCountyFIPS},
		"startdate":      {date.Add(-lookback).Format(dateLayout)},
		"enddate":        {date.Format(dateLayout)},
		"statisticsType": {"1"},
	}
	fullURL := c.baseURL + "/GetDroughtSeverityStatisticsByAreaPercent?" + params.Encode()

	var rows []statistics
	if err := httpjson.Get(ctx, c.httpClient, "usdm", fullURL, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("usdm: %w", domain.ErrNoData)
	}

	// MapDate is a fixed-width date string, so the newest map sorts last.
	latest := slices.MaxFunc(rows, func(a, b statistics) int {
		return strings.Compare(a.MapDate, b.MapDate)
	})
	c.logger.Debug("usdm map", "map_date", latest.MapDate, "county", latest.County)
	return domain.NewDrought(map[domain.DroughtSeverity]float64{
		domain.DroughtD0: float64(latest.D0),
		domain.DroughtD1: float64(latest.D1),
		domain.DroughtD2: float64(latest.D2),
		domain.DroughtD3: float64(latest.D3),
		domain.DroughtD4: float64(latest.D4),
	}), nil
}

// USDM API response types.

type statistics struct {
	MapDate string  `json:"MapDate"`
	FIPS    string  `json:"FIPS"`
	County  string  `json:"County"`
	None    percent `json:"None"`
	D0      percent `json:"D0"`
	D1      percent `json:"D1"`
	D2      percent `json:"D2"`
	D3      percent `json:"D3"`
	D4      percent `json:"D4"`
}

// percent accepts both numeric and quoted-numeric values; the service has
// returned each over time.
type percent float64

func (p *percent) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse percent %q: %w", b, err)
	}
	*p = percent(v)
	return nil
}

var _ json.Unmarshaler = (*percent)(nil)
