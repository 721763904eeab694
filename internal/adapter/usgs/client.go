// Package usgs reads the latest discharge and gauge height for the Ipswich
// River from the USGS instantaneous values service.
package usgs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/env-context-service/internal/adapter/httpjson"
	"github.com/couchcryptid/env-context-service/internal/domain"
)

// USGS parameter codes.
const (
	paramDischarge   = "00060" // cubic feet per second
	paramGaugeHeight = "00065" // feet
)

// noDataValue is the sentinel USGS reports for a missing reading.
const noDataValue = -999999

// Client fetches instantaneous values for the river gauge.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a USGS water services client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://waterservices.usgs.gov/nwis/iv/",
		logger:     logger,
	}
}

// River returns the most recent discharge and gauge height. It fails with
// domain.ErrNoData when neither series has a reading.
func (c *Client) River(ctx context.Context) (*domain.RiverConditions, error) {
	params := url.Values{
		"format":      {"json"},
		"sites":       {domain.RiverGaugeID},
		"parameterCd": {paramDischarge + "," + paramGaugeHeight},
		"siteStatus":  {"active"},
	}

	var resp response
	if err := httpjson.Get(ctx, c.httpClient, "usgs", c.baseURL+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	var flow, level *float64
	for _, ts := range resp.Value.TimeSeries {
		if len(ts.Variable.VariableCode) == 0 {
			continue
		}
		v, ok := ts.latest()
		if !ok {
			continue
		}
		switch ts.Variable.VariableCode[0].Value {
		case paramDischarge:
			flow = &v
		case paramGaugeHeight:
			level = &v
		}
	}
	if flow == nil && level == nil {
		return nil, fmt.Errorf("usgs gauge %s: %w", domain.RiverGaugeID, domain.ErrNoData)
	}
	return domain.NewRiverConditions(flow, level), nil
}

// USGS WaterML-JSON response types.

type response struct {
	Value struct {
		TimeSeries []timeSeries `json:"timeSeries"`
	} `json:"value"`
}

type timeSeries struct {
	Variable struct {
		VariableCode []struct {
			Value string `json:"value"`
		} `json:"variableCode"`
	} `json:"variable"`
	Values []struct {
		Value []reading `json:"value"`
	} `json:"values"`
}

type reading struct {
	Value    string `json:"value"`
	DateTime string `json:"dateTime"`
}

// latest returns the last reading of the first value block, skipping the
// no-data sentinel and unparsable values.
func (ts timeSeries) latest() (float64, bool) {
	if len(ts.Values) == 0 || len(ts.Values[0].Value) == 0 {
		return 0, false
	}
	readings := ts.Values[0].Value
	v, err := strconv.ParseFloat(readings[len(readings)-1].Value, 64)
	if err != nil || v == noDataValue {
		return 0, false
	}
	return v, true
}
