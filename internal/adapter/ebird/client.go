// Package ebird reads recent bird observations for Essex County from the
// eBird API 2.0.
package ebird

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

// maxDaysBack is the furthest back the recent-observations endpoint reaches.
const maxDaysBack = 30

// Query selects which recent observations to fetch.
type Query struct {
	DaysBack   int  // clamped to 1..30
	MaxResults int  // 0 lets eBird pick its default
	Notable    bool // rare or unusual sightings only
}

// Client fetches recent observations for the county.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an eBird client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.ebird.org/v2",
		logger:     logger,
	}
}

// RecentSightings returns recent observations in the county. Without an API
// key it returns domain.ErrNotConfigured and makes no request. An empty list is
// a valid answer.
func (c *Client) RecentSightings(ctx context.Context, apiKey string, q Query) ([]domain.BirdSighting, error) {
	if apiKey == "" {
		return nil, domain.ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/data/obs/%s/recent", c.baseURL, domain.EBirdRegion)
	if q.Notable {
		endpoint += "/notable"
	}
	params := url.Values{"back": {strconv.Itoa(min(max(q.DaysBack, 1), maxDaysBack))}}
	if q.MaxResults > 0 {
		params.Set("maxResults", strconv.Itoa(q.MaxResults))
	}

	var obs []observation
	header := http.Header{"X-Ebirdapitoken": {apiKey}}
	if err := httpjson.Get(ctx, c.httpClient, "ebird", endpoint+"?"+params.Encode(), header, &obs); err != nil {
		return nil, err
	}

	sightings := make([]domain.BirdSighting, 0, len(obs))
	for _, o := range obs {
		name := o.CommonName
		if name == "" {
			name = "Unknown"
		}
		loc := o.LocationName
		if loc == "" {
			loc = "Essex County"
		}
		sightings = append(sightings, domain.BirdSighting{
			ScientificName: o.ScientificName,
			CommonName:     name,
			Location:       loc,
			ObservedAt:     o.ObservedAt,
			Count:          o.HowMany,
			Notable:        q.Notable,
		})
	}
	c.logger.Debug("ebird sightings", "count", len(sightings), "notable", q.Notable)
	return sightings, nil
}

// eBird API response types.

type observation struct {
	SpeciesCode    string `json:"speciesCode"`
	CommonName     string `json:"comName"`
	ScientificName string `json:"sciName"`
	LocationName   string `json:"locName"`
	ObservedAt     string `json:"obsDt"`
	HowMany        *int   `json:"howMany"`
}
