// Package nohrsc reads snow depth and snow water equivalent at the town from
// the NOAA NOHRSC snow analysis map service.
package nohrsc

import (
	"context"
	"encoding/json"
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

// Client queries the NOHRSC MapServer identify endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a NOHRSC snow analysis client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://mapservices.weather.noaa.gov/raster/rest/services/snow/NOHRSC_Snow_Analysis/MapServer/identify",
		logger:     logger,
	}
}

// SnowCover identifies the depth and SWE raster cells under the town. Missing
// depth with a successful response is a confirmed no-snow record.
func (c *Client) SnowCover(ctx context.Context) (*domain.SnowCoverContext, error) {
	params := url.Values{
		"geometry":       {fmt.Sprintf("%.4f,%.4f", domain.TownLon, domain.TownLat)},
		"geometryType":   {"esriGeometryPoint"},
		"sr":             {"4326"},
		"layers":         {"all:0,1"},
		"tolerance":      {"2"},
		"mapExtent":      {mapExtent()},
		"imageDisplay":   {"100,100,96"},
		"returnGeometry": {"false"},
		"f":              {"json"},
	}

	var resp response
	if err := httpjson.Get(ctx, c.httpClient, "nohrsc", c.baseURL+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("nohrsc API error: code %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("nohrsc: %w", domain.ErrNoData)
	}

	var depthMM, sweMM *float64
	for _, r := range resp.Results {
		v, ok := r.Attributes.PixelValue.float()
		if !ok {
			continue
		}
		layer := strings.ToLower(r.LayerName)
		switch {
		case strings.Contains(layer, "depth"):
			depthMM = &v
		case strings.Contains(layer, "water"), strings.Contains(layer, "swe"):
			sweMM = &v
		default:
			c.logger.Debug("nohrsc layer ignored", "layer", r.LayerName)
		}
	}
	return domain.NewSnowCover(depthMM, sweMM), nil
}

func mapExtent() string {
	b := domain.BBoxAround(0.1)
	return fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", b.LonMin, b.LatMin, b.LonMax, b.LatMax)
}

// ArcGIS identify response types.

type response struct {
	Results []result   `json:"results"`
	Error   *arcgisErr `json:"error"`
}

type arcgisErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type result struct {
	LayerName  string     `json:"layerName"`
	Attributes attributes `json:"attributes"`
}

type attributes struct {
	PixelValue pixelValue `json:"Pixel Value"`
}

// pixelValue holds the raw "Pixel Value" attribute, which the service returns
// as a string ("12.5", "NoData") or occasionally a bare number.
type pixelValue json.RawMessage

func (p *pixelValue) UnmarshalJSON(b []byte) error {
	*p = append((*p)[:0], b...)
	return nil
}

func (p pixelValue) float() (float64, bool) {
	s := strings.Trim(string(p), `"`)
	if s == "" || s == "null" || strings.EqualFold(s, "NoData") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
