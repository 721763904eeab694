// Package erddap queries NOAA CoastWatch ERDDAP griddap datasets for the
// gridded ocean slots: sea surface temperature, ocean color and waves.
package erddap

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/env-context-service/internal/adapter/httpjson"
	"github.com/couchcryptid/env-context-service/internal/domain"
)

// Dataset identifiers and search radii (degrees) around the town.
const (
	sstDataset   = "jplMURSST41"
	sstVariable  = "analysed_sst"
	sstRadius    = 0.15
	colorDataset = "noaacwNPPN20S3ASCIDINEOFDaily"
	colorVar     = "chlor_a"
	waveDataset  = "NWW3_Global_Best"
	gridRadius   = 0.5

	// Wave model variables: significant height (m), peak period (s), peak
	// direction (degrees).
	waveHeight    = "Thgt"
	wavePeriod    = "Tper"
	waveDirection = "Tdir"
)

// Client fetches gridded values from two ERDDAP servers. The PFEG server hosts
// MUR SST and WaveWatch III; the CoastWatch central server hosts ocean color.
type Client struct {
	httpClient *http.Client
	pfegURL    string
	centralURL string
	logger     *slog.Logger
}

// NewClient creates an ERDDAP client with the given per-request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		pfegURL:    "https://coastwatch.pfeg.noaa.gov/erddap",
		centralURL: "https://coastwatch.noaa.gov/erddap",
		logger:     logger,
	}
}

// SeaSurfaceTemp returns the mean latest MUR SST in a small window around the
// town, classified against the climatology for date.
func (c *Client) SeaSurfaceTemp(ctx context.Context, date time.Time) (*domain.SeaSurfaceTempContext, error) {
	q := query{variables: []string{sstVariable}, box: domain.BBoxAround(sstRadius)}
	t, err := c.griddap(ctx, c.pfegURL, sstDataset, q)
	if err != nil {
		return nil, err
	}
	values := t.column(sstVariable)
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", sstDataset, domain.ErrNoData)
	}
	return domain.NewSeaSurfaceTemp(mean(values), date), nil
}

// OceanColor returns the median latest chlorophyll-a concentration over Ipswich
// Bay. The median keeps a few cloud-edge pixels from skewing the result.
func (c *Client) OceanColor(ctx context.Context) (*domain.OceanColorContext, error) {
	q := query{variables: []string{colorVar}, altitude: true, box: domain.BBoxAround(gridRadius)}
	t, err := c.griddap(ctx, c.centralURL, colorDataset, q)
	if err != nil {
		return nil, err
	}
	values := t.column(colorVar)
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", colorDataset, domain.ErrNoData)
	}
	return domain.NewOceanColor(median(values)), nil
}

// Waves returns WaveWatch III significant height, peak period and direction in
// one request. The model grid uses 0-360 longitudes.
func (c *Client) Waves(ctx context.Context) (*domain.WaveContext, error) {
	q := query{
		variables: []string{waveHeight, wavePeriod, waveDirection},
		altitude:  true,
		box:       domain.BBoxAround(gridRadius).To360(),
	}
	t, err := c.griddap(ctx, c.pfegURL, waveDataset, q)
	if err != nil {
		return nil, err
	}

	heights := t.column(waveHeight)
	if len(heights) == 0 {
		return nil, fmt.Errorf("%s: %w", waveDataset, domain.ErrNoData)
	}
	return domain.NewWaveContext(mean(heights), meanOrNil(t.column(wavePeriod)), circularMean(t.column(waveDirection))), nil
}

func (c *Client) griddap(ctx context.Context, baseURL, dataset string, q query) (*table, error) {
	fullURL := fmt.Sprintf("%s/griddap/%s.json?%s", baseURL, dataset, q.encode())
	c.logger.Debug("erddap query", "dataset", dataset)

	var resp response
	if err := httpjson.Get(ctx, c.httpClient, "erddap", fullURL, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", dataset, err)
	}
	return &resp.Table, nil
}

// query is one griddap constraint expression: the latest time step, an
// optional zero altitude/depth dimension, and a lat/lon window.
type query struct {
	variables []string
	altitude  bool
	box       domain.BBox
}

func (q query) encode() string {
	var dims strings.Builder
	dims.WriteString("[(last)]")
	if q.altitude {
		dims.WriteString("[(0.0)]")
	}
	fmt.Fprintf(&dims, "[(%.4f):(%.4f)][(%.4f):(%.4f)]", q.box.LatMin, q.box.LatMax, q.box.LonMin, q.box.LonMax)

	parts := make([]string, len(q.variables))
	for i, v := range q.variables {
		parts[i] = v + dims.String()
	}
	// Brackets must be percent-encoded; parentheses and colons pass through.
	return strings.NewReplacer("[", "%5B", "]", "%5D").Replace(strings.Join(parts, ","))
}

// ERDDAP JSON response types.

type response struct {
	Table table `json:"table"`
}

type table struct {
	ColumnNames []string `json:"columnNames"`
	Rows        [][]any  `json:"rows"`
}

// column returns the finite numeric values of the named column, skipping
// nulls, NaNs and non-numeric cells.
func (t *table) column(name string) []float64 {
	idx := slices.Index(t.ColumnNames, name)
	if idx < 0 {
		return nil
	}
	var out []float64
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		v, ok := row[idx].(float64)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := mean(values)
	return &m
}

// circularMean averages compass bearings as unit vectors so that 350 and 10
// average to 0, not 180. The result is in [0, 360). Bearings that cancel out
// exactly have no mean direction.
func circularMean(degrees []float64) *float64 {
	if len(degrees) == 0 {
		return nil
	}
	var sinSum, cosSum float64
	for _, d := range degrees {
		r := d * math.Pi / 180
		sinSum += math.Sin(r)
		cosSum += math.Cos(r)
	}
	if math.Hypot(sinSum, cosSum) < 1e-9 {
		return nil
	}
	m := math.Mod(math.Atan2(sinSum, cosSum)*180/math.Pi+360, 360)
	if m >= 359.9999995 {
		m = 0
	}
	return &m
}

// median returns the upper median of values.
func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted[len(sorted)/2]
}
