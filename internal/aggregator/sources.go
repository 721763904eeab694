package aggregator

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/env-context-service/internal/adapter/airnow"
	"github.com/couchcryptid/env-context-service/internal/adapter/ebird"
	"github.com/couchcryptid/env-context-service/internal/adapter/erddap"
	"github.com/couchcryptid/env-context-service/internal/adapter/nohrsc"
	"github.com/couchcryptid/env-context-service/internal/adapter/usdm"
	"github.com/couchcryptid/env-context-service/internal/adapter/usgs"
	"github.com/couchcryptid/env-context-service/internal/adapter/weathergov"
	"github.com/couchcryptid/env-context-service/internal/config"
	"github.com/couchcryptid/env-context-service/internal/domain"
)

// WaveSource provides modeled wave conditions.
type WaveSource interface {
	Waves(ctx context.Context) (*domain.WaveContext, error)
}

// SeaSurfaceTempSource provides satellite sea surface temperature.
type SeaSurfaceTempSource interface {
	SeaSurfaceTemp(ctx context.Context, date time.Time) (*domain.SeaSurfaceTempContext, error)
}

// OceanColorSource provides satellite chlorophyll concentration.
type OceanColorSource interface {
	OceanColor(ctx context.Context) (*domain.OceanColorContext, error)
}

// HABSource provides the harmful algal bloom status.
type HABSource interface {
	HAB(ctx context.Context, date time.Time) (*domain.HABContext, error)
}

// AirQualitySource provides current air quality. It needs an API key.
type AirQualitySource interface {
	AirQuality(ctx context.Context, apiKey string) (*domain.AirQualityContext, error)
}

// DroughtSource provides county drought status.
type DroughtSource interface {
	Drought(ctx context.Context, date time.Time) (*domain.DroughtContext, error)
}

// SnowSource provides snow depth at the town.
type SnowSource interface {
	SnowCover(ctx context.Context) (*domain.SnowCoverContext, error)
}

// BirdSource provides recent bird sightings. It needs an API key.
type BirdSource interface {
	RecentSightings(ctx context.Context, apiKey string, q ebird.Query) ([]domain.BirdSighting, error)
}

// ForecastSource provides the current coastal forecast.
type ForecastSource interface {
	Forecast(ctx context.Context) (*domain.CoastalForecast, error)
}

// RiverSource provides the latest river gauge reading.
type RiverSource interface {
	River(ctx context.Context) (*domain.RiverConditions, error)
}

// Sources holds one provider per slot. A nil provider is treated as not
// configured.
type Sources struct {
	Waves          WaveSource
	SeaSurfaceTemp SeaSurfaceTempSource
	OceanColor     OceanColorSource
	HAB            HABSource
	AirQuality     AirQualitySource
	Drought        DroughtSource
	Snow           SnowSource

	Birds    BirdSource
	Forecast ForecastSource
	River    RiverSource
}

// NewSources wires the production provider clients from configuration.
func NewSources(cfg *config.Config, logger *slog.Logger) Sources {
	grid := erddap.NewClient(cfg.ERDDAPTimeout, logger.With("provider", "erddap"))
	return Sources{
		Waves:          grid,
		SeaSurfaceTemp: grid,
		OceanColor:     grid,
		HAB:            SeasonalHAB{},
		AirQuality:     airnow.NewClient(cfg.SourceTimeout, logger.With("provider", "airnow")),
		Drought:        usdm.NewClient(cfg.SourceTimeout, logger.With("provider", "usdm")),
		Snow:           nohrsc.NewClient(cfg.SourceTimeout, logger.With("provider", "nohrsc")),

		Birds:    ebird.NewClient(cfg.SourceTimeout, logger.With("provider", "ebird")),
		Forecast: weathergov.NewClient(cfg.WeatherGovUserAgent, cfg.SourceTimeout, logger.With("provider", "weathergov")),
		River:    usgs.NewClient(cfg.SourceTimeout, logger.With("provider", "usgs")),
	}
}

// SeasonalHAB reports the harmful algal bloom status from the seasonal
// calendar. Massachusetts publishes shellfish closures only as web pages, so
// there is no live feed to query.
type SeasonalHAB struct{}

// HAB returns the calendar estimate for date.
func (SeasonalHAB) HAB(_ context.Context, date time.Time) (*domain.HABContext, error) {
	return domain.EstimateHAB(date), nil
}
