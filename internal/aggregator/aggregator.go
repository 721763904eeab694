// Package aggregator gathers every environmental source concurrently into one
// snapshot, isolating each source's failure to its own slot.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/env-context-service/internal/adapter/ebird"
	"github.com/couchcryptid/env-context-service/internal/domain"
	"github.com/couchcryptid/env-context-service/internal/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Source names used in logs and metric labels.
const (
	SourceWaves          = "waves"
	SourceSeaSurfaceTemp = "sst"
	SourceOceanColor     = "ocean_color"
	SourceHAB            = "hab"
	SourceAirQuality     = "air_quality"
	SourceDrought        = "drought"
	SourceSnow           = "snow"
	SourceBirds          = "birds"
	SourceForecast       = "forecast"
	SourceRiver          = "river"
)

// Bird query used for additional context.
var birdQuery = ebird.Query{DaysBack: 7, MaxResults: 10}

// APIKeys carries the optional provider keys. An empty key disables its source.
type APIKeys struct {
	AirNow string
	EBird  string
}

// Aggregator runs one gather per call. It keeps no state between calls.
type Aggregator struct {
	sources Sources
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Aggregator over the given sources.
func New(sources Sources, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		sources: sources,
		logger:  logger,
		metrics: metrics,
	}
}

type cycleKey struct{}

// WithCycleID tags ctx with a gather cycle ID that appears in the gather logs.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleKey{}, id)
}

// CycleID returns the cycle ID carried by ctx, or "".
func CycleID(ctx context.Context) string {
	id, _ := ctx.Value(cycleKey{}).(string)
	return id
}

// Gather fetches every network source concurrently, then fills the local
// slots. A zero date means today in the town's time zone. Gather never fails:
// a source that errors or panics leaves its slot nil, except ocean color and
// HAB which fall back to their seasonal estimates.
func (a *Aggregator) Gather(ctx context.Context, keys APIKeys, date time.Time) *domain.Snapshot {
	start := time.Now()
	if date.IsZero() {
		date = domain.Today()
	} else {
		date = domain.DateOf(date)
	}
	cycleID := CycleID(ctx)
	if cycleID == "" {
		cycleID = uuid.NewString()
	}
	logger := a.logger.With("cycle_id", cycleID, "date", date.Format(time.DateOnly))

	s := &domain.Snapshot{Date: date}
	src := a.sources

	// Each task stores its own slot and always returns nil so no failure
	// cancels or short-circuits its siblings.
	var g errgroup.Group
	g.Go(func() error {
		s.Waves = fetch(ctx, a, logger, SourceWaves, src.Waves == nil, func(ctx context.Context) (*domain.WaveContext, error) {
			return src.Waves.Waves(ctx)
		})
		return nil
	})
	g.Go(func() error {
		s.SeaSurfaceTemp = fetch(ctx, a, logger, SourceSeaSurfaceTemp, src.SeaSurfaceTemp == nil, func(ctx context.Context) (*domain.SeaSurfaceTempContext, error) {
			return src.SeaSurfaceTemp.SeaSurfaceTemp(ctx, date)
		})
		return nil
	})
	g.Go(func() error {
		s.OceanColor = fetch(ctx, a, logger, SourceOceanColor, src.OceanColor == nil, func(ctx context.Context) (*domain.OceanColorContext, error) {
			return src.OceanColor.OceanColor(ctx)
		})
		return nil
	})
	g.Go(func() error {
		s.HarmfulAlgalBloom = fetch(ctx, a, logger, SourceHAB, src.HAB == nil, func(ctx context.Context) (*domain.HABContext, error) {
			return src.HAB.HAB(ctx, date)
		})
		return nil
	})
	g.Go(func() error {
		s.AirQuality = fetch(ctx, a, logger, SourceAirQuality, src.AirQuality == nil, func(ctx context.Context) (*domain.AirQualityContext, error) {
			return src.AirQuality.AirQuality(ctx, keys.AirNow)
		})
		return nil
	})
	g.Go(func() error {
		s.Drought = fetch(ctx, a, logger, SourceDrought, src.Drought == nil, func(ctx context.Context) (*domain.DroughtContext, error) {
			return src.Drought.Drought(ctx, date)
		})
		return nil
	})
	g.Go(func() error {
		s.SnowCover = fetch(ctx, a, logger, SourceSnow, src.Snow == nil, func(ctx context.Context) (*domain.SnowCoverContext, error) {
			return src.Snow.SnowCover(ctx)
		})
		return nil
	})
	_ = g.Wait()

	if s.OceanColor == nil {
		s.OceanColor = domain.EstimateOceanColor(date)
	}
	if s.HarmfulAlgalBloom == nil {
		s.HarmfulAlgalBloom = domain.EstimateHAB(date)
	}
	s.Smoke = domain.DeriveSmoke(s.AirQuality, date)

	s.Vegetation = domain.EstimateVegetation(date)
	s.CoastalErosion = domain.CoastalErosionStatus()
	s.MeteorShower = domain.MeteorShowerOn(date)
	s.Planets = domain.VisiblePlanetsOn(date)

	hasData := s.HasAnyData()
	a.metrics.GatherDuration.Observe(time.Since(start).Seconds())
	a.metrics.SlotsAvailable.Set(float64(s.Available()))
	if hasData {
		a.metrics.SnapshotHasData.Set(1)
	} else {
		a.metrics.SnapshotHasData.Set(0)
	}

	logger.Info("environmental context gathered",
		"has_data", hasData,
		"available", s.Available(),
		"duration", time.Since(start),
	)
	return s
}

// GatherAdditional fetches bird sightings, the coastal forecast and the river
// gauge concurrently, with the same per-source isolation as Gather.
func (a *Aggregator) GatherAdditional(ctx context.Context, keys APIKeys) *domain.Additional {
	cycleID := CycleID(ctx)
	if cycleID == "" {
		cycleID = uuid.NewString()
	}
	logger := a.logger.With("cycle_id", cycleID)
	src := a.sources

	out := &domain.Additional{}
	var g errgroup.Group
	g.Go(func() error {
		out.Birds = fetch(ctx, a, logger, SourceBirds, src.Birds == nil, func(ctx context.Context) ([]domain.BirdSighting, error) {
			return src.Birds.RecentSightings(ctx, keys.EBird, birdQuery)
		})
		return nil
	})
	g.Go(func() error {
		out.Forecast = fetch(ctx, a, logger, SourceForecast, src.Forecast == nil, func(ctx context.Context) (*domain.CoastalForecast, error) {
			return src.Forecast.Forecast(ctx)
		})
		return nil
	})
	g.Go(func() error {
		out.River = fetch(ctx, a, logger, SourceRiver, src.River == nil, func(ctx context.Context) (*domain.RiverConditions, error) {
			return src.River.River(ctx)
		})
		return nil
	})
	_ = g.Wait()

	logger.Info("additional context gathered",
		"birds", len(out.Birds),
		"forecast", out.Forecast != nil,
		"river", out.River != nil,
	)
	return out
}

// fetch runs one source call and converts its outcome into a slot value.
// Errors and panics yield the zero value; missing configuration is not an
// error worth more than a debug line.
func fetch[T any](ctx context.Context, a *Aggregator, logger *slog.Logger, source string, missing bool, fn func(context.Context) (T, error)) (out T) {
	start := time.Now()
	outcome := observability.OutcomeSuccess

	defer func() {
		if r := recover(); r != nil {
			var zero T
			out = zero
			outcome = observability.OutcomePanic
			logger.Error("source panicked", "source", source, "error", fmt.Sprint(r), "duration", time.Since(start))
		}
		a.metrics.SourceFetches.WithLabelValues(source, outcome).Inc()
		a.metrics.SourceFetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}()

	if missing {
		outcome = observability.OutcomeNotConfigured
		logger.Debug("source not wired", "source", source)
		return out
	}

	v, err := fn(ctx)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		outcome = observability.OutcomeNotConfigured
		logger.Debug("source skipped", "source", source, "error", err)
		return out
	case err != nil:
		outcome = observability.OutcomeError
		logger.Warn("source fetch failed", "source", source, "error", err, "duration", time.Since(start))
		return out
	}

	logger.Debug("source fetched", "source", source, "duration", time.Since(start))
	return v
}
