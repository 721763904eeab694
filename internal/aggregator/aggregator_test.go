package aggregator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/env-context-service/internal/adapter/ebird"
	"github.com/couchcryptid/env-context-service/internal/domain"
	"github.com/couchcryptid/env-context-service/internal/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("connection refused")

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeSources implements every source interface. Each call consults the
// matching field; a nil field fails with errUpstream. panicOn names a source
// that panics instead.
type fakeSources struct {
	waves    *domain.WaveContext
	sst      *domain.SeaSurfaceTempContext
	color    *domain.OceanColorContext
	hab      *domain.HABContext
	air      *domain.AirQualityContext
	drought  *domain.DroughtContext
	snow     *domain.SnowCoverContext
	birds    []domain.BirdSighting
	forecast *domain.CoastalForecast
	river    *domain.RiverConditions

	panicOn string
	airKey  string
	calls   sync.Map // source -> *atomic.Int32

	// barrier, when set, blocks each network fetch until all of them have
	// started.
	barrier *barrier
}

func (f *fakeSources) enter(source string) {
	n, _ := f.calls.LoadOrStore(source, new(atomic.Int32))
	n.(*atomic.Int32).Add(1)
	if f.barrier != nil {
		f.barrier.wait()
	}
	if f.panicOn == source {
		panic("boom in " + source)
	}
}

func (f *fakeSources) callCount(source string) int {
	n, ok := f.calls.Load(source)
	if !ok {
		return 0
	}
	return int(n.(*atomic.Int32).Load())
}

func result[T any](v *T) (*T, error) {
	if v == nil {
		return nil, errUpstream
	}
	return v, nil
}

func (f *fakeSources) Waves(context.Context) (*domain.WaveContext, error) {
	f.enter(SourceWaves)
	return result(f.waves)
}

func (f *fakeSources) SeaSurfaceTemp(context.Context, time.Time) (*domain.SeaSurfaceTempContext, error) {
	f.enter(SourceSeaSurfaceTemp)
	return result(f.sst)
}

func (f *fakeSources) OceanColor(context.Context) (*domain.OceanColorContext, error) {
	f.enter(SourceOceanColor)
	return result(f.color)
}

func (f *fakeSources) HAB(context.Context, time.Time) (*domain.HABContext, error) {
	f.enter(SourceHAB)
	return result(f.hab)
}

func (f *fakeSources) AirQuality(_ context.Context, apiKey string) (*domain.AirQualityContext, error) {
	f.enter(SourceAirQuality)
	f.airKey = apiKey
	if apiKey == "" {
		return nil, domain.ErrNotConfigured
	}
	return result(f.air)
}

func (f *fakeSources) Drought(context.Context, time.Time) (*domain.DroughtContext, error) {
	f.enter(SourceDrought)
	return result(f.drought)
}

func (f *fakeSources) SnowCover(context.Context) (*domain.SnowCoverContext, error) {
	f.enter(SourceSnow)
	return result(f.snow)
}

func (f *fakeSources) RecentSightings(_ context.Context, apiKey string, _ ebird.Query) ([]domain.BirdSighting, error) {
	f.enter(SourceBirds)
	if apiKey == "" {
		return nil, domain.ErrNotConfigured
	}
	if f.birds == nil {
		return nil, errUpstream
	}
	return f.birds, nil
}

func (f *fakeSources) Forecast(context.Context) (*domain.CoastalForecast, error) {
	f.enter(SourceForecast)
	return result(f.forecast)
}

func (f *fakeSources) River(context.Context) (*domain.RiverConditions, error) {
	f.enter(SourceRiver)
	return result(f.river)
}

func (f *fakeSources) sources() Sources {
	return Sources{
		Waves: f, SeaSurfaceTemp: f, OceanColor: f, HAB: f, AirQuality: f, Drought: f, Snow: f,
		Birds: f, Forecast: f, River: f,
	}
}

// barrier releases every waiter once n have arrived, or after a timeout so a
// sequential implementation fails the test instead of hanging it.
type barrier struct {
	n       int32
	arrived atomic.Int32
	release chan struct{}
	once    sync.Once
}

func newBarrier(n int) *barrier {
	return &barrier{n: int32(n), release: make(chan struct{})}
}

func (b *barrier) wait() {
	if b.arrived.Add(1) == b.n {
		b.once.Do(func() { close(b.release) })
	}
	select {
	case <-b.release:
	case <-time.After(2 * time.Second):
	}
}

func testAggregator(f *fakeSources) (*Aggregator, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(f.sources(), logger, m), m
}

func offline(date time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		Date:              date,
		OceanColor:        domain.EstimateOceanColor(date),
		HarmfulAlgalBloom: domain.EstimateHAB(date),
		Vegetation:        domain.EstimateVegetation(date),
		CoastalErosion:    domain.CoastalErosionStatus(),
		Planets:           domain.VisiblePlanetsOn(date),
		MeteorShower:      domain.MeteorShowerOn(date),
	}
}

func TestGather_AllSourcesFailing(t *testing.T) {
	date := day(2025, time.May, 1)
	agg, m := testAggregator(&fakeSources{})

	s := agg.Gather(context.Background(), APIKeys{}, date)

	if diff := cmp.Diff(offline(date), s); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, s.HasAnyData())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SnapshotHasData))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues(SourceAirQuality, observability.OutcomeNotConfigured)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues(SourceWaves, observability.OutcomeError)))
}

func TestGather_OnlyAirQuality(t *testing.T) {
	date := day(2025, time.May, 1)
	aq, err := domain.NewAirQuality([]domain.AirQualityReading{{Pollutant: domain.PollutantPM25, AQI: 42}})
	require.NoError(t, err)

	f := &fakeSources{air: aq}
	agg, m := testAggregator(f)
	s := agg.Gather(context.Background(), APIKeys{AirNow: "key"}, date)

	want := offline(date)
	want.AirQuality = aq
	want.Smoke = domain.DeriveSmoke(aq, date)
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "key", f.airKey)
	assert.Equal(t, 42, s.AirQuality.OverallAQI)
	assert.False(t, s.Smoke.Present)
	assert.True(t, s.HasAnyData())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotHasData))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues(SourceAirQuality, observability.OutcomeSuccess)))
}

func TestGather_PanicIsIsolated(t *testing.T) {
	date := day(2025, time.August, 1)
	aq, err := domain.NewAirQuality([]domain.AirQualityReading{{Pollutant: domain.PollutantOzone, AQI: 60}})
	require.NoError(t, err)

	f := &fakeSources{
		waves:   domain.NewWaveContext(0.8, ptr(7.0), ptr(90.0)),
		sst:     domain.NewSeaSurfaceTemp(20, date),
		color:   domain.NewOceanColor(1.2),
		hab:     domain.EstimateHAB(date),
		air:     aq,
		drought: domain.NewDrought(map[domain.DroughtSeverity]float64{domain.DroughtD0: 40}),
		snow:    domain.NewSnowCover(nil, nil),
		panicOn: SourceSeaSurfaceTemp,
	}
	agg, m := testAggregator(f)

	var s *domain.Snapshot
	require.NotPanics(t, func() {
		s = agg.Gather(context.Background(), APIKeys{AirNow: "key"}, date)
	})

	assert.Nil(t, s.SeaSurfaceTemp)
	assert.Equal(t, f.waves, s.Waves)
	assert.Equal(t, f.color, s.OceanColor)
	assert.Equal(t, f.hab, s.HarmfulAlgalBloom)
	assert.Equal(t, f.air, s.AirQuality)
	assert.Equal(t, f.drought, s.Drought)
	assert.Equal(t, f.snow, s.SnowCover)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues(SourceSeaSurfaceTemp, observability.OutcomePanic)))
}

func TestGather_FetchesConcurrently(t *testing.T) {
	f := &fakeSources{
		waves:   domain.NewWaveContext(1, nil, nil),
		barrier: newBarrier(7),
	}
	agg, _ := testAggregator(f)

	start := time.Now()
	s := agg.Gather(context.Background(), APIKeys{AirNow: "key"}, day(2025, time.March, 1))

	assert.Less(t, time.Since(start), time.Second, "all seven fetches were in flight together")
	assert.NotNil(t, s.Waves)
	for _, src := range []string{SourceWaves, SourceSeaSurfaceTemp, SourceOceanColor, SourceHAB, SourceAirQuality, SourceDrought, SourceSnow} {
		assert.Equal(t, 1, f.callCount(src), src)
	}
}

func TestGather_Geminids(t *testing.T) {
	agg, _ := testAggregator(&fakeSources{})
	s := agg.Gather(context.Background(), APIKeys{}, time.Date(2025, time.December, 13, 21, 0, 0, 0, time.UTC))

	assert.Equal(t, day(2025, time.December, 13), s.Date)
	assert.Equal(t, "Geminids", s.MeteorShower.ActiveShower)
	assert.True(t, s.MeteorShower.PeakTonight)
}

func TestGather_SmokeFromJulyPM25(t *testing.T) {
	aq, err := domain.NewAirQuality([]domain.AirQualityReading{{Pollutant: domain.PollutantPM25, AQI: 120}})
	require.NoError(t, err)

	f := &fakeSources{air: aq}
	agg, _ := testAggregator(f)
	s := agg.Gather(context.Background(), APIKeys{AirNow: "key"}, day(2025, time.July, 15))

	require.NotNil(t, s.Smoke)
	assert.True(t, s.Smoke.Present)
	assert.Contains(t, []domain.SmokeIntensity{domain.SmokeModerate, domain.SmokeHeavy}, s.Smoke.Intensity)
	assert.Equal(t, 1, f.callCount(SourceAirQuality), "smoke reuses the air quality result")
}

func TestGather_LiveOceanColorIsKept(t *testing.T) {
	f := &fakeSources{color: domain.NewOceanColor(6.5)}
	agg, _ := testAggregator(f)
	s := agg.Gather(context.Background(), APIKeys{}, day(2025, time.June, 1))

	assert.False(t, s.OceanColor.Estimated)
	assert.Equal(t, domain.BloomActive, s.OceanColor.Status)
	assert.True(t, s.HasAnyData())
}

func TestGather_DefaultsToToday(t *testing.T) {
	t.Cleanup(func() { domain.SetClock(nil) })
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.December, 14, 3, 0, 0, 0, time.UTC)))

	agg, _ := testAggregator(&fakeSources{})
	s := agg.Gather(context.Background(), APIKeys{}, time.Time{})

	assert.Equal(t, day(2025, time.December, 13), s.Date)
}

func TestGather_NilSourcesAreNotConfigured(t *testing.T) {
	m := observability.NewMetricsForTesting()
	agg := New(Sources{}, slog.New(slog.NewTextHandler(io.Discard, nil)), m)

	s := agg.Gather(context.Background(), APIKeys{}, day(2025, time.January, 10))

	assert.Nil(t, s.Waves)
	assert.NotNil(t, s.OceanColor)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues(SourceSnow, observability.OutcomeNotConfigured)))
}

func TestGatherAdditional(t *testing.T) {
	t.Run("all available", func(t *testing.T) {
		f := &fakeSources{
			birds:    []domain.BirdSighting{{CommonName: "Snowy Owl", Location: "Plum Island"}},
			forecast: &domain.CoastalForecast{PeriodName: "Tonight", Conditions: "Clear."},
			river:    domain.NewRiverConditions(ptr(60.0), nil),
		}
		agg, _ := testAggregator(f)
		a := agg.GatherAdditional(context.Background(), APIKeys{EBird: "key"})

		assert.Len(t, a.Birds, 1)
		assert.Equal(t, "Tonight", a.Forecast.PeriodName)
		assert.Equal(t, domain.RiverNormal, a.River.Status)
	})

	t.Run("birds without key, river panics", func(t *testing.T) {
		f := &fakeSources{
			forecast: &domain.CoastalForecast{PeriodName: "Today"},
			panicOn:  SourceRiver,
		}
		agg, m := testAggregator(f)
		a := agg.GatherAdditional(context.Background(), APIKeys{})

		assert.Empty(t, a.Birds)
		assert.NotNil(t, a.Forecast)
		assert.Nil(t, a.River)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues(SourceBirds, observability.OutcomeNotConfigured)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues(SourceRiver, observability.OutcomePanic)))
	})
}

func TestCycleID(t *testing.T) {
	assert.Empty(t, CycleID(context.Background()))
	assert.Equal(t, "abc", CycleID(WithCycleID(context.Background(), "abc")))
}
