// Package schema defines the JSON wire format for environmental snapshots as
// served by the API and published to Kafka.
package schema

import (
	"math"
	"time"

	"github.com/couchcryptid/env-context-service/internal/domain"
)

// DateLayout is the wire format for snapshot dates.
const DateLayout = "2006-01-02"

// EnvironmentResponse is the wire form of a domain.Snapshot. Unavailable slots
// are omitted.
type EnvironmentResponse struct {
	Date    string `json:"date"`
	HasData bool   `json:"has_data"`

	Waves      *Waves          `json:"waves,omitempty"`
	SST        *SeaSurfaceTemp `json:"sst,omitempty"`
	OceanColor *OceanColor     `json:"ocean_color,omitempty"`
	HAB        *HAB            `json:"hab,omitempty"`

	AirQuality *AirQuality `json:"air_quality,omitempty"`
	Smoke      *Smoke      `json:"smoke,omitempty"`

	Vegetation     *Vegetation     `json:"vegetation,omitempty"`
	Snow           *SnowCover      `json:"snow,omitempty"`
	Drought        *Drought        `json:"drought,omitempty"`
	CoastalErosion *CoastalErosion `json:"coastal_erosion,omitempty"`

	Planets      *Planets      `json:"planets,omitempty"`
	MeteorShower *MeteorShower `json:"meteor_shower,omitempty"`
}

type Waves struct {
	SignificantHeightFt float64  `json:"significant_height_ft"`
	PeakPeriodSeconds   *float64 `json:"peak_period_seconds,omitempty"`
	Direction           string   `json:"direction,omitempty"`
	DirectionDegrees    *float64 `json:"direction_degrees,omitempty"`
	EnergyDescription   string   `json:"energy_description"`
	Description         string   `json:"description"`
}

type SeaSurfaceTemp struct {
	TempFahrenheit float64 `json:"temp_fahrenheit"`
	TempCelsius    float64 `json:"temp_celsius"`
	Anomaly        string  `json:"anomaly"`
	Description    string  `json:"description"`
}

type OceanColor struct {
	ChlorophyllMgM3 float64 `json:"chlorophyll_mg_m3"`
	BloomStatus     string  `json:"bloom_status"`
	Description     string  `json:"description"`
	Estimated       bool    `json:"estimated"`
}

type HAB struct {
	Status       string `json:"status"`
	Species      string `json:"species,omitempty"`
	AffectedArea string `json:"affected_area,omitempty"`
	Description  string `json:"description"`
	Estimated    bool   `json:"estimated"`
}

type AirQuality struct {
	PM25AQI          *int     `json:"pm25_aqi,omitempty"`
	PM25Conc         *float64 `json:"pm25_concentration,omitempty"`
	OzoneAQI         *int     `json:"ozone_aqi,omitempty"`
	OverallAQI       int      `json:"overall_aqi"`
	Category         string   `json:"category"`
	CategoryColor    string   `json:"category_color"`
	HealthMessage    string   `json:"health_message,omitempty"`
	PrimaryPollutant string   `json:"primary_pollutant,omitempty"`
	Description      string   `json:"description"`
}

type Smoke struct {
	Present         bool   `json:"present"`
	Intensity       string `json:"intensity"`
	SourceDirection string `json:"source_direction,omitempty"`
	Description     string `json:"description"`
}

type Vegetation struct {
	NDVIValue    float64 `json:"ndvi_value"`
	Status       string  `json:"status"`
	SeasonalNote string  `json:"seasonal_note,omitempty"`
}

type SnowCover struct {
	DepthInches           *float64 `json:"depth_inches,omitempty"`
	WaterEquivalentInches *float64 `json:"water_equivalent_inches,omitempty"`
	Coverage              string   `json:"coverage"`
	Description           string   `json:"description"`
}

type Drought struct {
	Severity            string   `json:"severity"`
	SeverityName        string   `json:"severity_name"`
	PercentAreaAffected *float64 `json:"percent_area_affected,omitempty"`
	Description         string   `json:"description"`
}

type CoastalErosion struct {
	Status        string   `json:"status"`
	HighRiskAreas []string `json:"high_risk_areas"`
	RecentChanges string   `json:"recent_changes,omitempty"`
}

type Planets struct {
	VisiblePlanets []string `json:"visible_planets"`
	EveningPlanets []string `json:"evening_planets"`
	MorningPlanets []string `json:"morning_planets"`
	NotableEvents  string   `json:"notable_events,omitempty"`
}

type MeteorShower struct {
	ActiveShower string `json:"active_shower,omitempty"`
	PeakTonight  bool   `json:"peak_tonight"`
	ExpectedRate string `json:"expected_rate,omitempty"`
	Radiant      string `json:"radiant,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ToResponse converts a snapshot to its wire form. A nil snapshot converts to
// an empty response.
func ToResponse(s *domain.Snapshot) EnvironmentResponse {
	if s == nil {
		return EnvironmentResponse{}
	}
	r := EnvironmentResponse{
		HasData: s.HasAnyData(),
	}
	if !s.Date.IsZero() {
		r.Date = s.Date.Format(DateLayout)
	}

	if w := s.Waves; w != nil {
		r.Waves = &Waves{
			SignificantHeightFt: w.HeightFt,
			PeakPeriodSeconds:   w.PeriodSeconds,
			Direction:           w.Direction,
			DirectionDegrees:    w.DirectionDegrees,
			EnergyDescription:   string(w.Energy),
			Description:         w.Description,
		}
	}
	if t := s.SeaSurfaceTemp; t != nil {
		r.SST = &SeaSurfaceTemp{
			TempFahrenheit: t.Fahrenheit,
			TempCelsius:    t.Celsius,
			Anomaly:        string(t.Anomaly),
			Description:    t.Description,
		}
	}
	if o := s.OceanColor; o != nil {
		r.OceanColor = &OceanColor{
			ChlorophyllMgM3: o.Chlorophyll,
			BloomStatus:     string(o.Status),
			Description:     o.Description,
			Estimated:       o.Estimated,
		}
	}
	if h := s.HarmfulAlgalBloom; h != nil {
		r.HAB = &HAB{
			Status:       string(h.Status),
			Species:      h.Species,
			AffectedArea: h.AffectedArea,
			Description:  h.Description,
			Estimated:    h.Estimated,
		}
	}
	if a := s.AirQuality; a != nil {
		r.AirQuality = &AirQuality{
			PM25AQI:          a.PM25AQI,
			PM25Conc:         a.PM25Concentration,
			OzoneAQI:         a.OzoneAQI,
			OverallAQI:       a.OverallAQI,
			Category:         a.Category.Name,
			CategoryColor:    a.Category.Color,
			HealthMessage:    a.Category.HealthMessage,
			PrimaryPollutant: a.PrimaryPollutant,
			Description:      a.Description,
		}
	}
	if sm := s.Smoke; sm != nil {
		r.Smoke = &Smoke{
			Present:         sm.Present,
			Intensity:       string(sm.Intensity),
			SourceDirection: sm.SourceDirection,
			Description:     sm.Description,
		}
	}
	if v := s.Vegetation; v != nil {
		r.Vegetation = &Vegetation{
			NDVIValue:    v.NDVI,
			Status:       string(v.Status),
			SeasonalNote: v.SeasonalNote,
		}
	}
	if sc := s.SnowCover; sc != nil {
		r.Snow = &SnowCover{
			DepthInches:           roundPtr(sc.DepthInches),
			WaterEquivalentInches: roundPtr(sc.WaterEquivalentInches),
			Coverage:              string(sc.Coverage),
			Description:           sc.Description,
		}
	}
	if d := s.Drought; d != nil {
		r.Drought = &Drought{
			Severity:     string(d.Severity),
			SeverityName: d.SeverityName,
			Description:  d.Description,
		}
		if d.Severity != domain.DroughtNone {
			pct := d.PercentAffected
			r.Drought.PercentAreaAffected = &pct
		}
	}
	if c := s.CoastalErosion; c != nil {
		r.CoastalErosion = &CoastalErosion{
			Status:        string(c.Status),
			HighRiskAreas: nonNil(c.HighRiskAreas),
			RecentChanges: c.RecentChanges,
		}
	}
	if p := s.Planets; p != nil {
		r.Planets = &Planets{
			VisiblePlanets: nonNil(p.Visible),
			EveningPlanets: nonNil(p.Evening),
			MorningPlanets: nonNil(p.Morning),
			NotableEvents:  p.NotableEvent,
		}
	}
	if m := s.MeteorShower; m != nil {
		r.MeteorShower = &MeteorShower{
			ActiveShower: m.ActiveShower,
			PeakTonight:  m.PeakTonight,
			ExpectedRate: m.ExpectedRate,
			Radiant:      m.Radiant,
			Notes:        m.Notes,
		}
	}
	return r
}

// AdditionalResponse is the wire form of domain.Additional plus its prose.
type AdditionalResponse struct {
	BirdSightings   []BirdSighting   `json:"bird_sightings"`
	CoastalForecast *CoastalForecast `json:"coastal_forecast,omitempty"`
	River           *River           `json:"river,omitempty"`
	Text            string           `json:"text"`
}

type BirdSighting struct {
	CommonName     string `json:"common_name"`
	ScientificName string `json:"species_name,omitempty"`
	Location       string `json:"location_name"`
	ObservedAt     string `json:"observation_date,omitempty"`
	Count          *int   `json:"count,omitempty"`
	Notable        bool   `json:"is_notable"`
}

type CoastalForecast struct {
	Zone          string   `json:"zone"`
	ForecastTime  string   `json:"forecast_time"`
	Conditions    string   `json:"conditions"`
	Wind          string   `json:"wind,omitempty"`
	ActiveHazards []string `json:"active_hazards"`
}

type River struct {
	Gauge        string   `json:"gauge"`
	FlowCFS      *float64 `json:"flow_cfs,omitempty"`
	WaterLevelFt *float64 `json:"water_level_ft,omitempty"`
	Status       string   `json:"status"`
}

// ToAdditionalResponse converts additional context to its wire form.
func ToAdditionalResponse(a *domain.Additional) AdditionalResponse {
	r := AdditionalResponse{BirdSightings: []BirdSighting{}}
	if a == nil {
		return r
	}
	for _, b := range a.Birds {
		r.BirdSightings = append(r.BirdSightings, BirdSighting{
			CommonName:     b.CommonName,
			ScientificName: b.ScientificName,
			Location:       b.Location,
			ObservedAt:     b.ObservedAt,
			Count:          b.Count,
			Notable:        b.Notable,
		})
	}
	if f := a.Forecast; f != nil {
		r.CoastalForecast = &CoastalForecast{
			Zone:          f.Zone,
			ForecastTime:  f.PeriodName,
			Conditions:    f.Conditions,
			Wind:          f.Wind,
			ActiveHazards: nonNil(f.Hazards),
		}
	}
	if rv := a.River; rv != nil {
		r.River = &River{
			Gauge:        rv.Gauge,
			FlowCFS:      rv.FlowCFS,
			WaterLevelFt: rv.WaterLevelFt,
			Status:       string(rv.Status),
		}
	}
	r.Text = domain.FormatAdditional(a)
	return r
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// roundPtr rounds unit-converted values to two places for the wire.
func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

// SnapshotEvent is the message value published to the snapshot topic. Text
// carries the rendered context block so consumers need not re-render it.
type SnapshotEvent struct {
	CycleID     string              `json:"cycle_id"`
	GatheredAt  time.Time           `json:"gathered_at"`
	Environment EnvironmentResponse `json:"environment"`
	Text        string              `json:"text"`
}

// ToSnapshotEvent wraps a snapshot for publication.
func ToSnapshotEvent(cycleID string, gatheredAt time.Time, s *domain.Snapshot) SnapshotEvent {
	return SnapshotEvent{
		CycleID:     cycleID,
		GatheredAt:  gatheredAt.UTC(),
		Environment: ToResponse(s),
		Text:        domain.FormatSnapshot(s),
	}
}
