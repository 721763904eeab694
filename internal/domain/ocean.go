package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// WaveEnergy is the qualitative sea state derived from significant wave height.
type WaveEnergy string

const (
	WaveCalm     WaveEnergy = "calm"
	WaveLight    WaveEnergy = "light"
	WaveModerate WaveEnergy = "moderate"
	WaveRough    WaveEnergy = "rough"
	WaveHigh     WaveEnergy = "high"
	WaveUnknown  WaveEnergy = "unknown"
)

type waveBand struct {
	energy WaveEnergy
	label  string
}

// Significant wave height in feet.
var waveEnergyBands = newBandTable("wave energy",
	waveBand{WaveUnknown, "Unknown sea state"},
	band[waveBand]{0, 1, waveBand{WaveCalm, "Calm seas"}},
	band[waveBand]{1, 3, waveBand{WaveLight, "Light chop"}},
	band[waveBand]{3, 6, waveBand{WaveModerate, "Moderate swells"}},
	band[waveBand]{6, 10, waveBand{WaveRough, "Rough seas"}},
	band[waveBand]{10, inf, waveBand{WaveHigh, "High seas"}},
)

// ClassifyWaveEnergy buckets a significant wave height in feet.
func ClassifyWaveEnergy(heightFt float64) WaveEnergy {
	return waveEnergyBands.classify(heightFt).energy
}

// WaveContext describes modeled wave conditions offshore of the town.
type WaveContext struct {
	HeightFt         float64  // significant wave height
	PeriodSeconds    *float64 // peak period, nil when the model gave none
	Direction        string   // 16-point compass, "" when unknown
	DirectionDegrees *float64
	Energy           WaveEnergy
	Description      string
}

// NewWaveContext builds a wave record from model output. Height is in meters;
// period and direction are optional.
func NewWaveContext(heightMeters float64, periodSeconds, directionDegrees *float64) *WaveContext {
	ft := MetersToFeet(heightMeters)
	b := waveEnergyBands.classify(ft)

	w := &WaveContext{
		HeightFt: round(ft, 1),
		Energy:   b.energy,
	}
	parts := []string{fmt.Sprintf("%s (%.1f ft)", b.label, ft)}
	if periodSeconds != nil && *periodSeconds > 0 {
		p := round(*periodSeconds, 1)
		w.PeriodSeconds = &p
		parts = append(parts, fmt.Sprintf("%.0fs period", *periodSeconds))
	}
	if directionDegrees != nil {
		d := *directionDegrees
		w.DirectionDegrees = &d
		w.Direction = DegreesToCompass(d)
		if w.Direction != "" {
			parts = append(parts, "from "+w.Direction)
		}
	}
	w.Description = strings.Join(parts, " - ")
	return w
}

// Format renders the wave sub-section, or "" when w is nil.
func (w *WaveContext) Format() string {
	if w == nil {
		return ""
	}
	return subsection("Wave Conditions (NOAA WaveWatch III)", "- "+w.Description)
}

// SSTAnomaly compares a measured sea surface temperature to the monthly normal.
type SSTAnomaly string

const (
	SSTWarmer SSTAnomaly = "warmer"
	SSTCooler SSTAnomaly = "cooler"
	SSTNormal SSTAnomaly = "normal"
)

// sstAnomalyThresholdF is how far from the monthly normal a reading must be to
// count as an anomaly.
const sstAnomalyThresholdF = 3.0

// Typical sea surface temperature for Ipswich Bay by month, °F.
var monthlySSTNormalsF = [13]float64{
	0, // unused
	38, 36, 38, 44, 52, 60,
	66, 68, 64, 56, 48, 42,
}

// MonthlySSTNormal returns the climatological sea surface temperature in °F for
// the month of date.
func MonthlySSTNormal(date time.Time) float64 {
	return monthlySSTNormalsF[date.Month()]
}

// SeaSurfaceTempContext is a satellite sea surface temperature reading.
type SeaSurfaceTempContext struct {
	Fahrenheit  float64
	Celsius     float64
	Anomaly     SSTAnomaly
	Description string
}

// NewSeaSurfaceTemp builds an SST record from a Celsius reading, classifying it
// against the normal for date's month.
func NewSeaSurfaceTemp(celsius float64, date time.Time) *SeaSurfaceTempContext {
	f := CelsiusToFahrenheit(celsius)
	diff := f - MonthlySSTNormal(date)

	anomaly, detail := SSTNormal, "near normal"
	switch {
	case diff > sstAnomalyThresholdF:
		anomaly = SSTWarmer
		detail = fmt.Sprintf("%.1f°F above normal", math.Abs(diff))
	case diff < -sstAnomalyThresholdF:
		anomaly = SSTCooler
		detail = fmt.Sprintf("%.1f°F below normal", math.Abs(diff))
	}

	return &SeaSurfaceTempContext{
		Fahrenheit:  round(f, 1),
		Celsius:     round(celsius, 1),
		Anomaly:     anomaly,
		Description: fmt.Sprintf("Sea surface temperature: %.1f°F (%s)", f, detail),
	}
}

// Format renders the SST sub-section, or "" when s is nil.
func (s *SeaSurfaceTempContext) Format() string {
	if s == nil {
		return ""
	}
	return subsection("Sea Surface Temperature (NOAA MUR SST)", "- "+s.Description)
}

// BloomStatus classifies chlorophyll concentration.
type BloomStatus string

const (
	BloomNormal   BloomStatus = "normal"
	BloomElevated BloomStatus = "elevated"
	BloomActive   BloomStatus = "bloom"
	BloomUnknown  BloomStatus = "unknown"
)

// Chlorophyll-a in mg/m³.
var bloomBands = newBandTable("chlorophyll bloom",
	BloomUnknown,
	band[BloomStatus]{0, 2, BloomNormal},
	band[BloomStatus]{2, 5, BloomElevated},
	band[BloomStatus]{5, inf, BloomActive},
)

// ClassifyBloom buckets a chlorophyll-a concentration in mg/m³.
func ClassifyBloom(chlorophyll float64) BloomStatus {
	return bloomBands.classify(chlorophyll)
}

// OceanColorContext is the chlorophyll concentration near the coast. Estimated
// is set when the value came from the seasonal table instead of a satellite.
type OceanColorContext struct {
	Chlorophyll float64 // mg/m³
	Status      BloomStatus
	Description string
	Estimated   bool
}

// NewOceanColor builds an ocean color record from a measured concentration.
func NewOceanColor(chlorophyll float64) *OceanColorContext {
	status := ClassifyBloom(chlorophyll)
	var desc string
	switch status {
	case BloomNormal:
		desc = fmt.Sprintf("Normal ocean color (chlorophyll: %.2f mg/m³)", chlorophyll)
	case BloomElevated:
		desc = fmt.Sprintf("Elevated chlorophyll (%.2f mg/m³) - increased phytoplankton", chlorophyll)
	case BloomActive:
		desc = fmt.Sprintf("Phytoplankton bloom detected (%.2f mg/m³)", chlorophyll)
	default:
		desc = fmt.Sprintf("Chlorophyll reading out of range (%.2f mg/m³)", chlorophyll)
	}
	return &OceanColorContext{
		Chlorophyll: round(chlorophyll, 2),
		Status:      status,
		Description: desc,
	}
}

type seasonalColor struct {
	chlorophyll float64
	status      BloomStatus
	note        string
}

// Typical Gulf of Maine productivity by season.
var seasonalOceanColor = map[Season]seasonalColor{
	Spring: {3.0, BloomElevated, "Spring bloom season - phytoplankton increasing"},
	Summer: {1.5, BloomNormal, "Summer conditions - moderate productivity"},
	Autumn: {2.5, BloomElevated, "Fall bloom - secondary productivity peak"},
	Winter: {0.8, BloomNormal, "Winter conditions - low productivity"},
}

// EstimateOceanColor returns the seasonal chlorophyll estimate for date.
func EstimateOceanColor(date time.Time) *OceanColorContext {
	e := seasonalOceanColor[SeasonOf(date)]
	return &OceanColorContext{
		Chlorophyll: e.chlorophyll,
		Status:      e.status,
		Description: e.note + " (seasonal estimate)",
		Estimated:   true,
	}
}

// Format renders the ocean color sub-section, or "" when o is nil.
func (o *OceanColorContext) Format() string {
	if o == nil {
		return ""
	}
	return subsection("Ocean Color (NOAA VIIRS)", "- "+o.Description)
}

// HABStatus is the advisory level for harmful algal blooms.
type HABStatus string

const (
	HABNone     HABStatus = "none"
	HABWatch    HABStatus = "watch"
	HABWarning  HABStatus = "warning"
	HABAdvisory HABStatus = "advisory"
	HABClosure  HABStatus = "closure"
)

// HABContext is the harmful algal bloom status for Massachusetts waters.
// Estimated is set when the status comes from the seasonal calendar.
type HABContext struct {
	Status       HABStatus
	Species      string
	AffectedArea string
	Description  string
	Estimated    bool
}

// habSeason holds the months when blooms are typical in Massachusetts waters.
var habSeason = map[time.Month]bool{
	time.July: true, time.August: true, time.September: true, time.October: true,
}

// EstimateHAB returns the seasonal harmful algal bloom status for date. There
// is no machine-readable advisory feed, so the calendar is the only source.
func EstimateHAB(date time.Time) *HABContext {
	if !habSeason[date.Month()] {
		return &HABContext{
			Status:      HABNone,
			Description: "Outside typical HAB season for Massachusetts waters",
			Estimated:   true,
		}
	}
	return &HABContext{
		Status:       HABWatch,
		Species:      "Alexandrium catenella",
		AffectedArea: "Massachusetts Bay",
		Description:  "HAB season active - check MA DMF for current shellfish advisories",
		Estimated:    true,
	}
}

// Format renders the HAB sub-section. A nil record or a "none" status renders
// nothing.
func (h *HABContext) Format() string {
	if h == nil || h.Status == HABNone {
		return ""
	}
	lines := []string{"- Status: " + strings.ToUpper(string(h.Status))}
	if h.Species != "" {
		lines = append(lines, "- Species of concern: "+h.Species)
	}
	lines = append(lines, "- "+h.Description)
	return subsection("Harmful Algal Bloom Status", lines...)
}
