package domain

import (
	"fmt"
	"strings"
	"time"
)

// AQICategory is an EPA Air Quality Index category with its display color and
// health message.
type AQICategory struct {
	Name          string
	Color         string
	HealthMessage string
}

// AQIUnknown is returned for values outside the 0-500 scale.
var AQIUnknown = AQICategory{"Unknown", "gray", "AQI data unavailable"}

// EPA breakpoints. AQI values are integers, so [51, 101) is the 51-100 band.
var aqiBands = newBandTable("aqi",
	AQIUnknown,
	band[AQICategory]{0, 51, AQICategory{"Good", "green", "Air quality is satisfactory"}},
	band[AQICategory]{51, 101, AQICategory{"Moderate", "yellow", "Acceptable; moderate health concern for sensitive groups"}},
	band[AQICategory]{101, 151, AQICategory{"Unhealthy for Sensitive Groups", "orange", "Sensitive groups may experience health effects"}},
	band[AQICategory]{151, 201, AQICategory{"Unhealthy", "red", "Everyone may begin to experience health effects"}},
	band[AQICategory]{201, 301, AQICategory{"Very Unhealthy", "purple", "Health alert: significant risk for all"}},
	band[AQICategory]{301, 501, AQICategory{"Hazardous", "maroon", "Health warning: emergency conditions"}},
)

// CategorizeAQI maps an AQI value onto its EPA category.
func CategorizeAQI(aqi int) AQICategory {
	return aqiBands.classify(float64(aqi))
}

// Pollutant names used for the primary pollutant.
const (
	PollutantPM25  = "PM2.5"
	PollutantOzone = "Ozone"
)

// AirQualityReading is one pollutant observation as reported by the provider.
type AirQualityReading struct {
	Pollutant     string // PollutantPM25 or PollutantOzone
	AQI           int
	Concentration *float64
}

// AirQualityContext summarizes current air quality. Pointer fields are nil
// when that pollutant was not reported.
type AirQualityContext struct {
	PM25AQI           *int
	PM25Concentration *float64 // µg/m³
	OzoneAQI          *int
	OverallAQI        int
	Category          AQICategory
	PrimaryPollutant  string
	Description       string
}

// NewAirQuality combines pollutant readings into one record. The overall AQI is
// the highest pollutant AQI. Returns ErrNoData when no reading carries a
// positive AQI.
func NewAirQuality(readings []AirQualityReading) (*AirQualityContext, error) {
	aq := &AirQualityContext{}
	for _, r := range readings {
		aqi := r.AQI
		switch r.Pollutant {
		case PollutantPM25:
			aq.PM25AQI = &aqi
			aq.PM25Concentration = r.Concentration
		case PollutantOzone:
			aq.OzoneAQI = &aqi
		default:
			continue
		}
		if aqi > aq.OverallAQI {
			aq.OverallAQI = aqi
			aq.PrimaryPollutant = r.Pollutant
		}
	}
	if aq.OverallAQI == 0 {
		return nil, ErrNoData
	}

	aq.Category = CategorizeAQI(aq.OverallAQI)
	parts := []string{fmt.Sprintf("AQI: %d (%s)", aq.OverallAQI, aq.Category.Name)}
	if aq.PM25AQI != nil && *aq.PM25AQI > 0 {
		parts = append(parts, fmt.Sprintf("PM2.5: %d", *aq.PM25AQI))
	}
	if aq.OzoneAQI != nil && *aq.OzoneAQI > 0 {
		parts = append(parts, fmt.Sprintf("Ozone: %d", *aq.OzoneAQI))
	}
	aq.Description = strings.Join(parts, " | ")
	return aq, nil
}

// Format renders the air quality sub-section, or "" when a is nil.
func (a *AirQualityContext) Format() string {
	if a == nil {
		return ""
	}
	lines := []string{"- " + a.Description}
	if a.Category.HealthMessage != "" {
		lines = append(lines, "- "+a.Category.HealthMessage)
	}
	return subsection("Air Quality (EPA AirNow)", lines...)
}

// SmokeIntensity grades likely wildfire smoke.
type SmokeIntensity string

const (
	SmokeNone     SmokeIntensity = "none"
	SmokeModerate SmokeIntensity = "moderate"
	SmokeHeavy    SmokeIntensity = "heavy"
)

// smokeBands grades fire-season PM2.5 AQI. AQI is an integer, so "> 100"
// starts at 101.
var smokeBands = newBandTable("smoke intensity",
	SmokeNone,
	band[SmokeIntensity]{0, 101, SmokeNone},
	band[SmokeIntensity]{101, 151, SmokeModerate},
	band[SmokeIntensity]{151, inf, SmokeHeavy},
)

// fireSeason holds the months when wildfire smoke typically reaches New England.
var fireSeason = map[time.Month]bool{
	time.June: true, time.July: true, time.August: true, time.September: true, time.October: true,
}

// SmokeContext reports wildfire smoke inferred from particulate levels.
type SmokeContext struct {
	Present         bool
	Intensity       SmokeIntensity
	SourceDirection string
	Description     string
}

// DeriveSmoke infers wildfire smoke from an air quality record. Elevated PM2.5
// during fire season reads as smoke; outside it the reading is noted as
// unrelated. A nil air quality record, or one without a PM2.5 value, yields nil
// since nothing can be said.
func DeriveSmoke(aq *AirQualityContext, date time.Time) *SmokeContext {
	if aq == nil || aq.PM25AQI == nil {
		return nil
	}
	pm := *aq.PM25AQI
	intensity := smokeBands.classify(float64(pm))

	switch {
	case intensity == SmokeNone:
		return &SmokeContext{Intensity: SmokeNone, Description: "No smoke detected"}
	case !fireSeason[date.Month()]:
		return &SmokeContext{
			Intensity:   SmokeNone,
			Description: fmt.Sprintf("Elevated PM2.5 (%d AQI) - likely not smoke-related", pm),
		}
	case intensity == SmokeHeavy:
		return &SmokeContext{
			Present:     true,
			Intensity:   SmokeHeavy,
			Description: fmt.Sprintf("Elevated PM2.5 (%d AQI) - possible wildfire smoke", pm),
		}
	default:
		return &SmokeContext{
			Present:     true,
			Intensity:   intensity,
			Description: fmt.Sprintf("Elevated PM2.5 (%d AQI) - possible smoke influence", pm),
		}
	}
}

// Format renders the smoke sub-section. Only present smoke is rendered.
func (s *SmokeContext) Format() string {
	if s == nil || !s.Present {
		return ""
	}
	lines := []string{
		"- Intensity: " + string(s.Intensity),
		"- " + s.Description,
	}
	if s.SourceDirection != "" {
		lines = append(lines, "- Source direction: "+s.SourceDirection)
	}
	return subsection("Wildfire Smoke", lines...)
}
