package domain

import (
	"fmt"
	"strings"
)

// BirdSighting is one recent observation reported to eBird.
type BirdSighting struct {
	ScientificName string
	CommonName     string
	Location       string
	ObservedAt     string // provider local time, "2006-01-02 15:04" or date only
	Count          *int
	Notable        bool
}

// maxSightingsShown caps the bird list rendered into prose.
const maxSightingsShown = 5

// FormatBirdSightings renders recent sightings, or "" when there are none.
func FormatBirdSightings(sightings []BirdSighting) string {
	if len(sightings) == 0 {
		return ""
	}
	lines := make([]string, 0, min(len(sightings), maxSightingsShown))
	for _, s := range sightings[:min(len(sightings), maxSightingsShown)] {
		var b strings.Builder
		b.WriteString("- " + s.CommonName)
		if s.Count != nil && *s.Count > 0 {
			fmt.Fprintf(&b, " (%d seen)", *s.Count)
		}
		b.WriteString(" at " + s.Location)
		if s.Notable {
			b.WriteString(" [Notable!]")
		}
		lines = append(lines, b.String())
	}
	return subsection("Recent Bird Sightings (from eBird)", lines...)
}

// CoastalForecast is the current NWS forecast period for the town plus any
// active alerts at its location.
type CoastalForecast struct {
	Zone       string
	PeriodName string
	Conditions string
	Wind       string
	Hazards    []string
}

// maxForecastChars bounds the forecast text rendered into prose.
const maxForecastChars = 200

// Format renders the coastal forecast sub-section, or "" when f is nil.
func (f *CoastalForecast) Format() string {
	if f == nil {
		return ""
	}
	lines := []string{fmt.Sprintf("- %s: %s", f.PeriodName, truncate(f.Conditions, maxForecastChars))}
	if f.Wind != "" {
		lines = append(lines, "- Wind: "+f.Wind)
	}
	if len(f.Hazards) > 0 {
		lines = append(lines, "- Active alerts: "+strings.Join(f.Hazards, ", "))
	}
	return subsection("Coastal Conditions (from NOAA)", lines...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// RiverStatus grades river discharge.
type RiverStatus string

const (
	RiverVeryLow RiverStatus = "very low"
	RiverLow     RiverStatus = "low"
	RiverNormal  RiverStatus = "normal"
	RiverHigh    RiverStatus = "high"
	RiverFlood   RiverStatus = "flood stage"
	RiverUnknown RiverStatus = "unknown"
)

// Discharge in cubic feet per second at the South Middleton gauge.
var riverFlowBands = newBandTable("river flow",
	RiverUnknown,
	band[RiverStatus]{0, 10, RiverVeryLow},
	band[RiverStatus]{10, 50, RiverLow},
	band[RiverStatus]{50, 150, RiverNormal},
	band[RiverStatus]{150, 500, RiverHigh},
	band[RiverStatus]{500, inf, RiverFlood},
)

// ClassifyRiverFlow buckets a discharge in cubic feet per second.
func ClassifyRiverFlow(cfs float64) RiverStatus {
	return riverFlowBands.classify(cfs)
}

// RiverConditions is the latest reading from the river gauge.
type RiverConditions struct {
	Gauge        string
	FlowCFS      *float64
	WaterLevelFt *float64
	Status       RiverStatus
}

// NewRiverConditions builds a river record from the latest discharge and gauge
// height. Status is unknown when discharge is missing.
func NewRiverConditions(flowCFS, levelFt *float64) *RiverConditions {
	r := &RiverConditions{
		Gauge:        RiverGaugeName,
		FlowCFS:      flowCFS,
		WaterLevelFt: levelFt,
		Status:       RiverUnknown,
	}
	if flowCFS != nil {
		r.Status = ClassifyRiverFlow(*flowCFS)
	}
	return r
}

// Format renders the river sub-section. Without a flow reading there is
// nothing to say.
func (r *RiverConditions) Format() string {
	if r == nil || r.FlowCFS == nil {
		return ""
	}
	lines := []string{fmt.Sprintf("- Flow rate: %.1f cubic feet per second (%s)", *r.FlowCFS, r.Status)}
	if r.WaterLevelFt != nil {
		lines = append(lines, fmt.Sprintf("- Water level: %.2f feet at South Middleton gauge", *r.WaterLevelFt))
	}
	return subsection("Ipswich River Conditions (from USGS)", lines...)
}

// Additional holds the supplementary context gathered alongside the
// environmental snapshot. A nil field means the source was unavailable; an
// empty Birds slice means eBird answered with no sightings.
type Additional struct {
	Birds    []BirdSighting
	Forecast *CoastalForecast
	River    *RiverConditions
}

// FormatAdditional renders every available part, separated by blank lines.
func FormatAdditional(a *Additional) string {
	if a == nil {
		return ""
	}
	return joinNonEmpty("\n\n",
		FormatBirdSightings(a.Birds),
		a.Forecast.Format(),
		a.River.Format(),
	)
}
