package domain

import (
	"fmt"
	"strings"
	"time"
)

// DroughtSeverity is a US Drought Monitor category code.
type DroughtSeverity string

const (
	DroughtNone DroughtSeverity = "none"
	DroughtD0   DroughtSeverity = "D0"
	DroughtD1   DroughtSeverity = "D1"
	DroughtD2   DroughtSeverity = "D2"
	DroughtD3   DroughtSeverity = "D3"
	DroughtD4   DroughtSeverity = "D4"
)

type droughtLevel struct {
	name   string
	impact string
}

var droughtLevels = map[DroughtSeverity]droughtLevel{
	DroughtNone: {"No drought", "Conditions are normal"},
	DroughtD0:   {"Abnormally Dry", "Short-term dryness may slow planting or growth"},
	DroughtD1:   {"Moderate Drought", "Some damage to crops; streams and wells low"},
	DroughtD2:   {"Severe Drought", "Crop losses likely; water shortages common"},
	DroughtD3:   {"Extreme Drought", "Major crop losses; widespread water restrictions"},
	DroughtD4:   {"Exceptional Drought", "Exceptional and widespread crop losses"},
}

// DroughtSeverities lists the drought categories from worst to least severe.
var DroughtSeverities = []DroughtSeverity{DroughtD4, DroughtD3, DroughtD2, DroughtD1, DroughtD0}

func init() {
	for _, s := range append([]DroughtSeverity{DroughtNone}, DroughtSeverities...) {
		if _, ok := droughtLevels[s]; !ok {
			panic(fmt.Sprintf("drought level %s has no description", s))
		}
	}
}

// DroughtContext is the drought status for Essex County.
type DroughtContext struct {
	Severity        DroughtSeverity
	SeverityName    string
	PercentAffected float64
	Description     string
}

// NewDrought picks the worst category with a non-zero share of the county.
// percents maps each category to its percent of area; missing categories
// count as zero. When every category is zero the result is a confirmed
// no-drought record.
func NewDrought(percents map[DroughtSeverity]float64) *DroughtContext {
	for _, s := range DroughtSeverities {
		pct := percents[s]
		if pct > 0 {
			lvl := droughtLevels[s]
			return &DroughtContext{
				Severity:        s,
				SeverityName:    lvl.name,
				PercentAffected: pct,
				Description:     fmt.Sprintf("%s: %s. %.1f%% of Essex County affected.", lvl.name, lvl.impact, pct),
			}
		}
	}
	return &DroughtContext{
		Severity:     DroughtNone,
		SeverityName: droughtLevels[DroughtNone].name,
		Description:  "No drought conditions in Essex County",
	}
}

// Format renders the drought sub-section. A "none" severity renders nothing.
func (d *DroughtContext) Format() string {
	if d == nil || d.Severity == DroughtNone {
		return ""
	}
	return subsection("Drought Conditions (US Drought Monitor)",
		"- "+d.SeverityName,
		"- "+d.Description,
	)
}

// SnowCoverage describes how much of the ground is snow covered.
type SnowCoverage string

const (
	SnowNone       SnowCoverage = "none"
	SnowPatchy     SnowCoverage = "patchy"
	SnowContinuous SnowCoverage = "continuous"
	SnowUnknown    SnowCoverage = "unknown"
)

type snowBand struct {
	coverage SnowCoverage
	format   string
}

// Snow depth in inches.
var snowBands = newBandTable("snow coverage",
	snowBand{SnowUnknown, "Snow depth unavailable (%.1f inches)"},
	band[snowBand]{0, 0.1, snowBand{SnowNone, "No snow cover"}},
	band[snowBand]{0.1, 1, snowBand{SnowPatchy, "Light patchy snow cover (%.1f inches)"}},
	band[snowBand]{1, 6, snowBand{SnowContinuous, "Snow cover of %.1f inches"}},
	band[snowBand]{6, inf, snowBand{SnowContinuous, "Deep snow pack (%.1f inches)"}},
)

// ClassifySnow buckets a snow depth in inches.
func ClassifySnow(depthInches float64) SnowCoverage {
	return snowBands.classify(depthInches).coverage
}

// SnowCoverContext is the modeled snow pack at the town.
type SnowCoverContext struct {
	DepthInches           *float64
	WaterEquivalentInches *float64
	Coverage              SnowCoverage
	Description           string
}

// NewSnowCover builds a snow record from depth and snow water equivalent in
// millimeters. A missing depth reads as no snow on the ground.
func NewSnowCover(depthMM, sweMM *float64) *SnowCoverContext {
	s := &SnowCoverContext{Coverage: SnowNone, Description: "No snow cover"}
	if sweMM != nil {
		swe := MillimetersToInches(*sweMM)
		s.WaterEquivalentInches = &swe
	}
	if depthMM == nil {
		return s
	}
	depth := MillimetersToInches(*depthMM)
	s.DepthInches = &depth

	b := snowBands.classify(depth)
	s.Coverage = b.coverage
	if b.coverage == SnowNone {
		s.Description = b.format
	} else {
		s.Description = fmt.Sprintf(b.format, depth)
	}
	return s
}

// Format renders the snow sub-section. No coverage renders nothing.
func (s *SnowCoverContext) Format() string {
	if s == nil || s.Coverage == SnowNone {
		return ""
	}
	lines := []string{"- " + s.Description}
	if s.WaterEquivalentInches != nil && *s.WaterEquivalentInches > 0 {
		lines = append(lines, fmt.Sprintf("- Snow water equivalent: %.1f inches", *s.WaterEquivalentInches))
	}
	return subsection("Snow Cover (NOAA SNODAS)", lines...)
}

// VegetationStatus is the phenological stage of local vegetation.
type VegetationStatus string

const (
	VegetationDormant    VegetationStatus = "dormant"
	VegetationEarlyGreen VegetationStatus = "early_green"
	VegetationGreening   VegetationStatus = "greening"
	VegetationPeak       VegetationStatus = "peak"
	VegetationSenescent  VegetationStatus = "senescent"
)

type ndviBaseline struct {
	min, max float64
	status   VegetationStatus
	note     string
}

// Typical NDVI ranges for coastal Massachusetts.
var seasonalNDVI = map[Season]ndviBaseline{
	Winter: {0.1, 0.25, VegetationDormant, "Vegetation dormant; deciduous trees bare"},
	Spring: {0.3, 0.5, VegetationGreening, "Spring green-up underway; buds breaking"},
	Summer: {0.6, 0.8, VegetationPeak, "Peak greenness; full canopy"},
	Autumn: {0.3, 0.5, VegetationSenescent, "Autumn colors; leaves falling"},
}

var monthlyNDVIAdjustment = [13]float64{
	0, // unused
	-0.1, -0.05, 0, 0.1, 0.15, 0.1,
	0, -0.05, -0.1, -0.15, -0.2, -0.1,
}

type phenologyNote struct {
	status VegetationStatus
	note   string
}

// Transition months get a more specific stage than their season.
var monthlyPhenology = map[time.Month]phenologyNote{
	time.March:    {VegetationEarlyGreen, "First signs of spring; earliest buds swelling"},
	time.April:    {VegetationGreening, "Spring green-up accelerating; marsh grass emerging"},
	time.May:      {VegetationGreening, "Rapid growth; woodland canopy filling in"},
	time.October:  {VegetationSenescent, "Peak fall color; maples and oaks turning"},
	time.November: {VegetationSenescent, "Late autumn; most leaves fallen"},
}

// VegetationContext is an NDVI estimate. It is always derived from the
// calendar, never measured.
type VegetationContext struct {
	NDVI         float64
	Status       VegetationStatus
	SeasonalNote string
}

// EstimateVegetation derives a vegetation record from the seasonal baseline and
// the monthly adjustment for date.
func EstimateVegetation(date time.Time) *VegetationContext {
	base := seasonalNDVI[SeasonOf(date)]
	ndvi := (base.min+base.max)/2 + monthlyNDVIAdjustment[date.Month()]
	ndvi = min(1.0, max(0.0, ndvi))

	v := &VegetationContext{
		NDVI:         round(ndvi, 2),
		Status:       base.status,
		SeasonalNote: base.note,
	}
	if p, ok := monthlyPhenology[date.Month()]; ok {
		v.Status = p.status
		v.SeasonalNote = p.note
	}
	return v
}

// Format renders the vegetation sub-section, or "" when v is nil.
func (v *VegetationContext) Format() string {
	if v == nil {
		return ""
	}
	lines := []string{"- Status: " + titleWords(string(v.Status))}
	if v.NDVI > 0 {
		lines = append(lines, fmt.Sprintf("- NDVI: %.2f", v.NDVI))
	}
	if v.SeasonalNote != "" {
		lines = append(lines, "- "+v.SeasonalNote)
	}
	return subsection("Vegetation Status (NDVI estimate)", lines...)
}

// ErosionStatus is the shoreline trend for a coastal area.
type ErosionStatus string

const (
	ErosionStable    ErosionStatus = "stable"
	ErosionEroding   ErosionStatus = "eroding"
	ErosionDynamic   ErosionStatus = "dynamic"
	ErosionAccreting ErosionStatus = "accreting"
)

// ErosionHotspot is a monitored stretch of shoreline.
type ErosionHotspot struct {
	Area   string
	Status ErosionStatus
	Rate   string
	Notes  string
}

// ErosionHotspots are the monitored shorelines around the town, from MA CZM
// shoreline change data. The data changes after major storms, not daily.
var ErosionHotspots = []ErosionHotspot{
	{"Plum Island", ErosionEroding, "1-3 feet per year in some areas", "Southern end experiencing significant erosion; beach nourishment ongoing"},
	{"Crane Beach", ErosionStable, "minimal change", "Protected barrier beach with natural dune migration"},
	{"Castle Neck", ErosionDynamic, "seasonal changes", "Natural barrier system with seasonal overwash"},
	{"Great Neck", ErosionStable, "minimal change", "Rocky shoreline with minimal erosion"},
}

// CoastalErosionContext summarizes shoreline change around the town.
type CoastalErosionContext struct {
	Status        ErosionStatus
	HighRiskAreas []string
	RecentChanges string
}

// CoastalErosionStatus derives the erosion summary from the hotspot table.
func CoastalErosionStatus() *CoastalErosionContext {
	c := &CoastalErosionContext{
		Status:        ErosionStable,
		HighRiskAreas: []string{},
		RecentChanges: "No significant recent changes",
	}
	for _, h := range ErosionHotspots {
		if h.Status == ErosionEroding {
			c.HighRiskAreas = append(c.HighRiskAreas, h.Area)
		}
	}
	if len(c.HighRiskAreas) > 0 {
		c.Status = ErosionEroding
		c.RecentChanges = "Active erosion at " + strings.Join(c.HighRiskAreas, ", ")
	}
	return c
}

// Format renders the coastal change sub-section. A stable shoreline with no
// high-risk areas renders nothing.
func (c *CoastalErosionContext) Format() string {
	if c == nil || (c.Status == ErosionStable && len(c.HighRiskAreas) == 0) {
		return ""
	}
	var lines []string
	if len(c.HighRiskAreas) > 0 {
		lines = append(lines, "- Areas with active erosion: "+strings.Join(c.HighRiskAreas, ", "))
	}
	if c.RecentChanges != "" {
		lines = append(lines, "- "+c.RecentChanges)
	}
	for _, area := range c.HighRiskAreas {
		if h, ok := hotspot(area); ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", area, h.Notes))
		}
	}
	return subsection("Coastal Change (MA CZM)", lines...)
}

func hotspot(area string) (ErosionHotspot, bool) {
	for _, h := range ErosionHotspots {
		if h.Area == area {
			return h, true
		}
	}
	return ErosionHotspot{}, false
}

// titleWords turns "early_green" into "Early Green".
func titleWords(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
