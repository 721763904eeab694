package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDrought(t *testing.T) {
	t.Run("worst category wins", func(t *testing.T) {
		d := NewDrought(map[DroughtSeverity]float64{
			DroughtD0: 30.5,
			DroughtD1: 12.3,
		})

		assert.Equal(t, DroughtD1, d.Severity)
		assert.Equal(t, "Moderate Drought", d.SeverityName)
		assert.Equal(t, 12.3, d.PercentAffected)
		assert.Equal(t, "Moderate Drought: Some damage to crops; streams and wells low. 12.3% of Essex County affected.", d.Description)
		assert.Equal(t, "## Drought Conditions (US Drought Monitor)\n- Moderate Drought\n- "+d.Description, d.Format())
	})

	t.Run("confirmed no drought", func(t *testing.T) {
		d := NewDrought(map[DroughtSeverity]float64{DroughtD0: 0, DroughtD4: 0})

		assert.Equal(t, DroughtNone, d.Severity)
		assert.Equal(t, "No drought", d.SeverityName)
		assert.Empty(t, d.Format())
	})

	t.Run("every level has a description", func(t *testing.T) {
		for _, s := range DroughtSeverities {
			d := NewDrought(map[DroughtSeverity]float64{s: 1})
			assert.Equal(t, s, d.Severity)
			assert.NotEmpty(t, d.SeverityName)
		}
	})
}

func TestNewSnowCover(t *testing.T) {
	tests := []struct {
		name     string
		depthMM  float64
		coverage SnowCoverage
		desc     string
	}{
		{"trace", 1, SnowNone, "No snow cover"},
		{"patchy", 12.7, SnowPatchy, "Light patchy snow cover (0.5 inches)"},
		{"continuous", 127, SnowContinuous, "Snow cover of 5.0 inches"},
		{"deep", 254, SnowContinuous, "Deep snow pack (10.0 inches)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnowCover(ptr(tt.depthMM), nil)
			assert.Equal(t, tt.coverage, s.Coverage)
			assert.Equal(t, tt.desc, s.Description)
		})
	}

	t.Run("missing depth", func(t *testing.T) {
		s := NewSnowCover(nil, nil)
		assert.Equal(t, SnowNone, s.Coverage)
		assert.Nil(t, s.DepthInches)
		assert.Empty(t, s.Format())
	})

	t.Run("format with water equivalent", func(t *testing.T) {
		s := NewSnowCover(ptr(127.0), ptr(25.4))
		require.NotNil(t, s.WaterEquivalentInches)
		assert.InDelta(t, 1.0, *s.WaterEquivalentInches, 1e-9)
		assert.Equal(t, "## Snow Cover (NOAA SNODAS)\n- Snow cover of 5.0 inches\n- Snow water equivalent: 1.0 inches", s.Format())
	})
}

func TestEstimateVegetation(t *testing.T) {
	tests := []struct {
		month  time.Month
		ndvi   float64
		status VegetationStatus
		note   string
	}{
		{time.January, 0.08, VegetationDormant, "Vegetation dormant; deciduous trees bare"},
		{time.March, 0.40, VegetationEarlyGreen, "First signs of spring; earliest buds swelling"},
		{time.May, 0.55, VegetationGreening, "Rapid growth; woodland canopy filling in"},
		{time.July, 0.70, VegetationPeak, "Peak greenness; full canopy"},
		{time.September, 0.30, VegetationSenescent, "Autumn colors; leaves falling"},
		{time.October, 0.25, VegetationSenescent, "Peak fall color; maples and oaks turning"},
		{time.November, 0.20, VegetationSenescent, "Late autumn; most leaves fallen"},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			v := EstimateVegetation(day(2025, tt.month, 15))
			assert.InDelta(t, tt.ndvi, v.NDVI, 0.011)
			assert.Equal(t, tt.status, v.Status)
			assert.Equal(t, tt.note, v.SeasonalNote)
			assert.GreaterOrEqual(t, v.NDVI, 0.0)
			assert.LessOrEqual(t, v.NDVI, 1.0)
		})
	}

	t.Run("format", func(t *testing.T) {
		v := EstimateVegetation(day(2025, time.March, 15))
		assert.Equal(t, "## Vegetation Status (NDVI estimate)\n"+
			"- Status: Early Green\n"+
			"- NDVI: 0.40\n"+
			"- First signs of spring; earliest buds swelling", v.Format())
	})
}

func TestCoastalErosionStatus(t *testing.T) {
	c := CoastalErosionStatus()

	assert.Equal(t, ErosionEroding, c.Status)
	assert.Equal(t, []string{"Plum Island"}, c.HighRiskAreas)
	assert.Equal(t, "Active erosion at Plum Island", c.RecentChanges)
	assert.Equal(t, "## Coastal Change (MA CZM)\n"+
		"- Areas with active erosion: Plum Island\n"+
		"- Active erosion at Plum Island\n"+
		"- Plum Island: Southern end experiencing significant erosion; beach nourishment ongoing", c.Format())

	t.Run("stable shoreline renders nothing", func(t *testing.T) {
		stable := &CoastalErosionContext{Status: ErosionStable, HighRiskAreas: []string{}}
		assert.Empty(t, stable.Format())
	})
}
