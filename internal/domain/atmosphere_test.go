package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAirQuality(t *testing.T) {
	t.Run("pm25 and ozone", func(t *testing.T) {
		aq, err := NewAirQuality([]AirQualityReading{
			{Pollutant: PollutantOzone, AQI: 30},
			{Pollutant: PollutantPM25, AQI: 42, Concentration: ptr(10.1)},
		})
		require.NoError(t, err)

		assert.Equal(t, 42, aq.OverallAQI)
		assert.Equal(t, PollutantPM25, aq.PrimaryPollutant)
		assert.Equal(t, "Good", aq.Category.Name)
		require.NotNil(t, aq.PM25AQI)
		assert.Equal(t, 42, *aq.PM25AQI)
		require.NotNil(t, aq.OzoneAQI)
		assert.Equal(t, 30, *aq.OzoneAQI)
		assert.Equal(t, 10.1, *aq.PM25Concentration)
		assert.Equal(t, "AQI: 42 (Good) | PM2.5: 42 | Ozone: 30", aq.Description)
	})

	t.Run("ozone dominates", func(t *testing.T) {
		aq, err := NewAirQuality([]AirQualityReading{
			{Pollutant: PollutantPM25, AQI: 20},
			{Pollutant: PollutantOzone, AQI: 110},
		})
		require.NoError(t, err)

		assert.Equal(t, 110, aq.OverallAQI)
		assert.Equal(t, PollutantOzone, aq.PrimaryPollutant)
		assert.Equal(t, "Unhealthy for Sensitive Groups", aq.Category.Name)
	})

	t.Run("no usable readings", func(t *testing.T) {
		_, err := NewAirQuality(nil)
		require.ErrorIs(t, err, ErrNoData)

		_, err = NewAirQuality([]AirQualityReading{{Pollutant: "CO", AQI: 12}})
		require.ErrorIs(t, err, ErrNoData)
	})

	t.Run("format", func(t *testing.T) {
		aq, err := NewAirQuality([]AirQualityReading{{Pollutant: PollutantPM25, AQI: 42}})
		require.NoError(t, err)
		assert.Equal(t, "## Air Quality (EPA AirNow)\n- AQI: 42 (Good) | PM2.5: 42\n- Air quality is satisfactory", aq.Format())
	})
}

func pm25(aqi int) *AirQualityContext {
	aq, err := NewAirQuality([]AirQualityReading{{Pollutant: PollutantPM25, AQI: aqi}})
	if err != nil {
		panic(err)
	}
	return aq
}

func TestDeriveSmoke(t *testing.T) {
	july := day(2025, time.July, 10)
	january := day(2025, time.January, 10)

	tests := []struct {
		name      string
		aqi       int
		date      time.Time
		present   bool
		intensity SmokeIntensity
		desc      string
	}{
		{"clean air", 42, july, false, SmokeNone, "No smoke detected"},
		{"boundary 100", 100, july, false, SmokeNone, "No smoke detected"},
		{"moderate in fire season", 120, july, true, SmokeModerate, "Elevated PM2.5 (120 AQI) - possible smoke influence"},
		{"boundary 150", 150, july, true, SmokeModerate, "Elevated PM2.5 (150 AQI) - possible smoke influence"},
		{"heavy in fire season", 151, july, true, SmokeHeavy, "Elevated PM2.5 (151 AQI) - possible wildfire smoke"},
		{"elevated out of season", 120, january, false, SmokeNone, "Elevated PM2.5 (120 AQI) - likely not smoke-related"},
		{"very high out of season", 180, january, false, SmokeNone, "Elevated PM2.5 (180 AQI) - likely not smoke-related"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DeriveSmoke(pm25(tt.aqi), tt.date)
			require.NotNil(t, s)
			assert.Equal(t, tt.present, s.Present)
			assert.Equal(t, tt.intensity, s.Intensity)
			assert.Equal(t, tt.desc, s.Description)
		})
	}

	t.Run("no air quality", func(t *testing.T) {
		assert.Nil(t, DeriveSmoke(nil, july))
	})

	t.Run("no pm25 reading", func(t *testing.T) {
		aq, err := NewAirQuality([]AirQualityReading{{Pollutant: PollutantOzone, AQI: 160}})
		require.NoError(t, err)
		assert.Nil(t, DeriveSmoke(aq, july))
	})

	t.Run("fire season grades are none moderate or heavy", func(t *testing.T) {
		for aqi := 0; aqi <= 500; aqi++ {
			s := DeriveSmoke(pm25(aqi), july)
			require.NotNil(t, s)
			assert.Contains(t, []SmokeIntensity{SmokeNone, SmokeModerate, SmokeHeavy}, s.Intensity, "aqi %d", aqi)
		}
	})

	t.Run("format", func(t *testing.T) {
		s := DeriveSmoke(pm25(120), july)
		assert.Equal(t, "## Wildfire Smoke\n- Intensity: moderate\n- Elevated PM2.5 (120 AQI) - possible smoke influence", s.Format())
		assert.Empty(t, DeriveSmoke(pm25(120), january).Format())
	})
}
