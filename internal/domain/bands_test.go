package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBandTableValidation(t *testing.T) {
	t.Run("gap between buckets", func(t *testing.T) {
		assert.Panics(t, func() {
			newBandTable("gappy", "?", band[string]{0, 1, "a"}, band[string]{2, 3, "b"})
		})
	})
	t.Run("empty bucket", func(t *testing.T) {
		assert.Panics(t, func() {
			newBandTable("empty", "?", band[string]{1, 1, "a"})
		})
	})
	t.Run("no buckets", func(t *testing.T) {
		assert.Panics(t, func() { newBandTable[string]("none", "?") })
	})
	t.Run("valid", func(t *testing.T) {
		tbl := newBandTable("ok", "?", band[string]{0, 1, "a"}, band[string]{1, 2, "b"})
		assert.Equal(t, "a", tbl.classify(0))
		assert.Equal(t, "b", tbl.classify(1))
		assert.Equal(t, "?", tbl.classify(2))
		assert.Equal(t, "?", tbl.classify(-0.5))
		assert.Equal(t, "?", tbl.classify(math.NaN()))
	})
}

func TestCategorizeAQI(t *testing.T) {
	tests := []struct {
		aqi      int
		expected string
		color    string
	}{
		{0, "Good", "green"},
		{42, "Good", "green"},
		{50, "Good", "green"},
		{51, "Moderate", "yellow"},
		{100, "Moderate", "yellow"},
		{101, "Unhealthy for Sensitive Groups", "orange"},
		{150, "Unhealthy for Sensitive Groups", "orange"},
		{151, "Unhealthy", "red"},
		{201, "Very Unhealthy", "purple"},
		{300, "Very Unhealthy", "purple"},
		{301, "Hazardous", "maroon"},
		{500, "Hazardous", "maroon"},
		{501, "Unknown", "gray"},
		{-1, "Unknown", "gray"},
	}
	for _, tt := range tests {
		cat := CategorizeAQI(tt.aqi)
		assert.Equal(t, tt.expected, cat.Name, "aqi %d", tt.aqi)
		assert.Equal(t, tt.color, cat.Color, "aqi %d", tt.aqi)
		assert.NotEmpty(t, cat.HealthMessage)
	}
}

func TestClassifyWaveEnergy(t *testing.T) {
	tests := []struct {
		ft       float64
		expected WaveEnergy
	}{
		{0, WaveCalm},
		{0.99, WaveCalm},
		{1, WaveLight},
		{2.99, WaveLight},
		{3, WaveModerate},
		{6, WaveRough},
		{9.9, WaveRough},
		{10, WaveHigh},
		{40, WaveHigh},
		{-1, WaveUnknown},
		{math.NaN(), WaveUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyWaveEnergy(tt.ft), "height %v", tt.ft)
	}
}

func TestClassifyBloom(t *testing.T) {
	assert.Equal(t, BloomNormal, ClassifyBloom(0.3))
	assert.Equal(t, BloomNormal, ClassifyBloom(1.99))
	assert.Equal(t, BloomElevated, ClassifyBloom(2))
	assert.Equal(t, BloomElevated, ClassifyBloom(4.99))
	assert.Equal(t, BloomActive, ClassifyBloom(5))
	assert.Equal(t, BloomUnknown, ClassifyBloom(-0.1))
}

func TestClassifySnow(t *testing.T) {
	assert.Equal(t, SnowNone, ClassifySnow(0))
	assert.Equal(t, SnowNone, ClassifySnow(0.09))
	assert.Equal(t, SnowPatchy, ClassifySnow(0.1))
	assert.Equal(t, SnowPatchy, ClassifySnow(0.99))
	assert.Equal(t, SnowContinuous, ClassifySnow(1))
	assert.Equal(t, SnowContinuous, ClassifySnow(12))
	assert.Equal(t, SnowUnknown, ClassifySnow(-2))
}

func TestClassifyRiverFlow(t *testing.T) {
	assert.Equal(t, RiverVeryLow, ClassifyRiverFlow(3))
	assert.Equal(t, RiverLow, ClassifyRiverFlow(10))
	assert.Equal(t, RiverNormal, ClassifyRiverFlow(50))
	assert.Equal(t, RiverNormal, ClassifyRiverFlow(149.9))
	assert.Equal(t, RiverHigh, ClassifyRiverFlow(150))
	assert.Equal(t, RiverFlood, ClassifyRiverFlow(500))
	assert.Equal(t, RiverUnknown, ClassifyRiverFlow(-1))
}
