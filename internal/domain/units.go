package domain

import (
	"math"
	"time"
)

// KelvinToFahrenheit converts a temperature from Kelvin to Fahrenheit.
func KelvinToFahrenheit(k float64) float64 {
	return (k-273.15)*9/5 + 32
}

// CelsiusToFahrenheit converts a temperature from Celsius to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts a temperature from Fahrenheit to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// MetersToFeet converts a length from meters to feet.
func MetersToFeet(m float64) float64 {
	return m * 3.28084
}

// MillimetersToInches converts a length from millimeters to inches.
func MillimetersToInches(mm float64) float64 {
	return mm / 25.4
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// DegreesToCompass maps a bearing to the nearest of the 16 compass points.
// Any finite bearing is accepted; it is normalized into [0, 360) first.
// Returns "" for NaN or infinite input.
func DegreesToCompass(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return ""
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Round(deg/22.5)) % 16
	return compassPoints[idx]
}

// LonTo360 converts a longitude from the -180..180 convention to 0..360.
func LonTo360(lon float64) float64 {
	if lon < 0 {
		return 360 + lon
	}
	return lon
}

// Season is a Northern Hemisphere meteorological season.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
)

// SeasonOf returns the meteorological season for a date.
func SeasonOf(date time.Time) Season {
	switch date.Month() {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
