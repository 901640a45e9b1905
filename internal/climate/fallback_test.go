package climate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackWeatherKnownCity(t *testing.T) {
	reading := FallbackWeather("london")

	assert.Equal(t, "London", reading.Location)
	assert.Equal(t, "GB", reading.Country)
	assert.Equal(t, 12.0, reading.Temperature)
	assert.Equal(t, 51.5074, reading.Coordinates.Lat)
	assert.Equal(t, -0.1278, reading.Coordinates.Lon)
	assert.Equal(t, fallbackNote, reading.Note)
}

func TestFallbackWeatherIsCaseInsensitive(t *testing.T) {
	upper := FallbackWeather("TOKYO")
	assert.Equal(t, "JP", upper.Country)
	assert.Equal(t, 35.6762, upper.Coordinates.Lat)
	assert.Equal(t, "Tokyo", upper.Location)
}

func TestFallbackWeatherUnknownCityDefaultsToNewYork(t *testing.T) {
	reading := FallbackWeather("unknown town")

	// Unmatched names get the New York entry but keep the caller's name.
	assert.Equal(t, "Unknown Town", reading.Location)
	assert.Equal(t, "US", reading.Country)
	assert.Equal(t, 15.0, reading.Temperature)
	assert.Equal(t, 40.7128, reading.Coordinates.Lat)
	assert.Equal(t, -74.0060, reading.Coordinates.Lon)
	assert.Equal(t, 65.0, reading.Humidity)
	assert.Equal(t, 1013.0, reading.Pressure)
	assert.Equal(t, "partly cloudy", reading.Weather)
	assert.Equal(t, 3.5, reading.WindSpeed)
}

func TestFallbackAirQuality(t *testing.T) {
	before := time.Now().Unix()
	reading := FallbackAirQuality()

	assert.Equal(t, 3, reading.AQI)
	assert.Len(t, reading.Components, 8)
	assert.Equal(t, 15.0, reading.Components["pm2_5"])
	assert.Equal(t, 233.0, reading.Components["co"])
	assert.GreaterOrEqual(t, reading.Timestamp, before)
	assert.Equal(t, fallbackNote, reading.Note)
}
