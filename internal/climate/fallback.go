package climate

import (
	"strings"
	"time"

	"github.com/climateiq/climate-aggregator/internal/common"
)

// fallbackCity holds the deterministic substitute values for one known city.
type fallbackCity struct {
	lat     float64
	lon     float64
	temp    float64
	country string
}

// fallbackCities covers the major cities the dashboard is demonstrated with.
// Lookups are case-insensitive; anything else resolves to the New York entry.
var fallbackCities = map[string]fallbackCity{
	"new york": {lat: 40.7128, lon: -74.0060, temp: 15, country: "US"},
	"london":   {lat: 51.5074, lon: -0.1278, temp: 12, country: "GB"},
	"tokyo":    {lat: 35.6762, lon: 139.6503, temp: 18, country: "JP"},
	"paris":    {lat: 48.8566, lon: 2.3522, temp: 14, country: "FR"},
	"berlin":   {lat: 52.5200, lon: 13.4050, temp: 11, country: "DE"},
	"sydney":   {lat: -33.8688, lon: 151.2093, temp: 22, country: "AU"},
	"mumbai":   {lat: 19.0760, lon: 72.8777, temp: 28, country: "IN"},
	"beijing":  {lat: 39.9042, lon: 116.4074, temp: 16, country: "CN"},
	"moscow":   {lat: 55.7558, lon: 37.6176, temp: 8, country: "RU"},
	"cairo":    {lat: 30.0444, lon: 31.2357, temp: 25, country: "EG"},
}

// FallbackWeather synthesizes a plausible weather reading for a location whose
// live lookup failed. The caller's name is echoed back title-cased even when
// it is not in the table, so the dashboard stays addressable by any name.
func FallbackWeather(location string) WeatherReading {
	city, ok := fallbackCities[strings.ToLower(location)]
	if !ok {
		city = fallbackCities["new york"]
	}

	return WeatherReading{
		Location:    common.TitleCase(location),
		Country:     city.country,
		Temperature: city.temp,
		Humidity:    65,
		Pressure:    1013,
		Weather:     "partly cloudy",
		WindSpeed:   3.5,
		Coordinates: Coordinates{Lat: city.lat, Lon: city.lon},
		Note:        fallbackNote,
	}
}

// FallbackAirQuality synthesizes a moderate air-quality reading with a fixed
// pollutant table and the current timestamp.
func FallbackAirQuality() AirQualityReading {
	return AirQualityReading{
		AQI: 3,
		Components: map[string]float64{
			"co":    233.0,
			"no":    0.01,
			"no2":   20.0,
			"o3":    68.0,
			"so2":   6.0,
			"pm2_5": 15.0,
			"pm10":  25.0,
			"nh3":   0.5,
		},
		Timestamp: time.Now().Unix(),
		Note:      fallbackNote,
	}
}
