package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/climateiq/climate-aggregator/internal/climate"
	"github.com/sony/gobreaker"
)

// OpenWeatherClient talks to the weather and air-pollution endpoints of
// OpenWeatherMap.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(cfg HTTPClientConfig, baseURL, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		name:    "openweather",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("openweather"),
	}
}

func (c *OpenWeatherClient) Name() string {
	return c.name
}

// CurrentWeather fetches current conditions for a free-text location, which
// may be a city name or a "lat,lon" pair.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, location string) (climate.WeatherReading, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", location)
		values.Set("appid", c.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s/weather?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return climate.WeatherReading{}, err
	}

	var payload struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	}

	if err := decodeJSON(resp, &payload); err != nil {
		return climate.WeatherReading{}, err
	}

	reading := climate.WeatherReading{
		Location:    payload.Name,
		Country:     payload.Sys.Country,
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		Coordinates: climate.Coordinates{
			Lat: payload.Coord.Lat,
			Lon: payload.Coord.Lon,
		},
	}
	if len(payload.Weather) > 0 {
		reading.Weather = payload.Weather[0].Description
	}

	return reading, nil
}

// AirQuality fetches the pollution report for a coordinate pair. An empty
// report list is ErrNoData.
func (c *OpenWeatherClient) AirQuality(ctx context.Context, lat, lon float64) (climate.AirQualityReading, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s/air_pollution?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return climate.AirQualityReading{}, err
	}

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components map[string]float64 `json:"components"`
			Dt         int64              `json:"dt"`
		} `json:"list"`
	}

	if err := decodeJSON(resp, &payload); err != nil {
		return climate.AirQualityReading{}, err
	}

	if len(payload.List) == 0 {
		return climate.AirQualityReading{}, fmt.Errorf("air quality: %w", climate.ErrNoData)
	}

	first := payload.List[0]
	return climate.AirQualityReading{
		AQI:        first.Main.AQI,
		Components: first.Components,
		Timestamp:  first.Dt,
	}, nil
}
