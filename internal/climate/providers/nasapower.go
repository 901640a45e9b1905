package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/climateiq/climate-aggregator/internal/climate"
	"github.com/sony/gobreaker"
)

// powerParameters requests solar irradiance, temperature and wind speed.
const powerParameters = "ALLSKY_SFC_SW_DWN,T2M,WS10M"

// NASAPowerClient fetches daily resource time series from the NASA POWER API.
type NASAPowerClient struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNASAPowerClient(cfg HTTPClientConfig, baseURL, apiKey string) *NASAPowerClient {
	return &NASAPowerClient{
		name:    "nasapower",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("nasapower"),
	}
}

func (c *NASAPowerClient) Name() string {
	return c.name
}

// DailyPoint fetches the daily series for a point. Dates are ISO-basic
// strings (YYYYMMDD).
func (c *NASAPowerClient) DailyPoint(ctx context.Context, lat, lon float64, start, end string) (climate.ResourceSeries, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("parameters", powerParameters)
		values.Set("community", "RE")
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("start", start)
		values.Set("end", end)
		values.Set("format", "JSON")
		values.Set("api_key", c.apiKey)

		u := fmt.Sprintf("%s/daily/point?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return climate.ResourceSeries{}, err
	}

	var payload struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Parameter struct {
				SolarIrradiance map[string]float64 `json:"ALLSKY_SFC_SW_DWN"`
				Temperature     map[string]float64 `json:"T2M"`
				WindSpeed       map[string]float64 `json:"WS10M"`
			} `json:"parameter"`
		} `json:"properties"`
	}

	if err := decodeJSON(resp, &payload); err != nil {
		return climate.ResourceSeries{}, err
	}

	series := climate.ResourceSeries{
		SolarIrradiance: payload.Properties.Parameter.SolarIrradiance,
		Temperature:     payload.Properties.Parameter.Temperature,
		WindSpeed:       payload.Properties.Parameter.WindSpeed,
	}
	// Response coordinates are [lon, lat].
	if len(payload.Geometry.Coordinates) >= 2 {
		series.Location = climate.Coordinates{
			Lat: payload.Geometry.Coordinates[1],
			Lon: payload.Geometry.Coordinates[0],
		}
	}

	return series, nil
}
