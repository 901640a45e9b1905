package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/climateiq/climate-aggregator/internal/climate"
	"github.com/sony/gobreaker"
)

// WorldBankClient fetches per-country indicator time series. The upstream
// response is a two-element array: metadata first, then the row list.
type WorldBankClient struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWorldBankClient(cfg HTTPClientConfig, baseURL string) *WorldBankClient {
	return &WorldBankClient{
		name:    "worldbank",
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("worldbank"),
	}
}

func (c *WorldBankClient) Name() string {
	return c.name
}

// Indicator fetches the recent series for one indicator code. Rows without a
// value are filtered out; an empty series is ErrNoData.
func (c *WorldBankClient) Indicator(ctx context.Context, countryCode, indicator string) (climate.IndicatorReport, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("format", "json")
		values.Set("date", "2020:2023")
		values.Set("per_page", "100")

		u := fmt.Sprintf("%s/country/%s/indicator/%s?%s", c.baseURL, countryCode, indicator, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return climate.IndicatorReport{}, err
	}

	var envelope []json.RawMessage
	if err := decodeJSON(resp, &envelope); err != nil {
		return climate.IndicatorReport{}, err
	}
	if len(envelope) < 2 {
		return climate.IndicatorReport{}, fmt.Errorf("indicator %s: %w", indicator, climate.ErrNoData)
	}

	var rows []struct {
		Country struct {
			Value string `json:"value"`
		} `json:"country"`
		Indicator struct {
			Value string `json:"value"`
		} `json:"indicator"`
		Date  string   `json:"date"`
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(envelope[1], &rows); err != nil {
		return climate.IndicatorReport{}, fmt.Errorf("decode indicator rows: %w", err)
	}
	if len(rows) == 0 {
		return climate.IndicatorReport{}, fmt.Errorf("indicator %s: %w", indicator, climate.ErrNoData)
	}

	report := climate.IndicatorReport{
		Country:   rows[0].Country.Value,
		Indicator: rows[0].Indicator.Value,
	}
	for _, row := range rows {
		if row.Value == nil {
			continue
		}
		report.Data = append(report.Data, climate.IndicatorPoint{
			Year:  row.Date,
			Value: *row.Value,
		})
	}

	return report, nil
}
