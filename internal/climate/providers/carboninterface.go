package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/climateiq/climate-aggregator/internal/climate"
	"github.com/sony/gobreaker"
)

// CarbonInterfaceClient posts estimate requests to the carbon-accounting API.
type CarbonInterfaceClient struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewCarbonInterfaceClient(cfg HTTPClientConfig, baseURL, apiKey string) *CarbonInterfaceClient {
	return &CarbonInterfaceClient{
		name:    "carboninterface",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("carboninterface"),
	}
}

func (c *CarbonInterfaceClient) Name() string {
	return c.name
}

// Estimate submits a prepared payload and returns the carbon figures. The
// payload shape is owned by the aggregation layer; this client only
// transports it.
func (c *CarbonInterfaceClient) Estimate(ctx context.Context, payload interface{}) (climate.CarbonEstimate, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return climate.CarbonEstimate{}, fmt.Errorf("marshal estimate payload: %w", err)
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.baseURL+"/estimates", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return climate.CarbonEstimate{}, err
	}

	var result struct {
		Data struct {
			Attributes struct {
				CarbonKg float64 `json:"carbon_kg"`
				CarbonLb float64 `json:"carbon_lb"`
				CarbonMt float64 `json:"carbon_mt"`
			} `json:"attributes"`
		} `json:"data"`
	}

	if err := decodeJSON(resp, &result); err != nil {
		return climate.CarbonEstimate{}, err
	}

	return climate.CarbonEstimate{
		CarbonKg: result.Data.Attributes.CarbonKg,
		CarbonLb: result.Data.Attributes.CarbonLb,
		CarbonMt: result.Data.Attributes.CarbonMt,
	}, nil
}
