package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTransmitsPayloadAndDecodesAttributes(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/estimates", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Write([]byte(`{
			"data": {
				"id": "abc",
				"attributes": {"carbon_kg": 52.4, "carbon_lb": 115.5, "carbon_mt": 0.052}
			}
		}`))
	}))
	t.Cleanup(srv.Close)

	client := NewCarbonInterfaceClient(HTTPClientConfig{Client: srv.Client()}, srv.URL, "secret")

	payload := map[string]any{
		"type":              "electricity",
		"electricity_unit":  "kwh",
		"electricity_value": 100,
		"country":           "us",
	}
	estimate, err := client.Estimate(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "electricity", gotBody["type"])
	assert.Equal(t, 100.0, gotBody["electricity_value"])

	assert.Equal(t, 52.4, estimate.CarbonKg)
	assert.Equal(t, 115.5, estimate.CarbonLb)
	assert.Equal(t, 0.052, estimate.CarbonMt)
}

func TestEstimateSurfacesClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	t.Cleanup(srv.Close)

	client := NewCarbonInterfaceClient(HTTPClientConfig{Client: srv.Client()}, srv.URL, "secret")

	_, err := client.Estimate(context.Background(), map[string]any{"type": "electricity"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpected)
}
