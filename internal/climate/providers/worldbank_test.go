package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climateiq/climate-aggregator/internal/climate"
)

func TestIndicatorDecodesEnvelopeAndFiltersNulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/country/WLD/indicator/EN.ATM.CO2E.PC", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "2020:2023", r.URL.Query().Get("date"))

		w.Write([]byte(`[
			{"page": 1, "pages": 1, "per_page": 100, "total": 3},
			[
				{"country": {"value": "World"}, "indicator": {"value": "CO2 emissions (metric tons per capita)"}, "date": "2022", "value": 4.66},
				{"country": {"value": "World"}, "indicator": {"value": "CO2 emissions (metric tons per capita)"}, "date": "2021", "value": null},
				{"country": {"value": "World"}, "indicator": {"value": "CO2 emissions (metric tons per capita)"}, "date": "2020", "value": 4.41}
			]
		]`))
	}))
	t.Cleanup(srv.Close)

	client := NewWorldBankClient(HTTPClientConfig{Client: srv.Client()}, srv.URL)

	report, err := client.Indicator(context.Background(), "WLD", "EN.ATM.CO2E.PC")
	require.NoError(t, err)

	assert.Equal(t, "World", report.Country)
	assert.Equal(t, "CO2 emissions (metric tons per capita)", report.Indicator)
	require.Len(t, report.Data, 2, "null rows are dropped")
	assert.Equal(t, "2022", report.Data[0].Year)
	assert.Equal(t, 4.66, report.Data[0].Value)
}

func TestIndicatorShortEnvelopeIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"message": [{"id": "120", "value": "Invalid indicator"}]}]`))
	}))
	t.Cleanup(srv.Close)

	client := NewWorldBankClient(HTTPClientConfig{Client: srv.Client()}, srv.URL)

	_, err := client.Indicator(context.Background(), "WLD", "BOGUS")
	require.Error(t, err)
	assert.ErrorIs(t, err, climate.ErrNoData)
}

func TestIndicatorEmptyRowsIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"total": 0}, []]`))
	}))
	t.Cleanup(srv.Close)

	client := NewWorldBankClient(HTTPClientConfig{Client: srv.Client()}, srv.URL)

	_, err := client.Indicator(context.Background(), "DEU", "AG.LND.FRST.ZS")
	require.Error(t, err)
	assert.ErrorIs(t, err, climate.ErrNoData)
}
