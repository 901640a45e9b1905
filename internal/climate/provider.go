package climate

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrValidation marks inputs rejected before any network call is attempted.
var ErrValidation = errors.New("validation failed")

// ErrNoData marks an upstream response that was well-formed but empty where
// data was expected.
var ErrNoData = errors.New("no data available")

// SourceQuery filters an emissions-source search.
type SourceQuery struct {
	Limit      int
	Year       int
	Offset     int
	Countries  []string
	Sectors    []string
	Subsectors []string
	Continents []string
	Groups     []string
	AdminID    int64
}

// AssetEmissionsQuery filters an asset-emissions summary.
type AssetEmissionsQuery struct {
	Years      []int
	AdminID    int64
	Subsectors []string
	Sectors    []string
	Continents []string
	Groups     []string
	Countries  []string
	Gas        string
}

// CountryEmissionsQuery filters a per-country emissions summary.
type CountryEmissionsQuery struct {
	Since      int
	To         int
	Sectors    []string
	Subsectors []string
	Continents []string
	Groups     []string
	Countries  []string
}

// AdminQuery filters an administrative-area search.
type AdminQuery struct {
	Limit  int
	Offset int
	// Point is a [lon, lat] pair.
	Point *[2]float64
	// BBox is [minLon, minLat, maxLon, maxLat].
	BBox *[4]float64
	Name string
	// Level is accepted only in [0, 2]; other values are dropped.
	Level *int
}

// WeatherProvider abstracts the weather and air-pollution upstream.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, location string) (WeatherReading, error)
	AirQuality(ctx context.Context, lat, lon float64) (AirQualityReading, error)
}

// ResourceProvider abstracts the solar/wind resource time-series upstream.
type ResourceProvider interface {
	DailyPoint(ctx context.Context, lat, lon float64, start, end string) (ResourceSeries, error)
}

// CarbonProvider abstracts the carbon-accounting estimate upstream.
type CarbonProvider interface {
	Estimate(ctx context.Context, payload interface{}) (CarbonEstimate, error)
}

// EmissionsProvider abstracts the emissions-source API family.
type EmissionsProvider interface {
	SearchSources(ctx context.Context, q SourceQuery) ([]EmissionSource, error)
	SourceDetails(ctx context.Context, sourceID int64) (EmissionSource, error)
	AssetEmissions(ctx context.Context, q AssetEmissionsQuery) ([]GasEmission, error)
	CountryEmissions(ctx context.Context, q CountryEmissionsQuery) ([]CountryEmissions, error)
	SearchAdmins(ctx context.Context, q AdminQuery) ([]AdminArea, error)
	AdminGeoJSON(ctx context.Context, adminID int64) (json.RawMessage, error)
	Sectors(ctx context.Context) ([]string, error)
	Subsectors(ctx context.Context) ([]string, error)
	Countries(ctx context.Context) ([]string, error)
	Groups(ctx context.Context) ([]string, error)
	Continents(ctx context.Context) ([]string, error)
	Gases(ctx context.Context) ([]string, error)
}

// IndicatorProvider abstracts the country-indicator upstream.
type IndicatorProvider interface {
	Indicator(ctx context.Context, countryCode, indicator string) (IndicatorReport, error)
}
