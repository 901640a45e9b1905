package climate

import (
	"time"

	"github.com/climateiq/climate-aggregator/internal/geo"
)

// Potential is an ordinal classification of a renewable resource.
type Potential string

const (
	PotentialLow    Potential = "Low"
	PotentialMedium Potential = "Medium"
	PotentialHigh   Potential = "High"
)

// fallbackNote marks data substituted for a failed upstream call.
const fallbackNote = "Using fallback data - API unavailable"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherReading is a fully populated current-conditions report, either live
// or synthesized by the fallback table.
type WeatherReading struct {
	Location    string      `json:"location"`
	Country     string      `json:"country"`
	Temperature float64     `json:"temperature"` // Celsius
	Humidity    float64     `json:"humidity"`    // percent
	Pressure    float64     `json:"pressure"`    // hPa
	Weather     string      `json:"weather"`
	WindSpeed   float64     `json:"wind_speed"` // m/s
	Coordinates Coordinates `json:"coordinates"`
	Note        string      `json:"note,omitempty"`
}

// AirQualityReading holds an ordinal AQI (1 Good .. 5 Very Poor) and the
// per-pollutant concentrations reported with it.
type AirQualityReading struct {
	AQI        int                `json:"aqi"`
	Components map[string]float64 `json:"components"`
	Timestamp  int64              `json:"timestamp"`
	Note       string             `json:"note,omitempty"`
}

// ResourceSeries is a raw daily time series from the resource provider,
// keyed by date string.
type ResourceSeries struct {
	SolarIrradiance map[string]float64 `json:"solar_irradiance"`
	Temperature     map[string]float64 `json:"temperature"`
	WindSpeed       map[string]float64 `json:"wind_speed"`
	Location        Coordinates        `json:"location"`
}

// ResourcePotential is the averaged and classified renewable resource view.
type ResourcePotential struct {
	Location           string    `json:"location"`
	SolarPotential     Potential `json:"solar_potential"`
	WindPotential      Potential `json:"wind_potential"`
	AvgSolarIrradiance float64   `json:"avg_solar_irradiance"`
	AvgWindSpeed       float64   `json:"avg_wind_speed"`
	Recommendations    []string  `json:"recommendations"`
}

// CarbonEstimate is the normalized result of a carbon-footprint calculation.
type CarbonEstimate struct {
	CarbonKg     float64        `json:"carbon_kg"`
	CarbonLb     float64        `json:"carbon_lb"`
	CarbonMt     float64        `json:"carbon_mt"`
	ActivityType string         `json:"activity_type"`
	ActivityData map[string]any `json:"activity_data"`
}

// FlightLeg is one segment of a flight estimate request.
type FlightLeg struct {
	DepartureAirport   string `json:"departure_airport"`
	DestinationAirport string `json:"destination_airport"`
}

// CarbonActivity carries caller-supplied inputs for a footprint estimate.
// Fields are interpreted per activity type; unused ones are ignored.
type CarbonActivity struct {
	KWh            float64     `json:"kwh"`
	Country        string      `json:"country"`
	Distance       float64     `json:"distance"`
	DistanceUnit   string      `json:"distance_unit"`
	VehicleModelID string      `json:"vehicle_model_id"`
	Passengers     int         `json:"passengers"`
	Legs           []FlightLeg `json:"legs"`
}

// GasEmission is one entry of a per-gas emissions summary.
type GasEmission struct {
	Gas               string  `json:"Gas"`
	EmissionsQuantity float64 `json:"EmissionsQuantity"`
}

// Centroid wraps the two-element [lon, lat] geometry attached to an asset.
type Centroid struct {
	Geometry []float64 `json:"Geometry"`
}

// EmissionSource is a geolocated greenhouse-gas emitter record.
type EmissionSource struct {
	ID               int64         `json:"Id"`
	Name             string        `json:"Name"`
	Country          string        `json:"Country"`
	Sector           string        `json:"Sector"`
	Centroid         Centroid      `json:"Centroid"`
	EmissionsSummary []GasEmission `json:"EmissionsSummary"`
}

// SourceSearchResult is the asset search response envelope.
type SourceSearchResult struct {
	Assets []EmissionSource `json:"assets"`
}

// CountryEmissions summarizes one country's emissions for a query window.
type CountryEmissions struct {
	Country   string             `json:"country"`
	Rank      int                `json:"rank"`
	Emissions map[string]float64 `json:"emissions"`
}

// CountryRanking is one row of the global overview ranking, ordered by
// emissions descending.
type CountryRanking struct {
	Country   string  `json:"country"`
	Emissions float64 `json:"emissions"`
	Rank      int     `json:"rank"`
}

// AdminArea is an administrative-area search hit.
type AdminArea struct {
	ID    int64  `json:"Id"`
	Name  string `json:"Name"`
	Level int    `json:"Level"`
}

// IndicatorPoint is one year/value pair of a country indicator series.
type IndicatorPoint struct {
	Year  string  `json:"year"`
	Value float64 `json:"value"`
}

// IndicatorReport is a country indicator time series.
type IndicatorReport struct {
	Country   string           `json:"country"`
	Indicator string           `json:"indicator"`
	Data      []IndicatorPoint `json:"data"`
}

// SectionErrors maps a failed composite section (or indicator code) to the
// failure description. Callers branch on presence of a key.
type SectionErrors map[string]string

// LocationProfile is the composite climate view for one point.
type LocationProfile struct {
	Location            Coordinates        `json:"location"`
	Weather             *WeatherReading    `json:"weather,omitempty"`
	AirQuality          *AirQualityReading `json:"air_quality,omitempty"`
	RenewablePotential  *ResourcePotential `json:"renewable_potential,omitempty"`
	NearbyEmissions     *NearbyEmissions   `json:"nearby_emissions,omitempty"`
	AdministrativeAreas []AdminArea        `json:"administrative_areas,omitempty"`
	Timestamp           time.Time          `json:"timestamp"`
	Errors              SectionErrors      `json:"errors,omitempty"`
}

// NearbyEmissions is the radius-scoped emissions view around a point.
type NearbyEmissions struct {
	Location            Coordinates      `json:"location"`
	RadiusKm            float64          `json:"radius_km"`
	AdministrativeAreas []AdminArea      `json:"administrative_areas"`
	Sources             []EmissionSource `json:"sources"`
	Timestamp           time.Time        `json:"timestamp"`
}

// SectorAnalysis is the composite per-sector emissions view.
type SectorAnalysis struct {
	Sector           string             `json:"sector"`
	Year             int                `json:"year"`
	SectorEmissions  []GasEmission      `json:"sector_emissions,omitempty"`
	CountryBreakdown []CountryEmissions `json:"country_breakdown,omitempty"`
	MajorSources     []EmissionSource   `json:"major_sources,omitempty"`
	Timestamp        time.Time          `json:"analysis_timestamp"`
	Errors           SectionErrors      `json:"errors,omitempty"`
}

// GlobalOverview is the composite global emissions ranking view.
type GlobalOverview struct {
	Year             int              `json:"year"`
	TotalEmissions   float64          `json:"total_global_emissions"`
	TopCountries     []CountryRanking `json:"top_countries"`
	AvailableSectors []string         `json:"available_sectors,omitempty"`
	DataSources      []string         `json:"data_sources"`
	LastUpdated      time.Time        `json:"last_updated"`
	Errors           SectionErrors    `json:"errors,omitempty"`
}

// HeatMap is the payload consumed by the dashboard map layer.
type HeatMap struct {
	Points       []geo.HeatMapPoint `json:"points"`
	Bounds       geo.Bounds         `json:"bounds"`
	Year         int                `json:"year"`
	Sector       string             `json:"sector,omitempty"`
	TotalSources int                `json:"total_sources"`
}

// SDGIndicators merges successful indicator lookups, keyed by indicator code.
type SDGIndicators struct {
	Country    string                     `json:"country"`
	Indicators map[string]IndicatorReport `json:"indicators"`
	Timestamp  time.Time                  `json:"timestamp"`
	Errors     SectionErrors              `json:"errors,omitempty"`
}
