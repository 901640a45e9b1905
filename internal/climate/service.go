package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/climateiq/climate-aggregator/internal/geo"
)

const (
	// resourceLookbackDays is the window averaged for renewable potential.
	resourceLookbackDays = 30

	// defaultNearbyRadiusKm scopes the "emissions near a point" query.
	defaultNearbyRadiusKm = 50

	// heatMapFetchLimit caps how many source records one heat map pulls upstream.
	heatMapFetchLimit = 1000

	canonicalGas = "co2e_100yr"

	defaultVehicleModelID = "7268a9b7-17e8-4c8d-acca-57059252afe9"
)

// topEmitterCountries is the fixed major-emitter list the global overview is
// scoped to.
var topEmitterCountries = []string{"CHN", "USA", "IND", "JPN", "RUS", "DEU", "KOR", "IRN", "SAU", "GBR"}

// sdgIndicatorCodes are the climate-relevant World Bank indicator codes:
// CO2 per capita, electricity consumption per capita, forest area share,
// methane emissions, renewable electricity share.
var sdgIndicatorCodes = []string{
	"EN.ATM.CO2E.PC",
	"EG.USE.ELEC.KH.PC",
	"AG.LND.FRST.ZS",
	"EN.ATM.METH.KT.CE",
	"EG.ELC.RNEW.ZS",
}

// Store caches global overview snapshots between refreshes.
type Store interface {
	SaveOverview(year int, overview GlobalOverview)
	LatestOverview(year int) (GlobalOverview, error)
	OverviewRange(year int, from, to time.Time) ([]GlobalOverview, error)
}

// Service composes provider calls into the views the dashboard consumes.
// Providers are injected so tests can substitute doubles.
type Service struct {
	store      Store
	weather    WeatherProvider
	resources  ResourceProvider
	carbon     CarbonProvider
	emissions  EmissionsProvider
	indicators IndicatorProvider
}

func NewService(store Store, weather WeatherProvider, resources ResourceProvider,
	carbon CarbonProvider, emissions EmissionsProvider, indicators IndicatorProvider) *Service {
	return &Service{
		store:      store,
		weather:    weather,
		resources:  resources,
		carbon:     carbon,
		emissions:  emissions,
		indicators: indicators,
	}
}

// Weather returns current conditions for a location, substituting the
// deterministic fallback table when the upstream call fails. The result is
// always fully populated; fallback data carries the note marker.
func (s *Service) Weather(ctx context.Context, location string) WeatherReading {
	reading, err := s.weather.CurrentWeather(ctx, location)
	if err != nil {
		log.Printf("weather fetch failed for %q, using fallback: %v", location, err)
		return FallbackWeather(location)
	}
	return reading
}

// AirQuality returns the pollution report for a point, substituting the fixed
// fallback reading when the upstream call fails.
func (s *Service) AirQuality(ctx context.Context, lat, lon float64) AirQualityReading {
	reading, err := s.weather.AirQuality(ctx, lat, lon)
	if err != nil {
		log.Printf("air quality fetch failed for (%v, %v), using fallback: %v", lat, lon, err)
		return FallbackAirQuality()
	}
	return reading
}

// RenewablePotential resolves a location to coordinates through the weather
// lookup (fallback included), fetches the 30-day resource series ending
// today, and classifies the averaged solar and wind figures.
func (s *Service) RenewablePotential(ctx context.Context, location string) (ResourcePotential, error) {
	weather := s.Weather(ctx, location)
	coords := weather.Coordinates

	now := time.Now().UTC()
	end := now.Format("20060102")
	start := now.AddDate(0, 0, -resourceLookbackDays).Format("20060102")

	series, err := s.resources.DailyPoint(ctx, coords.Lat, coords.Lon, start, end)
	if err != nil {
		return ResourcePotential{}, fmt.Errorf("resource series: %w", err)
	}

	avgSolar := round2(average(series.SolarIrradiance))
	avgWind := round2(average(series.WindSpeed))

	solar := ClassifySolar(avgSolar)
	wind := ClassifyWind(avgWind)

	return ResourcePotential{
		Location:           location,
		SolarPotential:     solar,
		WindPotential:      wind,
		AvgSolarIrradiance: avgSolar,
		AvgWindSpeed:       avgWind,
		Recommendations:    RenewableRecommendations(solar, wind),
	}, nil
}

// BuildCarbonPayload maps caller-supplied activity fields to the upstream
// estimate payload shape. Exactly three activity kinds are supported;
// anything else is a validation failure before any network call.
func BuildCarbonPayload(activityType string, activity CarbonActivity) (interface{}, error) {
	switch activityType {
	case "electricity":
		country := activity.Country
		if country == "" {
			country = "us"
		}
		return struct {
			Type             string  `json:"type"`
			ElectricityUnit  string  `json:"electricity_unit"`
			ElectricityValue float64 `json:"electricity_value"`
			Country          string  `json:"country"`
		}{"electricity", "kwh", activity.KWh, country}, nil

	case "vehicle":
		unit := activity.DistanceUnit
		if unit == "" {
			unit = "km"
		}
		modelID := activity.VehicleModelID
		if modelID == "" {
			modelID = defaultVehicleModelID
		}
		return struct {
			Type           string  `json:"type"`
			DistanceUnit   string  `json:"distance_unit"`
			DistanceValue  float64 `json:"distance_value"`
			VehicleModelID string  `json:"vehicle_model_id"`
		}{"vehicle", unit, activity.Distance, modelID}, nil

	case "flight":
		passengers := activity.Passengers
		if passengers <= 0 {
			passengers = 1
		}
		legs := activity.Legs
		if legs == nil {
			legs = []FlightLeg{}
		}
		return struct {
			Type       string      `json:"type"`
			Passengers int         `json:"passengers"`
			Legs       []FlightLeg `json:"legs"`
		}{"flight", passengers, legs}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported activity type: %s", ErrValidation, activityType)
	}
}

// CarbonFootprint validates and normalizes the activity, submits it for
// estimation, and echoes the normalized payload alongside the figures.
func (s *Service) CarbonFootprint(ctx context.Context, activityType string, activity CarbonActivity) (CarbonEstimate, error) {
	payload, err := BuildCarbonPayload(activityType, activity)
	if err != nil {
		return CarbonEstimate{}, err
	}

	estimate, err := s.carbon.Estimate(ctx, payload)
	if err != nil {
		return CarbonEstimate{}, fmt.Errorf("carbon estimate: %w", err)
	}

	estimate.ActivityType = activityType
	estimate.ActivityData = payloadMap(payload)
	return estimate, nil
}

// LocationProfile fans out to the independent sub-queries for one point.
// Sections fail in isolation; every failure is named in the errors map.
func (s *Service) LocationProfile(ctx context.Context, lat, lon float64) LocationProfile {
	location := fmt.Sprintf("%v,%v", lat, lon)

	profile := LocationProfile{
		Location:  Coordinates{Lat: lat, Lon: lon},
		Timestamp: time.Now().UTC(),
		Errors:    SectionErrors{},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	section := func(name string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				log.Printf("location profile: %s failed for (%v, %v): %v", name, lat, lon, err)
				mu.Lock()
				profile.Errors[name] = err.Error()
				mu.Unlock()
			}
		}()
	}

	section("weather", func() error {
		w := s.Weather(ctx, location)
		mu.Lock()
		profile.Weather = &w
		mu.Unlock()
		return nil
	})

	section("air_quality", func() error {
		aq := s.AirQuality(ctx, lat, lon)
		mu.Lock()
		profile.AirQuality = &aq
		mu.Unlock()
		return nil
	})

	section("renewable_potential", func() error {
		rp, err := s.RenewablePotential(ctx, location)
		if err != nil {
			return err
		}
		mu.Lock()
		profile.RenewablePotential = &rp
		mu.Unlock()
		return nil
	})

	section("nearby_emissions", func() error {
		nearby, err := s.EmissionsNearby(ctx, lat, lon, defaultNearbyRadiusKm)
		if err != nil {
			return err
		}
		mu.Lock()
		profile.NearbyEmissions = &nearby
		mu.Unlock()
		return nil
	})

	section("administrative_areas", func() error {
		admins, err := s.emissions.SearchAdmins(ctx, AdminQuery{
			Point: &[2]float64{lon, lat},
			Limit: 5,
		})
		if err != nil {
			return err
		}
		mu.Lock()
		profile.AdministrativeAreas = admins
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if len(profile.Errors) == 0 {
		profile.Errors = nil
	}
	return profile
}

// EmissionsNearby converts the radius to a bounding box and returns the
// administrative areas and emission sources inside it.
func (s *Service) EmissionsNearby(ctx context.Context, lat, lon, radiusKm float64) (NearbyEmissions, error) {
	bounds := geo.BoundsAround(lat, lon, radiusKm)
	bbox := [4]float64{bounds.West, bounds.South, bounds.East, bounds.North}

	admins, err := s.emissions.SearchAdmins(ctx, AdminQuery{BBox: &bbox, Limit: 10})
	if err != nil {
		return NearbyEmissions{}, fmt.Errorf("admin search: %w", err)
	}

	sources, err := s.emissions.SearchSources(ctx, SourceQuery{Limit: 50})
	if err != nil {
		return NearbyEmissions{}, fmt.Errorf("source search: %w", err)
	}

	// The search endpoint has no radius filter, so membership is decided here.
	inBox := []EmissionSource{}
	for _, src := range sources {
		if len(src.Centroid.Geometry) < 2 {
			continue
		}
		if bounds.Contains(src.Centroid.Geometry[1], src.Centroid.Geometry[0]) {
			inBox = append(inBox, src)
		}
	}

	return NearbyEmissions{
		Location:            Coordinates{Lat: lat, Lon: lon},
		RadiusKm:            radiusKm,
		AdministrativeAreas: admins,
		Sources:             inBox,
		Timestamp:           time.Now().UTC(),
	}, nil
}

// SectorAnalysis assembles the asset summary, country breakdown and major
// sources for one sector and year. Sections fail in isolation.
func (s *Service) SectorAnalysis(ctx context.Context, sector string, year int) SectorAnalysis {
	analysis := SectorAnalysis{
		Sector:    sector,
		Year:      year,
		Timestamp: time.Now().UTC(),
		Errors:    SectionErrors{},
	}

	if summary, err := s.emissions.AssetEmissions(ctx, AssetEmissionsQuery{
		Years:   []int{year},
		Sectors: []string{sector},
	}); err != nil {
		analysis.Errors["sector_emissions"] = err.Error()
	} else {
		analysis.SectorEmissions = summary
	}

	if breakdown, err := s.emissions.CountryEmissions(ctx, CountryEmissionsQuery{
		Since:   year,
		To:      year,
		Sectors: []string{sector},
	}); err != nil {
		analysis.Errors["country_breakdown"] = err.Error()
	} else {
		analysis.CountryBreakdown = breakdown
	}

	if sources, err := s.emissions.SearchSources(ctx, SourceQuery{
		Year:    year,
		Sectors: []string{sector},
		Limit:   100,
	}); err != nil {
		analysis.Errors["major_sources"] = err.Error()
	} else {
		analysis.MajorSources = sources
	}

	if len(analysis.Errors) == 0 {
		analysis.Errors = nil
	}
	return analysis
}

// GlobalOverview ranks the fixed major-emitter list by power-sector
// emissions for one year. The country query is a prerequisite: when it fails
// the overview carries only the error. A failed sector catalog is reported
// but does not discard the ranking.
func (s *Service) GlobalOverview(ctx context.Context, year int) GlobalOverview {
	overview := GlobalOverview{
		Year:        year,
		DataSources: []string{"Climate TRACE", "World Bank", "UN SDG"},
		LastUpdated: time.Now().UTC(),
	}

	emissions, err := s.emissions.CountryEmissions(ctx, CountryEmissionsQuery{
		Since:     year,
		To:        year,
		Sectors:   []string{"power"},
		Countries: topEmitterCountries,
	})
	if err != nil {
		overview.Errors = SectionErrors{"country_emissions": err.Error()}
		return overview
	}

	rankings := make([]CountryRanking, 0, len(emissions))
	for _, ce := range emissions {
		value := ce.Emissions[canonicalGas]
		overview.TotalEmissions += value
		rankings = append(rankings, CountryRanking{
			Country:   ce.Country,
			Emissions: value,
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].Emissions > rankings[j].Emissions
	})
	if len(rankings) > 10 {
		rankings = rankings[:10]
	}
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	overview.TopCountries = rankings

	if sectors, err := s.emissions.Sectors(ctx); err != nil {
		overview.Errors = SectionErrors{"available_sectors": err.Error()}
	} else {
		overview.AvailableSectors = sectors
	}

	return overview
}

// RefreshOverview recomputes the overview for a year and caches the snapshot
// when the prerequisite query succeeded.
func (s *Service) RefreshOverview(ctx context.Context, year int) error {
	overview := s.GlobalOverview(ctx, year)
	if msg, ok := overview.Errors["country_emissions"]; ok {
		return fmt.Errorf("overview refresh for %d: %s", year, msg)
	}
	s.store.SaveOverview(year, overview)
	return nil
}

// LatestOverview serves the most recent cached snapshot for a year.
func (s *Service) LatestOverview(year int) (GlobalOverview, error) {
	return s.store.LatestOverview(year)
}

// OverviewHistory serves cached snapshots for a year between from and to.
func (s *Service) OverviewHistory(year int, from, to time.Time) ([]GlobalOverview, error) {
	return s.store.OverviewRange(year, from, to)
}

// HeatMapData fetches up to 1000 source records and reduces them to in-box
// map points. A nil bounds means the whole globe.
func (s *Service) HeatMapData(ctx context.Context, bounds *geo.Bounds, year int, sector string) (HeatMap, error) {
	b := geo.GlobalBounds()
	if bounds != nil {
		b = *bounds
	}

	query := SourceQuery{Limit: heatMapFetchLimit, Year: year}
	if sector != "" {
		query.Sectors = []string{sector}
	}

	sources, err := s.emissions.SearchSources(ctx, query)
	if err != nil {
		return HeatMap{}, fmt.Errorf("source search: %w", err)
	}

	records := make([]geo.SourceRecord, 0, len(sources))
	for _, src := range sources {
		name := src.Name
		if name == "" {
			name = "Unknown"
		}
		emissions := make([]geo.GasAmount, 0, len(src.EmissionsSummary))
		for _, e := range src.EmissionsSummary {
			emissions = append(emissions, geo.GasAmount{Gas: e.Gas, Quantity: e.EmissionsQuantity})
		}
		records = append(records, geo.SourceRecord{
			ID:        src.ID,
			Name:      name,
			Country:   src.Country,
			Sector:    src.Sector,
			Geometry:  src.Centroid.Geometry,
			Emissions: emissions,
		})
	}

	points := geo.BuildHeatMap(records, b)

	return HeatMap{
		Points:       points,
		Bounds:       b,
		Year:         year,
		Sector:       sector,
		TotalSources: len(points),
	}, nil
}

// SDGIndicators fetches the fixed indicator list concurrently and merges the
// successes, naming each failed indicator in the errors map.
func (s *Service) SDGIndicators(ctx context.Context, countryCode string) SDGIndicators {
	if countryCode == "" {
		countryCode = "WLD"
	}

	result := SDGIndicators{
		Country:    countryCode,
		Indicators: make(map[string]IndicatorReport, len(sdgIndicatorCodes)),
		Timestamp:  time.Now().UTC(),
		Errors:     SectionErrors{},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, code := range sdgIndicatorCodes {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()

			report, err := s.indicators.Indicator(ctx, countryCode, code)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("sdg indicator %s failed for %s: %v", code, countryCode, err)
				result.Errors[code] = err.Error()
				return
			}
			result.Indicators[code] = report
		}(code)
	}

	wg.Wait()

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result
}

// SourceDetails passes a single-source lookup through to the provider.
func (s *Service) SourceDetails(ctx context.Context, sourceID int64) (EmissionSource, error) {
	return s.emissions.SourceDetails(ctx, sourceID)
}

// SearchSources passes an asset search through to the provider.
func (s *Service) SearchSources(ctx context.Context, q SourceQuery) ([]EmissionSource, error) {
	return s.emissions.SearchSources(ctx, q)
}

// AdminGeoJSON passes an administrative-boundary lookup through to the provider.
func (s *Service) AdminGeoJSON(ctx context.Context, adminID int64) (json.RawMessage, error) {
	return s.emissions.AdminGeoJSON(ctx, adminID)
}

// Sectors returns the sector definition catalog.
func (s *Service) Sectors(ctx context.Context) ([]string, error) {
	return s.emissions.Sectors(ctx)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// payloadMap echoes the normalized payload as the generic mapping the
// dashboard expects alongside the figures.
func payloadMap(payload interface{}) map[string]any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
