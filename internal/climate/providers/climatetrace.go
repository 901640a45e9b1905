package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/climateiq/climate-aggregator/internal/climate"
	"github.com/climateiq/climate-aggregator/internal/common"
	"github.com/sony/gobreaker"
)

const (
	// maxSearchLimit is the hard ceiling the asset search endpoint accepts.
	maxSearchLimit     = 1000
	defaultSearchLimit = 100
	defaultSourceYear  = 2022

	// Valid year window for country emissions queries.
	minEmissionsYear = 2000
	maxEmissionsYear = 2050

	// Valid id range for single-source lookups.
	minSourceID = 1
	maxSourceID = 5_000_000

	maxNameFilterLen = 50
)

// ClimateTraceClient covers the emissions-source API family: asset search and
// detail, emissions summaries, administrative areas and definition catalogs.
type ClimateTraceClient struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewClimateTraceClient(cfg HTTPClientConfig, baseURL string) *ClimateTraceClient {
	return &ClimateTraceClient{
		name:    "climatetrace",
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newBreaker("climatetrace"),
	}
}

func (c *ClimateTraceClient) Name() string {
	return c.name
}

func (c *ClimateTraceClient) getJSON(ctx context.Context, path string, values url.Values, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		u := c.baseURL + path
		if len(values) > 0 {
			u += "?" + values.Encode()
		}
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// SearchSources queries the asset search endpoint. The result limit is
// clamped to the endpoint's hard ceiling of 1000 regardless of what the
// caller asked for.
func (c *ClimateTraceClient) SearchSources(ctx context.Context, q climate.SourceQuery) ([]climate.EmissionSource, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	year := q.Year
	if year <= 0 {
		year = defaultSourceYear
	}

	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("year", strconv.Itoa(year))
	values.Set("offset", strconv.Itoa(q.Offset))

	setList(values, "countries", q.Countries)
	setList(values, "sectors", q.Sectors)
	setList(values, "subsectors", q.Subsectors)
	setList(values, "continents", q.Continents)
	setList(values, "groups", q.Groups)
	if q.AdminID != 0 {
		values.Set("adminId", strconv.FormatInt(q.AdminID, 10))
	}

	var result climate.SourceSearchResult
	if err := c.getJSON(ctx, "/assets", values, &result); err != nil {
		return nil, err
	}
	return result.Assets, nil
}

// SourceDetails looks up a single emissions source. Ids outside
// [1, 5,000,000] fail fast without a network call.
func (c *ClimateTraceClient) SourceDetails(ctx context.Context, sourceID int64) (climate.EmissionSource, error) {
	if sourceID < minSourceID || sourceID > maxSourceID {
		return climate.EmissionSource{}, fmt.Errorf("%w: source id must be between 1 and 5,000,000", climate.ErrValidation)
	}

	var source climate.EmissionSource
	if err := c.getJSON(ctx, fmt.Sprintf("/assets/%d", sourceID), nil, &source); err != nil {
		return climate.EmissionSource{}, err
	}
	return source, nil
}

// AssetEmissions summarizes source emissions across the given filters.
func (c *ClimateTraceClient) AssetEmissions(ctx context.Context, q climate.AssetEmissionsQuery) ([]climate.GasEmission, error) {
	values := url.Values{}
	if len(q.Years) > 0 {
		values.Set("years", common.JoinInts(q.Years))
	}
	if q.AdminID != 0 {
		values.Set("adminId", strconv.FormatInt(q.AdminID, 10))
	}
	setList(values, "subsectors", q.Subsectors)
	setList(values, "sectors", q.Sectors)
	setList(values, "continents", q.Continents)
	setList(values, "groups", q.Groups)
	setList(values, "countries", q.Countries)
	if q.Gas != "" {
		values.Set("gas", q.Gas)
	}

	var result []climate.GasEmission
	if err := c.getJSON(ctx, "/assets/emissions", values, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CountryEmissions summarizes emissions by country. Since and to are each
// clamped into the [2000, 2050] window the endpoint accepts.
func (c *ClimateTraceClient) CountryEmissions(ctx context.Context, q climate.CountryEmissionsQuery) ([]climate.CountryEmissions, error) {
	values := url.Values{}
	values.Set("since", strconv.Itoa(common.Clamp(q.Since, minEmissionsYear, maxEmissionsYear)))
	values.Set("to", strconv.Itoa(common.Clamp(q.To, minEmissionsYear, maxEmissionsYear)))

	setList(values, "sector", q.Sectors)
	setList(values, "subsectors", q.Subsectors)
	setList(values, "continents", q.Continents)
	setList(values, "groups", q.Groups)
	setList(values, "countries", q.Countries)

	var result []climate.CountryEmissions
	if err := c.getJSON(ctx, "/country/emissions", values, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchAdmins searches administrative areas by point, box or name. Name
// filters are truncated to 50 characters; levels outside [0, 2] are dropped.
func (c *ClimateTraceClient) SearchAdmins(ctx context.Context, q climate.AdminQuery) ([]climate.AdminArea, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(q.Offset))

	if q.Point != nil {
		values.Set("point", fmt.Sprintf("%v,%v", q.Point[0], q.Point[1]))
	}
	if q.BBox != nil {
		parts := make([]string, len(q.BBox))
		for i, v := range q.BBox {
			parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		values.Set("bbox", strings.Join(parts, ","))
	}
	if q.Name != "" {
		values.Set("name", common.Truncate(q.Name, maxNameFilterLen))
	}
	if q.Level != nil && *q.Level >= 0 && *q.Level <= 2 {
		values.Set("level", strconv.Itoa(*q.Level))
	}

	var result []climate.AdminArea
	if err := c.getJSON(ctx, "/admins/search", values, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AdminGeoJSON returns the boundary geometry of an administrative area,
// passed through verbatim.
func (c *ClimateTraceClient) AdminGeoJSON(ctx context.Context, adminID int64) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.getJSON(ctx, fmt.Sprintf("/admins/%d/geojson", adminID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Definition catalogs. Each returns the upstream list of code strings.

func (c *ClimateTraceClient) Sectors(ctx context.Context) ([]string, error) {
	return c.definitions(ctx, "/definitions/sectors")
}

func (c *ClimateTraceClient) Subsectors(ctx context.Context) ([]string, error) {
	return c.definitions(ctx, "/definitions/subsectors")
}

func (c *ClimateTraceClient) Countries(ctx context.Context) ([]string, error) {
	return c.definitions(ctx, "/definitions/countries")
}

func (c *ClimateTraceClient) Groups(ctx context.Context) ([]string, error) {
	return c.definitions(ctx, "/definitions/groups")
}

func (c *ClimateTraceClient) Continents(ctx context.Context) ([]string, error) {
	return c.definitions(ctx, "/definitions/continents")
}

func (c *ClimateTraceClient) Gases(ctx context.Context) ([]string, error) {
	return c.definitions(ctx, "/definitions/gases")
}

func (c *ClimateTraceClient) definitions(ctx context.Context, path string) ([]string, error) {
	var result []string
	if err := c.getJSON(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func setList(values url.Values, key string, items []string) {
	if len(items) > 0 {
		values.Set(key, strings.Join(items, ","))
	}
}
