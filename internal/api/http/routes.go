package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/climateiq/climate-aggregator/internal/climate"
	"github.com/climateiq/climate-aggregator/internal/geo"
	"github.com/climateiq/climate-aggregator/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *climate.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}
		return c.JSON(service.Weather(c.Context(), location))
	})

	v1.Get("/air-quality", func(c *fiber.Ctx) error {
		coords, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(service.AirQuality(c.Context(), coords.Lat, coords.Lon))
	})

	v1.Get("/renewables", func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}
		potential, err := service.RenewablePotential(c.Context(), location)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(potential)
	})

	v1.Post("/carbon/estimate", func(c *fiber.Ctx) error {
		var req carbonEstimateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		estimate, err := service.CarbonFootprint(c.Context(), req.ActivityType, req.Data)
		if err != nil {
			if errors.Is(err, climate.ErrValidation) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return upstreamError(err)
		}
		return c.JSON(estimate)
	})

	v1.Get("/profile", func(c *fiber.Ctx) error {
		coords, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(service.LocationProfile(c.Context(), coords.Lat, coords.Lon))
	})

	v1.Get("/emissions/nearby", func(c *fiber.Ctx) error {
		coords, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		radius := c.QueryFloat("radius_km", 50)
		nearby, err := service.EmissionsNearby(c.Context(), coords.Lat, coords.Lon, radius)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(nearby)
	})

	v1.Get("/sectors/:sector/analysis", func(c *fiber.Ctx) error {
		sector := c.Params("sector")
		year := c.QueryInt("year", 2022)
		return c.JSON(service.SectorAnalysis(c.Context(), sector, year))
	})

	v1.Get("/overview", func(c *fiber.Ctx) error {
		year := c.QueryInt("year", 2022)
		return c.JSON(service.GlobalOverview(c.Context(), year))
	})

	v1.Get("/overview/latest", func(c *fiber.Ctx) error {
		year := c.QueryInt("year", 2022)
		overview, err := service.LatestOverview(year)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no overview snapshot for requested year")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch overview snapshot")
		}
		return c.JSON(overview)
	})

	v1.Get("/overview/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := service.OverviewHistory(req.Year, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no overview history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch overview history")
		}

		return c.JSON(fiber.Map{
			"year":      req.Year,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Get("/heatmap", func(c *fiber.Ctx) error {
		var bounds *geo.Bounds
		if c.Query("north") != "" || c.Query("south") != "" || c.Query("east") != "" || c.Query("west") != "" {
			b := geo.Bounds{
				North: c.QueryFloat("north", 85),
				South: c.QueryFloat("south", -85),
				East:  c.QueryFloat("east", 180),
				West:  c.QueryFloat("west", -180),
			}
			bounds = &b
		}

		heatMap, err := service.HeatMapData(c.Context(), bounds, c.QueryInt("year", 2022), c.Query("sector"))
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(heatMap)
	})

	v1.Get("/sdg", func(c *fiber.Ctx) error {
		return c.JSON(service.SDGIndicators(c.Context(), c.Query("country", "WLD")))
	})

	v1.Get("/sources", func(c *fiber.Ctx) error {
		q := climate.SourceQuery{
			Limit:  c.QueryInt("limit", 100),
			Year:   c.QueryInt("year", 2022),
			Offset: c.QueryInt("offset", 0),
		}
		if sectors := c.Query("sectors"); sectors != "" {
			q.Sectors = splitList(sectors)
		}
		if countries := c.Query("countries"); countries != "" {
			q.Countries = splitList(countries)
		}

		sources, err := service.SearchSources(c.Context(), q)
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(fiber.Map{"assets": sources, "count": len(sources)})
	})

	v1.Get("/sources/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "source id must be an integer")
		}

		source, err := service.SourceDetails(c.Context(), id)
		if err != nil {
			if errors.Is(err, climate.ErrValidation) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return upstreamError(err)
		}
		return c.JSON(source)
	})

	v1.Get("/admins/:id/geojson", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "admin id must be an integer")
		}

		geojson, err := service.AdminGeoJSON(c.Context(), id)
		if err != nil {
			return upstreamError(err)
		}
		c.Set("Content-Type", "application/json")
		return c.Send(geojson)
	})

	v1.Get("/definitions/sectors", func(c *fiber.Ctx) error {
		sectors, err := service.Sectors(c.Context())
		if err != nil {
			return upstreamError(err)
		}
		return c.JSON(sectors)
	})
}

// upstreamError maps a failed provider call to a gateway error.
func upstreamError(err error) error {
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// coordQuery holds the lat/lon query parameters shared by point lookups.
type coordQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseCoordQuery(c *fiber.Ctx) (coordQuery, error) {
	var q coordQuery

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return q, errors.New("lat query parameter is required and must be a number")
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return q, errors.New("lon query parameter is required and must be a number")
	}

	q.Lat = lat
	q.Lon = lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// carbonEstimateRequest is the footprint estimate request body.
type carbonEstimateRequest struct {
	ActivityType string                 `json:"activity_type" validate:"required"`
	Data         climate.CarbonActivity `json:"data"`
}

// historyQuery holds query parameters for the overview history endpoint.
type historyQuery struct {
	Year int       `validate:"required"`
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Year = c.QueryInt("year", 2022)

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
