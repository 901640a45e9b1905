// Package geo implements the spatial side of the aggregation layer:
// bounding boxes, radius-to-box conversion, and heat-map point extraction
// from geolocated emission source records, backed by an R-tree index.
package geo

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

const (
	// kmPerDegreeLat is the approximate north-south extent of one degree.
	kmPerDegreeLat = 111.0

	// rectTolerance pads point rects for indexing; exact containment is
	// re-checked after the index query.
	rectTolerance = 0.01

	dimensions  = 2
	minChildren = 25
	maxChildren = 50
)

// Bounds is a rectangular lat/lon region. Valid boxes satisfy South < North
// and West < East; degenerate boxes are tolerated and simply match nothing.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// GlobalBounds covers the whole globe, clipped to the latitudes the upstream
// source catalog actually populates.
func GlobalBounds() Bounds {
	return Bounds{North: 85, South: -85, East: 180, West: -180}
}

// Contains reports whether the point lies inside the box, boundaries
// inclusive. Boxes crossing the antimeridian are not supported.
func (b Bounds) Contains(lat, lon float64) bool {
	return b.West <= lon && lon <= b.East && b.South <= lat && lat <= b.North
}

// Degenerate reports whether the box has zero or negative extent on either axis.
func (b Bounds) Degenerate() bool {
	return b.South >= b.North || b.West >= b.East
}

// BoundsAround converts a radius around a point into a bounding box.
// One degree of latitude is taken as 111 km; the longitude span widens with
// the cosine of the latitude. Near the poles the cosine vanishes, so beyond
// 89.9 degrees the box spans all longitudes instead of dividing by zero.
func BoundsAround(lat, lon, radiusKm float64) Bounds {
	latOffset := radiusKm / kmPerDegreeLat

	b := Bounds{
		North: lat + latOffset,
		South: lat - latOffset,
	}

	cosLat := math.Cos(lat * math.Pi / 180)
	if math.Abs(lat) >= 89.9 || cosLat <= 0 {
		b.East = 180
		b.West = -180
		return b
	}

	lonOffset := radiusKm / (kmPerDegreeLat * cosLat)
	b.East = lon + lonOffset
	b.West = lon - lonOffset
	return b
}

// GasAmount is one per-gas entry of an emissions summary.
type GasAmount struct {
	Gas      string
	Quantity float64
}

// SourceRecord is the slice of an emission source record the heat map needs.
// Geometry is a [lon, lat] centroid; records without one are skipped.
type SourceRecord struct {
	ID        int64
	Name      string
	Country   string
	Sector    string
	Geometry  []float64
	Emissions []GasAmount
}

// HeatMapPoint is one dashboard map marker. Intensity is the raw emissions
// quantity, not yet normalized for display.
type HeatMapPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Intensity float64 `json:"intensity"`
	SourceID  int64   `json:"source_id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Sector    string  `json:"sector"`
}

// SelectIntensity picks the canonical emissions quantity from a per-gas
// summary: co2e_100yr if present, then co2e, else 0.
func SelectIntensity(emissions []GasAmount) float64 {
	for _, gas := range []string{"co2e_100yr", "co2e"} {
		for _, e := range emissions {
			if e.Gas == gas {
				return e.Quantity
			}
		}
	}
	return 0
}

// spatialItem wraps a record for R-tree indexing.
type spatialItem struct {
	point HeatMapPoint
	rect  *rtreego.Rect
}

func (si *spatialItem) Bounds() *rtreego.Rect {
	return si.rect
}

// BuildHeatMap filters source records against the bounding box and converts
// the matches into heat-map points. Records are indexed in an R-tree first;
// because index rects carry tolerance padding, exact interval containment is
// re-checked on every candidate.
func BuildHeatMap(records []SourceRecord, b Bounds) []HeatMapPoint {
	points := []HeatMapPoint{}
	if b.Degenerate() {
		return points
	}

	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	for _, rec := range records {
		if len(rec.Geometry) < 2 {
			continue
		}
		lon, lat := rec.Geometry[0], rec.Geometry[1]

		rect := rtreego.Point{lat, lon}.ToRect(rectTolerance)
		tree.Insert(&spatialItem{
			point: HeatMapPoint{
				Lat:       lat,
				Lon:       lon,
				Intensity: SelectIntensity(rec.Emissions),
				SourceID:  rec.ID,
				Name:      rec.Name,
				Country:   rec.Country,
				Sector:    rec.Sector,
			},
			rect: rect,
		})
	}

	query, err := rtreego.NewRect(
		rtreego.Point{b.South, b.West},
		[]float64{b.North - b.South, b.East - b.West},
	)
	if err != nil {
		return points
	}

	for _, result := range tree.SearchIntersect(query) {
		item, ok := result.(*spatialItem)
		if !ok {
			continue
		}
		if b.Contains(item.point.Lat, item.point.Lon) {
			points = append(points, item.point)
		}
	}

	return points
}
