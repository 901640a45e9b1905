package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsContains(t *testing.T) {
	b := Bounds{North: 50, South: 40, East: 10, West: -10}

	assert.True(t, b.Contains(45, 0))
	assert.True(t, b.Contains(40, -10), "boundaries are inclusive")
	assert.True(t, b.Contains(50, 10))
	assert.False(t, b.Contains(39.9, 0))
	assert.False(t, b.Contains(45, 10.1))
}

func TestBoundsDegenerate(t *testing.T) {
	assert.False(t, GlobalBounds().Degenerate())
	assert.True(t, Bounds{North: 10, South: 10, East: 20, West: 0}.Degenerate())
	assert.True(t, Bounds{North: 10, South: 20, East: 20, West: 0}.Degenerate())
	assert.True(t, Bounds{North: 20, South: 10, East: 0, West: 20}.Degenerate())
}

func TestBoundsAround(t *testing.T) {
	t.Run("mid latitude", func(t *testing.T) {
		b := BoundsAround(45, 10, 111)

		assert.InDelta(t, 46, b.North, 1e-9)
		assert.InDelta(t, 44, b.South, 1e-9)
		// Longitude span widens with latitude.
		assert.Greater(t, b.East-10, 1.0)
		assert.InDelta(t, 10, (b.East+b.West)/2, 1e-9)
	})

	t.Run("equator does not divide by zero", func(t *testing.T) {
		b := BoundsAround(0, 0, 111)

		assert.InDelta(t, 1, b.North, 1e-9)
		assert.InDelta(t, -1, b.South, 1e-9)
		// cos(0) == 1, so the box is square at the equator.
		assert.InDelta(t, 1, b.East, 1e-9)
		assert.InDelta(t, -1, b.West, 1e-9)
	})

	t.Run("near pole spans all longitudes", func(t *testing.T) {
		b := BoundsAround(89.95, 10, 50)

		assert.Equal(t, 180.0, b.East)
		assert.Equal(t, -180.0, b.West)
	})
}

func TestSelectIntensity(t *testing.T) {
	tests := []struct {
		name      string
		emissions []GasAmount
		want      float64
	}{
		{
			name: "prefers co2e_100yr over co2e regardless of order",
			emissions: []GasAmount{
				{Gas: "co2e", Quantity: 10},
				{Gas: "co2e_100yr", Quantity: 42},
			},
			want: 42,
		},
		{
			name: "falls back to co2e",
			emissions: []GasAmount{
				{Gas: "ch4", Quantity: 5},
				{Gas: "co2e", Quantity: 17},
			},
			want: 17,
		},
		{
			name:      "no canonical gas defaults to zero",
			emissions: []GasAmount{{Gas: "n2o", Quantity: 3}},
			want:      0,
		},
		{
			name: "empty summary defaults to zero",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectIntensity(tt.emissions))
		})
	}
}

func heatMapRecords() []SourceRecord {
	return []SourceRecord{
		{
			ID:       1,
			Name:     "inside plant",
			Country:  "DEU",
			Sector:   "power",
			Geometry: []float64{8.5, 49.0}, // lon, lat
			Emissions: []GasAmount{
				{Gas: "co2e_100yr", Quantity: 1000},
			},
		},
		{
			ID:       2,
			Name:     "outside plant",
			Geometry: []float64{120.0, -30.0},
			Emissions: []GasAmount{
				{Gas: "co2e", Quantity: 500},
			},
		},
		{
			ID:   3,
			Name: "no geometry",
		},
		{
			ID:       4,
			Name:     "boundary plant",
			Geometry: []float64{10.0, 50.0},
		},
	}
}

func TestBuildHeatMap(t *testing.T) {
	b := Bounds{North: 50, South: 40, East: 10, West: 0}

	points := BuildHeatMap(heatMapRecords(), b)
	assert.Len(t, points, 2)

	for _, p := range points {
		assert.True(t, b.Contains(p.Lat, p.Lon),
			"point (%v, %v) escaped the bounding box", p.Lat, p.Lon)
	}

	byID := map[int64]HeatMapPoint{}
	for _, p := range points {
		byID[p.SourceID] = p
	}

	inside := byID[1]
	assert.Equal(t, 49.0, inside.Lat)
	assert.Equal(t, 8.5, inside.Lon)
	assert.Equal(t, 1000.0, inside.Intensity)
	assert.Equal(t, "power", inside.Sector)

	boundary := byID[4]
	assert.Equal(t, 0.0, boundary.Intensity, "missing summary defaults to zero intensity")
}

func TestBuildHeatMapDegenerateBounds(t *testing.T) {
	points := BuildHeatMap(heatMapRecords(), Bounds{North: 10, South: 10, East: 0, West: 0})
	assert.Empty(t, points)
}

func TestBuildHeatMapGlobalBounds(t *testing.T) {
	points := BuildHeatMap(heatMapRecords(), GlobalBounds())
	assert.Len(t, points, 3, "every record with geometry is in the global box")
}
