package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySolar(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want Potential
	}{
		{"well above high threshold", 6.2, PotentialHigh},
		{"exactly high threshold stays medium", 5.0, PotentialMedium},
		{"between thresholds", 4.0, PotentialMedium},
		{"exactly medium threshold stays low", 3.0, PotentialLow},
		{"low irradiance", 1.5, PotentialLow},
		{"zero", 0, PotentialLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySolar(tt.avg))
		})
	}
}

func TestClassifyWind(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want Potential
	}{
		{"strong wind", 7.5, PotentialHigh},
		{"exactly high threshold stays medium", 6.0, PotentialMedium},
		{"moderate wind", 4.5, PotentialMedium},
		{"calm", 2.0, PotentialLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWind(tt.avg))
		})
	}
}

func TestRenewableRecommendations(t *testing.T) {
	t.Run("high solar and high wind", func(t *testing.T) {
		recs := RenewableRecommendations(PotentialHigh, PotentialHigh)
		assert.Len(t, recs, 3)
		assert.Contains(t, recs[0], "rooftop solar")
		assert.Contains(t, recs[2], "wind turbines")
	})

	t.Run("medium solar only", func(t *testing.T) {
		recs := RenewableRecommendations(PotentialMedium, PotentialLow)
		assert.Len(t, recs, 1)
		assert.Contains(t, recs[0], "moderately effective")
	})

	t.Run("neither high nor medium falls back to efficiency advice", func(t *testing.T) {
		recs := RenewableRecommendations(PotentialLow, PotentialLow)
		assert.Len(t, recs, 2)
		assert.Contains(t, recs[0], "energy efficiency")
		assert.Contains(t, recs[1], "community renewable energy")
	})
}

func TestAverage(t *testing.T) {
	series := map[string]float64{
		"20240101": 4.0,
		"20240102": 6.0,
		"20240103": 5.0,
	}
	assert.InDelta(t, 5.0, average(series), 1e-9)

	assert.Zero(t, average(nil))
	assert.Zero(t, average(map[string]float64{}))
}
