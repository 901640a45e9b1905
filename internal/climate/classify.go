package climate

// Classification thresholds are fixed heuristics: irradiance in
// kWh/m2/day-equivalent, wind speed in m/s.
const (
	solarHighThreshold   = 5
	solarMediumThreshold = 3
	windHighThreshold    = 6
	windMediumThreshold  = 3
)

// ClassifySolar buckets an average irradiance into an ordinal potential.
func ClassifySolar(avg float64) Potential {
	switch {
	case avg > solarHighThreshold:
		return PotentialHigh
	case avg > solarMediumThreshold:
		return PotentialMedium
	default:
		return PotentialLow
	}
}

// ClassifyWind buckets an average wind speed into an ordinal potential.
func ClassifyWind(avg float64) Potential {
	switch {
	case avg > windHighThreshold:
		return PotentialHigh
	case avg > windMediumThreshold:
		return PotentialMedium
	default:
		return PotentialLow
	}
}

// RenewableRecommendations selects advice text from a fixed decision table
// keyed on the two potential classes. When neither resource rates High or
// Medium, generic efficiency suggestions are emitted instead.
func RenewableRecommendations(solar, wind Potential) []string {
	var recs []string

	switch solar {
	case PotentialHigh:
		recs = append(recs,
			"Excellent location for solar panels - consider rooftop solar installation",
			"Solar water heating would be very effective in this location")
	case PotentialMedium:
		recs = append(recs, "Good solar potential - solar panels would be moderately effective")
	}

	switch wind {
	case PotentialHigh:
		recs = append(recs, "Strong wind resources - consider small wind turbines if permitted")
	case PotentialMedium:
		recs = append(recs, "Moderate wind potential - small wind systems might be viable")
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Consider energy efficiency improvements as primary focus",
			"Look into community renewable energy programs")
	}

	return recs
}

// average returns the mean of a series, or 0 for an empty one.
func average(series map[string]float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}
