package pipeline

import (
	"math"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
)

// Corroborates reports whether a prior report backs the candidate price.
// The comparison is relative to the candidate: a prior price within
// tolerance * candidate of it counts. Non-positive prices never corroborate
// anything, regardless of tolerance.
func Corroborates(prior, candidate, tolerance float64) bool {
	if prior <= 0 || candidate <= 0 {
		return false
	}

	return math.Abs(prior-candidate) <= tolerance*candidate
}

// CountCorroborating counts the prior sightings whose price backs the
// candidate price under the given tolerance.
func CountCorroborating(prior []domain.Sighting, candidate, tolerance float64) int {
	var n int
	for _, s := range prior {
		if Corroborates(s.Price, candidate, tolerance) {
			n++
		}
	}

	return n
}

// MeetsQuorum reports whether the corroborating count reaches the threshold.
func MeetsQuorum(count, threshold int) bool {
	return count >= threshold
}

// MatchesAlert reports whether a validated sighting satisfies an alert.
// Both cuts are inclusive: a price exactly at the target and a store exactly
// at the radius boundary still match. Alerts without a target price match on
// distance alone. Inactive alerts never match.
func MatchesAlert(alert domain.Alert, sighting domain.Sighting, storeLocation geo.Point) bool {
	if !alert.Active {
		return false
	}
	if alert.TargetPrice != nil && sighting.Price > *alert.TargetPrice {
		return false
	}

	return geo.WithinRadiusKm(storeLocation, sighting.Location, alert.RadiusKm)
}

// MatchAlerts filters alerts down to the ones the sighting satisfies,
// preserving order.
func MatchAlerts(alerts []domain.Alert, sighting domain.Sighting, storeLocation geo.Point) []domain.Alert {
	var matched []domain.Alert
	for _, alert := range alerts {
		if MatchesAlert(alert, sighting, storeLocation) {
			matched = append(matched, alert)
		}
	}

	return matched
}
