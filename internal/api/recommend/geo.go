package recommend

import (
	"math"

	"github.com/wandernear/nearby-places/internal/types"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two positions in
// kilometers. Inputs are decimal degrees and must be finite; callers are
// responsible for checking coordinates exist before calling.
func DistanceKm(a, b types.Position) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	s1 := math.Sin(dLat / 2)
	s2 := math.Sin(dLng / 2)
	q := s1*s1 + math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*s2*s2
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(q), math.Sqrt(1-q))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func finitePosition(p types.Position) bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}
