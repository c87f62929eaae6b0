package services

import (
	"foodcart-service/internal/domain"
	"math"
)

// Mean Earth radius of the WGS-84 ellipsoid.
const earthRadiusKm = 6371.0088

// DistanceKm returns the great-circle distance between a and b in
// kilometers, rounded to 2 decimal places. It reports false when either
// point is missing.
func DistanceKm(a, b *domain.Coordinates) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}

	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding error can push h just past 1 for antipodal points.
	h = math.Min(1, h)

	km := 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
	return math.Abs(math.Round(km*100) / 100), true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
