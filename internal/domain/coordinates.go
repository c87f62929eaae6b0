package domain

// Immutable geographic coordinates (longitude, latitude).
// Geocoding providers return points in this order; callers must not transpose.
type Coordinates struct {
	Lon float64
	Lat float64
}

