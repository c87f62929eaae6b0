package ports

import (
	"context"
	"foodcart-service/internal/domain"
)

// Contract for converting free-text addresses to coordinates.
type Geocoder interface {
	// Return the most relevant coordinates for address, or false when the
	// provider is unavailable or has no match. Never returns an error.
	FetchCoordinates(ctx context.Context, address string) (domain.Coordinates, bool)
}
