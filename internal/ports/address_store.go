package ports

import (
	"context"
	"foodcart-service/internal/domain"
)

// Port: durable store of geocoded addresses keyed by unique title.
type AddressStore interface {
	// Fetch stored addresses for the given titles. Missing titles are absent from the result.
	GetMany(ctx context.Context, titles []string) (map[string]domain.Address, error)
	// Insert addresses whose titles are not stored yet and return the
	// authoritative record for every title. Existing records win on conflict.
	InsertMany(ctx context.Context, addrs []domain.Address) (map[string]domain.Address, error)
}
