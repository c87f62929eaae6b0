package ports

import (
	"context"
	"foodcart-service/internal/domain"
)

// Port: read-only access to restaurants, products, and menus.
type CatalogRepository interface {
	// Return all menu items with availability=true, joined with restaurant identity and address.
	ListAvailableMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	// Return products by id. Unknown ids are absent from the result.
	ProductsByID(ctx context.Context, ids []int) (map[int]domain.Product, error)
	GetRestaurant(ctx context.Context, id int) (domain.Restaurant, error)
}
