package ports

import (
	"context"
	"foodcart-service/internal/domain"
)

// Port: persistence for customer orders and their items.
type OrderRepository interface {
	// Persist a new order with its items and return the stored order.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	// List orders in the given status, newest first.
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	AssignRestaurant(ctx context.Context, id int, restaurantID int, status domain.OrderStatus) error
	UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) error
}
