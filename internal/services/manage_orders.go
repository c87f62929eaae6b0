package services

import (
	"context"
	"fmt"
	"foodcart-service/internal/domain"
)

// ManagedOrder is a waiting order with its ranked fulfilling restaurants.
type ManagedOrder struct {
	Order   *domain.Order
	Ranking domain.Ranking
}

// ListWaiting returns unprocessed orders, newest first, each ranked in a
// single shared address pass.
func (s *OrderService) ListWaiting(ctx context.Context) ([]ManagedOrder, error) {
	orders, err := s.orders.ListByStatus(ctx, domain.StatusWaiting)
	if err != nil {
		return nil, fmt.Errorf("list waiting orders: %w", err)
	}

	rankings, err := s.resolver.RankMany(ctx, orders)
	if err != nil {
		return nil, fmt.Errorf("list waiting orders: %w", err)
	}

	out := make([]ManagedOrder, 0, len(orders))
	for i, o := range orders {
		out = append(out, ManagedOrder{Order: o, Ranking: rankings[i]})
	}
	return out, nil
}

// Candidates returns the full ranking for one order.
func (s *OrderService) Candidates(ctx context.Context, orderID int) (ManagedOrder, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return ManagedOrder{}, fmt.Errorf("order candidates: %w", err)
	}

	ranking, err := s.resolver.Rank(ctx, order)
	if err != nil {
		return ManagedOrder{}, fmt.Errorf("order candidates: %w", err)
	}
	return ManagedOrder{Order: order, Ranking: ranking}, nil
}

// AssignRestaurant assigns a restaurant that carries every ordered product
// and moves the order into processing.
func (s *OrderService) AssignRestaurant(ctx context.Context, orderID int, restaurantID int) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("assign restaurant: %w", err)
	}

	if _, err := s.catalog.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("assign restaurant: %w", err)
	}

	items, err := s.catalog.ListAvailableMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign restaurant: list menu items: %w", err)
	}
	if !NewMenuIndex(items).CanFulfill(order, restaurantID) {
		return nil, fmt.Errorf(
			"assign restaurant: order_id=%d restaurant_id=%d: %w",
			orderID, restaurantID, domain.ErrRestaurantCannotFulfill,
		)
	}

	if err := s.orders.AssignRestaurant(ctx, orderID, restaurantID, domain.StatusInProcess); err != nil {
		return nil, fmt.Errorf("assign restaurant: %w", err)
	}
	return s.orders.Get(ctx, orderID)
}

// UpdateStatus moves an order to a known status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update status %q: %w", status, domain.ErrInvalidStatus)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.orders.Get(ctx, orderID)
}
