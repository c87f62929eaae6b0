package services

import "foodcart-service/internal/domain"

// MenuIndex maps each product to the restaurants currently offering it.
type MenuIndex struct {
	// Per product, restaurants in menu discovery order without duplicates.
	byProduct map[int][]domain.Restaurant
	offers    map[int]map[int]struct{}
}

// NewMenuIndex builds an index from menu items, ignoring unavailable ones.
func NewMenuIndex(items []domain.MenuItem) *MenuIndex {
	idx := &MenuIndex{
		byProduct: make(map[int][]domain.Restaurant),
		offers:    make(map[int]map[int]struct{}),
	}

	for _, it := range items {
		if !it.Availability {
			continue
		}

		set, ok := idx.offers[it.ProductID]
		if !ok {
			set = make(map[int]struct{})
			idx.offers[it.ProductID] = set
		}
		if _, dup := set[it.Restaurant.ID]; dup {
			continue
		}
		set[it.Restaurant.ID] = struct{}{}
		idx.byProduct[it.ProductID] = append(idx.byProduct[it.ProductID], it.Restaurant)
	}

	return idx
}

// RestaurantsFor returns the restaurants offering every distinct product
// in the order, each once, in the discovery order of the first product.
// The result is empty when any product has no available restaurant.
func (m *MenuIndex) RestaurantsFor(order *domain.Order) []domain.Restaurant {
	products := order.ProductIDs()
	if len(products) == 0 {
		return nil
	}

	out := make([]domain.Restaurant, 0, len(m.byProduct[products[0]]))
	for _, r := range m.byProduct[products[0]] {
		if m.offersAll(r.ID, products[1:]) {
			out = append(out, r)
		}
	}
	return out
}

// CanFulfill reports whether the restaurant offers every ordered product.
func (m *MenuIndex) CanFulfill(order *domain.Order, restaurantID int) bool {
	products := order.ProductIDs()
	return len(products) > 0 && m.offersAll(restaurantID, products)
}

func (m *MenuIndex) offersAll(restaurantID int, products []int) bool {
	for _, p := range products {
		if _, ok := m.offers[p][restaurantID]; !ok {
			return false
		}
	}
	return true
}
