package services

import (
	"context"
	"fmt"
	"foodcart-service/internal/domain"
	"math"
	"sort"
	"sync"
)

type fakeCatalog struct {
	restaurants map[int]domain.Restaurant
	products    map[int]domain.Product
	menu        []domain.MenuItem
	menuErr     error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		restaurants: make(map[int]domain.Restaurant),
		products:    make(map[int]domain.Product),
	}
}

func (c *fakeCatalog) addRestaurant(r domain.Restaurant, productIDs ...int) {
	c.restaurants[r.ID] = r
	for _, p := range productIDs {
		if _, ok := c.products[p]; !ok {
			c.products[p] = domain.Product{ID: p, Name: fmt.Sprintf("product-%d", p), Price: 100}
		}
		c.menu = append(c.menu, domain.MenuItem{Restaurant: r, ProductID: p, Availability: true})
	}
}

func (c *fakeCatalog) ListAvailableMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	if c.menuErr != nil {
		return nil, c.menuErr
	}
	out := make([]domain.MenuItem, 0, len(c.menu))
	for _, m := range c.menu {
		if m.Availability {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *fakeCatalog) ProductsByID(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	out := make(map[int]domain.Product)
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetRestaurant(ctx context.Context, id int) (domain.Restaurant, error) {
	r, ok := c.restaurants[id]
	if !ok {
		return domain.Restaurant{}, domain.ErrRestaurantNotFound
	}
	return r, nil
}

type fakeOrders struct {
	mu     sync.Mutex
	nextID int
	m      map[int]*domain.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{nextID: 1, m: make(map[int]*domain.Order)}
}

func (f *fakeOrders) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o := *order
	o.ID = f.nextID
	f.nextID++
	f.m[o.ID] = &o
	cp := o
	return &cp, nil
}

func (f *fakeOrders) Get(ctx context.Context, id int) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.m[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Order, 0, len(f.m))
	for _, o := range f.m {
		if o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrders) AssignRestaurant(ctx context.Context, id int, restaurantID int, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.m[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.RestaurantID = &restaurantID
	o.Status = status
	return nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.m[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

// north returns the point km kilometers due north of base.
func north(lon, lat, km float64) (float64, float64) {
	return lon, lat + km/(earthRadiusKm*math.Pi/180)
}
