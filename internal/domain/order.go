package domain

import "time"

type OrderStatus string

const (
	StatusWaiting   OrderStatus = "waiting"
	StatusInProcess OrderStatus = "in process"
	StatusDone      OrderStatus = "done"
	StatusCanceled  OrderStatus = "canceled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusInProcess, StatusDone, StatusCanceled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentBankCard PaymentMethod = "bank_card"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentBankCard
}

// OrderItem is a single order line. Price is the product price captured
// when the order was registered.
type OrderItem struct {
	ProductID int
	Quantity  int
	Price     float64
}

// Order is a customer order delivered to a single street address.
// RestaurantID stays nil until a fulfilling restaurant is assigned.
type Order struct {
	ID            int
	Firstname     string
	Lastname      string
	Phonenumber   string
	Address       string
	Status        OrderStatus
	PaymentMethod PaymentMethod
	Comment       string
	RestaurantID  *int
	CreatedAt     time.Time
	CalledAt      *time.Time
	DeliveredAt   *time.Time
	Items         []OrderItem
}

// Total returns the sum of quantity * price over all items.
func (o *Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += float64(it.Quantity) * it.Price
	}
	return total
}

// ProductIDs returns the distinct ordered products in first-seen order.
func (o *Order) ProductIDs() []int {
	seen := make(map[int]struct{}, len(o.Items))
	ids := make([]int, 0, len(o.Items))
	for _, it := range o.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
