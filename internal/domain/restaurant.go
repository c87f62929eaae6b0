package domain

// Restaurant fulfills orders from its menu. Address may be blank,
// in which case the restaurant cannot be ranked by distance.
type Restaurant struct {
	ID           int
	Name         string
	Address      string
	ContactPhone string
}

type Product struct {
	ID            int
	Name          string
	Price         float64
	CategoryID    *int
	SpecialStatus bool
	Description   string
}

// MenuItem is one restaurant's offer of one product.
type MenuItem struct {
	Restaurant   Restaurant
	ProductID    int
	Availability bool
}
