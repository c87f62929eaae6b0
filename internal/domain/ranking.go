package domain

// RankedRestaurant is a fulfilling restaurant annotated with its
// great-circle distance to the order address.
type RankedRestaurant struct {
	RestaurantID int
	Name         string
	Address      string
	DistanceKm   float64
}

// RankingReason explains why a ranking is empty.
type RankingReason string

const (
	ReasonOK                     RankingReason = "ok"
	ReasonNoFulfillingRestaurant RankingReason = "no_fulfilling_restaurant"
	ReasonOrderAddressNotFound   RankingReason = "order_address_not_found"
	ReasonNoRankableRestaurant   RankingReason = "no_rankable_restaurant"
)

// Ranking is the nearest-first list of restaurants able to fulfill an order.
type Ranking struct {
	Restaurants []RankedRestaurant
	Reason      RankingReason
}

// Top returns at most n restaurants from the head of the ranking.
func (r Ranking) Top(n int) []RankedRestaurant {
	if n <= 0 || n >= len(r.Restaurants) {
		return r.Restaurants
	}
	return r.Restaurants[:n]
}
