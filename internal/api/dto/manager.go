package dto

type RankedRestaurantResponse struct {
	RestaurantID int     `json:"restaurant_id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	DistanceKm   float64 `json:"distance_km"`
}

type ManagedOrderResponse struct {
	Order       OrderResponse              `json:"order"`
	Reason      string                     `json:"reason"`
	Restaurants []RankedRestaurantResponse `json:"restaurants"`
}

type ListManagedOrdersResponse struct {
	Orders []ManagedOrderResponse `json:"orders"`
}

type AssignRestaurantRequest struct {
	RestaurantID int `json:"restaurant_id" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
