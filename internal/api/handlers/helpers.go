package handlers

import (
	"errors"
	"foodcart-service/internal/api/dto"
	"foodcart-service/internal/domain"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// writeError maps domain errors to client statuses; anything else is logged
// and reported as a 500 without detail.
func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrUnknownProduct),
		errors.Is(err, domain.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrRestaurantNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrRestaurantCannotFulfill):
		respondError(c, http.StatusConflict, err.Error())
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("request failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func toOrderResponse(o *domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			Product:  it.ProductID,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	return dto.OrderResponse{
		ID:            o.ID,
		Firstname:     o.Firstname,
		Lastname:      o.Lastname,
		Phonenumber:   o.Phonenumber,
		Address:       o.Address,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		Comment:       o.Comment,
		RestaurantID:  o.RestaurantID,
		Total:         o.Total(),
		CreatedAt:     o.CreatedAt,
		CalledAt:      o.CalledAt,
		DeliveredAt:   o.DeliveredAt,
		Products:      items,
	}
}

func toManagedOrderResponse(o *domain.Order, ranking domain.Ranking, limit int) dto.ManagedOrderResponse {
	top := ranking.Top(limit)
	restaurants := make([]dto.RankedRestaurantResponse, 0, len(top))
	for _, r := range top {
		restaurants = append(restaurants, dto.RankedRestaurantResponse{
			RestaurantID: r.RestaurantID,
			Name:         r.Name,
			Address:      r.Address,
			DistanceKm:   r.DistanceKm,
		})
	}

	return dto.ManagedOrderResponse{
		Order:       toOrderResponse(o),
		Reason:      string(ranking.Reason),
		Restaurants: restaurants,
	}
}
