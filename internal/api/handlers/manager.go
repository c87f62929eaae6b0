package handlers

import (
	"context"
	"foodcart-service/internal/api/dto"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ManagerService interface {
	ListWaiting(ctx context.Context) ([]services.ManagedOrder, error)
	Candidates(ctx context.Context, orderID int) (services.ManagedOrder, error)
	AssignRestaurant(ctx context.Context, orderID int, restaurantID int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) (*domain.Order, error)
}

// ManagerHandler exposes the order triage endpoints.
type ManagerHandler struct {
	service ManagerService
	// Restaurants shown per order in the list view; 0 shows all.
	maxCandidates int
}

func NewManagerHandler(svc ManagerService, maxCandidates int) *ManagerHandler {
	return &ManagerHandler{service: svc, maxCandidates: maxCandidates}
}

// List handles GET /manager/orders.
func (h *ManagerHandler) List(c *gin.Context) {
	orders, err := h.service.ListWaiting(c.Request.Context())
	if err != nil {
		writeError(c, "list orders", err)
		return
	}

	res := dto.ListManagedOrdersResponse{Orders: make([]dto.ManagedOrderResponse, 0, len(orders))}
	for _, mo := range orders {
		res.Orders = append(res.Orders, toManagedOrderResponse(mo.Order, mo.Ranking, h.maxCandidates))
	}

	c.JSON(http.StatusOK, res)
}

// Candidates handles GET /manager/orders/:id/restaurants.
func (h *ManagerHandler) Candidates(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	mo, err := h.service.Candidates(c.Request.Context(), id)
	if err != nil {
		writeError(c, "order candidates", err)
		return
	}

	c.JSON(http.StatusOK, toManagedOrderResponse(mo.Order, mo.Ranking, 0))
}

// AssignRestaurant handles POST /manager/orders/:id/restaurant.
func (h *ManagerHandler) AssignRestaurant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	order, err := h.service.AssignRestaurant(c.Request.Context(), id, req.RestaurantID)
	if err != nil {
		writeError(c, "assign restaurant", err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles POST /manager/orders/:id/status.
func (h *ManagerHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		writeError(c, "update status", err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}
