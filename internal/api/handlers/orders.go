package handlers

import (
	"context"
	"foodcart-service/internal/api/dto"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OrderService interface {
	Register(ctx context.Context, req services.RegisterOrderRequest) (*domain.Order, error)
}

// OrderHandler accepts customer orders.
type OrderHandler struct {
	service OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{service: svc}
}

// Register handles POST /api/order.
func (h *OrderHandler) Register(c *gin.Context) {
	var req dto.RegisterOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	svcReq := services.RegisterOrderRequest{
		Firstname:     req.Firstname,
		Lastname:      req.Lastname,
		Phonenumber:   req.Phonenumber,
		Address:       req.Address,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Comment:       req.Comment,
		Products:      make([]services.RequestedProduct, 0, len(req.Products)),
	}
	for _, p := range req.Products {
		svcReq.Products = append(svcReq.Products, services.RequestedProduct{
			ProductID: p.Product,
			Quantity:  p.Quantity,
		})
	}

	order, err := h.service.Register(c.Request.Context(), svcReq)
	if err != nil {
		writeError(c, "register order", err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}
