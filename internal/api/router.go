package api

import (
	"foodcart-service/internal/api/handlers"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is everything the HTTP layer needs from the order services.
type Service interface {
	handlers.OrderService
	handlers.ManagerService
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc Service, maxCandidates int) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	orders := handlers.NewOrderHandler(svc)
	manager := handlers.NewManagerHandler(svc, maxCandidates)

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/order", orders.Register)

	m := r.Group("/manager/orders")
	m.GET("", manager.List)
	m.GET("/:id/restaurants", manager.Candidates)
	m.POST("/:id/restaurant", manager.AssignRestaurant)
	m.POST("/:id/status", manager.UpdateStatus)

	return r
}
