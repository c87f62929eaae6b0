package dto

import "time"

type OrderProductRequest struct {
	Product  int `json:"product" binding:"required"`
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// Length limits mirror the orders table columns.
type RegisterOrderRequest struct {
	Firstname     string                `json:"firstname" binding:"required,max=50"`
	Lastname      string                `json:"lastname" binding:"required,max=50"`
	Phonenumber   string                `json:"phonenumber" binding:"required,max=32,e164"`
	Address       string                `json:"address" binding:"required,max=100"`
	PaymentMethod string                `json:"payment_method" binding:"omitempty,oneof=cash bank_card"`
	Comment       string                `json:"comment"`
	Products      []OrderProductRequest `json:"products" binding:"required,min=1,dive"`
}

type OrderItemResponse struct {
	Product  int     `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderResponse struct {
	ID            int                 `json:"id"`
	Firstname     string              `json:"firstname"`
	Lastname      string              `json:"lastname"`
	Phonenumber   string              `json:"phonenumber"`
	Address       string              `json:"address"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Comment       string              `json:"comment"`
	RestaurantID  *int                `json:"restaurant_id"`
	Total         float64             `json:"total"`
	CreatedAt     time.Time           `json:"created_at"`
	CalledAt      *time.Time          `json:"called_at"`
	DeliveredAt   *time.Time          `json:"delivered_at"`
	Products      []OrderItemResponse `json:"products"`
}
