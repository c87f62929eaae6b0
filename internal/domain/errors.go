package domain

import "errors"

var (
	ErrInvalidOrder            = errors.New("invalid order")
	ErrOrderNotFound           = errors.New("order not found")
	ErrRestaurantNotFound      = errors.New("restaurant not found")
	ErrUnknownProduct          = errors.New("unknown product")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrRestaurantCannotFulfill = errors.New("restaurant cannot fulfill order")
)
