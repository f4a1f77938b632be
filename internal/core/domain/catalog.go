package domain

import "time"

// CartChanged is broadcast after any successful cart mutation. It carries no
// data; listeners re-fetch whatever they display.
type CartChanged struct{}

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CartItem is one line of the server-side cart snapshot.
type CartItem struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductPrice    float64 `json:"productPrice"`
	ProductImageURL string  `json:"productImageUrl,omitempty"`
	Quantity        int     `json:"quantity"`
	TotalPrice      float64 `json:"totalPrice"`
}

// Cart is the snapshot returned by every cart endpoint.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// OrderStatus is the fulfilment state an admin assigns to an order.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "PROCESSING"
	OrderAccepted   OrderStatus = "ACCEPTED"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderProcessing, OrderAccepted, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// OrderItem is one purchased line of an order.
type OrderItem struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductPrice    float64 `json:"productPrice"`
	ProductImageURL string  `json:"productImageUrl,omitempty"`
	Quantity        int     `json:"quantity"`
	TotalPrice      float64 `json:"totalPrice"`
}

// Order is a checked-out cart.
type Order struct {
	ID         string       `json:"id"`
	Items      []OrderItem  `json:"items"`
	TotalPrice float64      `json:"totalPrice"`
	Status     OrderStatus  `json:"status"`
	StatusText string       `json:"statusText,omitempty"`
	User       *RegularUser `json:"user,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Dashboard is the back-office landing summary.
type Dashboard struct {
	Products int `json:"products"`
	Users    int `json:"users"`
}
