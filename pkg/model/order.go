package model

import "time"

// Order statuses used by the storefront backend.
const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

// Order is a placed order as returned by the orders API.
type Order struct {
	ID          int64       `json:"id"`
	OrderDate   time.Time   `json:"orderDate"`
	Status      string      `json:"status"`
	TotalAmount Price       `json:"totalAmount"`
	Items       []OrderItem `json:"items"`
	UserID      int64       `json:"userId,omitempty"`
	UserName    string      `json:"userName,omitempty"`
	UserEmail   string      `json:"userEmail,omitempty"`
}

// OrderItem is one purchased line within an order.
type OrderItem struct {
	ID              int64    `json:"id"`
	GameID          int64    `json:"gameId"`
	GameTitle       string   `json:"gameTitle"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Quantity        Quantity `json:"quantity"`
	PriceAtPurchase Price    `json:"priceAtPurchase"`
	Subtotal        Price    `json:"subtotal"`
	Platform        string   `json:"platform,omitempty"`
	Developer       string   `json:"developer,omitempty"`
}

// UpdateOrderStatusRequest is the body of PUT /api/orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
