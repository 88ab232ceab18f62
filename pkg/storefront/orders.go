package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/me/gamestore/pkg/model"
)

// Checkout turns the current cart into an order. An empty cart is
// reported as ErrEmptyCart rather than a raw 400.
func (c *Client) Checkout(ctx context.Context) (*model.Order, error) {
	var order model.Order
	if err := c.Post(ctx, "/api/orders", nil, &order); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusBadRequest && se.Message == "Cart is empty" {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("checkout: %w", err)
	}
	return &order, nil
}

// ListOrders returns the current user's order history.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.Get(ctx, "/api/orders", &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one order by id.
func (c *Client) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := c.Get(ctx, fmt.Sprintf("/api/orders/%d", id), &order); err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &order, nil
}

// ListAllOrders returns every order in the store. Admin only.
func (c *Client) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.Get(ctx, "/api/orders/admin/all", &orders); err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus sets an order's status. Admin only.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string) (*model.Order, error) {
	var order model.Order
	endpoint := fmt.Sprintf("/api/orders/%d/status", id)
	if err := c.Put(ctx, endpoint, &model.UpdateOrderStatusRequest{Status: status}, &order); err != nil {
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}
	return &order, nil
}
