package storefront

import (
	"context"
	"fmt"

	"github.com/me/gamestore/pkg/model"
)

// GetCart fetches the remote cart resource for the current session.
func (c *Client) GetCart(ctx context.Context) (*model.CartDTO, error) {
	var cart model.CartDTO
	if err := c.Get(ctx, "/api/cart", &cart); err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &cart, nil
}

// AddCartItem adds a game to the remote cart.
func (c *Client) AddCartItem(ctx context.Context, gameID int64, quantity int) error {
	err := c.Post(ctx, "/api/cart/items", &model.AddToCartRequest{
		GameID:   gameID,
		Quantity: quantity,
	}, nil)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// UpdateCartItem sets the quantity of one remote cart line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	endpoint := fmt.Sprintf("/api/cart/items/%d", itemID)
	err := c.Put(ctx, endpoint, &model.UpdateCartItemRequest{Quantity: quantity}, nil)
	if err != nil {
		return fmt.Errorf("update cart item %d: %w", itemID, err)
	}
	return nil
}

// RemoveCartItem deletes one remote cart line.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	if err := c.Delete(ctx, fmt.Sprintf("/api/cart/items/%d", itemID), nil); err != nil {
		return fmt.Errorf("remove cart item %d: %w", itemID, err)
	}
	return nil
}

// ClearCart deletes the whole remote cart.
func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.Delete(ctx, "/api/cart", nil); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
