package model

// CartItem is one client-visible cart line, mirroring a server-side
// line item. ID is the server-assigned cart-line identity; GameID is
// the catalog identity the line refers to.
type CartItem struct {
	ID        int64   `json:"id"`
	GameID    int64   `json:"gameId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	ImageURL  string  `json:"imageUrl"`
	Platform  string  `json:"platform"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (ci *CartItem) Subtotal() float64 {
	return ci.UnitPrice * float64(ci.Quantity)
}

// CartDTO is the wire shape of GET /api/cart.
type CartDTO struct {
	ID         int64         `json:"id"`
	UserID     int64         `json:"userId"`
	TotalPrice Price         `json:"totalPrice"`
	Items      []CartLineDTO `json:"items"`
}

// CartLineDTO is one line of the remote cart resource. Price and
// quantity are coerced at the transport boundary; everything the
// synchronizer consumes downstream is already numeric.
type CartLineDTO struct {
	ID        int64    `json:"id"`
	GameID    int64    `json:"gameId"`
	GameTitle string   `json:"gameTitle"`
	ImageURL  string   `json:"imageUrl"`
	Quantity  Quantity `json:"quantity"`
	Price     Price    `json:"price"`
	Subtotal  Price    `json:"subtotal"`
	Platform  string   `json:"platform"`
	Developer string   `json:"developer"`
}

// AddToCartRequest is the body of POST /api/cart/items.
type AddToCartRequest struct {
	GameID   int64 `json:"gameId"`
	Quantity int   `json:"quantity"`
}

// UpdateCartItemRequest is the body of PUT /api/cart/items/{itemId}.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
