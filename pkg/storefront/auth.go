package storefront

import (
	"context"
	"fmt"
	"net/url"

	"github.com/me/gamestore/pkg/model"
)

// Login authenticates with the backend and returns the auth response.
// A response without a token fails with ErrNoToken.
func (c *Client) Login(ctx context.Context, username, password string) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.Post(ctx, "/api/auth/login", &model.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return nil, ErrNoToken
	}
	return &resp, nil
}

// Register creates a new account and returns the auth response. Like
// Login, a token field is required in the response.
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.Post(ctx, "/api/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if resp.Token == "" {
		return nil, ErrNoToken
	}
	return &resp, nil
}

// CheckUsername probes username availability. A conflict is reported by
// the backend as HTTP 409; absence of conflict is implied by any non-409
// status.
func (c *Client) CheckUsername(ctx context.Context, username string) error {
	return c.Get(ctx, "/api/auth/check-username/"+url.PathEscape(username), nil)
}

// CheckEmail probes email availability, with the same 409 contract as
// CheckUsername.
func (c *Client) CheckEmail(ctx context.Context, email string) error {
	return c.Get(ctx, "/api/auth/check-email/"+url.PathEscape(email), nil)
}
