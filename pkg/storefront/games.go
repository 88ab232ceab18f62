package storefront

import (
	"context"
	"fmt"
	"net/url"

	"github.com/me/gamestore/pkg/model"
)

// ListGames returns the full catalog.
func (c *Client) ListGames(ctx context.Context) ([]model.Game, error) {
	var games []model.Game
	if err := c.Get(ctx, "/api/games", &games); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// GetGame returns a single catalog entry by id.
func (c *Client) GetGame(ctx context.Context, id int64) (*model.Game, error) {
	var game model.Game
	if err := c.Get(ctx, fmt.Sprintf("/api/games/%d", id), &game); err != nil {
		return nil, fmt.Errorf("get game %d: %w", id, err)
	}
	return &game, nil
}

// SearchGames returns catalog entries matching the query string.
func (c *Client) SearchGames(ctx context.Context, query string) ([]model.Game, error) {
	var games []model.Game
	endpoint := "/api/games/search?query=" + url.QueryEscape(query)
	if err := c.Get(ctx, endpoint, &games); err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}
	return games, nil
}

// GamesByGenre returns catalog entries for one genre.
func (c *Client) GamesByGenre(ctx context.Context, genre string) ([]model.Game, error) {
	var games []model.Game
	if err := c.Get(ctx, "/api/games/genre/"+url.PathEscape(genre), &games); err != nil {
		return nil, fmt.Errorf("games by genre: %w", err)
	}
	return games, nil
}

// GamesByPlatform returns catalog entries for one platform.
func (c *Client) GamesByPlatform(ctx context.Context, platform string) ([]model.Game, error) {
	var games []model.Game
	if err := c.Get(ctx, "/api/games/platform/"+url.PathEscape(platform), &games); err != nil {
		return nil, fmt.Errorf("games by platform: %w", err)
	}
	return games, nil
}

// CreateGame adds a catalog entry. Admin only.
func (c *Client) CreateGame(ctx context.Context, game *model.Game) (*model.Game, error) {
	var created model.Game
	if err := c.Post(ctx, "/api/games/admin", game, &created); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &created, nil
}

// UpdateGame replaces a catalog entry. Admin only.
func (c *Client) UpdateGame(ctx context.Context, id int64, game *model.Game) (*model.Game, error) {
	var updated model.Game
	if err := c.Put(ctx, fmt.Sprintf("/api/games/admin/%d", id), game, &updated); err != nil {
		return nil, fmt.Errorf("update game %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteGame removes a catalog entry. Admin only.
func (c *Client) DeleteGame(ctx context.Context, id int64) error {
	if err := c.Delete(ctx, fmt.Sprintf("/api/games/admin/%d", id), nil); err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	return nil
}
