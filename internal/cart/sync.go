// Package cart reconciles the client-visible cart with the remote cart
// resource. The server is the source of truth whenever a session is
// active and reachable; a locally cached snapshot is kept only as a
// fallback for remote failures and is fully overwritten on every
// successful fetch, never merged.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/gamestore/internal/store"
	"github.com/me/gamestore/pkg/model"
	"github.com/me/gamestore/pkg/storefront"
)

var (
	// ErrNotAuthenticated is returned by mutations that require an
	// active session. No network call is made in that case.
	ErrNotAuthenticated = errors.New("not authenticated: log in to manage the cart")

	// ErrItemNotFound indicates the given cart-line id has no local entry.
	ErrItemNotFound = errors.New("item not found in cart")

	// ErrInvalidGame indicates a game without an identity.
	ErrInvalidGame = errors.New("invalid game: missing id")
)

// Defaults applied to incomplete server lines.
const (
	defaultTitle    = "Unknown Game"
	defaultImageURL = "/default-game.jpg"
)

// RemoteClearError reports that the remote clear failed while the local
// cart was still emptied. Callers should treat it as a warning, not a
// failure: the user's cart is empty either way.
type RemoteClearError struct {
	Err error
}

// Error implements the error interface.
func (e *RemoteClearError) Error() string {
	return fmt.Sprintf("cart cleared locally, but the remote clear failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RemoteClearError) Unwrap() error { return e.Err }

// Session is the slice of the session manager the synchronizer needs.
type Session interface {
	IsAuthenticated(ctx context.Context) bool
}

// Synchronizer owns the client-visible cart state. All mutations are
// serialized through one mutex, so overlapping operations cannot
// interleave their remote calls and final state assignments.
type Synchronizer struct {
	client  *storefront.Client
	session Session
	store   store.Store
	logger  *slog.Logger

	mu    sync.Mutex
	items []model.CartItem
}

// NewSynchronizer creates a cart synchronizer. Callers that own a
// session manager should register Reset as a logout listener so the
// cart never outlives its session.
func NewSynchronizer(client *storefront.Client, sess Session, st store.Store, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		client:  client,
		session: sess,
		store:   st,
		logger:  logger.With("component", "cart"),
	}
}

// LoadFromServer refreshes local cart state from the remote resource.
// Unauthenticated: local state and cache are cleared immediately. On a
// remote failure the last cached snapshot is used if one exists,
// otherwise the cart is emptied; the failure itself is absorbed here,
// which is the only automatic recovery in the client.
func (s *Synchronizer) LoadFromServer(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Synchronizer) loadLocked(ctx context.Context) error {
	if !s.session.IsAuthenticated(ctx) {
		s.logger.Debug("no session, clearing cart")
		s.items = nil
		return s.store.Delete(ctx, store.KeyCart)
	}

	dto, err := s.client.GetCart(ctx)
	if err != nil {
		s.logger.Warn("remote cart fetch failed, using cached snapshot", "error", err)
		s.items = s.cachedSnapshot(ctx)
		return nil
	}

	items := make([]model.CartItem, 0, len(dto.Items))
	for _, line := range dto.Items {
		items = append(items, mapLine(line))
	}
	s.items = items

	if len(items) == 0 {
		return s.store.Delete(ctx, store.KeyCart)
	}
	return s.writeCache(ctx, items)
}

// mapLine converts one remote cart line into a local CartItem, applying
// the storefront's defaults for missing fields.
func mapLine(line model.CartLineDTO) model.CartItem {
	item := model.CartItem{
		ID:        line.ID,
		GameID:    line.GameID,
		Title:     line.GameTitle,
		UnitPrice: line.Price.Float64(),
		ImageURL:  line.ImageURL,
		Platform:  line.Platform,
		Quantity:  line.Quantity.Int(),
	}
	if item.Title == "" {
		item.Title = defaultTitle
	}
	if item.ImageURL == "" {
		item.ImageURL = defaultImageURL
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return item
}

// Add puts one unit of the game into the remote cart, then reloads the
// whole cart from the server. There is no local optimistic merge: the
// reload guarantees consistency with server-computed fields such as
// price snapshots.
func (s *Synchronizer) Add(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsAuthenticated(ctx) {
		return ErrNotAuthenticated
	}
	if game == nil || game.ID == 0 {
		return ErrInvalidGame
	}

	if err := s.client.AddCartItem(ctx, game.ID, 1); err != nil {
		return err
	}
	return s.loadLocked(ctx)
}

// UpdateQuantity sets a cart line's quantity. A quantity of zero or less
// delegates to Remove. The local entry changes only after the remote
// update succeeds, so a failed call leaves local and remote state in
// agreement.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}

	if s.session.IsAuthenticated(ctx) {
		if err := s.client.UpdateCartItem(ctx, itemID, quantity); err != nil {
			return err
		}
	}
	s.items[idx].Quantity = quantity
	return nil
}

// Remove deletes a cart line remotely, then locally.
func (s *Synchronizer) Remove(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}

	if s.session.IsAuthenticated(ctx) {
		if err := s.client.RemoveCartItem(ctx, itemID); err != nil {
			return err
		}
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

// Clear empties the cart. Local state and cache are emptied regardless
// of the remote outcome, so the user is never stuck with a cart that
// cannot be emptied; a failed remote clear is reported as a
// *RemoteClearError the caller should surface as a warning.
func (s *Synchronizer) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var remoteErr error
	if s.session.IsAuthenticated(ctx) {
		remoteErr = s.client.ClearCart(ctx)
	}

	s.items = nil
	if err := s.store.Delete(ctx, store.KeyCart); err != nil {
		s.logger.Warn("clearing cart cache failed", "error", err)
	}

	if remoteErr != nil {
		return &RemoteClearError{Err: remoteErr}
	}
	return nil
}

// Reset drops local cart state and cache without touching the server.
// Registered as a session logout listener.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.store.Delete(context.Background(), store.KeyCart); err != nil {
		s.logger.Warn("clearing cart cache failed", "error", err)
	}
}

// Items returns a copy of the current cart lines in server order.
func (s *Synchronizer) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CartItem(nil), s.items...)
}

// TotalPrice returns the sum of unit price times quantity over the
// current lines. No rounding beyond native floating point.
func (s *Synchronizer) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for i := range s.items {
		total += s.items[i].Subtotal()
	}
	return total
}

// TotalItems returns the sum of quantities over the current lines.
func (s *Synchronizer) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for i := range s.items {
		total += s.items[i].Quantity
	}
	return total
}

// IsInCart reports whether any line refers to the given game (by game
// identity, not cart-line identity).
func (s *Synchronizer) IsInCart(gameID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].GameID == gameID {
			return true
		}
	}
	return false
}

func (s *Synchronizer) indexOf(itemID int64) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// cachedSnapshot reads the fallback snapshot, or nil when absent or
// unparseable.
func (s *Synchronizer) cachedSnapshot(ctx context.Context) []model.CartItem {
	raw, ok, err := s.store.Get(ctx, store.KeyCart)
	if err != nil || !ok {
		return nil
	}
	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("unparseable cart cache, dropping it", "error", err)
		_ = s.store.Delete(ctx, store.KeyCart)
		return nil
	}
	return items
}

func (s *Synchronizer) writeCache(ctx context.Context, items []model.CartItem) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart cache: %w", err)
	}
	return s.store.Put(ctx, store.KeyCart, string(blob))
}
