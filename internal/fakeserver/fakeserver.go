// Package fakeserver is an in-memory stand-in for the storefront
// backend, covering the REST surface the client consumes: auth with
// availability checks, the game catalog with admin mutations, the cart
// resource and orders. It exists for tests; the real backend is an
// external system.
package fakeserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/gamestore/pkg/model"
)

type user struct {
	id       int64
	username string
	email    string
	password string
	roles    []string
}

type cartLine struct {
	id     int64
	gameID int64
	qty    int
}

// Server is the fake storefront backend.
type Server struct {
	mu     sync.Mutex
	router chi.Router

	nextID int64
	users  map[string]*user       // by username
	games  map[int64]*model.Game  // by id
	carts  map[int64][]cartLine   // by user id
	orders map[int64][]model.Order // by user id

	// cartFailure, when non-zero, is returned for every cart endpoint.
	cartFailure int
}

// New creates a fake backend with empty state.
func New() *Server {
	s := &Server{
		users:  make(map[string]*user),
		games:  make(map[int64]*model.Game),
		carts:  make(map[int64][]cartLine),
		orders: make(map[int64][]model.Order),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler, suitable for httptest.NewServer.
func (s *Server) Handler() http.Handler { return s.router }

// SeedUser registers a user directly and returns its id.
func (s *Server) SeedUser(username, email, password string, roles ...string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}
	u := &user{id: s.nextIDLocked(), username: username, email: email, password: password, roles: roles}
	s.users[username] = u
	return u.id
}

// SeedGame adds a catalog entry directly and returns its id.
func (s *Server) SeedGame(g model.Game) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == 0 {
		g.ID = s.nextIDLocked()
	}
	g.Active = true
	s.games[g.ID] = &g
	return g.ID
}

// SetCartFailure makes every cart endpoint answer with the given status
// until reset with 0. Used to exercise the client's snapshot fallback.
func (s *Server) SetCartFailure(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartFailure = status
}

// IssueToken mints a three-segment token for the given username with
// the given expiry, in the same shape the login endpoint produces.
func IssueToken(username string, expiry time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, _ := json.Marshal(map[string]any{
		"sub": username,
		"exp": expiry.Unix(),
		"jti": uuid.NewString(),
	})
	body := base64.RawURLEncoding.EncodeToString(payload)
	sig := base64.RawURLEncoding.EncodeToString([]byte("unsigned"))
	return header + "." + body + "." + sig
}

func (s *Server) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Get("/check-username/{username}", s.handleCheckUsername)
		r.Get("/check-email/{email}", s.handleCheckEmail)
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", s.handleListGames)
		r.Get("/search", s.handleSearchGames)
		r.Get("/genre/{genre}", s.handleGamesByGenre)
		r.Get("/platform/{platform}", s.handleGamesByPlatform)
		r.Get("/{id}", s.handleGetGame)
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireRole(model.RoleAdmin))
			r.Post("/", s.handleCreateGame)
			r.Put("/{id}", s.handleUpdateGame)
			r.Delete("/{id}", s.handleDeleteGame)
		})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(s.requireRole(""))
		r.Use(s.cartFailureMiddleware)
		r.Get("/", s.handleGetCart)
		r.Delete("/", s.handleClearCart)
		r.Post("/items", s.handleAddCartItem)
		r.Put("/items/{itemId}", s.handleUpdateCartItem)
		r.Delete("/items/{itemId}", s.handleRemoveCartItem)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(s.requireRole(""))
		r.Post("/", s.handleCheckout)
		r.Get("/", s.handleListOrders)
		r.With(s.requireRole(model.RoleAdmin)).Get("/admin/all", s.handleListAllOrders)
		r.Get("/{id}", s.handleGetOrder)
		r.With(s.requireRole(model.RoleAdmin)).Put("/{id}/status", s.handleUpdateOrderStatus)
	})

	s.router = r
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

type ctxKey int

const userKey ctxKey = 0

// requireRole authenticates the bearer token and, when role is
// non-empty, additionally requires that role.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := s.authenticate(r)
			if u == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if role != "" && !hasRole(u, role) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, withUser(r, u))
		})
	}
}

func (s *Server) authenticate(r *http.Request) *user {
	auth := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || raw == "" {
		return nil
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}
	var claims struct {
		Sub string `json:"sub"`
		Exp int64  `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}
	if claims.Exp != 0 && time.Now().Unix() > claims.Exp {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[claims.Sub]
}

func hasRole(u *user, role string) bool {
	for _, r := range u.roles {
		if r == role {
			return true
		}
	}
	return false
}

func withUser(r *http.Request, u *user) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, u))
}

func requestUser(r *http.Request) *user {
	u, _ := r.Context().Value(userKey).(*user)
	return u
}

func (s *Server) cartFailureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.cartFailure
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, "cart service unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

// --- auth handlers ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	u := s.users[req.Username]
	s.mu.Unlock()
	if u == nil || u.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{
		Token:    IssueToken(u.username, time.Now().Add(time.Hour)),
		ID:       u.id,
		Username: u.username,
		Email:    u.email,
		Roles:    u.roles,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Username]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "Username is already taken")
		return
	}
	for _, u := range s.users {
		if u.email == req.Email {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, "Email is already in use")
			return
		}
	}
	u := &user{
		id:       s.nextIDLocked(),
		username: req.Username,
		email:    req.Email,
		password: req.Password,
		roles:    []string{model.RoleUser},
	}
	s.users[req.Username] = u
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, model.AuthResponse{
		Token:    IssueToken(u.username, time.Now().Add(time.Hour)),
		ID:       u.id,
		Username: u.username,
		Email:    u.email,
		Roles:    u.roles,
	})
}

func (s *Server) handleCheckUsername(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "username")
	s.mu.Lock()
	_, taken := s.users[name]
	s.mu.Unlock()
	if taken {
		writeError(w, http.StatusConflict, "Username is already taken")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.email == email {
			writeError(w, http.StatusConflict, "Email is already in use")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// --- game handlers ---

func (s *Server) listGames(filter func(*model.Game) bool) []model.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Game{}
	for _, g := range s.games {
		if filter == nil || filter(g) {
			out = append(out, *g)
		}
	}
	return out
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.listGames(nil))
}

func (s *Server) handleSearchGames(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	writeJSON(w, http.StatusOK, s.listGames(func(g *model.Game) bool {
		return strings.Contains(strings.ToLower(g.Title), q)
	}))
}

func (s *Server) handleGamesByGenre(w http.ResponseWriter, r *http.Request) {
	genre := chi.URLParam(r, "genre")
	writeJSON(w, http.StatusOK, s.listGames(func(g *model.Game) bool {
		for _, gg := range g.Genres {
			if strings.EqualFold(gg, genre) {
				return true
			}
		}
		return false
	}))
}

func (s *Server) handleGamesByPlatform(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")
	writeJSON(w, http.StatusOK, s.listGames(func(g *model.Game) bool {
		return strings.EqualFold(g.Platform, platform)
	}))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	s.mu.Lock()
	g := s.games[id]
	s.mu.Unlock()
	if g == nil {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var g model.Game
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	g.ID = s.nextIDLocked()
	g.Active = true
	s.games[g.ID] = &g
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var g model.Game
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.games[id] == nil {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	g.ID = id
	s.games[id] = &g
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.games[id] == nil {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	delete(s.games, id)
	w.WriteHeader(http.StatusNoContent)
}

// --- cart handlers ---

func (s *Server) cartDTO(u *user) model.CartDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	dto := model.CartDTO{ID: u.id, UserID: u.id, Items: []model.CartLineDTO{}}
	var total float64
	for _, line := range s.carts[u.id] {
		g := s.games[line.gameID]
		item := model.CartLineDTO{
			ID:       line.id,
			GameID:   line.gameID,
			Quantity: model.Quantity(line.qty),
		}
		if g != nil {
			item.GameTitle = g.Title
			item.Price = g.Price
			item.ImageURL = g.ImageURL
			item.Platform = g.Platform
			item.Developer = g.Developer
			item.Subtotal = model.Price(g.Price.Float64() * float64(line.qty))
		}
		total += item.Subtotal.Float64()
		dto.Items = append(dto.Items, item)
	}
	dto.TotalPrice = model.Price(total)
	return dto
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cartDTO(requestUser(r)))
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	u := requestUser(r)
	var req model.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.games[req.GameID] == nil {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}
	lines := s.carts[u.id]
	for i := range lines {
		if lines[i].gameID == req.GameID {
			lines[i].qty += qty
			s.carts[u.id] = lines
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	s.carts[u.id] = append(lines, cartLine{id: s.nextIDLocked(), gameID: req.GameID, qty: qty})
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	u := requestUser(r)
	itemID, ok := pathID(r, "itemId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req model.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[u.id]
	for i := range lines {
		if lines[i].id == itemID {
			lines[i].qty = req.Quantity
			s.carts[u.id] = lines
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Cart item not found")
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	u := requestUser(r)
	itemID, ok := pathID(r, "itemId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[u.id]
	for i := range lines {
		if lines[i].id == itemID {
			s.carts[u.id] = append(lines[:i], lines[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Cart item not found")
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	u := requestUser(r)
	s.mu.Lock()
	delete(s.carts, u.id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// --- order handlers ---

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	u := requestUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[u.id]
	if len(lines) == 0 {
		writeError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	order := model.Order{
		ID:        s.nextIDLocked(),
		OrderDate: time.Now().UTC(),
		Status:    model.OrderPending,
		UserID:    u.id,
		UserName:  u.username,
		UserEmail: u.email,
	}
	var total float64
	for _, line := range lines {
		g := s.games[line.gameID]
		if g == nil {
			continue
		}
		sub := g.Price.Float64() * float64(line.qty)
		total += sub
		order.Items = append(order.Items, model.OrderItem{
			ID:              s.nextIDLocked(),
			GameID:          line.gameID,
			GameTitle:       g.Title,
			ImageURL:        g.ImageURL,
			Quantity:        model.Quantity(line.qty),
			PriceAtPurchase: g.Price,
			Subtotal:        model.Price(sub),
			Platform:        g.Platform,
			Developer:       g.Developer,
		})
	}
	order.TotalAmount = model.Price(total)

	s.orders[u.id] = append(s.orders[u.id], order)
	delete(s.carts, u.id)
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	u := requestUser(r)
	s.mu.Lock()
	orders := append([]model.Order{}, s.orders[u.id]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	u := requestUser(r)
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders[u.id] {
		if o.ID == id {
			writeJSON(w, http.StatusOK, o)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Order not found")
}

func (s *Server) handleListAllOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := []model.Order{}
	for _, orders := range s.orders {
		all = append(all, orders...)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req model.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for uid, orders := range s.orders {
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = req.Status
				s.orders[uid] = orders
				writeJSON(w, http.StatusOK, orders[i])
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, "Order not found")
}
