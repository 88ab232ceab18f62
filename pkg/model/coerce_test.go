package model

import (
	"encoding/json"
	"testing"
)

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `19.99`, 19.99},
		{"integer", `60`, 60},
		{"numeric string", `"12.50"`, 12.5},
		{"garbage string", `"free!"`, 0},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if p.Float64() != tt.want {
				t.Errorf("Price = %v, want %v", p.Float64(), tt.want)
			}
		})
	}
}

func TestQuantityUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"number", `3`, 3},
		{"numeric string", `"4"`, 4},
		{"float truncates", `2.9`, 2},
		{"garbage string", `"many"`, 1},
		{"null", `null`, 1},
		{"empty string", `""`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			if err := json.Unmarshal([]byte(tt.in), &q); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if q.Int() != tt.want {
				t.Errorf("Quantity = %v, want %v", q.Int(), tt.want)
			}
		})
	}
}

func TestUserHasRole(t *testing.T) {
	u := &User{Roles: []string{RoleUser, RoleAdmin}}
	if !u.IsAdmin() {
		t.Error("IsAdmin() = false, want true")
	}
	if !(&User{Roles: []string{RoleUser}}).HasRole(RoleUser) {
		t.Error("HasRole(RoleUser) = false, want true")
	}
	if (&User{}).IsAdmin() {
		t.Error("IsAdmin() on empty roles = true, want false")
	}
}

func TestAuthResponseProfile_DefaultsRole(t *testing.T) {
	r := &AuthResponse{ID: 5, Username: "eve", Email: "eve@example.com"}
	u := r.Profile()
	if len(u.Roles) != 1 || u.Roles[0] != RoleUser {
		t.Errorf("Roles = %v, want [%s]", u.Roles, RoleUser)
	}

	r.Roles = []string{RoleAdmin}
	if got := r.Profile().Roles; len(got) != 1 || got[0] != RoleAdmin {
		t.Errorf("Roles = %v, want [%s]", got, RoleAdmin)
	}
}

func TestGameEffectivePrice(t *testing.T) {
	g := &Game{Price: 60, DiscountPrice: 40}
	if g.EffectivePrice() != 40 {
		t.Errorf("EffectivePrice() = %v, want 40", g.EffectivePrice())
	}
	g = &Game{Price: 60}
	if g.EffectivePrice() != 60 {
		t.Errorf("EffectivePrice() = %v, want 60", g.EffectivePrice())
	}
}
