package storefront

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"
)

// makeToken builds a three-segment token with the given payload JSON.
func makeToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".sig"
}

func TestParseToken(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name     string
		token    string
		wantSub  string
		wantExp  int64
		wantErr  bool
	}{
		{
			name:    "valid token",
			token:   makeToken(fmt.Sprintf(`{"sub":"alice","exp":%d}`, future)),
			wantSub: "alice",
			wantExp: future,
		},
		{
			name:    "no expiry claim",
			token:   makeToken(`{"sub":"bob"}`),
			wantSub: "bob",
			wantExp: 0,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
		{
			name:    "two segments",
			token:   "abc.def",
			wantErr: true,
		},
		{
			name:    "four segments",
			token:   "a.b.c.d",
			wantErr: true,
		},
		{
			name:    "payload not base64",
			token:   "head.!!!not-base64!!!.sig",
			wantErr: true,
		},
		{
			name:    "payload not JSON",
			token:   makeToken(`not json at all`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrMalformedToken) {
					t.Errorf("error = %v, want ErrMalformedToken", err)
				}
				return
			}
			if got.Subject != tt.wantSub {
				t.Errorf("Subject = %q, want %q", got.Subject, tt.wantSub)
			}
			if got.Expiry != tt.wantExp {
				t.Errorf("Expiry = %d, want %d", got.Expiry, tt.wantExp)
			}
		})
	}
}

func TestParseToken_StdBase64Payload(t *testing.T) {
	// Some backends pad their segments; both alphabets must decode.
	body := base64.StdEncoding.EncodeToString([]byte(`{"sub":"carol","exp":0}`))
	claims, err := ParseToken("head." + body + ".sig")
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "carol" {
		t.Errorf("Subject = %q, want carol", claims.Subject)
	}
}

func TestClaims_IsExpired(t *testing.T) {
	tests := []struct {
		name string
		exp  int64
		want bool
	}{
		{"expired", time.Now().Add(-time.Hour).Unix(), true},
		{"valid", time.Now().Add(time.Hour).Unix(), false},
		{"no expiry never expires", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Claims{Expiry: tt.exp}
			if got := c.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUsernameFromToken(t *testing.T) {
	if got := UsernameFromToken(makeToken(`{"sub":"dave"}`)); got != "dave" {
		t.Errorf("UsernameFromToken() = %q, want dave", got)
	}
	if got := UsernameFromToken("garbage"); got != "" {
		t.Errorf("UsernameFromToken(garbage) = %q, want empty", got)
	}
}
