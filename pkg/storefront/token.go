package storefront

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claims are the fields of a parsed bearer token that the client
// inspects locally. The signature is never verified client-side; the
// backend is the authority, the client only needs the expiry.
type Claims struct {
	// Raw is the complete token string.
	Raw string `json:"-"`

	// Subject is the authenticated username.
	Subject string `json:"sub"`

	// Expiry is the unix-seconds expiration timestamp. Zero means the
	// token carries no expiry and is treated as non-expiring.
	Expiry int64 `json:"exp"`
}

// ExpiresAt returns the expiry as a time.Time, or the zero time when
// the token has no expiry claim.
func (c *Claims) ExpiresAt() time.Time {
	if c.Expiry == 0 {
		return time.Time{}
	}
	return time.Unix(c.Expiry, 0)
}

// IsExpired reports whether the token's embedded expiry is in the past.
// Tokens without an expiry claim never expire locally.
func (c *Claims) IsExpired() bool {
	if c.Expiry == 0 {
		return false
	}
	return time.Now().After(c.ExpiresAt())
}

// ParseToken decodes the payload segment of a bearer token without
// verifying its signature. Tokens must have exactly three dot-separated
// segments; anything else fails with ErrMalformedToken.
func ParseToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformedToken
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims := &Claims{Raw: raw}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: invalid payload JSON", ErrMalformedToken)
	}

	return claims, nil
}

// decodeSegment decodes a token segment, accepting both the url-safe
// alphabet the backend issues and plain base64 with or without padding.
func decodeSegment(seg string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	} {
		if b, err := enc.DecodeString(seg); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("undecodable base64 segment")
}

// UsernameFromToken extracts the subject from a raw token string.
// Returns empty string if the token cannot be parsed.
func UsernameFromToken(raw string) string {
	claims, err := ParseToken(raw)
	if err != nil {
		return ""
	}
	return claims.Subject
}
