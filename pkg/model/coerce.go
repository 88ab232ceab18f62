package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Price is a monetary amount that tolerates sloppy server encodings.
// The backend sometimes serializes BigDecimal fields as JSON numbers and
// sometimes as strings; anything unparseable decodes to 0.
type Price float64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = Price(f)
	return nil
}

// Float64 returns the price as a plain float64.
func (p Price) Float64() float64 { return float64(p) }

// Quantity is a cart-line count that tolerates sloppy server encodings.
// Anything unparseable decodes to 1, matching the storefront's
// "a line always holds at least one unit" reading of malformed data.
type Quantity int

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*q = 1
		return nil
	}
	s = strings.Trim(s, `"`)
	// Accept floats ("2.0") the way parseInt would.
	if i := strings.IndexAny(s, ".eE"); i > 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*q = 1
		return nil
	}
	*q = Quantity(n)
	return nil
}

// Int returns the quantity as a plain int.
func (q Quantity) Int() int { return int(q) }

var (
	_ json.Unmarshaler = (*Price)(nil)
	_ json.Unmarshaler = (*Quantity)(nil)
)
