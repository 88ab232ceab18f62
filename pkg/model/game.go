package model

// Game is a catalog entry as returned by the storefront API.
type Game struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Developer     string   `json:"developer,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"` // ISO date, presentation only
	Platform      string   `json:"platform,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Price         Price    `json:"price"`
	DiscountPrice Price    `json:"discountPrice,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Active        bool     `json:"active"`
}

// EffectivePrice returns the discounted price when one is set.
func (g *Game) EffectivePrice() float64 {
	if g.DiscountPrice > 0 && g.DiscountPrice < g.Price {
		return g.DiscountPrice.Float64()
	}
	return g.Price.Float64()
}
