package domain

import "github.com/shopspring/decimal"

// CatalogProduct is a storefront item that may be surfaced as a promoted recommendation
type CatalogProduct struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Variants    []Variant       `json:"variants"`
	CheckoutURL string          `json:"checkoutUrl"`
}

// Variant is a purchasable option of a catalog product
type Variant struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Price   decimal.Decimal `json:"price"`
	InStock bool            `json:"inStock"`
}
