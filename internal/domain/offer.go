package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LiveWebMarker is the in-text token that asks for live-only results
const LiveWebMarker = "#liveweb"

// UsedPreference is the preference tag for used/refurbished inventory
const UsedPreference = "used"

// ShoppingIntent is the structured form of a free-text shopping request
type ShoppingIntent struct {
	Query       string           `json:"query"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
	Preferences []string         `json:"preferences"`
	ForceLive   bool             `json:"forceLive"`
}

// HasPreference reports whether the intent carries the given tag
func (i ShoppingIntent) HasPreference(tag string) bool {
	for _, p := range i.Preferences {
		if strings.EqualFold(p, tag) {
			return true
		}
	}
	return false
}

// RawOffer is an offer record as returned by live search, a deal feed or a bundled dataset.
// Price is left untyped because sources send numbers, integers or strings like "$1,299.99".
type RawOffer struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Price       any    `json:"price"`
	Currency    string `json:"currency,omitempty"`
	Shipping    string `json:"shipping,omitempty"`
	Source      string `json:"source,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	DealURL     string `json:"deal_url"`
	IsSponsored bool   `json:"is_sponsored,omitempty"`
}

// Offer is a canonical purchasable listing
type Offer struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Price               decimal.Decimal `json:"price"`
	Currency            string          `json:"currency"`
	ShippingDescription string          `json:"shipping"`
	SourceName          string          `json:"source"`
	ImageURL            string          `json:"imageUrl,omitempty"`
	ListingURL          string          `json:"dealUrl"`
	IsSponsored         bool            `json:"isSponsored"`
}

// ScoreBreakdown is the transparent four-axis score of a ranked offer
type ScoreBreakdown struct {
	TotalScore     float64  `json:"totalScore"`
	RelevanceScore float64  `json:"relevanceScore"`
	PriceScore     float64  `json:"priceScore"`
	ShippingScore  float64  `json:"shippingScore"`
	TrustScore     float64  `json:"trustScore"`
	Reasons        []string `json:"reasons"`
}

// RankedOffer pairs an offer with its score
type RankedOffer struct {
	Offer     Offer          `json:"offer"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}
