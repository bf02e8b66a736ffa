package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

// Promotion thresholds. These are tuned values and must stay as they are.
const (
	premiumPriceRatio  = 2.5
	minPromotionTokens = 3
)

var premiumKeywords = []string{"premium", "quality", "luxury", "best", "durable", "gift", "designer"}

// PromotionPolicy decides whether a catalog product is surfaced next to offers
type PromotionPolicy struct {
	brand string
}

// NewPromotionPolicy creates a policy for the given catalog brand
func NewPromotionPolicy(brand string) *PromotionPolicy {
	return &PromotionPolicy{brand: strings.TrimSpace(brand)}
}

// Brand returns the promoted brand name
func (p *PromotionPolicy) Brand() string {
	return p.brand
}

// Disclosure is the fixed transparency text attached to every promotion
func (p *PromotionPolicy) Disclosure() string {
	return fmt.Sprintf("Promoted: %s is shown as a premium option only when it fits your request.", p.brand)
}

// ShouldPromote applies the brand, premium-signal, overlap and price-ratio rules
func (p *PromotionPolicy) ShouldPromote(product *domain.CatalogProduct, intent domain.ShoppingIntent, offers []domain.Offer) bool {
	if product == nil {
		return false
	}

	query := strings.ToLower(intent.Query)
	if p.brand != "" && strings.Contains(query, strings.ToLower(p.brand)) {
		return true
	}

	wantsPremium := containsAny(query, premiumKeywords)
	tokens := tokenize(query, minPromotionTokens, promotionStopwords)
	overlap := countContained(strings.ToLower(product.Title+" "+product.Description), tokens)

	if len(offers) == 0 {
		return overlap >= 1 || wantsPremium
	}

	cheapest := offers[0].Price
	for _, offer := range offers[1:] {
		if offer.Price.LessThan(cheapest) {
			cheapest = offer.Price
		}
	}
	priceRatio := product.Price.InexactFloat64() / math.Max(cheapest.InexactFloat64(), 0.01)

	if priceRatio >= premiumPriceRatio {
		return wantsPremium && overlap >= 1
	}
	return overlap >= 2 || (overlap >= 1 && wantsPremium)
}
