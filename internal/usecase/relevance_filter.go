package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dealscout/backend/internal/domain"
)

// MaxFilteredOffers caps the number of offers that survive filtering
const MaxFilteredOffers = 8

var budgetTolerance = decimal.NewFromFloat(1.15)

var electronicsTerms = map[string]bool{
	"iphone": true, "phone": true, "phones": true, "smartphone": true, "android": true,
	"galaxy": true, "pixel": true, "laptop": true, "laptops": true, "notebook": true,
	"macbook": true, "chromebook": true, "computer": true, "desktop": true, "pc": true,
	"tablet": true, "ipad": true, "monitor": true, "display": true, "tv": true,
	"television": true, "oled": true, "headphones": true, "headphone": true, "earbuds": true,
	"airpods": true, "speaker": true, "speakers": true, "soundbar": true, "audio": true,
	"camera": true, "console": true, "playstation": true, "xbox": true, "nintendo": true,
	"keyboard": true, "mouse": true, "router": true, "ssd": true, "gpu": true, "charger": true,
	"smartwatch": true, "electronics": true,
}

var fashionTerms = map[string]bool{
	"dress": true, "dresses": true, "gown": true, "skirt": true, "shirt": true, "shirts": true,
	"blouse": true, "tee": true, "tshirt": true, "hoodie": true, "hoodies": true, "sweater": true,
	"cardigan": true, "jacket": true, "coat": true, "blazer": true, "jeans": true, "pants": true,
	"trousers": true, "shorts": true, "leggings": true, "shoes": true, "shoe": true,
	"sneakers": true, "boots": true, "sandals": true, "heels": true, "loafers": true,
	"handbag": true, "purse": true, "scarf": true, "clothing": true, "apparel": true,
	"fashion": true, "satin": true, "linen": true, "midi": true, "maxi": true,
}

type category struct {
	electronics bool
	fashion     bool
}

func classify(text string) category {
	var c category
	for _, tok := range splitAlphanumeric(text) {
		if electronicsTerms[tok] {
			c.electronics = true
		}
		if fashionTerms[tok] {
			c.fashion = true
		}
	}
	return c
}

func (c category) strictlyElectronics() bool { return c.electronics && !c.fashion }
func (c category) strictlyFashion() bool     { return c.fashion && !c.electronics }

// RelevanceFilter prunes offers that do not fit an intent. It performs no I/O.
type RelevanceFilter struct{}

// NewRelevanceFilter creates a relevance filter
func NewRelevanceFilter() *RelevanceFilter {
	return &RelevanceFilter{}
}

// Filter applies relevance, category, budget and condition passes.
// Over-filtering never yields an empty result from a non-empty input.
func (f *RelevanceFilter) Filter(offers []domain.Offer, intent domain.ShoppingIntent) []domain.Offer {
	relevant := f.relevant(offers, intent)
	if len(relevant) == 0 {
		relevant = offers
	}
	return f.refine(relevant, intent)
}

// FilterStrict is Filter for live results: an empty relevance set is an error
// instead of a reason to keep everything.
func (f *RelevanceFilter) FilterStrict(offers []domain.Offer, intent domain.ShoppingIntent) ([]domain.Offer, error) {
	relevant := f.relevant(offers, intent)
	if len(relevant) == 0 {
		return nil, fmt.Errorf("%w: %d candidates for %q", domain.ErrNoRelevantOffers, len(offers), intent.Query)
	}
	return f.refine(relevant, intent), nil
}

// relevant runs the token and category passes
func (f *RelevanceFilter) relevant(offers []domain.Offer, intent domain.ShoppingIntent) []domain.Offer {
	tokens := tokenize(intent.Query, 3, filterStopwords)
	queryCategory := classify(intent.Query)

	kept := make([]domain.Offer, 0, len(offers))
	for _, offer := range offers {
		text := offerText(offer)
		if len(tokens) > 0 && countContained(text, tokens) == 0 {
			continue
		}
		offerCategory := classify(text)
		if queryCategory.strictlyElectronics() && offerCategory.strictlyFashion() {
			continue
		}
		if queryCategory.strictlyFashion() && offerCategory.strictlyElectronics() {
			continue
		}
		kept = append(kept, offer)
	}
	return kept
}

// refine runs the budget and used passes, each skipped when it would empty the set, then truncates
func (f *RelevanceFilter) refine(offers []domain.Offer, intent domain.ShoppingIntent) []domain.Offer {
	result := offers

	if intent.Budget != nil {
		limit := intent.Budget.Mul(budgetTolerance)
		within := make([]domain.Offer, 0, len(result))
		for _, offer := range result {
			if offer.Price.LessThanOrEqual(limit) {
				within = append(within, offer)
			}
		}
		if len(within) > 0 {
			result = within
		}
	}

	if intent.HasPreference(domain.UsedPreference) || mentionsUsed(intent.Query) {
		used := make([]domain.Offer, 0, len(result))
		for _, offer := range result {
			if mentionsUsed(offerText(offer)) {
				used = append(used, offer)
			}
		}
		if len(used) > 0 {
			result = used
		}
	}

	if len(result) > MaxFilteredOffers {
		result = result[:MaxFilteredOffers]
	}
	return append([]domain.Offer(nil), result...)
}

// offerText is the lowercased text an offer is matched against
func offerText(offer domain.Offer) string {
	return strings.ToLower(offer.Title + " " + offer.SourceName + " " + offer.ListingURL)
}
