package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

// Score weights
const (
	relevanceWeight = 0.35
	priceWeight     = 0.30
	shippingWeight  = 0.20
	trustWeight     = 0.15
)

// Shipping tiers
const (
	freeShippingScore  = 1.0
	fastShippingScore  = 0.68
	otherShippingScore = 0.42
)

const (
	trustedSourceScore = 0.8
	otherSourceScore   = 0.6
	minPriceRange      = 0.01
	noTokenRelevance   = 0.5
)

// trustedSources are matched as case-insensitive substrings of the source name
var trustedSources = []string{"nordstrom", "macys", "target", "amazon", "best buy", "walmart"}

// RankingService scores and orders offers. Pure and deterministic.
type RankingService struct{}

// NewRankingService creates a ranking service
func NewRankingService() *RankingService {
	return &RankingService{}
}

// Rank scores every offer and sorts descending by total score.
// Equal totals keep their input order.
func (s *RankingService) Rank(offers []domain.Offer, _ *domain.CatalogProduct, intent domain.ShoppingIntent) []domain.RankedOffer {
	if len(offers) == 0 {
		return []domain.RankedOffer{}
	}

	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	for _, offer := range offers {
		p := offer.Price.InexactFloat64()
		minPrice = math.Min(minPrice, p)
		maxPrice = math.Max(maxPrice, p)
	}
	priceRange := math.Max(maxPrice-minPrice, minPriceRange)
	queryTokens := tokenize(intent.Query, 3, nil)

	ranked := make([]domain.RankedOffer, 0, len(offers))
	for _, offer := range offers {
		relevance := relevanceScore(offer, queryTokens)
		price := clamp((maxPrice - offer.Price.InexactFloat64()) / priceRange)
		shipping := shippingScore(offer.ShippingDescription)
		trust := trustScore(offer.SourceName)

		total := clamp(relevance*relevanceWeight + price*priceWeight + shipping*shippingWeight + trust*trustWeight)
		ranked = append(ranked, domain.RankedOffer{
			Offer: offer,
			Breakdown: domain.ScoreBreakdown{
				TotalScore:     total,
				RelevanceScore: relevance,
				PriceScore:     price,
				ShippingScore:  shipping,
				TrustScore:     trust,
				Reasons: []string{
					"Relevance " + percentage(relevance),
					"Price value " + percentage(price),
					"Shipping convenience " + percentage(shipping),
					"Source confidence " + percentage(trust),
				},
			},
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.TotalScore > ranked[j].Breakdown.TotalScore
	})
	return ranked
}

func relevanceScore(offer domain.Offer, queryTokens []string) float64 {
	if len(queryTokens) == 0 {
		return noTokenRelevance
	}
	haystack := strings.ToLower(offer.Title + " " + offer.SourceName)
	return clamp(float64(countContained(haystack, queryTokens)) / float64(len(queryTokens)))
}

func shippingScore(shipping string) float64 {
	lower := strings.ToLower(shipping)
	switch {
	case strings.Contains(lower, "free"):
		return freeShippingScore
	case containsAny(lower, []string{"flat", "2-3", "3-5"}):
		return fastShippingScore
	default:
		return otherShippingScore
	}
}

func trustScore(source string) float64 {
	if containsAny(strings.ToLower(source), trustedSources) {
		return trustedSourceScore
	}
	return otherSourceScore
}

func clamp(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func percentage(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
