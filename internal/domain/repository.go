package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque bytes so memory and redis backends behave the same.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// LLMClient completes a single system/user exchange
type LLMClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LiveSearchClient asks a web-search capable model for current listings
type LiveSearchClient interface {
	SearchOffers(ctx context.Context, query string, budget *decimal.Decimal) ([]RawOffer, error)
}

// FeedClient loads offer records from a static feed or bundled dataset
type FeedClient interface {
	LoadOffers(ctx context.Context) ([]RawOffer, error)
}

// CatalogClient returns candidate catalog products for a query
type CatalogClient interface {
	SearchProducts(ctx context.Context, query string) ([]CatalogProduct, error)
}

// IntentExtractor turns free text into a shopping intent
type IntentExtractor interface {
	Extract(ctx context.Context, text string) (ShoppingIntent, error)
}

// OfferSource fetches offers for an intent
type OfferSource interface {
	FetchOffers(ctx context.Context, intent ShoppingIntent) ([]Offer, error)
}

// CatalogSource returns the best-matching catalog product, or nil
type CatalogSource interface {
	FetchRelevantProduct(ctx context.Context, intent ShoppingIntent) (*CatalogProduct, error)
}

// Explainer writes reasoning and summaries. Implementations never fail.
type Explainer interface {
	ExplainOffer(ctx context.Context, offer Offer, intent ShoppingIntent) string
	ExplainProduct(ctx context.Context, product CatalogProduct, intent ShoppingIntent) string
	Summarize(ctx context.Context, intent ShoppingIntent, offers []Offer, product *CatalogProduct) string
}
