package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dealscout/backend/internal/domain"
)

const maxCitedOffers = 5

// ShoppingAgentConfig holds configuration for the shopping agent
type ShoppingAgentConfig struct {
	Brand              string
	ExplainConcurrency int
}

// ShoppingAgent runs the full deal pipeline for one request
type ShoppingAgent struct {
	intents     domain.IntentExtractor
	offers      domain.OfferSource
	catalog     domain.CatalogSource
	explainer   domain.Explainer
	filter      *RelevanceFilter
	ranking     *RankingService
	promotion   *PromotionPolicy
	concurrency int
	newID       func() string
}

// NewShoppingAgent creates a shopping agent with dependencies
func NewShoppingAgent(
	intents domain.IntentExtractor,
	offers domain.OfferSource,
	catalog domain.CatalogSource,
	explainer domain.Explainer,
	config ShoppingAgentConfig,
) *ShoppingAgent {
	concurrency := config.ExplainConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ShoppingAgent{
		intents:     intents,
		offers:      offers,
		catalog:     catalog,
		explainer:   explainer,
		filter:      NewRelevanceFilter(),
		ranking:     NewRankingService(),
		promotion:   NewPromotionPolicy(config.Brand),
		concurrency: concurrency,
		newID:       uuid.NewString,
	}
}

// Run extracts intent from free text and runs the pipeline
func (a *ShoppingAgent) Run(ctx context.Context, text string) (*domain.ResultPayload, error) {
	return a.Search(ctx, domain.SearchRequest{Query: text})
}

// Search runs the pipeline for an API request. ForceLive on the request
// forces live sourcing even without the marker in the query.
func (a *ShoppingAgent) Search(ctx context.Context, req domain.SearchRequest) (*domain.ResultPayload, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	intent, err := a.intents.Extract(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	intent.ForceLive = intent.ForceLive || req.ForceLive
	return a.RunIntent(ctx, intent)
}

// RunIntent runs the pipeline for an already extracted intent.
// Flow: fetch offers + catalog product concurrently -> filter -> rank -> promote -> explain -> cite
func (a *ShoppingAgent) RunIntent(ctx context.Context, intent domain.ShoppingIntent) (*domain.ResultPayload, error) {
	if strings.TrimSpace(intent.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	start := time.Now()

	var (
		offers  []domain.Offer
		product *domain.CatalogProduct
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		offers, err = a.offers.FetchOffers(gCtx, intent)
		return err
	})
	g.Go(func() error {
		var err error
		product, err = a.catalog.FetchRelevantProduct(gCtx, intent)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("query", intent.Query).Msg("deal search failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrDealSearchFailed, err)
	}

	filtered := a.filter.Filter(offers, intent)
	ranked := a.ranking.Rank(filtered, product, intent)

	if product != nil && !a.promotion.ShouldPromote(product, intent, filtered) {
		product = nil
	}

	// Explanations run to completion even if the caller goes away
	payload := a.assemble(context.WithoutCancel(ctx), intent, ranked, product)

	log.Info().
		Str("query", intent.Query).
		Bool("force_live", intent.ForceLive).
		Int("offers", len(offers)).
		Int("recommendations", len(payload.Recommendations)).
		Bool("promoted", payload.Promoted != nil).
		Dur("latency", time.Since(start)).
		Msg("deal search completed")

	return payload, nil
}

// assemble generates explanations concurrently and builds the payload.
// promoted is nil unless the product passed the promotion policy.
func (a *ShoppingAgent) assemble(
	ctx context.Context,
	intent domain.ShoppingIntent,
	ranked []domain.RankedOffer,
	promoted *domain.CatalogProduct,
) *domain.ResultPayload {
	offers := make([]domain.Offer, len(ranked))
	for i, r := range ranked {
		offers[i] = r.Offer
	}

	reasons := make([]string, len(ranked))
	var productReason, summary string

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i := range ranked {
		i := i
		g.Go(func() error {
			reasons[i] = a.explainer.ExplainOffer(ctx, ranked[i].Offer, intent)
			return nil
		})
	}
	if promoted != nil {
		g.Go(func() error {
			productReason = a.explainer.ExplainProduct(ctx, *promoted, intent)
			return nil
		})
	}
	g.Go(func() error {
		summary = a.explainer.Summarize(ctx, intent, offers, promoted)
		return nil
	})
	_ = g.Wait()

	recommendations := make([]domain.Recommendation, len(ranked))
	for i, r := range ranked {
		recommendations[i] = domain.Recommendation{
			ID:        a.newID(),
			Offer:     r.Offer,
			Reasoning: reasons[i],
			Score:     r.Breakdown,
			Citations: []domain.Citation{offerCitation(r.Offer)},
		}
	}

	payload := &domain.ResultPayload{
		Intent:          intent,
		Recommendations: recommendations,
		Summary:         summary,
		Citations:       make([]domain.Citation, 0, maxCitedOffers+1),
	}
	for i := 0; i < len(ranked) && i < maxCitedOffers; i++ {
		payload.Citations = append(payload.Citations, offerCitation(ranked[i].Offer))
	}

	if promoted != nil {
		citation := a.productCitation(*promoted)
		payload.Promoted = &domain.PromotedRecommendation{
			Product:    *promoted,
			Reasoning:  productReason,
			Disclosure: a.promotion.Disclosure(),
			Citations:  []domain.Citation{citation},
		}
		payload.Citations = append(payload.Citations, citation)
	}
	return payload
}

func offerCitation(offer domain.Offer) domain.Citation {
	return domain.Citation{
		ID:     "src-" + offer.ID,
		Title:  offer.Title,
		Source: offer.SourceName,
		URL:    offer.ListingURL,
	}
}

func (a *ShoppingAgent) productCitation(product domain.CatalogProduct) domain.Citation {
	brand := a.promotion.Brand()
	return domain.Citation{
		ID:     fmt.Sprintf("src-%s-%s", strings.ToLower(brand), product.ID),
		Title:  product.Title,
		Source: brand,
		URL:    product.CheckoutURL,
	}
}
