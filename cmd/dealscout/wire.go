package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dealscout/backend/config"
	"github.com/dealscout/backend/internal/domain"
	"github.com/dealscout/backend/internal/infrastructure/cache"
	"github.com/dealscout/backend/internal/infrastructure/catalog"
	"github.com/dealscout/backend/internal/infrastructure/feed"
	"github.com/dealscout/backend/internal/infrastructure/openai"
	"github.com/dealscout/backend/internal/usecase"
)

const (
	feedTimeout       = 10 * time.Second
	storefrontTimeout = 15 * time.Second
)

// app is the assembled dependency graph
type app struct {
	agent   *usecase.ShoppingAgent
	closers []func() error
}

// Close releases cache connections and background goroutines
func (a *app) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildApp wires infrastructure into the shopping agent according to cfg
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	offerCache, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, offerCache.Close)

	var llm *openai.Client
	if cfg.LLM.Enabled() {
		llm = openai.NewClient(openai.Config{
			APIKey:            cfg.LLM.APIKey,
			BaseURL:           cfg.LLM.BaseURL,
			Model:             cfg.LLM.Model,
			SearchModel:       cfg.LLM.SearchModel,
			Timeout:           cfg.LLM.Timeout,
			RequestsPerMinute: cfg.LLM.RateLimit,
		})
		llm.SetDebug(cfg.LLM.Debug)
		log.Info().Str("model", cfg.LLM.Model).Str("search_model", cfg.LLM.SearchModel).Msg("language model configured")
	} else {
		log.Warn().Msg("no LLM API key configured, using heuristic intents, bundled feeds and template explanations")
	}

	normalizer := usecase.NewOfferNormalizer()
	filter := usecase.NewRelevanceFilter()

	feeds := make([]domain.FeedClient, 0, 2)
	if cfg.Offers.FeedURL != "" {
		feeds = append(feeds, feed.NewRemoteFeed(cfg.Offers.FeedURL, feedTimeout))
	}
	feeds = append(feeds, feed.NewLocalFeed())
	var offers domain.OfferSource = usecase.NewFeedOfferSource(normalizer, feeds...)

	if llm != nil && cfg.Offers.LiveEnabled {
		live := usecase.NewLiveOfferSource(llm, normalizer, filter)
		offers = usecase.NewFallbackOfferSource(live, offers, cfg.Offers.AllowFallback)
	}
	offers = usecase.NewCachedOfferSource(offers, offerCache, cfg.Cache.TTL)

	catalogClients := make([]domain.CatalogClient, 0, 2)
	if cfg.Catalog.StorefrontEnabled() {
		catalogClients = append(catalogClients, catalog.NewStorefrontClient(
			cfg.Catalog.ShopifyDomain,
			cfg.Catalog.StorefrontToken,
			cfg.Catalog.APIVersion,
			storefrontTimeout,
		))
	}
	local, err := catalog.NewLocalCatalog()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	catalogClients = append(catalogClients, local)

	template := usecase.NewTemplateExplainer(cfg.Catalog.Brand)
	var (
		intents   domain.IntentExtractor = usecase.NewIntentChain()
		explainer domain.Explainer       = template
	)
	if llm != nil {
		intents = usecase.NewIntentChain(usecase.NewLLMIntentExtractor(llm))
		explainer = usecase.NewLLMExplainer(llm, template)
	}

	a.agent = usecase.NewShoppingAgent(
		intents,
		offers,
		usecase.NewCatalogService(catalogClients...),
		explainer,
		usecase.ShoppingAgentConfig{Brand: cfg.Catalog.Brand},
	)
	return a, nil
}

type closableCache interface {
	domain.CacheRepository
	Close() error
}

func buildCache(ctx context.Context, cfg config.CacheConfig) (closableCache, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cache.DefaultPrefix)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		log.Info().Str("type", "redis").Dur("ttl", cfg.TTL).Msg("offer cache ready")
		return redisCache, nil
	default:
		log.Info().Str("type", "memory").Dur("ttl", cfg.TTL).Msg("offer cache ready")
		return cache.NewMemoryCache(0), nil
	}
}
