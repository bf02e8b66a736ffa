package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dealscout/backend/internal/domain"
)

// LiveOfferSource fetches offers from a web-search capable model.
// Zero usable or relevant listings is an error so a fallback policy can react.
type LiveOfferSource struct {
	client     domain.LiveSearchClient
	normalizer *OfferNormalizer
	filter     *RelevanceFilter
}

// NewLiveOfferSource creates a live offer source
func NewLiveOfferSource(client domain.LiveSearchClient, normalizer *OfferNormalizer, filter *RelevanceFilter) *LiveOfferSource {
	return &LiveOfferSource{client: client, normalizer: normalizer, filter: filter}
}

// FetchOffers searches, normalizes and strictly filters live listings
func (s *LiveOfferSource) FetchOffers(ctx context.Context, intent domain.ShoppingIntent) ([]domain.Offer, error) {
	budget := intent.Budget
	if budget == nil {
		budget = parseBudget(intent.Query)
	}

	raws, err := s.client.SearchOffers(ctx, intent.Query, budget)
	if err != nil {
		if errors.Is(err, domain.ErrLiveSearchFailed) || errors.Is(err, domain.ErrNoLiveOffers) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrLiveSearchFailed, err)
	}

	offers := s.normalizer.NormalizeAll(raws)
	if len(offers) == 0 {
		return nil, fmt.Errorf("%w: %d records, none usable", domain.ErrNoLiveOffers, len(raws))
	}

	filtered, err := s.filter.FilterStrict(offers, intent)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("query", intent.Query).
		Int("raw", len(raws)).
		Int("normalized", len(offers)).
		Int("relevant", len(filtered)).
		Msg("live offers fetched")
	return filtered, nil
}

// FallbackOfferSource tries Primary and delegates to Fallback on failure,
// unless the intent is live-only or fallback is disabled.
type FallbackOfferSource struct {
	primary       domain.OfferSource
	fallback      domain.OfferSource
	allowFallback bool
}

// NewFallbackOfferSource creates the live-then-fallback policy
func NewFallbackOfferSource(primary, fallback domain.OfferSource, allowFallback bool) *FallbackOfferSource {
	return &FallbackOfferSource{primary: primary, fallback: fallback, allowFallback: allowFallback}
}

func (s *FallbackOfferSource) FetchOffers(ctx context.Context, intent domain.ShoppingIntent) ([]domain.Offer, error) {
	offers, err := s.primary.FetchOffers(ctx, intent)
	if err == nil {
		return offers, nil
	}

	if intent.ForceLive || !s.allowFallback || s.fallback == nil {
		log.Warn().Err(err).Str("query", intent.Query).Bool("force_live", intent.ForceLive).Msg("primary offer source failed, fallback disabled")
		return nil, err
	}

	log.Info().Err(err).Str("query", intent.Query).Msg("primary offer source failed, using fallback")
	return s.fallback.FetchOffers(ctx, intent)
}

// FeedOfferSource reads offers from an ordered list of feeds.
// A failing or empty feed hands over to the next one.
type FeedOfferSource struct {
	feeds      []domain.FeedClient
	normalizer *OfferNormalizer
}

// NewFeedOfferSource creates a feed-backed offer source
func NewFeedOfferSource(normalizer *OfferNormalizer, feeds ...domain.FeedClient) *FeedOfferSource {
	return &FeedOfferSource{feeds: feeds, normalizer: normalizer}
}

func (s *FeedOfferSource) FetchOffers(ctx context.Context, intent domain.ShoppingIntent) ([]domain.Offer, error) {
	var errs []error
	for i, feed := range s.feeds {
		raws, err := feed.LoadOffers(ctx)
		if err != nil {
			log.Warn().Err(err).Int("feed", i).Msg("deal feed failed")
			errs = append(errs, err)
			continue
		}
		offers := s.normalizer.NormalizeAll(raws)
		if len(offers) == 0 {
			log.Debug().Int("feed", i).Msg("deal feed empty")
			continue
		}
		return offers, nil
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedFailure, errors.Join(errs...))
	}
	return []domain.Offer{}, nil
}

// CachedOfferSource serves repeated intents from the cache repository.
// Offers read from the cache get fresh IDs so no two responses share one.
type CachedOfferSource struct {
	next  domain.OfferSource
	cache domain.CacheRepository
	ttl   time.Duration
	newID func() string
}

// NewCachedOfferSource decorates next with a cache
func NewCachedOfferSource(next domain.OfferSource, cache domain.CacheRepository, ttl time.Duration) *CachedOfferSource {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &CachedOfferSource{next: next, cache: cache, ttl: ttl, newID: uuid.NewString}
}

// FetchOffers checks the cache, then the wrapped source. Cache errors never fail the fetch.
func (s *CachedOfferSource) FetchOffers(ctx context.Context, intent domain.ShoppingIntent) ([]domain.Offer, error) {
	key := offerCacheKey(intent)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var offers []domain.Offer
		decodeErr := json.Unmarshal(data, &offers)
		if decodeErr == nil {
			for i := range offers {
				offers[i].ID = s.newID()
			}
			log.Debug().Str("key", key).Int("offers", len(offers)).Msg("offer cache hit")
			return offers, nil
		}
		log.Warn().Err(decodeErr).Str("key", key).Msg("corrupt offer cache entry, evicting")
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("offer cache delete failed")
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("offer cache read failed")
	}

	offers, err := s.next.FetchOffers(ctx, intent)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return offers, nil
	}

	data, err := json.Marshal(offers)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.ttl)
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("offer cache write failed")
	}
	return offers, nil
}

// offerCacheKey creates a normalized cache key from an intent.
// Format: offers:"{query}":{budget}:{preferences}:{live|any}, with the query Go-quoted
// so separators inside it cannot shift the other fields.
func offerCacheKey(intent domain.ShoppingIntent) string {
	budget := ""
	if intent.Budget != nil {
		budget = intent.Budget.String()
	}
	mode := "any"
	if intent.ForceLive {
		mode = "live"
	}
	return fmt.Sprintf("offers:%q:%s:%s:%s",
		normalizeForCacheKey(intent.Query),
		budget,
		strings.Join(normalizePreferences(intent.Preferences), ","),
		mode)
}

// normalizeForCacheKey lowercases and collapses whitespace. Every other rune is kept,
// so queries in any script or with symbols ("c++") keep distinct keys.
func normalizeForCacheKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
