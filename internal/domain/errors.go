package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrLLMFailure is returned when a language model request fails
	ErrLLMFailure = errors.New("language model request failed")

	// ErrLiveSearchFailed is returned when the web-search offer request fails
	ErrLiveSearchFailed = errors.New("live deal search failed")

	// ErrNoLiveOffers is returned when live search answers with no usable listings
	ErrNoLiveOffers = errors.New("live search returned no offers")

	// ErrNoRelevantOffers is returned when live offers are all filtered out as irrelevant
	ErrNoRelevantOffers = errors.New("no relevant offers after filtering")

	// ErrFeedFailure is returned when the static deal feed cannot be loaded
	ErrFeedFailure = errors.New("deal feed request failed")

	// ErrCatalogFailure is returned when the storefront catalog request fails
	ErrCatalogFailure = errors.New("catalog request failed")

	// ErrDealSearchFailed is the single terminal error surfaced to callers of the agent
	ErrDealSearchFailed = errors.New("deal search failed")
)
