// Package feed loads offer records from a remote JSON feed or the bundled dataset.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dealscout/backend/internal/domain"
)

var (
	_ domain.FeedClient = (*RemoteFeed)(nil)
	_ domain.FeedClient = (*LocalFeed)(nil)
)

// RemoteFeed fetches a static deal feed over HTTP
type RemoteFeed struct {
	httpClient *http.Client
	url        string
}

// NewRemoteFeed creates a feed client for url
func NewRemoteFeed(url string, timeout time.Duration) *RemoteFeed {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &RemoteFeed{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

// LoadOffers downloads and decodes the feed
func (f *RemoteFeed) LoadOffers(ctx context.Context) ([]domain.RawOffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrFeedFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "DealScout/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrFeedFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFeedFailure, resp.StatusCode)
	}

	offers, err := decodeOffers(body)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", f.url).Int("offers", len(offers)).Msg("remote feed loaded")
	return offers, nil
}

// decodeOffers accepts a bare JSON array or an object with a "deals" array
func decodeOffers(data []byte) ([]domain.RawOffer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var offers []domain.RawOffer
		if err := json.Unmarshal(trimmed, &offers); err != nil {
			return nil, fmt.Errorf("%w: failed to decode feed: %v", domain.ErrFeedFailure, err)
		}
		return offers, nil
	}

	var env struct {
		Deals []domain.RawOffer `json:"deals"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: failed to decode feed: %v", domain.ErrFeedFailure, err)
	}
	return env.Deals, nil
}
