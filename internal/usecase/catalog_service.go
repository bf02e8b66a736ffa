package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dealscout/backend/internal/domain"
)

// CatalogService picks the best-matching catalog product across an ordered list of clients
type CatalogService struct {
	clients []domain.CatalogClient
}

// NewCatalogService creates a catalog service. Clients are tried in order.
func NewCatalogService(clients ...domain.CatalogClient) *CatalogService {
	return &CatalogService{clients: clients}
}

// FetchRelevantProduct returns the product with the highest token overlap, or nil when
// nothing matches. It fails only when every client fails.
func (s *CatalogService) FetchRelevantProduct(ctx context.Context, intent domain.ShoppingIntent) (*domain.CatalogProduct, error) {
	tokens := tokenize(intent.Query, 3, promotionStopwords)
	if len(tokens) == 0 {
		return nil, nil
	}

	var errs []error
	for i, client := range s.clients {
		products, err := client.SearchProducts(ctx, intent.Query)
		if err != nil {
			log.Warn().Err(err).Int("client", i).Msg("catalog client failed")
			errs = append(errs, err)
			continue
		}
		if best := bestProduct(products, tokens); best != nil {
			return best, nil
		}
	}

	if len(errs) == len(s.clients) && len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogFailure, errors.Join(errs...))
	}
	return nil, nil
}

// bestProduct returns the first product with the highest non-zero overlap
func bestProduct(products []domain.CatalogProduct, tokens []string) *domain.CatalogProduct {
	bestIdx, bestScore := -1, 0
	for i, product := range products {
		score := countContained(strings.ToLower(product.Title+" "+product.Description), tokens)
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return nil
	}
	product := products[bestIdx]
	return &product
}
