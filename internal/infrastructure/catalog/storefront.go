// Package catalog reads brand products from a Shopify storefront or the bundled catalog.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dealscout/backend/internal/domain"
)

var (
	_ domain.CatalogClient = (*StorefrontClient)(nil)
	_ domain.CatalogClient = (*LocalCatalog)(nil)
)

// DefaultAPIVersion is the Storefront API version used when none is configured
const DefaultAPIVersion = "2024-10"

// StorefrontClient queries the Shopify Storefront GraphQL API
type StorefrontClient struct {
	httpClient *http.Client
	domain     string
	token      string
	apiVersion string
}

// NewStorefrontClient creates a storefront client. shopDomain may include a scheme.
func NewStorefrontClient(shopDomain, token, apiVersion string, timeout time.Duration) *StorefrontClient {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &StorefrontClient{
		httpClient: &http.Client{Timeout: timeout},
		domain:     shopDomain,
		token:      token,
		apiVersion: apiVersion,
	}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

// SearchProducts returns up to eight products whose title or tags match query
func (c *StorefrontClient) SearchProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	body, err := json.Marshal(graphQLRequest{Query: buildProductQuery(query)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrCatalogFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrCatalogFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogFailure, resp.StatusCode)
	}

	var decoded storefrontResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogFailure, err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCatalogFailure, decoded.Errors[0].Message)
	}

	products := make([]domain.CatalogProduct, 0, len(decoded.Data.Products.Edges))
	for _, edge := range decoded.Data.Products.Edges {
		products = append(products, mapProduct(edge.Node, c.storeURL()))
	}
	log.Debug().Str("query", query).Int("products", len(products)).Msg("storefront search")
	return products, nil
}

func (c *StorefrontClient) storeURL() string {
	host := strings.TrimPrefix(strings.TrimPrefix(c.domain, "https://"), "http://")
	return "https://" + strings.TrimRight(host, "/")
}

func (c *StorefrontClient) endpoint() string {
	base := c.domain
	if !strings.HasPrefix(base, "http") {
		base = "https://" + base
	}
	return strings.TrimRight(base, "/") + "/api/" + c.apiVersion + "/graphql.json"
}

// buildProductQuery embeds the sanitized query into the products search
func buildProductQuery(query string) string {
	sanitized := strings.ReplaceAll(query, `"`, "")
	escaped := strings.ReplaceAll(sanitized, `\`, `\\`)
	return fmt.Sprintf(`{
  products(first: 8, query: "title:*%[1]s* OR tag:*%[1]s*") {
    edges {
      node {
        id
        title
        description
        onlineStoreUrl
        variants(first: 5) {
          edges {
            node {
              id
              title
              price {
                amount
                currencyCode
              }
              availableForSale
            }
          }
        }
        images(first: 1) {
          edges {
            node { url }
          }
        }
      }
    }
  }
}`, escaped)
}
