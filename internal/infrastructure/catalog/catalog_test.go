package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealscout/backend/internal/domain"
)

const storefrontBody = `{
  "data": {
    "products": {
      "edges": [
        {
          "node": {
            "id": "gid://shopify/Product/1",
            "title": "Satin Slip Dress",
            "description": "Bias cut satin",
            "onlineStoreUrl": "https://telbises.com/products/satin-slip-dress",
            "variants": {"edges": [
              {"node": {"id": "v1", "title": "Small", "price": {"amount": "119.50", "currencyCode": "EUR"}, "availableForSale": true}},
              {"node": {"id": "v2", "title": "Large", "price": {"amount": "124.00", "currencyCode": "EUR"}, "availableForSale": false}}
            ]},
            "images": {"edges": [{"node": {"url": "https://cdn.example.com/dress.jpg"}}]}
          }
        },
        {
          "node": {
            "id": "gid://shopify/Product/2",
            "title": "Gift Card",
            "description": "",
            "onlineStoreUrl": null,
            "variants": {"edges": []},
            "images": {"edges": []}
          }
        }
      ]
    }
  }
}`

func TestStorefrontClient_SearchProducts(t *testing.T) {
	t.Run("sends graphql request and maps products", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/2024-10/graphql.json", r.URL.Path)
			assert.Equal(t, "shop-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req graphQLRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotQuery = req.Query
			_, _ = w.Write([]byte(storefrontBody))
		}))
		defer server.Close()

		client := NewStorefrontClient(server.URL, "shop-token", "", 0)
		products, err := client.SearchProducts(context.Background(), "satin dress")
		require.NoError(t, err)
		require.Len(t, products, 2)

		assert.Contains(t, gotQuery, `title:*satin dress* OR tag:*satin dress*`)

		dress := products[0]
		assert.Equal(t, "Satin Slip Dress", dress.Title)
		assert.True(t, dress.Price.Equal(decimal.RequireFromString("119.50")))
		assert.Equal(t, "EUR", dress.Currency)
		assert.Equal(t, "https://cdn.example.com/dress.jpg", dress.ImageURL)
		assert.Equal(t, "https://telbises.com/products/satin-slip-dress", dress.CheckoutURL)
		require.Len(t, dress.Variants, 2)
		assert.True(t, dress.Variants[0].InStock)
		assert.False(t, dress.Variants[1].InStock)

		card := products[1]
		assert.True(t, card.Price.IsZero())
		assert.Equal(t, "USD", card.Currency)
		assert.Empty(t, card.ImageURL)
		assert.True(t, strings.HasPrefix(card.CheckoutURL, "https://127.0.0.1:"))
	})

	t.Run("non-2xx is a catalog failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := NewStorefrontClient(server.URL, "bad", "", 0).SearchProducts(context.Background(), "dress")
		assert.ErrorIs(t, err, domain.ErrCatalogFailure)
	})

	t.Run("graphql errors are a catalog failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"errors":[{"message":"throttled"}]}`))
		}))
		defer server.Close()

		_, err := NewStorefrontClient(server.URL, "t", "", 0).SearchProducts(context.Background(), "dress")
		require.ErrorIs(t, err, domain.ErrCatalogFailure)
		assert.Contains(t, err.Error(), "throttled")
	})
}

func TestBuildProductQuery(t *testing.T) {
	query := buildProductQuery(`say "hi" \ now`)
	assert.Contains(t, query, `title:*say hi \\ now*`)
	assert.NotContains(t, query, `"hi"`)
}

func TestStorefrontClient_Endpoint(t *testing.T) {
	client := NewStorefrontClient("telbises.myshopify.com", "t", "2025-01", 0)
	assert.Equal(t, "https://telbises.myshopify.com/api/2025-01/graphql.json", client.endpoint())
	assert.Equal(t, "https://telbises.myshopify.com", client.storeURL())
}

func TestLocalCatalog(t *testing.T) {
	local, err := NewLocalCatalog()
	require.NoError(t, err)

	products, err := local.SearchProducts(context.Background(), "anything")
	require.NoError(t, err)
	require.NotEmpty(t, products)

	first := products[0]
	assert.Equal(t, "telbises-fallback-1", first.ID)
	assert.Equal(t, "Telbises Signature Satin Dress", first.Title)
	assert.True(t, first.Price.Equal(decimal.RequireFromString("129")))
	assert.Equal(t, "https://telbises.com", first.CheckoutURL)
	assert.Len(t, first.Variants, 2)
}
