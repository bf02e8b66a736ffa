package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/dealscout/backend/internal/domain"
)

// storefrontResponse is the subset of the Storefront GraphQL response we read
type storefrontResponse struct {
	Data struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type productNode struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	OnlineStoreURL *string `json:"onlineStoreUrl"`
	Variants       struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Images struct {
		Edges []struct {
			Node struct {
				URL string `json:"url"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
}

type variantNode struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"price"`
}

// mapProduct converts a storefront node to a catalog product.
// Price and currency come from the first variant; checkout falls back to the store URL.
func mapProduct(node productNode, storeURL string) domain.CatalogProduct {
	product := domain.CatalogProduct{
		ID:          node.ID,
		Title:       node.Title,
		Description: node.Description,
		Currency:    "USD",
		Variants:    make([]domain.Variant, 0, len(node.Variants.Edges)),
		CheckoutURL: storeURL,
	}

	for i, edge := range node.Variants.Edges {
		price, err := decimal.NewFromString(edge.Node.Price.Amount)
		if err != nil {
			price = decimal.Zero
		}
		product.Variants = append(product.Variants, domain.Variant{
			ID:      edge.Node.ID,
			Title:   edge.Node.Title,
			Price:   price,
			InStock: edge.Node.AvailableForSale,
		})
		if i == 0 {
			product.Price = price
			if edge.Node.Price.CurrencyCode != "" {
				product.Currency = edge.Node.Price.CurrencyCode
			}
		}
	}

	if len(node.Images.Edges) > 0 {
		product.ImageURL = node.Images.Edges[0].Node.URL
	}
	if node.OnlineStoreURL != nil && *node.OnlineStoreURL != "" {
		product.CheckoutURL = *node.OnlineStoreURL
	}
	return product
}
