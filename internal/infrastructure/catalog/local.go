package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/dealscout/backend/internal/domain"
)

//go:embed catalog.json
var bundledCatalog []byte

// LocalCatalog serves the product catalog compiled into the binary
type LocalCatalog struct {
	products []domain.CatalogProduct
}

// NewLocalCatalog decodes the bundled catalog
func NewLocalCatalog() (*LocalCatalog, error) {
	var products []domain.CatalogProduct
	if err := json.Unmarshal(bundledCatalog, &products); err != nil {
		return nil, fmt.Errorf("%w: bundled catalog: %v", domain.ErrCatalogFailure, err)
	}
	return &LocalCatalog{products: products}, nil
}

// SearchProducts returns the whole catalog. Ranking by overlap happens in the catalog service.
func (c *LocalCatalog) SearchProducts(_ context.Context, _ string) ([]domain.CatalogProduct, error) {
	return append([]domain.CatalogProduct(nil), c.products...), nil
}
