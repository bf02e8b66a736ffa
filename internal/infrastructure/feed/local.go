package feed

import (
	"context"
	_ "embed"

	"github.com/dealscout/backend/internal/domain"
)

//go:embed deals.json
var bundledDeals []byte

// LocalFeed serves the deal dataset compiled into the binary
type LocalFeed struct {
	data []byte
}

// NewLocalFeed creates a feed over the bundled dataset
func NewLocalFeed() *LocalFeed {
	return &LocalFeed{data: bundledDeals}
}

// LoadOffers decodes the bundled dataset
func (f *LocalFeed) LoadOffers(_ context.Context) ([]domain.RawOffer, error) {
	return decodeOffers(f.data)
}
