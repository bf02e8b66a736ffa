package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealscout/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string][]byte
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	deleted   []string
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	delete(m.data, key)
	return nil
}

// MockLLMClient returns canned completions
type MockLLMClient struct {
	mu        sync.Mutex
	response  string
	err       error
	calls     int
	lastUser  string
	responses map[string]string // keyed by system prompt
}

func (m *MockLLMClient) Complete(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastUser = user
	if m.err != nil {
		return "", m.err
	}
	if r, ok := m.responses[system]; ok {
		return r, nil
	}
	return m.response, nil
}

// MockLiveSearchClient is a mock implementation of domain.LiveSearchClient
type MockLiveSearchClient struct {
	offers     []domain.RawOffer
	err        error
	calls      int
	lastQuery  string
	lastBudget *decimal.Decimal
}

func (m *MockLiveSearchClient) SearchOffers(ctx context.Context, query string, budget *decimal.Decimal) ([]domain.RawOffer, error) {
	m.calls++
	m.lastQuery = query
	m.lastBudget = budget
	if m.err != nil {
		return nil, m.err
	}
	return m.offers, nil
}

// MockFeedClient is a mock implementation of domain.FeedClient
type MockFeedClient struct {
	offers []domain.RawOffer
	err    error
	calls  int
}

func (m *MockFeedClient) LoadOffers(ctx context.Context) ([]domain.RawOffer, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.offers, nil
}

// MockCatalogClient is a mock implementation of domain.CatalogClient
type MockCatalogClient struct {
	products []domain.CatalogProduct
	err      error
	calls    int
}

func (m *MockCatalogClient) SearchProducts(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

// MockOfferSource is a mock implementation of domain.OfferSource
type MockOfferSource struct {
	mu     sync.Mutex
	offers []domain.Offer
	err    error
	calls  int
}

func (m *MockOfferSource) FetchOffers(ctx context.Context, intent domain.ShoppingIntent) ([]domain.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.offers, nil
}

// MockCatalogSource is a mock implementation of domain.CatalogSource
type MockCatalogSource struct {
	product *domain.CatalogProduct
	err     error
}

func (m *MockCatalogSource) FetchRelevantProduct(ctx context.Context, intent domain.ShoppingIntent) (*domain.CatalogProduct, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

// MockIntentExtractor is a mock implementation of domain.IntentExtractor
type MockIntentExtractor struct {
	intent domain.ShoppingIntent
	err    error
	calls  int
}

func (m *MockIntentExtractor) Extract(ctx context.Context, text string) (domain.ShoppingIntent, error) {
	m.calls++
	if m.err != nil {
		return domain.ShoppingIntent{}, m.err
	}
	return m.intent, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testOffer(title, price, source, url string) domain.Offer {
	return domain.Offer{
		ID:                  title,
		Title:               title,
		Price:               dec(price),
		Currency:            "USD",
		ShippingDescription: DefaultShipping,
		SourceName:          source,
		ListingURL:          url,
	}
}

func titles(offers []domain.Offer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.Title
	}
	return out
}
