package usecase

import (
	"encoding/json"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealscout/backend/internal/domain"
)

const (
	// DefaultShipping is used when a record carries no shipping text
	DefaultShipping = "Shipping details at retailer"

	// DefaultCurrency is used when a record carries no currency code
	DefaultCurrency = "USD"

	unknownSource = "Unknown"
)

// OfferNormalizer converts raw offer records into canonical offers
type OfferNormalizer struct {
	newID func() string
}

// NewOfferNormalizer creates a normalizer that assigns random UUIDs
func NewOfferNormalizer() *OfferNormalizer {
	return &OfferNormalizer{newID: uuid.NewString}
}

// Normalize repairs a raw record. The second return value is false when the record is dropped.
func (n *OfferNormalizer) Normalize(raw domain.RawOffer) (domain.Offer, bool) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return domain.Offer{}, false
	}

	listing, ok := parseWebURL(raw.DealURL)
	if !ok {
		return domain.Offer{}, false
	}

	source := strings.TrimSpace(raw.Source)
	if source == "" {
		source = sourceFromHost(listing.Hostname())
	}

	shipping := strings.TrimSpace(raw.Shipping)
	if shipping == "" {
		shipping = DefaultShipping
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	offer := domain.Offer{
		ID:                  n.newID(),
		Title:               title,
		Price:               parsePrice(raw.Price),
		Currency:            currency,
		ShippingDescription: shipping,
		SourceName:          source,
		ListingURL:          listing.String(),
		IsSponsored:         raw.IsSponsored,
	}
	if image, ok := parseWebURL(raw.ImageURL); ok {
		offer.ImageURL = image.String()
	}
	return offer, true
}

// NormalizeAll normalizes every record and silently drops the malformed ones
func (n *OfferNormalizer) NormalizeAll(raws []domain.RawOffer) []domain.Offer {
	offers := make([]domain.Offer, 0, len(raws))
	for _, raw := range raws {
		if offer, ok := n.Normalize(raw); ok {
			offers = append(offers, offer)
		}
	}
	return offers
}

// parseWebURL accepts only absolute http(s) URLs with a host
func parseWebURL(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u, true
	default:
		return nil, false
	}
}

// sourceFromHost turns "www.bestbuy.com" into "Bestbuy"
func sourceFromHost(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return unknownSource
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

// parsePrice accepts numbers, numeric strings with currency decoration and decimals.
// Anything unparsable or negative becomes zero.
func parsePrice(v any) decimal.Decimal {
	var price decimal.Decimal
	switch p := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		price = p
	case *decimal.Decimal:
		if p == nil {
			return decimal.Zero
		}
		price = *p
	case float64:
		price = decimal.NewFromFloat(p)
	case float32:
		price = decimal.NewFromFloat32(p)
	case int:
		price = decimal.NewFromInt(int64(p))
	case int32:
		price = decimal.NewFromInt32(p)
	case int64:
		price = decimal.NewFromInt(p)
	case json.Number:
		d, err := decimal.NewFromString(p.String())
		if err != nil {
			return decimal.Zero
		}
		price = d
	case string:
		d, err := decimal.NewFromString(keepPriceChars(p))
		if err != nil {
			return decimal.Zero
		}
		price = d
	default:
		return decimal.Zero
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// keepPriceChars strips everything but digits and the decimal point
func keepPriceChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
