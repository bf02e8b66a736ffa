package usecase

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dealscout/backend/internal/domain"
)

func TestOfferNormalizer_Normalize(t *testing.T) {
	n := NewOfferNormalizer()

	t.Run("fills defaults", func(t *testing.T) {
		offer, ok := n.Normalize(domain.RawOffer{
			Title:   "  Everyday Midi Dress ",
			Price:   39.99,
			DealURL: "https://www.macys.com/shop/product/everyday-midi-dress",
		})
		if !ok {
			t.Fatal("Normalize() dropped a valid record")
		}
		if offer.Title != "Everyday Midi Dress" {
			t.Errorf("Title = %q", offer.Title)
		}
		if !offer.Price.Equal(dec("39.99")) {
			t.Errorf("Price = %s, want 39.99", offer.Price)
		}
		if offer.Currency != "USD" {
			t.Errorf("Currency = %s, want USD", offer.Currency)
		}
		if offer.ShippingDescription != DefaultShipping {
			t.Errorf("ShippingDescription = %q, want placeholder", offer.ShippingDescription)
		}
		if offer.SourceName != "Macys" {
			t.Errorf("SourceName = %q, want Macys", offer.SourceName)
		}
		if offer.ImageURL != "" {
			t.Errorf("ImageURL = %q, want empty", offer.ImageURL)
		}
		if offer.ID == "" {
			t.Error("ID is empty")
		}
		if offer.IsSponsored {
			t.Error("IsSponsored = true, want false")
		}
	})

	t.Run("keeps provided fields and upper-cases currency", func(t *testing.T) {
		offer, ok := n.Normalize(domain.RawOffer{
			Title:       "Linen Summer Dress",
			Price:       "54.00",
			Currency:    "eur",
			Shipping:    "$4.99 flat rate",
			Source:      "Urban Wardrobe",
			ImageURL:    "https://img.example.com/dress.jpg",
			DealURL:     "https://www.nordstrom.com/s/linen-summer-dress",
			IsSponsored: true,
		})
		if !ok {
			t.Fatal("Normalize() dropped a valid record")
		}
		if offer.Currency != "EUR" {
			t.Errorf("Currency = %s, want EUR", offer.Currency)
		}
		if offer.ShippingDescription != "$4.99 flat rate" || offer.SourceName != "Urban Wardrobe" {
			t.Errorf("unexpected shipping/source: %q / %q", offer.ShippingDescription, offer.SourceName)
		}
		if offer.ImageURL != "https://img.example.com/dress.jpg" {
			t.Errorf("ImageURL = %q", offer.ImageURL)
		}
		if !offer.IsSponsored {
			t.Error("IsSponsored = false, want true")
		}
	})

	t.Run("drops invalid records", func(t *testing.T) {
		cases := map[string]domain.RawOffer{
			"empty title":   {Title: "   ", Price: 10, DealURL: "https://x.com/a"},
			"ftp url":       {Title: "Thing", Price: 10, DealURL: "ftp://x.com"},
			"empty url":     {Title: "Thing", Price: 10, DealURL: ""},
			"relative url":  {Title: "Thing", Price: 10, DealURL: "/products/1"},
			"malformed url": {Title: "Thing", Price: 10, DealURL: "http://[::1"},
			"no host":       {Title: "Thing", Price: 10, DealURL: "https://"},
		}
		for name, raw := range cases {
			t.Run(name, func(t *testing.T) {
				if _, ok := n.Normalize(raw); ok {
					t.Errorf("Normalize(%+v) kept record, want dropped", raw)
				}
			})
		}
	})

	t.Run("drops invalid image url without dropping the offer", func(t *testing.T) {
		offer, ok := n.Normalize(domain.RawOffer{Title: "Thing", DealURL: "https://shop.example.com/p", ImageURL: "data:image/png;base64,xx"})
		if !ok {
			t.Fatal("record dropped")
		}
		if offer.ImageURL != "" {
			t.Errorf("ImageURL = %q, want empty", offer.ImageURL)
		}
	})

	t.Run("ignores input ids", func(t *testing.T) {
		a, _ := n.Normalize(domain.RawOffer{ID: "same", Title: "A", DealURL: "https://a.com"})
		b, _ := n.Normalize(domain.RawOffer{ID: "same", Title: "B", DealURL: "https://b.com"})
		if a.ID == "same" || a.ID == b.ID {
			t.Errorf("IDs = %q, %q, want fresh distinct ids", a.ID, b.ID)
		}
	})
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"float", 849.0, "849"},
		{"int", 1299, "1299"},
		{"int64", int64(15), "15"},
		{"json number", json.Number("19.95"), "19.95"},
		{"decimal", decimal.RequireFromString("5.50"), "5.5"},
		{"currency string", "$1,299.99", "1299.99"},
		{"string with code", "USD 45", "45"},
		{"unparsable string", "call for price", "0"},
		{"two decimal points", "1.2.3", "0"},
		{"negative float", -5.0, "0"},
		{"nil", nil, "0"},
		{"bool", true, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsePrice(tt.in); !got.Equal(dec(tt.want)) {
				t.Errorf("parsePrice(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSourceFromHost(t *testing.T) {
	tests := map[string]string{
		"www.bestbuy.com": "Bestbuy",
		"amazon.com":      "Amazon",
		"shop.example.co": "Shop",
		"WWW.Target.com":  "Target",
		"":                "Unknown",
		"www.":            "Unknown",
	}
	for host, want := range tests {
		if got := sourceFromHost(host); got != want {
			t.Errorf("sourceFromHost(%q) = %q, want %q", host, got, want)
		}
	}
}

func TestOfferNormalizer_NormalizeAll(t *testing.T) {
	n := NewOfferNormalizer()
	offers := n.NormalizeAll([]domain.RawOffer{
		{Title: "Good", Price: 10, DealURL: "https://a.com/good"},
		{Title: "Bad", Price: 10, DealURL: "ftp://a.com/bad"},
		{Title: "Also good", Price: "12", DealURL: "http://b.com/also"},
	})
	if len(offers) != 2 {
		t.Fatalf("NormalizeAll() returned %d offers, want 2", len(offers))
	}
	if offers[0].Title != "Good" || offers[1].Title != "Also good" {
		t.Errorf("order not preserved: %v", titles(offers))
	}
}
