package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dealscout/backend/internal/domain"
)

const (
	offerExplainPrompt   = "You explain why a shopping deal fits a request in one short factual sentence. Mention price and retailer. No markdown."
	productExplainPrompt = "You explain in one short factual sentence why a premium product fits a shopping request. No markdown."
	summaryPrompt        = "You summarize shopping results in one or two short sentences. If a promoted product is listed you must mention it by name. No markdown."
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// formatPrice renders "$39.99", or "CAD 39.99" for currencies without a known symbol
func formatPrice(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	if code == "" {
		code = DefaultCurrency
	}
	if symbol, ok := currencySymbols[code]; ok {
		return symbol + amount.StringFixed(2)
	}
	return code + " " + amount.StringFixed(2)
}

// TemplateExplainer writes deterministic one-line explanations
type TemplateExplainer struct {
	brand string
}

// NewTemplateExplainer creates a template explainer for the given catalog brand
func NewTemplateExplainer(brand string) *TemplateExplainer {
	return &TemplateExplainer{brand: brand}
}

func (e *TemplateExplainer) ExplainOffer(_ context.Context, offer domain.Offer, intent domain.ShoppingIntent) string {
	return fmt.Sprintf("Matches %q: %s at %s, %s.",
		intent.Query, formatPrice(offer.Price, offer.Currency), offer.SourceName, offer.ShippingDescription)
}

func (e *TemplateExplainer) ExplainProduct(_ context.Context, product domain.CatalogProduct, intent domain.ShoppingIntent) string {
	return fmt.Sprintf("Premium option for %q: %s at %s.",
		intent.Query, product.Title, formatPrice(product.Price, product.Currency))
}

func (e *TemplateExplainer) Summarize(_ context.Context, intent domain.ShoppingIntent, _ []domain.Offer, product *domain.CatalogProduct) string {
	summary := fmt.Sprintf("Here are top deals for %q.", intent.Query)
	if product != nil {
		summary += e.productMention()
	}
	return summary
}

func (e *TemplateExplainer) productMention() string {
	return fmt.Sprintf(" I included a %s pick because it matches your request.", e.brand)
}

// LLMExplainer asks a language model for explanations and falls back to
// the template explainer on every failure
type LLMExplainer struct {
	llm      domain.LLMClient
	fallback *TemplateExplainer
}

// NewLLMExplainer creates a model-backed explainer
func NewLLMExplainer(llm domain.LLMClient, fallback *TemplateExplainer) *LLMExplainer {
	return &LLMExplainer{llm: llm, fallback: fallback}
}

func (e *LLMExplainer) ExplainOffer(ctx context.Context, offer domain.Offer, intent domain.ShoppingIntent) string {
	user := fmt.Sprintf("Request: %q. Deal: %s, %s at %s, shipping: %s.",
		intent.Query, offer.Title, formatPrice(offer.Price, offer.Currency), offer.SourceName, offer.ShippingDescription)
	if text, ok := e.complete(ctx, offerExplainPrompt, user); ok {
		return text
	}
	return e.fallback.ExplainOffer(ctx, offer, intent)
}

func (e *LLMExplainer) ExplainProduct(ctx context.Context, product domain.CatalogProduct, intent domain.ShoppingIntent) string {
	user := fmt.Sprintf("Request: %q. Product: %s, %s. %s",
		intent.Query, product.Title, formatPrice(product.Price, product.Currency), product.Description)
	if text, ok := e.complete(ctx, productExplainPrompt, user); ok {
		return text
	}
	return e.fallback.ExplainProduct(ctx, product, intent)
}

// Summarize guarantees the promoted product is mentioned when present
func (e *LLMExplainer) Summarize(ctx context.Context, intent domain.ShoppingIntent, offers []domain.Offer, product *domain.CatalogProduct) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Request: %q.\nDeals:\n", intent.Query)
	for i, offer := range offers {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "- %s, %s at %s\n", offer.Title, formatPrice(offer.Price, offer.Currency), offer.SourceName)
	}
	if product != nil {
		fmt.Fprintf(&b, "Promoted product: %s (%s)\n", product.Title, e.fallback.brand)
	}

	text, ok := e.complete(ctx, summaryPrompt, b.String())
	if !ok {
		return e.fallback.Summarize(ctx, intent, offers, product)
	}
	if product != nil && !mentionsProduct(text, product, e.fallback.brand) {
		text += e.fallback.productMention()
	}
	return text
}

func (e *LLMExplainer) complete(ctx context.Context, system, user string) (string, bool) {
	text, err := e.llm.Complete(ctx, system, user)
	if err != nil {
		log.Debug().Err(err).Msg("explanation failed, using template")
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

func mentionsProduct(text string, product *domain.CatalogProduct, brand string) bool {
	lower := strings.ToLower(text)
	return (brand != "" && strings.Contains(lower, strings.ToLower(brand))) ||
		strings.Contains(lower, strings.ToLower(product.Title))
}
