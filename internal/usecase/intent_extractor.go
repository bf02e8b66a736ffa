package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dealscout/backend/internal/domain"
)

// Budget patterns, tried in order
var (
	cueBudgetPattern    = regexp.MustCompile(`(?:under|below|less than|up to)\s*[$€£]?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	dollarBudgetPattern = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
)

var budgetCues = []string{"under", "below", "less than", "up to", "$", "€", "£"}

const intentSystemPrompt = "You extract shopping intent. Return strict JSON with keys: query (string), budget (number|null), preferences (string array). No markdown."

// HeuristicIntentExtractor parses intent with text rules only. It never fails.
type HeuristicIntentExtractor struct{}

// NewHeuristicIntentExtractor creates a rule-based extractor
func NewHeuristicIntentExtractor() *HeuristicIntentExtractor {
	return &HeuristicIntentExtractor{}
}

// Extract builds an intent from free text
func (e *HeuristicIntentExtractor) Extract(_ context.Context, text string) (domain.ShoppingIntent, error) {
	cleaned, forceLive := stripLiveMarker(text)
	if cleaned == "" {
		return domain.ShoppingIntent{Query: strings.TrimSpace(text), ForceLive: forceLive}, nil
	}

	intent := domain.ShoppingIntent{
		Query:     cleaned,
		Budget:    parseBudget(cleaned),
		ForceLive: forceLive,
	}
	if mentionsUsed(cleaned) {
		intent.Preferences = []string{domain.UsedPreference}
	}
	return intent, nil
}

// parseBudget returns the first positive amount following a budget cue or a dollar sign
func parseBudget(text string) *decimal.Decimal {
	lower := strings.ToLower(text)
	if !containsAny(lower, budgetCues) {
		return nil
	}

	for _, pattern := range []*regexp.Regexp{cueBudgetPattern, dollarBudgetPattern} {
		for _, m := range pattern.FindAllStringSubmatch(lower, -1) {
			amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
			if err == nil && amount.IsPositive() {
				return &amount
			}
		}
	}
	return nil
}

// LLMIntentExtractor asks a language model for structured intent
type LLMIntentExtractor struct {
	llm domain.LLMClient
}

// NewLLMIntentExtractor creates a model-backed extractor
func NewLLMIntentExtractor(llm domain.LLMClient) *LLMIntentExtractor {
	return &LLMIntentExtractor{llm: llm}
}

type llmIntent struct {
	Query       string   `json:"query"`
	Budget      *float64 `json:"budget"`
	Preferences []string `json:"preferences"`
}

// Extract returns an error on any model or parsing failure so a chain can fall through
func (e *LLMIntentExtractor) Extract(ctx context.Context, text string) (domain.ShoppingIntent, error) {
	cleanedInput, forceLive := stripLiveMarker(text)

	raw, err := e.llm.Complete(ctx, intentSystemPrompt, cleanedInput)
	if err != nil {
		return domain.ShoppingIntent{}, err
	}

	var parsed llmIntent
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		return domain.ShoppingIntent{}, fmt.Errorf("%w: malformed intent JSON: %v", domain.ErrLLMFailure, err)
	}

	query, _ := stripLiveMarker(parsed.Query)
	if query == "" {
		return domain.ShoppingIntent{}, fmt.Errorf("%w: empty intent query", domain.ErrLLMFailure)
	}

	intent := domain.ShoppingIntent{
		Query:       query,
		Preferences: normalizePreferences(parsed.Preferences),
		ForceLive:   forceLive,
	}
	if parsed.Budget != nil && *parsed.Budget > 0 {
		b := decimal.NewFromFloat(*parsed.Budget)
		intent.Budget = &b
	}
	return intent, nil
}

// normalizePreferences lowercases, de-duplicates and sorts tags
func normalizePreferences(prefs []string) []string {
	seen := make(map[string]bool, len(prefs))
	var out []string
	for _, p := range prefs {
		tag := strings.ToLower(strings.TrimSpace(p))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// IntentChain tries extractors in order and returns the first success.
// The last extractor should be one that cannot fail.
type IntentChain struct {
	extractors []domain.IntentExtractor
}

// NewIntentChain builds a chain. The heuristic extractor is appended as terminal fallback.
func NewIntentChain(extractors ...domain.IntentExtractor) *IntentChain {
	chain := append([]domain.IntentExtractor{}, extractors...)
	chain = append(chain, NewHeuristicIntentExtractor())
	return &IntentChain{extractors: chain}
}

// Extract never returns an error
func (c *IntentChain) Extract(ctx context.Context, text string) (domain.ShoppingIntent, error) {
	for i, extractor := range c.extractors {
		intent, err := extractor.Extract(ctx, text)
		if err == nil && strings.TrimSpace(intent.Query) != "" {
			return intent, nil
		}
		if err != nil {
			log.Debug().Err(err).Int("extractor", i).Msg("intent extractor failed, falling back")
		}
	}
	cleaned, forceLive := stripLiveMarker(text)
	if cleaned == "" {
		cleaned = strings.TrimSpace(text)
	}
	return domain.ShoppingIntent{Query: cleaned, ForceLive: forceLive}, nil
}

// extractJSONObject returns the text between the first '{' and the last '}'.
// Markdown fences and chatter around the object are dropped.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

