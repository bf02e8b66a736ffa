package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dealscout/backend/internal/domain"
)

// responsesRequest is the /v1/responses request format with the web search tool
type responsesRequest struct {
	Model       string       `json:"model"`
	Input       string       `json:"input"`
	Tools       []searchTool `json:"tools"`
	ToolChoice  string       `json:"tool_choice"`
	Temperature float64      `json:"temperature"`
}

type searchTool struct {
	Type              string `json:"type"`
	ExternalWebAccess bool   `json:"external_web_access"`
}

// responsesResponse is the subset of the /v1/responses body we read
type responsesResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// text returns output_text, or the first output_text content block
func (r responsesResponse) text() string {
	if strings.TrimSpace(r.OutputText) != "" {
		return r.OutputText
	}
	for _, item := range r.Output {
		for _, content := range item.Content {
			if content.Type == "output_text" && strings.TrimSpace(content.Text) != "" {
				return content.Text
			}
		}
	}
	return ""
}

// dealEnvelope is the JSON shape the model is asked to return
type dealEnvelope struct {
	Deals []domain.RawOffer `json:"deals"`
}

var errNoJSONObject = errors.New("no JSON object in model output")

// SearchOffers asks a web-search enabled model for current listings
func (c *Client) SearchOffers(ctx context.Context, query string, budget *decimal.Decimal) ([]domain.RawOffer, error) {
	body, err := c.post(ctx, "/v1/responses", responsesRequest{
		Model:       c.searchModel,
		Input:       buildSearchPrompt(query, budget),
		Tools:       []searchTool{{Type: "web_search", ExternalWebAccess: true}},
		ToolChoice:  "auto",
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLiveSearchFailed, err)
	}

	var resp responsesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrLiveSearchFailed, err)
	}

	offers, err := parseDeals(resp.text())
	if err != nil {
		return nil, err
	}

	log.Debug().Str("query", query).Int("deals", len(offers)).Msg("live search returned deals")
	return offers, nil
}

// parseDeals extracts {"deals": [...]} from model text that may carry fences or chatter
func parseDeals(text string) ([]domain.RawOffer, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoLiveOffers, errNoJSONObject)
	}

	var env dealEnvelope
	if err := json.Unmarshal([]byte(text[start:end+1]), &env); err != nil {
		return nil, fmt.Errorf("%w: garbled deals JSON: %v", domain.ErrNoLiveOffers, err)
	}
	if len(env.Deals) == 0 {
		return nil, fmt.Errorf("%w: empty deals list", domain.ErrNoLiveOffers)
	}
	return env.Deals, nil
}

func buildSearchPrompt(query string, budget *decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find current shopping deals for: %q.\n", query)
	if budget != nil {
		fmt.Fprintf(&b, "Budget: up to $%s. Prefer listings at or below it.\n", budget.StringFixed(2))
	}
	b.WriteString(`Return strict JSON only with shape:
{
  "deals": [
    {
      "title": "string",
      "price": number,
      "currency": "USD",
      "shipping": "string",
      "source": "string",
      "image_url": "https://...",
      "deal_url": "https://...",
      "is_sponsored": false
    }
  ]
}
Rules:
- 4 to 8 deals.
- Every deal must be the product that was asked for, not an accessory or a different category.
- Prefer reputable US retailers.
- Only real product listing URLs.
- Do not output markdown.
`)
	return b.String()
}
