package domain

// Citation points at a listing or product shown in a payload
type Citation struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// Recommendation is a ranked offer with reasoning and citations
type Recommendation struct {
	ID        string         `json:"id"`
	Offer     Offer          `json:"offer"`
	Reasoning string         `json:"reasoning"`
	Score     ScoreBreakdown `json:"score"`
	Citations []Citation     `json:"citations"`
}

// PromotedRecommendation is a catalog product surfaced alongside offers.
// Disclosure is always set.
type PromotedRecommendation struct {
	Product    CatalogProduct `json:"product"`
	Reasoning  string         `json:"reasoning"`
	Disclosure string         `json:"disclosure"`
	Citations  []Citation     `json:"citations"`
}

// ResultPayload is the complete answer to one shopping request
type ResultPayload struct {
	Intent          ShoppingIntent          `json:"intent"`
	Recommendations []Recommendation        `json:"recommendations"`
	Promoted        *PromotedRecommendation `json:"promoted,omitempty"`
	Summary         string                  `json:"summary"`
	Citations       []Citation              `json:"citations"`
}

// SearchRequest is the HTTP request body for a deal search
type SearchRequest struct {
	Query     string `json:"query" binding:"required"`
	ForceLive bool   `json:"forceLive,omitempty"`
}
