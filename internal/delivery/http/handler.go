package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dealscout/backend/internal/domain"
)

const (
	serviceName    = "dealscout-backend"
	serviceVersion = "1.0.0"

	// fetchFailedMessage is the only error text shown for upstream failures
	fetchFailedMessage = "Sorry, I couldn't fetch deals right now."
)

// DealSearcher runs a deal search for one request
type DealSearcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.ResultPayload, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	deals DealSearcher
}

// NewHandler creates a new HTTP handler
func NewHandler(deals DealSearcher) *Handler {
	return &Handler{deals: deals}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// SearchDeals handles deal search requests
func (h *Handler) SearchDeals(c *gin.Context) {
	if h.deals == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Deal search service not configured",
		})
		return
	}

	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	payload, err := h.deals.Search(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query must not be empty",
		})
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		c.Status(499)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("deal search request failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": fetchFailedMessage,
		})
	}
}
