package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealscout/backend/internal/domain"
)

func TestRemoteFeed_LoadOffers(t *testing.T) {
	t.Run("decodes array feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			_, _ = w.Write([]byte(`[{"title":"Desk Lamp","price":"$19.99","deal_url":"https://target.com/lamp"}]`))
		}))
		defer server.Close()

		offers, err := NewRemoteFeed(server.URL, 0).LoadOffers(context.Background())
		require.NoError(t, err)
		require.Len(t, offers, 1)
		assert.Equal(t, "Desk Lamp", offers[0].Title)
		assert.Equal(t, "$19.99", offers[0].Price)
	})

	t.Run("decodes enveloped feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"deals":[{"title":"A","price":1,"deal_url":"https://a.com"},{"title":"B","price":2,"deal_url":"https://b.com"}]}`))
		}))
		defer server.Close()

		offers, err := NewRemoteFeed(server.URL, 0).LoadOffers(context.Background())
		require.NoError(t, err)
		assert.Len(t, offers, 2)
	})

	t.Run("non-2xx is a feed failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewRemoteFeed(server.URL, 0).LoadOffers(context.Background())
		assert.ErrorIs(t, err, domain.ErrFeedFailure)
	})

	t.Run("malformed body is a feed failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>nope</html>`))
		}))
		defer server.Close()

		_, err := NewRemoteFeed(server.URL, 0).LoadOffers(context.Background())
		assert.ErrorIs(t, err, domain.ErrFeedFailure)
	})

	t.Run("unreachable host is a feed failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := NewRemoteFeed(url, 0).LoadOffers(context.Background())
		assert.ErrorIs(t, err, domain.ErrFeedFailure)
	})
}

func TestLocalFeed_LoadOffers(t *testing.T) {
	offers, err := NewLocalFeed().LoadOffers(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, offers)

	assert.Equal(t, "Everyday Midi Dress", offers[0].Title)
	assert.Equal(t, 39.99, offers[0].Price)
	for _, o := range offers {
		assert.NotEmpty(t, o.Title)
		assert.NotEmpty(t, o.DealURL)
	}
}
