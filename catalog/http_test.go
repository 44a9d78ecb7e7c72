package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/feedrank/core"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cats | dogs", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`[{"videoId":"aaaaaaaaaaa","title":"cats"},{"videoId":"bad","title":"x"}]`))
	})
	mux.HandleFunc("/items/aaaaaaaaaaa/related", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"bbbbbbbbbbb","title":"related"}]}`))
	})
	mux.HandleFunc("/channels/UC1/latest", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":"ccccccccccc","channelId":"UC1"}]}`))
	})
	mux.HandleFunc("/trending", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"videos":[{"id":"ddddddddddd"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClientOperations(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, APIKey: "secret", RatePerSecond: 100, Burst: 10})
	require.NoError(t, err)
	ctx := context.Background()

	items, err := c.Search(ctx, "cats | dogs", 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "aaaaaaaaaaa", items[0].ID)

	items, err = c.RelatedTo(ctx, "aaaaaaaaaaa")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bbbbbbbbbbb", items[0].ID)

	items, err = c.LatestFromChannel(ctx, "UC1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "UC1", items[0].ChannelID)

	items, err = c.Trending(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestHTTPClientBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, BreakerFailures: 2, BreakerTimeout: time.Minute})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.Trending(context.Background())
		require.Error(t, err)
	}
	_, err = c.Trending(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.True(t, errors.Is(err, core.ErrCatalogUnavailable))
	assert.True(t, core.IsUnavailable(err))
	assert.Equal(t, int32(2), hits.Load())
}

func TestHTTPClientBreakerIgnoresCancelledCalls(t *testing.T) {
	srv := newTestServer(t)
	c, err := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, APIKey: "secret", BreakerFailures: 2, BreakerTimeout: time.Minute})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		_, err := c.Trending(cancelled)
		require.Error(t, err)
		assert.False(t, core.IsUnavailable(err))
	}

	items, err := c.Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestHTTPClientBreakersArePerOperation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trending", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	mux.HandleFunc("/channels/UC1/latest", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"ccccccccccc","channelId":"UC1"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, BreakerFailures: 1, BreakerTimeout: time.Minute})
	require.NoError(t, err)

	_, err = c.Trending(context.Background())
	require.Error(t, err)
	_, err = c.Trending(context.Background())
	require.ErrorIs(t, err, gobreaker.ErrOpenState)

	items, err := c.LatestFromChannel(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestHTTPClientMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Trending(context.Background())
	assert.Error(t, err)
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	assert.Error(t, err)
}
