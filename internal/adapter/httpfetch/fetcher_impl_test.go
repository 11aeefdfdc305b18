package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/listings-service/internal/repository"
)

func TestFetcher_SendsBrowserHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(Options{UserAgents: NewUserAgentPool("test-agent/1.0")}, zaptest.NewLogger(t))
	resp, err := f.Fetch(context.Background(), repository.FetchRequest{
		URL:     srv.URL + "/mobility/search/car?orgId=1",
		Headers: map[string]string{"x-FINN-apikey": "secret", "Accept": "application/json"},
	})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, "<html>ok</html>", resp.Body)
	assert.Equal(t, "test-agent/1.0", got.Get("User-Agent"))
	assert.Equal(t, "nb-NO,nb;q=0.9,no;q=0.8,en;q=0.5", got.Get("Accept-Language"))
	assert.Equal(t, "no-cache", got.Get("Cache-Control"))
	assert.Equal(t, "secret", got.Get("X-Finn-Apikey"))
	assert.Equal(t, "application/json", got.Get("Accept"), "request headers override defaults")
}

func TestFetcher_NonSuccessIsAResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	resp, err := NewFetcher(Options{}, zaptest.NewLogger(t)).Fetch(context.Background(), repository.FetchRequest{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.Status)
	assert.False(t, resp.OK())
}

func TestFetcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(Options{Timeout: time.Second}, zaptest.NewLogger(t)).Fetch(context.Background(), repository.FetchRequest{URL: url})
	assert.Error(t, err)
}

func TestUserAgentPool(t *testing.T) {
	p := NewUserAgentPool()
	for i := 0; i < 20; i++ {
		assert.Contains(t, desktopUserAgents, p.Next())
	}
}
