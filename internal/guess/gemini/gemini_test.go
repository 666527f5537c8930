package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-3-pro-preview:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "contents")

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":
			"{\"urls\":[\"https://example.com/about\"],\"confidence\":0.9}"
		}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	c := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	res, err := c.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/about"}, res.URLs)
	assert.Equal(t, 0.9, res.Confidence)
}

func TestAnalyzeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	_, err := c.Analyze(context.Background(), "https://example.com")
	assert.ErrorContains(t, err, "status 429")
}

func TestAnalyzeMissingKey(t *testing.T) {
	c := New(Config{})
	_, err := c.Analyze(context.Background(), "https://example.com")
	assert.Error(t, err)
}
