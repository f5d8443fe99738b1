package apify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/resilience"
)

func TestRunSync(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantErr       string
		wantTransient bool
		wantItems     int
	}{
		{name: "success", status: http.StatusOK, body: `[{"fullName":"Ada"},{"fullName":"Bob"}]`, wantItems: 2},
		{name: "created", status: http.StatusCreated, body: `[{"fullName":"Ada"}]`, wantItems: 1},
		{name: "empty dataset", status: http.StatusOK, body: `[]`, wantItems: 0},
		{name: "bad gateway", status: http.StatusBadGateway, body: `oops`, wantErr: "unexpected status 502", wantTransient: true},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"actor not found"}`, wantErr: "unexpected status 404"},
		{name: "not an array", status: http.StatusOK, body: `{"error":"x"}`, wantErr: "decode dataset items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/acts/"+ActorProfileScraper+"/run-sync-get-dataset-items", r.URL.Path)
				assert.Equal(t, "tok", r.URL.Query().Get("token"))

				var input map[string][]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
				assert.Equal(t, []string{"https://www.linkedin.com/in/ada"}, input["profileUrls"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("tok", WithBaseURL(srv.URL), WithRateLimit(0))
			items, err := c.RunSync(context.Background(), ActorProfileScraper, map[string]any{
				"profileUrls": []string{"https://www.linkedin.com/in/ada"},
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantTransient, resilience.IsTransient(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.wantItems)
		})
	}
}

func TestRunSync_TruncatesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL+"/"))
	_, err := c.RunSync(context.Background(), ActorPostReactions, map[string]any{"post_url": "1", "page_number": 1})
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 700)
}

func TestRunSync_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("tok", WithBaseURL(srv.URL))
	_, err := c.RunSync(ctx, ActorCompanyScraper, map[string]any{"url": []string{"x"}})
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	hc := NewClient("tok").(*httpClient)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.NotNil(t, hc.limiter)
	assert.NotNil(t, hc.http)

	custom := &http.Client{}
	hc = NewClient("tok", WithHTTPClient(custom), WithRateLimit(0)).(*httpClient)
	assert.Same(t, custom, hc.http)
	assert.Nil(t, hc.limiter)
}
