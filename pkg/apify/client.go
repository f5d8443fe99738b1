// Package apify runs Apify actors synchronously and returns their dataset items.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/resilience"
)

const defaultBaseURL = "https://api.apify.com/v2"

// Actor ids used by the enrichment layer.
const (
	ActorPostReactions  = "apimaestro~linkedin-post-reactions"
	ActorProfileScraper = "dev_fusion~linkedin-profile-scraper"
	ActorCompanyScraper = "logical_scrapers~linkedin-company-scraper"
	ActorCompanyDetail  = "apimaestro~linkedin-company-detail"
)

// Client runs actors and returns their dataset items as raw JSON documents.
type Client interface {
	RunSync(ctx context.Context, actor string, input any) ([]json.RawMessage, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound actor runs per second. Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Apify client. Synchronous actor runs can take well
// over a minute, so the default timeout is generous; callers bound the
// overall budget through ctx.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 170 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(2, 2),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) RunSync(ctx context.Context, actor string, input any) ([]json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "apify: rate limit")
		}
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal input")
	}

	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, url.PathEscape(actor), url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apify: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "apify: run %s", actor)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apify: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := eris.Errorf("apify: %s unexpected status %d: %s", actor, resp.StatusCode, truncate(string(respBody), 512))
		return nil, resilience.ClassifyStatus(resp.StatusCode, statusErr)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, eris.Wrapf(err, "apify: %s decode dataset items", actor)
	}
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
