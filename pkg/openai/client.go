// Package openai is a minimal client for the OpenAI Responses API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/resilience"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-5-mini"
)

// Client creates model responses.
type Client interface {
	CreateResponse(ctx context.Context, req ResponseRequest) (*Response, error)
}

// ResponseRequest is the request body for POST /responses.
type ResponseRequest struct {
	Model           string     `json:"model"`
	Instructions    string     `json:"instructions,omitempty"`
	Input           string     `json:"input"`
	Reasoning       *Reasoning `json:"reasoning,omitempty"`
	MaxOutputTokens *int       `json:"max_output_tokens,omitempty"`
}

// Reasoning configures reasoning models.
type Reasoning struct {
	Effort string `json:"effort"` // "low", "medium" or "high"
}

// Response is the response from POST /responses. Output interleaves
// reasoning items with message items.
type Response struct {
	ID     string       `json:"id"`
	Model  string       `json:"model"`
	Status string       `json:"status"`
	Output []OutputItem `json:"output"`
	Usage  Usage        `json:"usage"`
}

// OutputItem is one entry of the output array.
type OutputItem struct {
	Type    string          `json:"type"` // "reasoning" or "message"
	Role    string          `json:"role,omitempty"`
	Content []OutputContent `json:"content,omitempty"`
}

// OutputContent is one content part of a message item.
type OutputContent struct {
	Type string `json:"type"` // "output_text" or "refusal"
	Text string `json:"text,omitempty"`
}

// Usage reports token consumption.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// OutputText returns the first output_text part of the first message item.
func (r *Response) OutputText() string {
	if r == nil {
		return ""
	}
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" && c.Text != "" {
				return c.Text
			}
		}
	}
	return ""
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		c.model = model
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient creates an OpenAI Responses API client. High-effort reasoning
// can take minutes, so the timeout is longer than a chat client's.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http: &http.Client{
			Timeout: 150 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CreateResponse(ctx context.Context, req ResponseRequest) (*Response, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "openai: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "openai: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "openai: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "openai: read response")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("openai: unexpected status %d: %s", resp.StatusCode, string(respBody))
		return nil, resilience.ClassifyStatus(resp.StatusCode, statusErr)
	}

	var result Response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "openai: unmarshal response")
	}
	return &result, nil
}
