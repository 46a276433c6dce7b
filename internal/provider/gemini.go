// Package provider wraps the generative-language HTTP API behind a
// retry-with-backoff client.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/logging"
)

// systemPrompt scopes the assistant to its legal domain.
const systemPrompt = "You are a specialized 'Know-Your-Rights' legal awareness assistant focused only on Indian law and legal procedures. Always refuse non-legal questions."

// translationFailed is returned when the provider produced no usable text
// for a translation request.
const translationFailed = "Translation failed."

// Client performs single logical calls against the generative-language
// API, masking transient failures with bounded exponential backoff.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	maxAttempts int
	baseDelay   time.Duration
	client      HTTPClient
	sleep       func(ctx context.Context, d time.Duration) error
	log         *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.client = hc }
}

// WithMaxAttempts bounds the retry loop.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

// WithBaseDelay sets the first backoff delay. The delay doubles after
// every retryable failure.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// WithSleeper replaces the backoff suspension (tests use a recorder).
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = fn }
}

// New creates a Client for the given API key, base URL and model.
func New(apiKey, baseURL, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		maxAttempts: 3,
		baseDelay:   time.Second,
		client:      &http.Client{},
		sleep:       sleepContext,
		log:         logging.New("provider"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types for the generateContent endpoint.

type generateRequest struct {
	Contents          []content  `json:"contents"`
	Tools             []toolSpec `json:"tools,omitempty"`
	SystemInstruction *content   `json:"systemInstruction,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type toolSpec struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content struct {
		Parts []part `json:"parts"`
	} `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type groundingMetadata struct {
	GroundingAttributions []groundingAttribution `json:"groundingAttributions"`
}

type groundingAttribution struct {
	Web *struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web,omitempty"`
}

// text returns the primary response text, or "" when the provider
// returned no usable candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

// sources extracts grounding attributions that carry both a URI and a
// title.
func (r *generateResponse) sources() []domain.Source {
	if len(r.Candidates) == 0 || r.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var raw []domain.Source
	for _, a := range r.Candidates[0].GroundingMetadata.GroundingAttributions {
		if a.Web == nil {
			continue
		}
		raw = append(raw, domain.Source{URI: a.Web.URI, Title: a.Web.Title})
	}
	return domain.FilterSources(raw)
}

// Answer is the result of a grounded query.
type Answer struct {
	Text    string
	Sources []domain.Source
}

// Query asks the legal-domain question with search grounding enabled.
func (c *Client) Query(ctx context.Context, question string) (*Answer, error) {
	req := &generateRequest{
		Contents:          []content{{Parts: []part{{Text: question}}}},
		Tools:             []toolSpec{{GoogleSearch: &struct{}{}}},
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
	}

	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Answer{Text: resp.text(), Sources: resp.sources()}, nil
}

// Translate renders text into the target language. No system instruction
// or grounding is attached; the instruction is embedded in the prompt.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text into %s while maintaining the original meaning and tone:\n\nTEXT: %q", targetLanguage, text)
	req := &generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	resp, err := c.call(ctx, req)
	if err != nil {
		return "", err
	}
	if out := resp.text(); out != "" {
		return out, nil
	}
	return translationFailed, nil
}

// call performs one logical generateContent request, retrying retryable
// failures with pure exponential backoff. The delay starts at baseDelay,
// doubles after every retryable failure and is never applied after the
// final attempt.
func (c *Client) call(ctx context.Context, req *generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	delay := c.baseDelay
	var lastDetail string

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		// A request that cannot be constructed will never succeed, so
		// the error surfaces without burning backoff sleeps.
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request for model %s: %w", c.model, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		start := time.Now()
		outcome := c.attempt(httpReq)

		switch o := outcome.(type) {
		case success:
			c.log.TimedEvent("generate", start, map[string]any{"attempt": attempt + 1})
			return o.resp, nil

		case fatalFailure:
			c.log.Error("generate_fatal", map[string]any{"status": o.status}, nil)
			return nil, &APIError{Status: o.status, Body: o.detail}

		case retryableFailure:
			if o.transport && attempt == c.maxAttempts-1 {
				return nil, fmt.Errorf("call model %s: %w", c.model, o.err)
			}
			lastDetail = o.detail
			c.log.Warn("generate_retry", map[string]any{"attempt": attempt + 1}, o.err)
		}

		if attempt < c.maxAttempts-1 {
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
		}
	}

	return nil, &ExhaustedError{Attempts: c.maxAttempts, Detail: lastDetail}
}

// attempt issues a single HTTP request and classifies the result into
// the closed outcome set.
func (c *Client) attempt(httpReq *http.Request) outcome {
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return retryableFailure{err: err, detail: err.Error(), transport: true}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return retryableFailure{err: err, detail: err.Error(), transport: true}
	}

	switch classifyStatus(resp.StatusCode) {
	case statusOK:
		var parsed generateResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return fatalFailure{status: resp.StatusCode, detail: fmt.Sprintf("malformed response body: %v", err)}
		}
		return success{resp: &parsed}
	case statusRetryable:
		return retryableFailure{
			err:    fmt.Errorf("status %d", resp.StatusCode),
			detail: string(respBody),
		}
	default:
		return fatalFailure{status: resp.StatusCode, detail: string(respBody)}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
