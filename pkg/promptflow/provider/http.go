package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient calls the endpoint family as JSON POSTs against a base URL.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// HTTPOption configures HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient sets the underlying http.Client (timeouts, transport).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout sets the per-call timeout. Default: 2 minutes.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) { h.client.Timeout = d }
}

// NewHTTPClient creates a client for the endpoint family rooted at baseURL,
// e.g. "http://localhost:8080/api".
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enhance implements Client.
func (h *HTTPClient) Enhance(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/enhance", req, "enhanced")
}

// Translate implements Client.
func (h *HTTPClient) Translate(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/translate", req, "translation")
}

// DescribeImage implements Client.
func (h *HTTPClient) DescribeImage(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/describe", req, "description")
}

// FixGrammar implements Client.
func (h *HTTPClient) FixGrammar(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/grammar-fix", req, "fixed")
}

// GenerateStory implements Client.
func (h *HTTPClient) GenerateStory(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/storyteller", req, "story")
}

// Compress implements Client.
func (h *HTTPClient) Compress(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/compress", req, "compressed")
}

// InjectPersonas implements Client.
func (h *HTTPClient) InjectPersonas(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/inject-persona", req, "injected")
}

// ReplacePersonas implements Client.
func (h *HTTPClient) ReplacePersonas(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/replace", req, "replaced")
}

// GenerateImage implements Client.
func (h *HTTPClient) GenerateImage(ctx context.Context, req Request) (string, error) {
	return h.post(ctx, "/generate-image", req, "image")
}

// post sends the request and extracts the endpoint's single result field.
// Non-2xx responses and {"error": ...} bodies become errors.
func (h *HTTPClient) post(ctx context.Context, path string, req Request, resultField string) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", path, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("%s: status %d", path, resp.StatusCode)
		}
		return "", fmt.Errorf("%s: decode response: %w", path, err)
	}

	if rawErr, ok := fields["error"]; ok {
		var msg string
		_ = json.Unmarshal(rawErr, &msg)
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%s: %s", path, msg)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}

	rawResult, ok := fields[resultField]
	if !ok {
		return "", fmt.Errorf("%s: response missing %q", path, resultField)
	}
	var result string
	if err := json.Unmarshal(rawResult, &result); err != nil {
		return "", fmt.Errorf("%s: decode %q: %w", path, resultField, err)
	}
	return result, nil
}
