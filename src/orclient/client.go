// Package orclient implements the OpenRouter API client: non-streaming and
// streaming chat completions plus the models and usage endpoints.
package orclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/zbx9000/zenchat/src/chatsdk"
)

// DefaultBaseURL is the OpenRouter API root used when no base URL is
// configured.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const (
	defaultTimeout  = 30 * time.Second
	defaultSiteURL  = "https://github.com/zbx9000/zenchat"
	defaultSiteName = "zenchat"
)

// Client is the OpenRouter API client.
type Client struct {
	config     Config
	httpClient *http.Client
	// streamClient carries no timeout of its own; streaming requests are
	// bounded by the caller's context.
	streamClient *http.Client
	logger       *slog.Logger
}

// NewClient creates a new OpenRouter API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.SiteURL == "" {
		config.SiteURL = defaultSiteURL
	}
	if config.SiteName == "" {
		config.SiteName = defaultSiteName
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "openrouter_client")

	return &Client{
		config:       config,
		httpClient:   &http.Client{Timeout: config.Timeout},
		streamClient: &http.Client{},
		logger:       logger,
	}
}

// CreateChatCompletion sends a non-streaming chat completion request.
func (c *Client) CreateChatCompletion(ctx context.Context, req *chatsdk.ChatCompletionRequest) (*chatsdk.ChatCompletionResponse, error) {
	logger := c.logger.With("method", "CreateChatCompletion", "model", req.Model)
	logger.Debug("sending chat completion request")

	req.Stream = false
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("request failed", "error", err)
		return nil, &TransportError{Op: "chat completion request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("received error response", "status_code", resp.StatusCode)
		return nil, c.handleError(resp)
	}

	var result chatsdk.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("failed to decode response", "error", err)
		return nil, &TransportError{Op: "chat completion decode", Err: err}
	}

	if result.Usage != nil {
		logger.Info("chat completion successful", "usage_total", result.Usage.TotalTokens)
	}
	return &result, nil
}

// CreateChatCompletionStream sends a streaming chat completion request and
// returns a stream of deltas. The caller must close the stream; it is also
// closed automatically when reading reaches end of stream.
func (c *Client) CreateChatCompletionStream(ctx context.Context, req *chatsdk.ChatCompletionRequest) (chatsdk.StreamInterface, error) {
	logger := c.logger.With("method", "CreateChatCompletionStream", "model", req.Model)
	logger.Debug("opening chat completion stream")

	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		logger.Error("stream request failed", "error", err)
		return nil, &TransportError{Op: "stream request", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("received error response", "status_code", resp.StatusCode)
		defer resp.Body.Close()
		return nil, c.handleError(resp)
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, ErrNoStreamBody
	}

	return newBodyStream(resp.Body, c.logger), nil
}

// GetUsage returns the account usage report as opaque JSON.
func (c *Client) GetUsage(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/usage")
}

// newRequest creates a new HTTP request with the appropriate headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	url := c.config.BaseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.config.SiteURL)
	req.Header.Set("X-Title", c.config.SiteName)

	return req, nil
}

// getJSON performs a GET request and returns the raw response body.
func (c *Client) getJSON(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read " + path, Err: err}
	}
	return json.RawMessage(data), nil
}

// handleError converts a non-success response into an APIError. The body is
// read exactly once; when it does not carry a provider message the error
// falls back to "<status> <statusText>".
func (c *Client) handleError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}

	body, err := io.ReadAll(resp.Body)
	if err == nil {
		var errResp chatsdk.ErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error.Message != "" {
			apiErr.Message = errResp.Error.Message
			apiErr.Type = errResp.Error.Type
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return apiErr
}
