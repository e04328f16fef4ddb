package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultImageModel = "gemini-3-pro-image-preview"
	DefaultTextModel  = "gemini-2.0-flash"
)

type client struct {
	apiKey     string
	baseURL    string
	imageModel string
	textModel  string
	hc         *http.Client
	retry      RetryPolicy
}

type Option func(*client)

func WithBaseURL(url string) Option {
	return func(c *client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithModels(image, text string) Option {
	return func(c *client) {
		if image != "" {
			c.imageModel = image
		}
		if text != "" {
			c.textModel = text
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.hc = hc
	}
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *client) {
		c.retry = p
	}
}

func NewClient(apiKey string, opts ...Option) (*client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is empty")
	}

	c := &client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		imageModel: DefaultImageModel,
		textModel:  DefaultTextModel,
		hc:         &http.Client{},
		retry:      DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client) generateContent(ctx context.Context, model string, request *generateContentRequest) (*generateContentResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var response generateContentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{Code: resp.StatusCode, Message: truncate(string(body), 200)}
		}
		return nil, fmt.Errorf("decoding response data: %w", err)
	}

	if response.Error != nil {
		return nil, &APIError{Code: response.Error.Code, Message: response.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Code: resp.StatusCode}
	}

	return &response, nil
}

// timeoutFor returns the per-attempt budget for a resolution tier.
func timeoutFor(tier string) time.Duration {
	if tier == "4K" {
		return 180 * time.Second
	}
	return 120 * time.Second
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
