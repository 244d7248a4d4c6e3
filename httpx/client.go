// Package httpx is a small JSON-over-HTTP client used by providers that
// don't ship their own Go SDK (the Ollama chat/embeddings backend, the
// optional web-search provider). Ported from the teacher's http package.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultScheme   = "http"
	SchemeSeparator = "://"

	ContentTypeJSON   = "application/json"
	ContentTypeHeader = "Content-Type"

	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodDelete = http.MethodDelete
)

// Client is a minimal base-URL-bound HTTP client.
type Client struct {
	baseURL    string
	timeout    time.Duration
	clientOnce sync.Once
	client     *http.Client
}

func NewClient(optionalBaseURL ...string) (*Client, error) {
	var baseURL string
	if len(optionalBaseURL) == 1 && optionalBaseURL[0] != "" {
		u, err := normalizeBaseURL(optionalBaseURL[0])
		if err != nil {
			return nil, err
		}
		baseURL = u
	}
	return &Client{timeout: DefaultTimeout, baseURL: baseURL}, nil
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if c.client != nil {
		return c
	}
	c.timeout = timeout
	return c
}

func (c *Client) getClient() *http.Client {
	c.clientOnce.Do(func() {
		c.client = &http.Client{Timeout: c.timeout}
	})
	return c.client
}

func (c *Client) fullURL(path string) string {
	return c.baseURL + strings.ReplaceAll(path, "//", "/")
}

func (c *Client) Do(ctx context.Context, method, path string, headers map[string]string, body []byte) ([]byte, int, error) {
	slog.Debug("httpx.Client.Do", "method", method, "path", path)
	req, err := http.NewRequestWithContext(ctx, method, c.fullURL(path), bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.getClient().Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return respBody, resp.StatusCode, nil
}

func normalizeBaseURL(s string) (string, error) {
	if strings.HasPrefix(s, SchemeSeparator) || strings.Contains(s, " ") {
		return "", fmt.Errorf("invalid base url: %s", s)
	}
	if !strings.Contains(s, SchemeSeparator) {
		s = DefaultScheme + SchemeSeparator + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	return u.String(), nil
}
