// Package websearch is the optional external collaborator named in
// spec.md §6: search(query, k) -> [{title, url, snippet}]. The engine
// never depends on it directly (answers stay grounded in the active
// document); it exists so a future component can enrich an answer with
// outside context when explicitly wired in, and degrades to "unavailable"
// cleanly when no Provider is configured.
package websearch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aqua777/pdfrag/httpx"
)

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Provider is the interface spec.md §6 describes. A nil Provider is a
// valid "feature disabled" value; callers check for it rather than for
// a specific implementation.
type Provider interface {
	Search(ctx context.Context, query string, k int) ([]Result, error)
}

// BraveProvider implements Provider against the Brave Search API, chosen
// because it needs only an API key header and returns plain JSON, unlike
// providers that require an SDK this module doesn't otherwise depend on.
type BraveProvider struct {
	http   *httpx.JSONClient
	apiKey string
}

func NewBraveProvider(apiKey string) (*BraveProvider, error) {
	c, err := httpx.NewJSONClient("api.search.brave.com")
	if err != nil {
		return nil, err
	}
	return &BraveProvider{http: c, apiKey: apiKey}, nil
}

var _ Provider = (*BraveProvider)(nil)

type braveWebResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type braveResponse struct {
	Web struct {
		Results []braveWebResult `json:"results"`
	} `json:"web"`
}

func (p *BraveProvider) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	path := fmt.Sprintf("/res/v1/web/search?q=%s&count=%d", url.QueryEscape(query), k)
	headers := map[string]string{"X-Subscription-Token": p.apiKey, "Accept": "application/json"}

	var resp braveResponse
	if err := p.http.Get(ctx, path, &resp, headers); err != nil {
		return nil, fmt.Errorf("websearch: brave search failed: %w", err)
	}

	out := make([]Result, 0, len(resp.Web.Results))
	for i, r := range resp.Web.Results {
		if i >= k {
			break
		}
		out = append(out, Result{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}
	return out, nil
}
