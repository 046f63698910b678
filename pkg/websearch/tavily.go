package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Searcher runs a web search and returns the top hits.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// TavilyClient calls the Tavily search API. Identical queries within the
// cache window reuse the previous response.
type TavilyClient struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	Client     *http.Client
	cache      *cache.Cache
}

var _ Searcher = &TavilyClient{}

func NewTavilyClient(apiKey string, maxResults int) *TavilyClient {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &TavilyClient{
		BaseURL:    "https://api.tavily.com",
		APIKey:     apiKey,
		MaxResults: maxResults,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache.New(10*time.Minute, 30*time.Minute),
	}
}

type tavilySearchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilySearchResponse struct {
	Results []Result `json:"results"`
}

func (t *TavilyClient) Search(ctx context.Context, query string) ([]Result, error) {
	if hit, found := t.cache.Get(query); found {
		return hit.([]Result), nil
	}

	payload, err := json.Marshal(tavilySearchRequest{
		APIKey:     t.APIKey,
		Query:      query,
		MaxResults: t.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := t.BaseURL + "/search"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var search tavilySearchResponse
	if err := json.Unmarshal(bodyBytes, &search); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	t.cache.Set(query, search.Results, cache.DefaultExpiration)
	return search.Results, nil
}

// Digest flattens search hits into a text block for prompt injection.
func Digest(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if r.Title != "" {
			b.WriteString(r.Title)
			b.WriteString("\n")
		}
		b.WriteString(r.Content)
	}
	return b.String()
}
