package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RankedJob is one posting returned by the retriever, best match first.
type RankedJob struct {
	ID         string            `json:"id"`
	Score      float32           `json:"score"`
	SourceData map[string]string `json:"source_data"`
	Document   string            `json:"document"`
}

// Retriever finds job postings matching a candidate profile. Postings
// whose id appears in excludedIDs must not come back.
type Retriever interface {
	Recommend(ctx context.Context, query string, profile map[string]string, excludedIDs []string) ([]RankedJob, error)
}

// HTTPRetriever calls the external hybrid retrieval service.
type HTTPRetriever struct {
	BaseURL string
	TopK    int
	Client  *http.Client
}

var _ Retriever = &HTTPRetriever{}

func NewHTTPRetriever(baseURL string, topK int) *HTTPRetriever {
	if topK <= 0 {
		topK = 5
	}
	return &HTTPRetriever{
		BaseURL: baseURL,
		TopK:    topK,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type recommendRequest struct {
	Query       string            `json:"query"`
	Profile     map[string]string `json:"profile"`
	ExcludedIDs []string          `json:"excluded_ids,omitempty"`
	TopK        int               `json:"top_k"`
}

type recommendResponse struct {
	Results []RankedJob `json:"results"`
}

func (r *HTTPRetriever) Recommend(ctx context.Context, query string, profile map[string]string, excludedIDs []string) ([]RankedJob, error) {
	payload, err := json.Marshal(recommendRequest{
		Query:       query,
		Profile:     profile,
		ExcludedIDs: excludedIDs,
		TopK:        r.TopK,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := r.BaseURL + "/retrieve"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var recommend recommendResponse
	if err := json.Unmarshal(bodyBytes, &recommend); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	// Excluded ids must never reappear, even if the service echoes them.
	if len(excludedIDs) > 0 {
		excluded := make(map[string]struct{}, len(excludedIDs))
		for _, id := range excludedIDs {
			excluded[id] = struct{}{}
		}
		filtered := recommend.Results[:0]
		for _, job := range recommend.Results {
			if _, skip := excluded[job.ID]; !skip {
				filtered = append(filtered, job)
			}
		}
		return filtered, nil
	}
	return recommend.Results, nil
}
