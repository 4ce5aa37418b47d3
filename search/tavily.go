package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finlens/insight-go/logger"
)

const (
	defaultTavilyURL  = "https://api.tavily.com"
	defaultMaxQueries = 4
	defaultMaxResults = 3
	snippetMaxLen     = 300
)

// TavilyConfig configures the Tavily search client.
type TavilyConfig struct {
	// APIKey is the Tavily API key.
	APIKey string

	// BaseURL is the API endpoint. Defaults to the public API.
	BaseURL string

	// MaxQueries caps how many holdings are searched per lookup.
	MaxQueries int

	// MaxResults is the snippet count requested per query.
	MaxResults int

	// Timeout is the HTTP request timeout.
	Timeout time.Duration
}

// Tavily implements Searcher against the Tavily search API.
type Tavily struct {
	apiKey     string
	baseURL    string
	maxQueries int
	maxResults int
	httpClient *http.Client
}

// NewTavily creates a Tavily search client.
func NewTavily(cfg TavilyConfig) *Tavily {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTavilyURL
	}
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = defaultMaxQueries
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Tavily{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		maxQueries: cfg.MaxQueries,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// MarketContext issues one query per holding, capped at MaxQueries, and
// concatenates the snippets. Failed queries are skipped with a warning;
// the lookup as a whole fails only when every query failed.
func (t *Tavily) MarketContext(ctx context.Context, symbols, funds []string) (*Result, error) {
	queries := buildQueries(symbols, funds, t.maxQueries)
	if len(queries) == 0 {
		return &Result{}, nil
	}

	var b strings.Builder
	var lastErr error
	snippets := 0

	for _, q := range queries {
		results, err := t.search(ctx, q)
		if err != nil {
			logger.L().WithField("query", q).Warnf("market search failed: %v", err)
			lastErr = err
			continue
		}
		if len(results) == 0 {
			continue
		}

		fmt.Fprintf(&b, "[%s]\n", q)
		for _, r := range results {
			b.WriteString("- " + r.Title + ": " + truncate(r.Content, snippetMaxLen) + "\n")
			snippets++
		}
	}

	if snippets == 0 && lastErr != nil {
		return nil, fmt.Errorf("market search failed: %w", lastErr)
	}

	return &Result{
		Context:      strings.TrimRight(b.String(), "\n"),
		Queries:      queries,
		SnippetCount: snippets,
	}, nil
}

// buildQueries derives search queries from the holdings, symbols first.
func buildQueries(symbols, funds []string, max int) []string {
	queries := make([]string, 0, max)
	for _, s := range symbols {
		if len(queries) >= max {
			return queries
		}
		queries = append(queries, s+" stock recent news analysis")
	}
	for _, f := range funds {
		if len(queries) >= max {
			return queries
		}
		queries = append(queries, f+" mutual fund performance outlook")
	}
	return queries
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// search performs one POST /search call.
func (t *Tavily) search(ctx context.Context, query string) ([]tavilyResult, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:      t.apiKey,
		Query:       query,
		MaxResults:  t.maxResults,
		SearchDepth: "basic",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return parsed.Results, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
