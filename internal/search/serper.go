// Package search augments user questions with live web-search results. A
// missing provider, timeout, or empty result set is never an error: the
// caller falls back to the plain question.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	CacheTTL   time.Duration
	MaxResults int
}

// Client queries a Serper-compatible search API through a TTL'd result
// cache and formats the top hits into a text block for prompt injection.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *ResultCache
}

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://google.serper.dev"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 6 * time.Second
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      NewResultCache(cfg.CacheTTL),
	}
}

type organicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Date    string `json:"date"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

// Search returns a formatted result block for the query, or ok=false when
// no usable results are available.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (string, bool) {
	cleaned := strings.TrimSpace(query)
	if cleaned == "" {
		return "", false
	}
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}

	if payload, ok := c.cache.Get(cleaned, maxResults); ok {
		return payload, true
	}

	payload, err := c.fetch(ctx, cleaned, maxResults)
	if err != nil {
		log.Printf("search unavailable: %v", err)
		return "", false
	}
	if payload == "" {
		return "", false
	}

	c.cache.Put(cleaned, maxResults, payload)
	return payload, true
}

func (c *Client) fetch(ctx context.Context, query string, maxResults int) (string, error) {
	body, err := json.Marshal(map[string]any{
		"q":   query,
		"num": maxResults,
	})
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/search", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search provider status %d", res.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Organic) == 0 {
		return "", nil
	}

	return formatResults(parsed.Organic), nil
}

func formatResults(results []organicResult) string {
	var b strings.Builder
	b.WriteString("WEB SEARCH RESULTS (Use these facts to answer):\n")
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = "No Title"
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = "No content."
		}
		link := r.Link
		if link == "" {
			link = "#"
		}
		fmt.Fprintf(&b, "- Title: %s\n  Date: %s\n  Snippet: %s\n  Link: %s\n\n",
			title, r.Date, snippet, link)
	}
	return b.String()
}
