// Package sanity is a thin HTTP client for the Sanity content lake: GROQ
// queries against the query API and single-document creates against the
// mutate API. The storefront is read-only except for order creation.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Config struct {
	ProjectID  string
	Dataset    string
	Token      string // required for mutations only
	APIVersion string // e.g. "2024-01-01"
	UseCDN     bool   // route queries through the apicdn host
	BaseURL    string // overrides the derived hosts; used by tests and proxies
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Dataset == "" {
		return nil, fmt.Errorf("sanity project id and dataset are required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *Client) queryHost() string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL
	}
	if c.cfg.UseCDN {
		return fmt.Sprintf("https://%s.apicdn.sanity.io", c.cfg.ProjectID)
	}
	return fmt.Sprintf("https://%s.api.sanity.io", c.cfg.ProjectID)
}

func (c *Client) mutateHost() string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL
	}
	// Mutations never go through the CDN host.
	return fmt.Sprintf("https://%s.api.sanity.io", c.cfg.ProjectID)
}

// Query runs a GROQ query with the given parameters and decodes the result
// into result. Parameter values are JSON-encoded and sent as $name query
// values, so callers never interpolate user input into the query string.
func (c *Client) Query(ctx context.Context, query string, params map[string]any, result any) error {
	values := url.Values{}
	values.Set("query", query)
	for name, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode query param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s",
		c.queryHost(), c.cfg.APIVersion, c.cfg.Dataset, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build query request: %w", err)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("query returned %s: %s", resp.Status, body)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode query response: %w", err)
	}
	if result == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("failed to decode query result: %w", err)
	}
	return nil
}

// Create submits a single create mutation and returns the id of the new
// document.
func (c *Client) Create(ctx context.Context, doc any) (string, error) {
	if c.cfg.Token == "" {
		return "", fmt.Errorf("sanity token is required for mutations")
	}

	payload, err := json.Marshal(map[string]any{
		"mutations": []map[string]any{{"create": doc}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v%s/data/mutate/%s?returnIds=true",
		c.mutateHost(), c.cfg.APIVersion, c.cfg.Dataset)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build mutate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mutate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("mutate returned %s: %s", resp.Status, body)
	}

	var envelope struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to decode mutate response: %w", err)
	}
	if len(envelope.Results) == 0 {
		return "", fmt.Errorf("mutate response contained no results")
	}
	return envelope.Results[0].ID, nil
}
