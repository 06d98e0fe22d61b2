package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client is the HTTP wrapper for the Supabase PostgREST API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient creates a new Supabase client. baseURL is the project URL
// (e.g. https://xyz.supabase.co); the /rest/v1 prefix is added per request.
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{},
	}
}

// Insert inserts one record or a batch via POST /rest/v1/{table}.
func (c *Client) Insert(ctx context.Context, table string, payload any) error {
	return c.post(ctx, table, "", "return=minimal", payload)
}

// Upsert inserts with conflict resolution on the given comma-separated
// columns, making repeated deliveries of the same record idempotent.
func (c *Client) Upsert(ctx context.Context, table, onConflict string, payload any) error {
	return c.post(ctx, table, onConflict, "resolution=merge-duplicates,return=minimal", payload)
}

func (c *Client) post(ctx context.Context, table, onConflict, prefer string, payload any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if onConflict != "" {
		endpoint += "?on_conflict=" + url.QueryEscape(onConflict)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("supabase: failed to marshal %s payload: %w", table, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("supabase: failed to build %s request: %w", table, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", c.serviceKey)
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceKey))
	httpReq.Header.Set("Prefer", prefer)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("supabase: failed to call %s API: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("supabase: %s write error %d: %s", table, resp.StatusCode, string(raw))
	}

	return nil
}
