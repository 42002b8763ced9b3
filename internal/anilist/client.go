// Package anilist is a minimal AniList GraphQL client covering what the
// importer needs: user lookup, manga list retrieval, and the OAuth pin flow
// for private lists.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	apiURL    = "https://graphql.anilist.co"
	userAgent = "tachibk/0.1 (https://github.com/Another0Noob/tachibk)"
)
const (
	rateLimitRequests = 90
	rateLimitDuration = time.Minute
)

// NewClient creates a new AniList API client.
func NewClient() *Client {
	return &Client{
		httpClient:  &http.Client{},
		apiURL:      apiURL,
		tokenURL:    tokenURL,
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDuration/time.Duration(rateLimitRequests)), rateLimitRequests),
	}
}

type Client struct {
	httpClient  *http.Client
	apiURL      string
	tokenURL    string
	userAgent   string
	rateLimiter *rate.Limiter
	token       string
}

// SetToken sets the OAuth access token for the client. Unauthenticated
// clients still see public lists.
func (c *Client) SetToken(token string) {
	c.token = token
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []APIError      `json:"errors,omitempty"`
}

// do posts one GraphQL document and decodes the data object into out.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	// Rate limiting
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	bodyBytes, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var env gqlEnvelope
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if json.Unmarshal(b, &env) == nil && len(env.Errors) > 0 {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, env.Errors[0].Message)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(b))
	}

	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("decode envelope: %w (body: %s)", err, string(b))
	}
	// GraphQL reports errors in-band even on 200.
	if len(env.Errors) > 0 {
		first := env.Errors[0]
		return fmt.Errorf("api error: %s (%d)", first.Message, first.Status)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
