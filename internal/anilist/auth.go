package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	authorizeURL = "https://anilist.co/api/v2/oauth/authorize"
	tokenURL     = "https://anilist.co/api/v2/oauth/token"

	// DefaultRedirectURL is AniList's pin page: the browser shows the
	// authorization code instead of redirecting anywhere.
	DefaultRedirectURL = "https://anilist.co/api/v2/oauth/pin"
)

// AuthCodeURL returns the browser URL where the user authorizes the client
// and receives the code to paste back.
func AuthCodeURL(clientID, redirectURL string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURL)
	q.Set("response_type", "code")
	return authorizeURL + "?" + q.Encode()
}

// ExchangeCode trades an authorization code for an access token and installs
// it on the client.
func (c *Client) ExchangeCode(ctx context.Context, auth AuthForm, code string) error {
	body, err := json.Marshal(map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     auth.ClientID,
		"client_secret": auth.ClientSecret,
		"redirect_uri":  auth.RedirectURL,
		"code":          code,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("token exchange failed: %s: %s", resp.Status, string(b))
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return err
	}
	if token.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}
	c.token = token.AccessToken
	return nil
}
