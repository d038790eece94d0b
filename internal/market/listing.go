// Package market discovers inactive tokens: it pulls a bounded listing of
// recently created tokens and filters them by 24h trading volume.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ListedToken is one entry from the token listing source.
type ListedToken struct {
	Mint string `json:"mint"`
	Name string `json:"name"`
}

// ListingClient fetches recently created tokens from the listing source.
type ListingClient struct {
	url    string
	client *http.Client
}

// NewListingClient creates a listing client. The URL is expected to already
// carry any paging parameters; the source bounds the result size itself.
func NewListingClient(url string) *ListingClient {
	return &ListingClient{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient overrides the HTTP client, used by tests.
func (c *ListingClient) WithHTTPClient(client *http.Client) *ListingClient {
	c.client = client
	return c
}

// RecentTokens fetches the listing. A non-success status is an error; the
// caller decides whether that aborts or empties the scan.
func (c *ListingClient) RecentTokens(ctx context.Context) ([]ListedToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing source returned status %d", resp.StatusCode)
	}

	var tokens []ListedToken
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return tokens, nil
}
