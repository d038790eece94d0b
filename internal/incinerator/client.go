// Package incinerator talks to the external burn service that reclaims rent
// for a full set of token accounts in one call. This path is preferred over
// manual burn batches when configured, because the service amortizes fees
// across accounts on its side.
package incinerator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the burn-service API.
type Client struct {
	baseURL string
	apiKey  string
	wallet  string
	client  *http.Client
}

// NewClient creates a burn-service client. apiKey may be empty; the header is
// only attached when set.
func NewClient(baseURL, apiKey, wallet string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		wallet:  wallet,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHTTPClient overrides the HTTP client, used by tests.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.client = client
	return c
}

type burnRequest struct {
	Wallet   string   `json:"wallet"`
	Accounts []string `json:"accounts"`
}

type burnResponse struct {
	ReclaimedLamports uint64 `json:"reclaimedLamports"`
}

// Burn submits the account set for delegated reclamation and returns the
// reclaimed lamports reported by the service.
func (c *Client) Burn(ctx context.Context, accounts []string) (uint64, error) {
	if len(accounts) == 0 {
		return 0, nil
	}

	body, err := json.Marshal(burnRequest{Wallet: c.wallet, Accounts: accounts})
	if err != nil {
		return 0, fmt.Errorf("marshal burn request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/burn", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create burn request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("submit burn: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("burn service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed burnResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode burn response: %w", err)
	}
	return parsed.ReclaimedLamports, nil
}
