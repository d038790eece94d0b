package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoPairs is returned when the market-data source knows no trading pair
// for a mint.
var ErrNoPairs = errors.New("no trading pairs for mint")

// MarketDataClient fetches per-mint trading-pair summaries.
type MarketDataClient struct {
	baseURL string
	client  *http.Client
}

// NewMarketDataClient creates a market-data client. baseURL is suffixed with
// the mint address per lookup.
func NewMarketDataClient(baseURL string) *MarketDataClient {
	return &MarketDataClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient overrides the HTTP client, used by tests.
func (c *MarketDataClient) WithHTTPClient(client *http.Client) *MarketDataClient {
	c.client = client
	return c
}

// pairsResponse is the market-data source's per-mint payload.
type pairsResponse struct {
	Pairs []struct {
		Volume struct {
			H24 float64 `json:"h24"`
		} `json:"volume"`
	} `json:"pairs"`
}

// Volume24h returns the 24-hour volume of the mint's primary trading pair.
// Returns ErrNoPairs when the source has no pair for the mint.
func (c *MarketDataClient) Volume24h(ctx context.Context, mint string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mint, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch pair data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("market-data source returned status %d", resp.StatusCode)
	}

	var parsed pairsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode pair data: %w", err)
	}
	if len(parsed.Pairs) == 0 {
		return 0, ErrNoPairs
	}
	return parsed.Pairs[0].Volume.H24, nil
}
