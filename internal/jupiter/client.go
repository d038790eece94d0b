// Package jupiter wraps the swap aggregator's quote and swap-build endpoints.
// The client is pure request/response and retains no state.
package jupiter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
)

// Default request parameters for dust-sized swaps.
const (
	DefaultSlippageBps = 1
	DefaultTimeout     = 30 * time.Second
)

// Client talks to the aggregator's v6 quote and swap APIs.
type Client struct {
	quoteURL    string
	swapURL     string
	client      *http.Client
	slippageBps int
	directOnly  bool
	logger      *log.Logger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithSlippageBps sets the slippage tolerance in basis points.
func WithSlippageBps(bps int) ClientOption {
	return func(c *Client) {
		c.slippageBps = bps
	}
}

// WithDirectRoutesOnly restricts quotes to single-hop routes.
func WithDirectRoutesOnly() ClientOption {
	return func(c *Client) {
		c.directOnly = true
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an aggregator client.
func NewClient(quoteURL, swapURL string, opts ...ClientOption) *Client {
	c := &Client{
		quoteURL:    quoteURL,
		swapURL:     swapURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		slippageBps: DefaultSlippageBps,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// quoteFields is the subset of the aggregator's quote response the pipeline
// inspects; the full body is retained verbatim as the route payload.
type quoteFields struct {
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
}

// GetQuote requests a priced route for swapping amount of inputMint into
// outputMint. Returns (nil, nil) when the aggregator rejects the pair,
// answers with a non-success status or would yield zero output; callers must
// treat nil as "skip, do not retry immediately". A transport-level failure is
// returned as an error but carries the same skip semantics for the sweep.
func (c *Client) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64) (*domain.Quote, error) {
	query := url.Values{}
	query.Set("inputMint", inputMint)
	query.Set("outputMint", outputMint)
	query.Set("amount", strconv.FormatUint(amount, 10))
	query.Set("slippageBps", strconv.Itoa(c.slippageBps))
	query.Set("onlyDirectRoutes", strconv.FormatBool(c.directOnly))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.quoteURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Pair rejected or unroutable: a miss, not an error
		c.logger.Printf("no route for %s -> %s: status %d", inputMint, outputMint, resp.StatusCode)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quote response: %w", err)
	}

	var fields quoteFields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}

	inAmount, _ := strconv.ParseUint(fields.InAmount, 10, 64)
	outAmount, err := strconv.ParseUint(fields.OutAmount, 10, 64)
	if err != nil || outAmount == 0 {
		// Zero-output quotes are not worth executing
		c.logger.Printf("discarding zero-output quote for %s -> %s", inputMint, outputMint)
		return nil, nil
	}

	return &domain.Quote{
		InputMint:  fields.InputMint,
		OutputMint: fields.OutputMint,
		InAmount:   inAmount,
		OutAmount:  outAmount,
		Raw:        json.RawMessage(body),
	}, nil
}

// swapRequest is the aggregator's swap-build request body.
type swapRequest struct {
	QuoteResponse                 json.RawMessage `json:"quoteResponse"`
	UserPublicKey                 string          `json:"userPublicKey"`
	WrapAndUnwrapSol              bool            `json:"wrapAndUnwrapSol"`
	ComputeUnitPriceMicroLamports uint64          `json:"computeUnitPriceMicroLamports"`
}

// swapResponse carries the unsigned transaction built by the aggregator.
type swapResponse struct {
	SwapTransaction string `json:"swapTransaction"`
}

// BuildSwap submits the quote's route payload back to the aggregator and
// returns the raw transaction bytes to sign and submit. Quotes are
// time-bounded; a stale quote surfaces here as a non-success status.
func (c *Client) BuildSwap(ctx context.Context, quote *domain.Quote, userPublicKey string) ([]byte, error) {
	reqBody, err := json.Marshal(swapRequest{
		QuoteResponse:    quote.Raw,
		UserPublicKey:    userPublicKey,
		WrapAndUnwrapSol: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.swapURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create swap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("build swap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Printf("swap build for %s failed: status %d", quote.OutputMint, resp.StatusCode)
		return nil, fmt.Errorf("swap build returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed swapResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode swap response: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(parsed.SwapTransaction)
	if err != nil {
		return nil, fmt.Errorf("decode swap transaction: %w", err)
	}
	return raw, nil
}
