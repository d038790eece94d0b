package market

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
)

// DefaultLookupDelay spaces per-mint market-data lookups to respect the
// source's rate limits. This delay is load-bearing backpressure, not polish.
const DefaultLookupDelay = 2 * time.Second

// ListingSource provides the bounded recent-token listing.
type ListingSource interface {
	RecentTokens(ctx context.Context) ([]ListedToken, error)
}

// MarketDataSource provides per-mint 24h volume.
type MarketDataSource interface {
	Volume24h(ctx context.Context, mint string) (float64, error)
}

// Filter classifies listed tokens as inactive by 24h volume.
type Filter struct {
	listing     ListingSource
	marketData  MarketDataSource
	lookupDelay time.Duration
	logger      *log.Logger
}

// FilterOptions configures a Filter.
type FilterOptions struct {
	Listing     ListingSource
	MarketData  MarketDataSource
	LookupDelay time.Duration // default DefaultLookupDelay
	Logger      *log.Logger
}

// NewFilter creates a market filter.
func NewFilter(opts FilterOptions) *Filter {
	delay := opts.LookupDelay
	if delay == 0 {
		delay = DefaultLookupDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Filter{
		listing:     opts.Listing,
		marketData:  opts.MarketData,
		lookupDelay: delay,
		logger:      logger,
	}
}

// DiscoverInactive returns listed tokens whose 24h volume is strictly below
// threshold. Tokens whose lookup fails or has no pairs are excluded, never
// included: one bad lookup must not abort the whole scan. An unreachable
// listing source yields an empty result.
func (f *Filter) DiscoverInactive(ctx context.Context, threshold float64) []domain.Candidate {
	tokens, err := f.listing.RecentTokens(ctx)
	if err != nil {
		f.logger.Printf("listing source unavailable: %v", err)
		return nil
	}

	var inactive []domain.Candidate
	for _, token := range tokens {
		if token.Mint == "" {
			continue
		}

		volume, err := f.marketData.Volume24h(ctx, token.Mint)
		if err != nil {
			f.logger.Printf("volume lookup failed for %s: %v", token.Mint, err)
		} else if volume < threshold {
			inactive = append(inactive, domain.Candidate{
				Symbol: shortSymbol(token.Name),
				Mint:   token.Mint,
			})
		}

		select {
		case <-ctx.Done():
			return inactive
		case <-time.After(f.lookupDelay):
		}
	}
	return inactive
}

// shortSymbol derives a display symbol from a token name.
func shortSymbol(name string) string {
	if name == "" {
		return "UNK"
	}
	if len(name) > 4 {
		name = name[:4]
	}
	return strings.ToUpper(name)
}
