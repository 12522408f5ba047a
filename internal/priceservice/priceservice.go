// Package priceservice fetches USD spot prices for a network's native
// token. It is stateless and holds no cache: every call is a live HTTP
// request, matching the teacher's plain net/http client style (there is
// no ecosystem price-feed client in the reference pack, so this is one
// of the few deliberately stdlib-only components; see DESIGN.md).
package priceservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3/simple/price"
	httpTimeout    = 10 * time.Second
	maxBody        = 1 << 16
)

// coingeckoIDs maps a network id to the price feed's asset identifier.
// A network with no entry has no price feed support and ErrUnsupportedChain
// is returned rather than substituting a fallback price.
var coingeckoIDs = map[string]string{
	"ethereum":  "ethereum",
	"polygon":   "matic-network",
	"bsc":       "binancecoin",
	"arbitrum":  "ethereum",
	"optimism":  "ethereum",
	"avalanche": "avalanche-2",
	"base":      "ethereum",
}

// ErrUnsupportedChain indicates the network has no known price feed
// identifier; no fallback price is ever substituted.
var ErrUnsupportedChain = aerr.New("PRICE_UNSUPPORTED_CHAIN", "no price feed for this network")

// Service fetches spot prices over HTTP.
type Service struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Service using the default CoinGecko-compatible endpoint.
func New() *Service {
	return &Service{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// NewWithBaseURL overrides the price feed endpoint, for testing.
func NewWithBaseURL(baseURL string) *Service {
	s := New()
	s.baseURL = baseURL
	return s
}

// USDPrice returns the current USD price of networkID's native token.
func (s *Service) USDPrice(ctx context.Context, networkID string) (float64, error) {
	assetID, ok := coingeckoIDs[networkID]
	if !ok {
		return 0, aerr.WithDetails(ErrUnsupportedChain, map[string]string{"network_id": networkID})
	}

	url := fmt.Sprintf("%s?ids=%s&vs_currencies=usd", s.baseURL, assetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("priceservice: building request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, aerr.Wrap(aerr.ErrRPCError, "fetching price: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, aerr.WithDetails(aerr.ErrRPCError, map[string]string{"status": fmt.Sprintf("%d", resp.StatusCode)})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, fmt.Errorf("priceservice: reading response: %w", err)
	}

	var parsed map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("priceservice: parsing response: %w", err)
	}

	entry, ok := parsed[assetID]
	if !ok {
		return 0, aerr.WithDetails(aerr.ErrRPCError, map[string]string{"reason": "price feed omitted requested asset"})
	}

	return entry.USD, nil
}
