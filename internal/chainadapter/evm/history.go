package evm

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/internal/ratelimit"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

const (
	// etherscanV2BaseURL is the Etherscan API v2 base URL, which serves
	// every EVM chain Etherscan indexes through one endpoint keyed by
	// chainid, rather than the old per-chain subdomains.
	etherscanV2BaseURL = "https://api.etherscan.io/v2"
	historyHTTPTimeout = 30 * time.Second
	maxHistoryBody      = 1 << 20
)

// HistoryClient fetches transaction history from an Etherscan v2
// compatible explorer API. It is independent of the JSON-RPC connection
// the rest of Client uses, since most nodes don't expose an
// address-indexed transaction log over RPC.
type HistoryClient struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimit.Limiter
}

// NewHistoryClient constructs a HistoryClient for the given Etherscan API
// key. baseURL overrides the default, for testing or for an
// Etherscan-compatible explorer on another chain.
func NewHistoryClient(apiKey, baseURL string) *HistoryClient {
	if baseURL == "" {
		baseURL = etherscanV2BaseURL
	}
	return &HistoryClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: historyHTTPTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		rateLimiter: ratelimit.New(5, 5),
	}
}

type txListEntry struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	IsError     string `json:"isError"`
}

type txListResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Result  []txListEntry `json:"result"`
}

// GetTransactions returns up to limit recent transactions (native
// transfers) for address on chainID, newest first.
func (h *HistoryClient) GetTransactions(ctx context.Context, chainID *big.Int, address string, limit int) ([]chainadapter.Transaction, error) {
	if err := h.rateLimiter.Wait(ctx, "etherscan"); err != nil {
		return nil, aerr.Wrap(aerr.ErrRateLimitExceededUpstream, "waiting for explorer rate limit: %v", err)
	}

	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("sort", "desc")
	params.Set("chainid", chainID.String())

	reqURL := fmt.Sprintf("%s/api?%s", h.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("evm: building history request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "fetching transaction history: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, aerr.ErrRateLimitExceededUpstream
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHistoryBody))
	if err != nil {
		return nil, fmt.Errorf("evm: reading history response: %w", err)
	}

	var parsed txListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("evm: parsing history response: %w", err)
	}

	if parsed.Status != "1" && len(parsed.Result) == 0 {
		// Explorer reports status "0" both for "no transactions found"
		// and for real errors; an empty result with that status means
		// the former, anything else is surfaced as an upstream failure.
		if parsed.Message != "" && parsed.Message != "No transactions found" {
			return nil, aerr.WithDetails(aerr.ErrRPCError, map[string]string{"message": parsed.Message})
		}
		return nil, nil
	}

	txs := make([]chainadapter.Transaction, 0, len(parsed.Result))
	for _, e := range parsed.Result {
		if limit > 0 && len(txs) >= limit {
			break
		}
		txs = append(txs, convertHistoryEntry(e, address))
	}
	return txs, nil
}

func convertHistoryEntry(e txListEntry, queried string) chainadapter.Transaction {
	value, _ := new(big.Int).SetString(e.Value, 10)
	if value == nil {
		value = big.NewInt(0)
	}

	blockNumber, _ := strconv.ParseUint(e.BlockNumber, 10, 64)
	timestamp, _ := strconv.ParseInt(e.TimeStamp, 10, 64)

	status := "success"
	if e.IsError == "1" {
		status = "failed"
	}

	direction := "out"
	if equalFoldAddress(e.To, queried) {
		direction = "in"
	}

	return chainadapter.Transaction{
		Hash:        e.Hash,
		From:        e.From,
		To:          e.To,
		Value:       value,
		BlockNumber: blockNumber,
		Timestamp:   timestamp,
		Status:      status,
		Direction:   direction,
	}
}

// GetTransactions implements chainadapter.Adapter by delegating to a
// HistoryClient constructed for this network. A nil HistoryClient (no
// explorer API key configured for this network) yields an empty history
// rather than an error, since history is supplementary and every other
// operation still works without it.
func (c *Client) GetTransactions(ctx context.Context, address string, limit int) ([]chainadapter.Transaction, error) {
	if err := c.ValidateAddress(address); err != nil {
		return nil, err
	}
	if c.history == nil {
		return nil, nil
	}
	return c.history.GetTransactions(ctx, c.info.ChainID, address, limit)
}
