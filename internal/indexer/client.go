// Package indexer provides a read-only client for an Algorand-style indexer API.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultQueriesPerSec  = 5
)

// ErrNoSuchApplication signals that the queried application id is unknown to
// the indexer, typically because the contract is not deployed yet.
var ErrNoSuchApplication = errors.New("no such application")

// Client queries the indexer REST API for application-call transactions.
type Client struct {
	baseURL string
	http    *http.Client
	rl      ratelimit.Limiter
	logger  *zap.Logger
}

// NewClient builds a Client for the given indexer base URL.
func NewClient(baseURL string, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("indexer base url is required")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
		rl:      ratelimit.New(defaultQueriesPerSec),
		logger:  logger,
	}, nil
}

// SearchAppTransactions returns application-call transactions for the given
// application confirmed at or after minRound. A minRound of zero queries from
// genesis.
func (c *Client) SearchAppTransactions(ctx context.Context, appID, minRound uint64) ([]Transaction, error) {
	c.rl.Take()

	query := url.Values{}
	query.Set("application-id", strconv.FormatUint(appID, 10))
	query.Set("tx-type", "appl")
	if minRound > 0 {
		query.Set("min-round", strconv.FormatUint(minRound, 10))
	}

	endpoint := fmt.Sprintf("%s/v2/transactions?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build indexer request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query indexer: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("close indexer response body", zap.Error(closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read indexer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if strings.Contains(string(body), "no application found") ||
			strings.Contains(string(body), "no such application") {
			return nil, ErrNoSuchApplication
		}
		return nil, fmt.Errorf("indexer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode indexer response: %w", err)
	}

	return decoded.Transactions, nil
}
