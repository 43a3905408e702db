// Package pricing provides a cached ALGO exchange rate with graceful degradation.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// SourceExternal marks a quote fetched from the live price API.
	SourceExternal = "external"
	// SourceFallback marks the hardcoded quote used when no data is available.
	SourceFallback = "fallback"

	cacheTTL       = time.Minute
	requestTimeout = 10 * time.Second
	assetID        = "algorand"

	fallbackAlgoInr = 15.0
	fallbackAlgoUsd = 0.18
)

// Quote is a point-in-time exchange rate. Not persisted.
type Quote struct {
	AlgoInr   float64
	AlgoUsd   float64
	Timestamp time.Time
	Source    string
}

// Conversion is the result of converting an ALGO amount to INR, carrying the
// rate and its source for auditability.
type Conversion struct {
	InrAmount    float64
	ExchangeRate float64
	Source       string
}

// Oracle caches quotes from an external price API. GetPrice never fails: a
// stale cache is served over an error, and a hardcoded fallback over nothing.
type Oracle struct {
	logger *zap.Logger
	fetch  func(ctx context.Context) (Quote, error)
	now    func() time.Time

	mu     sync.Mutex
	cached *Quote
}

// NewOracle builds an Oracle against the given price API base URL.
func NewOracle(baseURL string, logger *zap.Logger) *Oracle {
	client := &http.Client{Timeout: requestTimeout}
	base := strings.TrimRight(baseURL, "/")

	o := &Oracle{
		logger: logger,
		now:    time.Now,
	}
	o.fetch = func(ctx context.Context) (Quote, error) {
		return fetchQuote(ctx, client, base, o.now)
	}
	return o
}

// GetPrice returns the current quote. A cached quote younger than the TTL is
// returned without a network call.
func (o *Oracle) GetPrice(ctx context.Context) Quote {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cached != nil && o.now().Sub(o.cached.Timestamp) < cacheTTL {
		return *o.cached
	}

	quote, err := o.fetch(ctx)
	if err == nil {
		o.cached = &quote
		return quote
	}

	o.logger.Warn("price fetch failed", zap.Error(err))
	if o.cached != nil {
		o.logger.Info("serving stale cached price",
			zap.Time("fetchedAt", o.cached.Timestamp))
		return *o.cached
	}

	// Approximate constant; better than blocking the settlement flow.
	return Quote{
		AlgoInr:   fallbackAlgoInr,
		AlgoUsd:   fallbackAlgoUsd,
		Timestamp: o.now(),
		Source:    SourceFallback,
	}
}

// Convert turns an ALGO amount into INR at the current rate, rounded to two
// decimal places.
func (o *Oracle) Convert(ctx context.Context, algoAmount float64) Conversion {
	quote := o.GetPrice(ctx)

	inr := decimal.NewFromFloat(algoAmount).
		Mul(decimal.NewFromFloat(quote.AlgoInr)).
		Round(2)

	return Conversion{
		InrAmount:    inr.InexactFloat64(),
		ExchangeRate: quote.AlgoInr,
		Source:       quote.Source,
	}
}

func fetchQuote(ctx context.Context, client *http.Client, baseURL string, now func() time.Time) (Quote, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=inr,usd", baseURL, assetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build price request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("query price api: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("price api returned status %d", resp.StatusCode)
	}

	var decoded map[string]struct {
		Inr float64 `json:"inr"`
		Usd float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Quote{}, fmt.Errorf("decode price response: %w", err)
	}

	asset, ok := decoded[assetID]
	if !ok {
		return Quote{}, fmt.Errorf("price response missing asset %s", assetID)
	}

	return Quote{
		AlgoInr:   asset.Inr,
		AlgoUsd:   asset.Usd,
		Timestamp: now(),
		Source:    SourceExternal,
	}, nil
}
