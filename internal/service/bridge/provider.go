package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const httpProviderTimeout = 15 * time.Second

// HTTPProvider fronts a real payout rail over its REST API.
type HTTPProvider struct {
	logger  *zap.Logger
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPProvider builds a production payout provider client.
func NewHTTPProvider(baseURL, apiKey string, logger *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		logger:  logger,
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: httpProviderTimeout},
	}
}

func (p *HTTPProvider) Name() string { return "production" }

type initiateRequest struct {
	UpiID       string          `json:"upiId"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID string          `json:"referenceId"`
}

type initiateResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	Error         string `json:"error"`
}

// Initiate submits the payout instruction. Any transport or API failure is
// surfaced as a failed ProviderResult rather than an error so the caller's
// handling is uniform across providers.
func (p *HTTPProvider) Initiate(ctx context.Context, upiID string, amount decimal.Decimal, referenceID string) ProviderResult {
	body, err := json.Marshal(initiateRequest{
		UpiID:       upiID,
		Amount:      amount,
		ReferenceID: referenceID,
	})
	if err != nil {
		return ProviderResult{Error: fmt.Sprintf("marshal initiation: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/initiate", bytes.NewReader(body))
	if err != nil {
		return ProviderResult{Error: fmt.Sprintf("build initiation request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		p.logger.Warn("payout rail unreachable", zap.Error(err))
		return ProviderResult{Error: fmt.Sprintf("payout rail unreachable: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	var out initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ProviderResult{Error: fmt.Sprintf("decode initiation response: %v", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest || !out.Success {
		reason := out.Error
		if reason == "" {
			reason = fmt.Sprintf("payout rail returned status %d", resp.StatusCode)
		}
		return ProviderResult{Error: reason}
	}

	return ProviderResult{Success: true, ReferenceID: out.TransactionID}
}
