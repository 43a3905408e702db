// Package sandbox simulates a UPI payout rail for development and resilience
// testing: realistic delays, phased statuses, webhooks, occasional failures.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trackbuddy/trackbuddy-backend/internal/clock"
	"go.uber.org/zap"
)

// Status describes a simulated payout's lifecycle state.
type Status string

const (
	StatusInitiated  Status = "INITIATED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

const (
	// EventCompleted is the webhook event for a settled payout.
	EventCompleted = "payout.completed"
	// EventFailed is the webhook event for a failed payout.
	EventFailed = "payout.failed"

	defaultProcessingDelay = time.Second
	defaultSettleDelayMin  = 3 * time.Second
	defaultSettleDelayMax  = 7 * time.Second
	defaultSuccessRate     = 0.9
	estimatedCompletion    = 5 * time.Second
	webhookTimeout         = 10 * time.Second
)

// maxAmount is the per-transaction ceiling in INR.
var maxAmount = decimal.NewFromInt(100_000)

var upiIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9]+$`)

// PayoutRequest is a simulated payout instruction.
type PayoutRequest struct {
	UpiID       string
	Amount      decimal.Decimal
	ReferenceID string
	Narration   string
}

// PayoutResponse reports a payout's current state.
type PayoutResponse struct {
	Success             bool            `json:"success"`
	TransactionID       string          `json:"transactionId"`
	Status              Status          `json:"status"`
	UpiID               string          `json:"upiId"`
	Amount              decimal.Decimal `json:"amount"`
	ReferenceID         string          `json:"referenceId"`
	EstimatedCompletion time.Time       `json:"estimatedCompletion"`
	Error               string          `json:"error,omitempty"`
}

// WebhookPayload is what the provider POSTs to the configured webhook URL on
// terminal transitions.
type WebhookPayload struct {
	BridgeID          string          `json:"bridgeId"`
	ProviderReference string          `json:"providerReference"`
	Event             string          `json:"event"`
	Status            string          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	UpiID             string          `json:"upiId"`
	CompletedAt       string          `json:"completedAt"`
	UtrNumber         string          `json:"utrNumber"`
}

type record struct {
	request       PayoutRequest
	transactionID string
	status        Status
	createdAt     time.Time
}

// Provider holds simulation state in memory only; losing it on restart is
// fine, it is never a source of truth.
type Provider struct {
	logger     *zap.Logger
	webhookURL string
	http       *http.Client

	processingDelay time.Duration
	settleDelayMin  time.Duration
	settleDelayMax  time.Duration
	successRate     float64
	random          func() float64
	sleep           func(context.Context, time.Duration) error

	mu      sync.Mutex
	payouts map[string]*record
}

// NewProvider builds a sandbox Provider firing webhooks at webhookURL.
func NewProvider(webhookURL string, logger *zap.Logger) *Provider {
	return &Provider{
		logger:          logger,
		webhookURL:      webhookURL,
		http:            &http.Client{Timeout: webhookTimeout},
		processingDelay: defaultProcessingDelay,
		settleDelayMin:  defaultSettleDelayMin,
		settleDelayMax:  defaultSettleDelayMax,
		successRate:     defaultSuccessRate,
		random:          rand.Float64,
		sleep:           clock.SleepWithContext,
		payouts:         map[string]*record{},
	}
}

// Initiate validates and registers a payout, then settles it asynchronously.
// Validation failures return FAILED immediately and store nothing. The caller
// never blocks on settlement.
func (p *Provider) Initiate(req PayoutRequest) PayoutResponse {
	if !upiIDPattern.MatchString(req.UpiID) {
		return PayoutResponse{
			Status:      StatusFailed,
			UpiID:       req.UpiID,
			Amount:      req.Amount,
			ReferenceID: req.ReferenceID,
			Error:       "invalid UPI ID format",
		}
	}

	if !req.Amount.IsPositive() || req.Amount.GreaterThan(maxAmount) {
		reason := "amount must be positive"
		if req.Amount.IsPositive() {
			reason = "amount exceeds per-transaction limit (INR 1,00,000)"
		}
		return PayoutResponse{
			Status:      StatusFailed,
			UpiID:       req.UpiID,
			Amount:      req.Amount,
			ReferenceID: req.ReferenceID,
			Error:       reason,
		}
	}

	txnID := generateTransactionID()
	now := time.Now()

	p.mu.Lock()
	p.payouts[txnID] = &record{
		request:       req,
		transactionID: txnID,
		status:        StatusInitiated,
		createdAt:     now,
	}
	p.mu.Unlock()

	go p.settle(txnID, req)

	p.logger.Info("sandbox payout initiated",
		zap.String("transactionId", txnID),
		zap.String("upiId", req.UpiID),
		zap.String("amount", req.Amount.String()),
	)

	return PayoutResponse{
		Success:             true,
		TransactionID:       txnID,
		Status:              StatusInitiated,
		UpiID:               req.UpiID,
		Amount:              req.Amount,
		ReferenceID:         req.ReferenceID,
		EstimatedCompletion: now.Add(estimatedCompletion),
	}
}

// GetStatus reads a payout's current simulated state.
func (p *Provider) GetStatus(transactionID string) (PayoutResponse, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.payouts[transactionID]
	if !ok {
		return PayoutResponse{}, false
	}
	return rec.response(), true
}

// List returns all payouts held in memory, for debugging.
func (p *Provider) List() []PayoutResponse {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]PayoutResponse, 0, len(p.payouts))
	for _, rec := range p.payouts {
		out = append(out, rec.response())
	}
	return out
}

// Reset clears all simulation state, for tests.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payouts = map[string]*record{}
}

func (rec *record) response() PayoutResponse {
	return PayoutResponse{
		Success:             true,
		TransactionID:       rec.transactionID,
		Status:              rec.status,
		UpiID:               rec.request.UpiID,
		Amount:              rec.request.Amount,
		ReferenceID:         rec.request.ReferenceID,
		EstimatedCompletion: rec.createdAt.Add(estimatedCompletion),
	}
}

// settle walks one payout through PROCESSING and then a terminal state.
// Each payout settles independently; only its own phases are ordered.
func (p *Provider) settle(transactionID string, req PayoutRequest) {
	ctx := context.Background()

	if err := p.sleep(ctx, p.processingDelay); err != nil {
		return
	}
	p.transition(transactionID, StatusProcessing)

	settleDelay := p.settleDelayMin +
		time.Duration(p.random()*float64(p.settleDelayMax-p.settleDelayMin))
	if err := p.sleep(ctx, settleDelay); err != nil {
		return
	}

	completedAt := time.Now().UTC().Format(time.RFC3339)
	if p.random() < p.successRate {
		p.transition(transactionID, StatusCompleted)
		utr := generateUtrNumber()
		p.logger.Info("sandbox payout completed",
			zap.String("transactionId", transactionID),
			zap.String("utr", utr),
		)
		p.fireWebhook(ctx, WebhookPayload{
			BridgeID:          req.ReferenceID,
			ProviderReference: utr,
			Event:             EventCompleted,
			Status:            "completed",
			Amount:            req.Amount,
			UpiID:             req.UpiID,
			CompletedAt:       completedAt,
			UtrNumber:         utr,
		})
		return
	}

	p.transition(transactionID, StatusFailed)
	p.logger.Info("sandbox payout failed (simulated)",
		zap.String("transactionId", transactionID))
	p.fireWebhook(ctx, WebhookPayload{
		BridgeID:          req.ReferenceID,
		ProviderReference: transactionID,
		Event:             EventFailed,
		Status:            "failed",
		Amount:            req.Amount,
		UpiID:             req.UpiID,
		CompletedAt:       completedAt,
	})
}

func (p *Provider) transition(transactionID string, status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if rec, ok := p.payouts[transactionID]; ok {
		rec.status = status
	}
}

// fireWebhook delivers a terminal payload. Failures are logged only: the
// provider does not retry or roll back its own status.
func (p *Provider) fireWebhook(ctx context.Context, payload WebhookPayload) {
	if p.webhookURL == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("marshal webhook payload", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.webhookURL, bytes.NewReader(body))
	if err != nil {
		p.logger.Error("build webhook request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		p.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		p.logger.Warn("webhook rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("event", payload.Event),
		)
		return
	}

	p.logger.Info("webhook fired",
		zap.String("event", payload.Event),
		zap.String("bridgeId", payload.BridgeID),
	)
}

func generateTransactionID() string {
	compact := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SBX_" + strings.ToUpper(compact[:16])
}

func generateUtrNumber() string {
	return fmt.Sprintf("UTR%d%04d", time.Now().UnixMilli(), rand.Intn(10_000))
}
