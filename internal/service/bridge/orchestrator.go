// Package bridge drives fiat payouts for on-chain bridge intents: price
// conversion, provider initiation, and settlement confirmation.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
	"github.com/trackbuddy/trackbuddy-backend/internal/repository/postgres"
	"go.uber.org/zap"
)

// PayoutResult reports the outcome of an initiation attempt to the caller.
type PayoutResult struct {
	Success      bool
	ReferenceID  string
	InrAmount    float64
	ExchangeRate float64
	Provider     string
	Error        string
}

// Orchestrator owns the PENDING to PAYOUT_INITIATED transition. The database
// row only advances after the provider accepts; a provider failure leaves the
// row untouched so the payout can be retried.
type Orchestrator struct {
	logger   *zap.Logger
	repo     Repository
	prices   PriceConverter
	provider PayoutProvider
	now      func() time.Time
}

// NewOrchestrator wires an Orchestrator. All dependencies are required.
func NewOrchestrator(repo Repository, prices PriceConverter, provider PayoutProvider, logger *zap.Logger) (*Orchestrator, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if prices == nil {
		return nil, errors.New("price converter is required")
	}
	if provider == nil {
		return nil, errors.New("payout provider is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &Orchestrator{
		logger:   logger,
		repo:     repo,
		prices:   prices,
		provider: provider,
		now:      time.Now,
	}, nil
}

// InitiatePayout converts the bridge's ALGO amount to rupees and hands it to
// the payout provider. Transactions that are missing or already past PENDING
// fail without touching the database.
func (o *Orchestrator) InitiatePayout(ctx context.Context, bridgeID uuid.UUID, upiID string) (PayoutResult, error) {
	tx, err := o.repo.BridgeTransactionByID(ctx, bridgeID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return PayoutResult{
				Provider: o.provider.Name(),
				Error:    "bridge transaction not found",
			}, nil
		}
		return PayoutResult{}, fmt.Errorf("load bridge transaction: %w", err)
	}

	if tx.Status != model.BridgePending {
		return PayoutResult{
			Provider: o.provider.Name(),
			Error:    fmt.Sprintf("bridge transaction is %s, expected %s", tx.Status, model.BridgePending),
		}, nil
	}

	conv := o.prices.Convert(ctx, tx.AlgoAmount)

	result := o.provider.Initiate(ctx, upiID, decimal.NewFromFloat(conv.InrAmount), bridgeID.String())
	if !result.Success {
		o.logger.Warn("payout provider rejected initiation",
			zap.String("bridgeId", bridgeID.String()),
			zap.String("provider", o.provider.Name()),
			zap.String("error", result.Error),
		)
		return PayoutResult{
			InrAmount:    conv.InrAmount,
			ExchangeRate: conv.ExchangeRate,
			Provider:     o.provider.Name(),
			Error:        result.Error,
		}, nil
	}

	if err := o.repo.MarkBridgePayoutInitiated(ctx, bridgeID,
		conv.ExchangeRate, conv.InrAmount, upiID, o.provider.Name(), result.ReferenceID,
	); err != nil {
		return PayoutResult{}, fmt.Errorf("mark payout initiated: %w", err)
	}

	o.logger.Info("payout initiated",
		zap.String("bridgeId", bridgeID.String()),
		zap.Float64("algoAmount", tx.AlgoAmount),
		zap.Float64("inrAmount", conv.InrAmount),
		zap.Float64("exchangeRate", conv.ExchangeRate),
		zap.String("provider", o.provider.Name()),
		zap.String("reference", result.ReferenceID),
	)

	return PayoutResult{
		Success:      true,
		ReferenceID:  result.ReferenceID,
		InrAmount:    conv.InrAmount,
		ExchangeRate: conv.ExchangeRate,
		Provider:     o.provider.Name(),
	}, nil
}

// ConfirmSettlement marks a bridge transaction SETTLED after the provider
// reports completion. Returns false without writing when the transaction does
// not exist or is already SETTLED, so replayed confirmations read as no-ops.
func (o *Orchestrator) ConfirmSettlement(ctx context.Context, bridgeID uuid.UUID, providerReference string) (bool, error) {
	tx, err := o.repo.BridgeTransactionByID(ctx, bridgeID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load bridge transaction: %w", err)
	}
	if tx.Status == model.BridgeSettled {
		return false, nil
	}

	if err := o.repo.SettleBridgePayout(ctx, bridgeID, providerReference, o.now().UTC()); err != nil {
		return false, fmt.Errorf("settle bridge payout: %w", err)
	}

	o.logger.Info("payout settled",
		zap.String("bridgeId", bridgeID.String()),
		zap.String("reference", providerReference),
	)
	return true, nil
}
