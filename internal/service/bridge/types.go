package bridge

//go:generate mockgen -source=types.go -destination=mocks_test.go -package=bridge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/pricing"
)

// Repository is the slice of storage the orchestrator needs.
type Repository interface {
	BridgeTransactionByID(ctx context.Context, id uuid.UUID) (*model.BridgeTransaction, error)
	MarkBridgePayoutInitiated(ctx context.Context, id uuid.UUID, exchangeRate, inrAmount float64, upiID, provider, reference string) error
	SettleBridgePayout(ctx context.Context, id uuid.UUID, providerReference string, settledAt time.Time) error
}

// PriceConverter turns an ALGO amount into rupees at the current rate.
type PriceConverter interface {
	Convert(ctx context.Context, algoAmount float64) pricing.Conversion
}

// ProviderResult is a payout rail's synchronous answer to an initiation.
type ProviderResult struct {
	Success     bool
	ReferenceID string
	Error       string
}

// PayoutProvider is a UPI payout rail. Initiate is synchronous acceptance
// only; settlement is reported later through the webhook path.
type PayoutProvider interface {
	Initiate(ctx context.Context, upiID string, amount decimal.Decimal, referenceID string) ProviderResult
	Name() string
}
