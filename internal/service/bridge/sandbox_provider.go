package bridge

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/sandbox"
)

// SandboxProvider adapts the in-process payout simulator to the
// PayoutProvider interface.
type SandboxProvider struct {
	sandbox *sandbox.Provider
}

// NewSandboxProvider wraps a sandbox simulator as a payout rail.
func NewSandboxProvider(p *sandbox.Provider) *SandboxProvider {
	return &SandboxProvider{sandbox: p}
}

func (p *SandboxProvider) Name() string { return "sandbox" }

// Initiate hands the payout to the simulator. The context is unused; the
// simulator answers synchronously and settles in the background.
func (p *SandboxProvider) Initiate(_ context.Context, upiID string, amount decimal.Decimal, referenceID string) ProviderResult {
	resp := p.sandbox.Initiate(sandbox.PayoutRequest{
		UpiID:       upiID,
		Amount:      amount,
		ReferenceID: referenceID,
	})
	if !resp.Success {
		return ProviderResult{Error: resp.Error}
	}
	return ProviderResult{Success: true, ReferenceID: resp.TransactionID}
}
