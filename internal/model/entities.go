// Package model defines domain models for ledger reconciliation and bridge settlement.
package model

import (
	"time"

	"github.com/google/uuid"
)

// CommitmentStatus describes the lifecycle state of a commitment.
type CommitmentStatus string

const (
	// CommitmentActive marks a commitment a user is still working on.
	CommitmentActive CommitmentStatus = "ACTIVE"
	// CommitmentCompleted marks a commitment verified as fulfilled.
	CommitmentCompleted CommitmentStatus = "COMPLETED"
	// CommitmentFailed marks a commitment verified as broken.
	CommitmentFailed CommitmentStatus = "FAILED"
)

// BridgeStatus describes the settlement state of a bridge transaction.
// Transitions are one-directional: PENDING -> PAYOUT_INITIATED -> SETTLED.
type BridgeStatus string

const (
	BridgePending         BridgeStatus = "PENDING"
	BridgePayoutInitiated BridgeStatus = "PAYOUT_INITIATED"
	BridgeSettled         BridgeStatus = "SETTLED"
)

// User owns commitments and bridge transactions, identified on-chain by wallet address.
type User struct {
	ID            uuid.UUID
	WalletAddress string
	Name          string
	PhoneNumber   string
	CreatedAt     time.Time
}

// Commitment is a user's staked pledge, tracked both off-chain and on-chain.
type Commitment struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Category     string
	DurationDays int
	StakeAmount  float64
	Status       CommitmentStatus
	OnChainTxID  *string
	StartTime    time.Time
	EndTime      *time.Time
	CreatedAt    time.Time
}

// Violation records a failure event against a commitment. Immutable once created.
type Violation struct {
	ID            uuid.UUID
	CommitmentID  uuid.UUID
	UserID        uuid.UUID
	Type          string
	PenaltyAmount float64
	OnChainTxID   string
	OccurredAt    time.Time
}

// DisciplineScore holds one row per (user, day). The on-chain value is
// authoritative when present.
type DisciplineScore struct {
	UserID           uuid.UUID
	Date             time.Time
	OverallScore     int
	FocusScore       int
	ConsistencyScore int
	CurrentStreak    int
	LongestStreak    int
	OnChainTxID      *string
}

// BridgeTransaction records conversion of on-chain value to an off-chain
// currency payout.
type BridgeTransaction struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	AlgoAmount        float64
	AlgoTxID          string
	ExchangeRate      float64
	InrAmount         float64
	Status            BridgeStatus
	UpiID             *string
	UpiReference      *string
	PayoutProvider    *string
	PayoutReference   *string
	OnChainIntentTxID string
	OnChainSettleTxID *string
	CreatedAt         time.Time
	SettledAt         *time.Time
}
