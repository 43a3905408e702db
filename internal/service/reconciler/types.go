package reconciler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
)

type (
	// Repository is the slice of the relational store the handlers mutate.
	Repository interface {
		UserByWalletAddress(ctx context.Context, walletAddress string) (*model.User, error)
		LatestActiveCommitment(ctx context.Context, userID uuid.UUID) (*model.Commitment, error)
		LatestUnlinkedActiveCommitment(ctx context.Context, userID uuid.UUID) (*model.Commitment, error)
		LinkCommitmentTx(ctx context.Context, id uuid.UUID, txID string) error
		CloseCommitment(ctx context.Context, id uuid.UUID, status model.CommitmentStatus, endTime time.Time) error
		CreateViolation(ctx context.Context, v model.Violation) error
		CountViolationsForCommitment(ctx context.Context, commitmentID uuid.UUID) (int, error)
		UpsertDisciplineScore(ctx context.Context, s model.DisciplineScore) error
		CreateBridgeTransaction(ctx context.Context, b model.BridgeTransaction) error
		LatestPendingBridgeForUser(ctx context.Context, userID uuid.UUID) (*model.BridgeTransaction, error)
		SettleBridgeOnChain(ctx context.Context, id uuid.UUID, settleTxID string, settledAt time.Time) error
	}

	// Notifier is told about recorded violations so it can trigger
	// accountability calls. Notification failures never block reconciliation.
	Notifier interface {
		ViolationRecorded(ctx context.Context, user model.User, commitment model.Commitment, violationCount int, penaltyAmount float64)
	}

	// Metrics observes handler outcomes per contract method.
	Metrics interface {
		ObserveHandle(method string, err error, started time.Time)
	}
)
