package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
	"github.com/trackbuddy/trackbuddy-backend/internal/repository/postgres"
	"go.uber.org/zap"
)

const (
	// penaltyRate is the share of the stake deducted per violation.
	penaltyRate = 0.1

	// microUnitsPerAlgo scales the ledger's smallest unit to whole ALGO.
	microUnitsPerAlgo = 1_000_000

	violationTypeMissedSession = "MISSED_SESSION"
)

// handleCreateCommitment links the on-chain transaction id to the user's most
// recent ACTIVE commitment that has none yet. The commitment row is created
// by the application layer before the chain confirms, so "nothing to link" is
// a normal ordering artifact, not an error.
func (r *Router) handleCreateCommitment(ctx context.Context, event model.ContractEvent) error {
	user, err := r.repo.UserByWalletAddress(ctx, event.Sender)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no user for commitment link", zap.String("wallet", event.Sender))
			return nil
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	commitment, err := r.repo.LatestUnlinkedActiveCommitment(ctx, user.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no pending commitment to link", zap.String("wallet", event.Sender))
			return nil
		}
		return fmt.Errorf("find unlinked commitment: %w", err)
	}

	if err := r.repo.LinkCommitmentTx(ctx, commitment.ID, event.TxID); err != nil {
		return fmt.Errorf("link commitment: %w", err)
	}

	r.logger.Info("linked commitment to on-chain tx",
		zap.String("commitmentId", commitment.ID.String()),
		zap.String("txId", event.TxID),
	)
	return nil
}

// handleVerifySession closes the user's most recent ACTIVE commitment as
// COMPLETED or FAILED based on the success flag. Replaying the event finds no
// ACTIVE commitment and no-ops.
func (r *Router) handleVerifySession(ctx context.Context, event model.ContractEvent) error {
	if len(event.Args) < 2 {
		r.logger.Warn("verifySession event missing args", zap.String("txId", event.TxID))
		return nil
	}
	wallet := event.Args[0]

	status := model.CommitmentFailed
	if event.Args[1] == "1" {
		status = model.CommitmentCompleted
	}

	user, err := r.repo.UserByWalletAddress(ctx, wallet)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no user for session verification", zap.String("wallet", wallet))
			return nil
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	commitment, err := r.repo.LatestActiveCommitment(ctx, user.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no active commitment to verify", zap.String("wallet", wallet))
			return nil
		}
		return fmt.Errorf("find active commitment: %w", err)
	}

	if err := r.repo.CloseCommitment(ctx, commitment.ID, status, r.now()); err != nil {
		return fmt.Errorf("close commitment: %w", err)
	}

	r.logger.Info("commitment verified",
		zap.String("commitmentId", commitment.ID.String()),
		zap.String("status", string(status)),
	)
	return nil
}

// handleApplyPenalty records a violation against the user's most recent
// ACTIVE commitment, with the penalty computed as a fixed share of the stake.
// Each ledger penalty event yields exactly one violation row; a redelivered
// event therefore double-counts. Keyed dedup on the event's transaction id
// would fix that but changes observable behavior, so it is deliberately not
// done here.
func (r *Router) handleApplyPenalty(ctx context.Context, event model.ContractEvent) error {
	if len(event.Args) < 1 {
		r.logger.Warn("applyPenalty event missing args", zap.String("txId", event.TxID))
		return nil
	}
	wallet := event.Args[0]

	user, err := r.repo.UserByWalletAddress(ctx, wallet)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no user for penalty", zap.String("wallet", wallet))
			return nil
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	commitment, err := r.repo.LatestActiveCommitment(ctx, user.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no active commitment for penalty", zap.String("wallet", wallet))
			return nil
		}
		return fmt.Errorf("find active commitment: %w", err)
	}

	penalty := commitment.StakeAmount * penaltyRate
	violation := model.Violation{
		ID:            uuid.New(),
		CommitmentID:  commitment.ID,
		UserID:        commitment.UserID,
		Type:          violationTypeMissedSession,
		PenaltyAmount: penalty,
		OnChainTxID:   event.TxID,
		OccurredAt:    time.Unix(event.RoundTime, 0).UTC(),
	}
	if err := r.repo.CreateViolation(ctx, violation); err != nil {
		return fmt.Errorf("create violation: %w", err)
	}

	r.logger.Info("violation recorded",
		zap.String("commitmentId", commitment.ID.String()),
		zap.Float64("penalty", penalty),
	)

	if r.notifier != nil {
		count, err := r.repo.CountViolationsForCommitment(ctx, commitment.ID)
		if err != nil {
			// The violation is already committed; call triggering is advisory.
			r.logger.Warn("count violations failed", zap.Error(err))
			return nil
		}
		r.notifier.ViolationRecorded(ctx, *user, *commitment, count, penalty)
	}
	return nil
}

// handleLogDiscipline upserts today's discipline score from the on-chain
// value. Redelivery rewrites the same row, so this handler is safe to replay.
func (r *Router) handleLogDiscipline(ctx context.Context, event model.ContractEvent) error {
	if len(event.Args) < 2 {
		r.logger.Warn("logDiscipline event missing args", zap.String("txId", event.TxID))
		return nil
	}
	wallet := event.Args[0]

	score, err := strconv.Atoi(event.Args[1])
	if err != nil {
		score = 0
	}

	user, err := r.repo.UserByWalletAddress(ctx, wallet)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no user for discipline score", zap.String("wallet", wallet))
			return nil
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	txID := event.TxID
	record := model.DisciplineScore{
		UserID:       user.ID,
		Date:         r.now().UTC().Truncate(24 * time.Hour),
		OverallScore: score,
		OnChainTxID:  &txID,
	}
	if err := r.repo.UpsertDisciplineScore(ctx, record); err != nil {
		return fmt.Errorf("upsert discipline score: %w", err)
	}

	r.logger.Info("discipline score logged",
		zap.String("userId", user.ID.String()),
		zap.Int("score", score),
	)
	return nil
}

// handleBridgeIntent opens a PENDING bridge transaction for the sender, with
// the ALGO amount taken from the nested payment. Exchange rate and INR amount
// stay zero until settlement fills them in. Like applyPenalty, a redelivered
// event inserts a duplicate row; see the dedup note there.
func (r *Router) handleBridgeIntent(ctx context.Context, event model.ContractEvent) error {
	user, err := r.repo.UserByWalletAddress(ctx, event.Sender)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no user for bridge intent", zap.String("wallet", event.Sender))
			return nil
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	var algoAmount float64
	if event.PaymentAmount != nil {
		algoAmount = float64(*event.PaymentAmount) / microUnitsPerAlgo
	}

	bridge := model.BridgeTransaction{
		ID:                uuid.New(),
		UserID:            user.ID,
		AlgoAmount:        algoAmount,
		AlgoTxID:          event.TxID,
		Status:            model.BridgePending,
		OnChainIntentTxID: event.TxID,
		CreatedAt:         time.Unix(event.RoundTime, 0).UTC(),
	}
	if err := r.repo.CreateBridgeTransaction(ctx, bridge); err != nil {
		return fmt.Errorf("create bridge transaction: %w", err)
	}

	r.logger.Info("bridge intent recorded",
		zap.String("userId", user.ID.String()),
		zap.Float64("algoAmount", algoAmount),
	)
	return nil
}

// handleSettleBridge finalizes the user's most recent PENDING bridge
// transaction. A transaction already SETTLED is not matched by the PENDING
// filter, which makes replay a no-op.
func (r *Router) handleSettleBridge(ctx context.Context, event model.ContractEvent) error {
	if len(event.Args) < 1 {
		r.logger.Warn("settleBridge event missing args", zap.String("txId", event.TxID))
		return nil
	}
	wallet := event.Args[0]

	user, err := r.repo.UserByWalletAddress(ctx, wallet)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no user for bridge settlement", zap.String("wallet", wallet))
			return nil
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	bridge, err := r.repo.LatestPendingBridgeForUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Info("no pending bridge to settle", zap.String("wallet", wallet))
			return nil
		}
		return fmt.Errorf("find pending bridge: %w", err)
	}

	settledAt := time.Unix(event.RoundTime, 0).UTC()
	if err := r.repo.SettleBridgeOnChain(ctx, bridge.ID, event.TxID, settledAt); err != nil {
		return fmt.Errorf("settle bridge: %w", err)
	}

	r.logger.Info("bridge settled from ledger",
		zap.String("bridgeId", bridge.ID.String()),
		zap.String("txId", event.TxID),
	)
	return nil
}
