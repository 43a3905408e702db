package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
)

const bridgeColumns = `id, user_id, algo_amount, algo_tx_id, exchange_rate, inr_amount,
	status, upi_id, upi_reference, payout_provider, payout_reference,
	on_chain_intent_tx_id, on_chain_settle_tx_id, created_at, settled_at`

func scanBridgeTransaction(row *sql.Row) (*model.BridgeTransaction, error) {
	var b model.BridgeTransaction
	err := row.Scan(&b.ID, &b.UserID, &b.AlgoAmount, &b.AlgoTxID, &b.ExchangeRate,
		&b.InrAmount, &b.Status, &b.UpiID, &b.UpiReference, &b.PayoutProvider,
		&b.PayoutReference, &b.OnChainIntentTxID, &b.OnChainSettleTxID,
		&b.CreatedAt, &b.SettledAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBridgeTransaction stores a new bridge transaction row.
func (r *Repository) CreateBridgeTransaction(ctx context.Context, b model.BridgeTransaction) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("create_bridge_transaction", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO bridge_transactions
			(id, user_id, algo_amount, algo_tx_id, exchange_rate, inr_amount,
			 status, upi_id, upi_reference, payout_provider, payout_reference,
			 on_chain_intent_tx_id, on_chain_settle_tx_id, created_at, settled_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		b.ID, b.UserID, b.AlgoAmount, b.AlgoTxID, b.ExchangeRate, b.InrAmount,
		b.Status, b.UpiID, b.UpiReference, b.PayoutProvider, b.PayoutReference,
		b.OnChainIntentTxID, b.OnChainSettleTxID, b.CreatedAt, b.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("insert bridge transaction: %w", err)
	}
	return nil
}

// BridgeTransactionByID loads a bridge transaction.
func (r *Repository) BridgeTransactionByID(ctx context.Context, id uuid.UUID) (*model.BridgeTransaction, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("bridge_transaction_by_id", err, start)
	}()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+bridgeColumns+` FROM bridge_transactions WHERE id = $1`, id)
	b, scanErr := scanBridgeTransaction(row)
	if errors.Is(scanErr, sql.ErrNoRows) {
		err = fmt.Errorf("bridge transaction %s: %w", id, ErrNotFound)
		return nil, err
	}
	if scanErr != nil {
		err = fmt.Errorf("query bridge transaction: %w", scanErr)
		return nil, err
	}
	return b, nil
}

// LatestPendingBridgeForUser returns the user's most recent PENDING bridge
// transaction. A transaction already past PENDING is not matched, which is
// what makes settlement idempotent.
func (r *Repository) LatestPendingBridgeForUser(ctx context.Context, userID uuid.UUID) (*model.BridgeTransaction, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("latest_pending_bridge_for_user", err, start)
	}()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+bridgeColumns+`
		 FROM bridge_transactions
		 WHERE user_id = $1 AND status = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, model.BridgePending,
	)
	b, scanErr := scanBridgeTransaction(row)
	if errors.Is(scanErr, sql.ErrNoRows) {
		err = fmt.Errorf("pending bridge for user %s: %w", userID, ErrNotFound)
		return nil, err
	}
	if scanErr != nil {
		err = fmt.Errorf("query pending bridge: %w", scanErr)
		return nil, err
	}
	return b, nil
}

// MarkBridgePayoutInitiated advances a PENDING bridge transaction to
// PAYOUT_INITIATED with the conversion and provider details. The status guard
// keeps the state machine one-directional.
func (r *Repository) MarkBridgePayoutInitiated(
	ctx context.Context,
	id uuid.UUID,
	exchangeRate, inrAmount float64,
	upiID, provider, reference string,
) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("mark_bridge_payout_initiated", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`UPDATE bridge_transactions SET
			status = $2, exchange_rate = $3, inr_amount = $4,
			upi_id = $5, upi_reference = $6, payout_provider = $7, payout_reference = $6
		 WHERE id = $1 AND status = $8`,
		id, model.BridgePayoutInitiated, exchangeRate, inrAmount,
		upiID, reference, provider, model.BridgePending,
	)
	if err != nil {
		return fmt.Errorf("mark bridge payout initiated: %w", err)
	}
	return nil
}

// SettleBridgePayout finalizes a bridge transaction after provider
// confirmation. No-ops on rows already SETTLED.
func (r *Repository) SettleBridgePayout(ctx context.Context, id uuid.UUID, providerReference string, settledAt time.Time) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("settle_bridge_payout", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`UPDATE bridge_transactions SET
			status = $2, payout_reference = $3, settled_at = $4
		 WHERE id = $1 AND status <> $2`,
		id, model.BridgeSettled, providerReference, settledAt,
	)
	if err != nil {
		return fmt.Errorf("settle bridge payout: %w", err)
	}
	return nil
}

// SettleBridgeOnChain finalizes a bridge transaction from the ledger's
// settleBridge event, stamping the settlement transaction id.
func (r *Repository) SettleBridgeOnChain(ctx context.Context, id uuid.UUID, settleTxID string, settledAt time.Time) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("settle_bridge_on_chain", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`UPDATE bridge_transactions SET
			status = $2, on_chain_settle_tx_id = $3, settled_at = $4
		 WHERE id = $1 AND status <> $2`,
		id, model.BridgeSettled, settleTxID, settledAt,
	)
	if err != nil {
		return fmt.Errorf("settle bridge on chain: %w", err)
	}
	return nil
}
