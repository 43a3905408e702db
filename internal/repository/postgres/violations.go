package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
)

// CreateViolation stores a violation row. Violations are immutable once created.
func (r *Repository) CreateViolation(ctx context.Context, v model.Violation) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("create_violation", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO violations (id, commitment_id, user_id, type, penalty_amount, on_chain_tx_id, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.CommitmentID, v.UserID, v.Type, v.PenaltyAmount, v.OnChainTxID, v.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert violation: %w", err)
	}
	return nil
}

// CountViolationsForCommitment returns how many violations a commitment has accrued.
func (r *Repository) CountViolationsForCommitment(ctx context.Context, commitmentID uuid.UUID) (int, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("count_violations_for_commitment", err, start)
	}()

	var count int
	err = r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM violations WHERE commitment_id = $1`,
		commitmentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count violations: %w", err)
	}
	return count, nil
}
