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

const commitmentColumns = `id, user_id, title, category, duration_days, stake_amount,
	status, on_chain_tx_id, start_time, end_time, created_at`

func scanCommitment(row *sql.Row) (*model.Commitment, error) {
	var c model.Commitment
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Category, &c.DurationDays,
		&c.StakeAmount, &c.Status, &c.OnChainTxID, &c.StartTime, &c.EndTime, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCommitment stores a commitment row. The application layer creates
// commitments before their on-chain confirmation arrives.
func (r *Repository) CreateCommitment(ctx context.Context, c model.Commitment) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("create_commitment", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO commitments (id, user_id, title, category, duration_days, stake_amount,
			status, on_chain_tx_id, start_time, end_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.UserID, c.Title, c.Category, c.DurationDays, c.StakeAmount,
		c.Status, c.OnChainTxID, c.StartTime, c.EndTime, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert commitment: %w", err)
	}
	return nil
}

// LatestActiveCommitment returns the user's most recent ACTIVE commitment.
func (r *Repository) LatestActiveCommitment(ctx context.Context, userID uuid.UUID) (*model.Commitment, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("latest_active_commitment", err, start)
	}()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+commitmentColumns+`
		 FROM commitments
		 WHERE user_id = $1 AND status = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, model.CommitmentActive,
	)
	c, scanErr := scanCommitment(row)
	if errors.Is(scanErr, sql.ErrNoRows) {
		err = fmt.Errorf("active commitment for user %s: %w", userID, ErrNotFound)
		return nil, err
	}
	if scanErr != nil {
		err = fmt.Errorf("query latest active commitment: %w", scanErr)
		return nil, err
	}
	return c, nil
}

// LatestUnlinkedActiveCommitment returns the user's most recent ACTIVE
// commitment that has no on-chain transaction id attached yet.
func (r *Repository) LatestUnlinkedActiveCommitment(ctx context.Context, userID uuid.UUID) (*model.Commitment, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("latest_unlinked_active_commitment", err, start)
	}()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+commitmentColumns+`
		 FROM commitments
		 WHERE user_id = $1 AND status = $2 AND on_chain_tx_id IS NULL
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, model.CommitmentActive,
	)
	c, scanErr := scanCommitment(row)
	if errors.Is(scanErr, sql.ErrNoRows) {
		err = fmt.Errorf("unlinked commitment for user %s: %w", userID, ErrNotFound)
		return nil, err
	}
	if scanErr != nil {
		err = fmt.Errorf("query latest unlinked commitment: %w", scanErr)
		return nil, err
	}
	return c, nil
}

// LinkCommitmentTx attaches an on-chain transaction id to a commitment.
func (r *Repository) LinkCommitmentTx(ctx context.Context, id uuid.UUID, txID string) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("link_commitment_tx", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`UPDATE commitments SET on_chain_tx_id = $2 WHERE id = $1`,
		id, txID,
	)
	if err != nil {
		return fmt.Errorf("link commitment tx: %w", err)
	}
	return nil
}

// CloseCommitment transitions an ACTIVE commitment to a terminal status and
// stamps its end time. A commitment already closed is left untouched.
func (r *Repository) CloseCommitment(ctx context.Context, id uuid.UUID, status model.CommitmentStatus, endTime time.Time) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("close_commitment", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`UPDATE commitments SET status = $2, end_time = $3
		 WHERE id = $1 AND status = $4`,
		id, status, endTime, model.CommitmentActive,
	)
	if err != nil {
		return fmt.Errorf("close commitment: %w", err)
	}
	return nil
}
