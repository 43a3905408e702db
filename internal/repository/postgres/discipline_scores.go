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

// UpsertDisciplineScore writes the score row for (user, date), overwriting the
// overall score and on-chain reference when the row already exists. Safe to
// call repeatedly for the same day.
func (r *Repository) UpsertDisciplineScore(ctx context.Context, s model.DisciplineScore) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("upsert_discipline_score", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO discipline_scores
			(user_id, date, overall_score, focus_score, consistency_score,
			 current_streak, longest_streak, on_chain_tx_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			on_chain_tx_id = EXCLUDED.on_chain_tx_id`,
		s.UserID, s.Date, s.OverallScore, s.FocusScore, s.ConsistencyScore,
		s.CurrentStreak, s.LongestStreak, s.OnChainTxID,
	)
	if err != nil {
		return fmt.Errorf("upsert discipline score: %w", err)
	}
	return nil
}

// DisciplineScoreForDate reads the score row for (user, date).
func (r *Repository) DisciplineScoreForDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.DisciplineScore, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("discipline_score_for_date", err, start)
	}()

	var s model.DisciplineScore
	err = r.db.QueryRowContext(ctx,
		`SELECT user_id, date, overall_score, focus_score, consistency_score,
			current_streak, longest_streak, on_chain_tx_id
		 FROM discipline_scores WHERE user_id = $1 AND date = $2`,
		userID, date,
	).Scan(&s.UserID, &s.Date, &s.OverallScore, &s.FocusScore, &s.ConsistencyScore,
		&s.CurrentStreak, &s.LongestStreak, &s.OnChainTxID)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("discipline score for user %s: %w", userID, ErrNotFound)
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("query discipline score: %w", err)
	}
	return &s, nil
}
