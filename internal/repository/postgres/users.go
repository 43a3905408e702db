package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/trackbuddy/trackbuddy-backend/internal/model"
)

// CreateUser stores a user row.
func (r *Repository) CreateUser(ctx context.Context, user model.User) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("create_user", err, start)
	}()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, wallet_address, name, phone_number, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.WalletAddress, user.Name, user.PhoneNumber, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByWalletAddress resolves the user owning a wallet address.
func (r *Repository) UserByWalletAddress(ctx context.Context, walletAddress string) (*model.User, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("user_by_wallet_address", err, start)
	}()

	var user model.User
	err = r.db.QueryRowContext(ctx,
		`SELECT id, wallet_address, name, phone_number, created_at
		 FROM users WHERE wallet_address = $1`,
		walletAddress,
	).Scan(&user.ID, &user.WalletAddress, &user.Name, &user.PhoneNumber, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("user for wallet %s: %w", walletAddress, ErrNotFound)
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("query user by wallet: %w", err)
	}
	return &user, nil
}
