package listener

import (
	"context"
	"time"

	"github.com/trackbuddy/trackbuddy-backend/internal/indexer"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// TransactionSource queries the ledger for application-call transactions.
	TransactionSource interface {
		SearchAppTransactions(ctx context.Context, appID, minRound uint64) ([]indexer.Transaction, error)
	}

	// CursorStore persists the last fully-processed round between polls.
	CursorStore interface {
		Load() (uint64, error)
		Save(round uint64) error
	}

	// EventSink consumes parsed contract events. The router is the only sink
	// in this deployment; Handle must not fail the caller.
	EventSink interface {
		Handle(ctx context.Context, event model.ContractEvent)
	}

	// Metrics observes poll outcomes.
	Metrics interface {
		ObservePoll(err error, txCount int, started time.Time)
	}
)
