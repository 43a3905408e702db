// Package listener maintains a durable read cursor over the discipline
// contract's ledger and surfaces new contract calls as typed events.
package listener

import (
	"context"
	"errors"
	"time"

	"github.com/trackbuddy/trackbuddy-backend/internal/clock"
	"github.com/trackbuddy/trackbuddy-backend/internal/indexer"
	"go.uber.org/zap"
)

// Service polls the indexer on a fixed interval, parses relevant
// transactions, and publishes them to the sink. It never terminates the host
// process: every failure is absorbed at the poll boundary and retried on the
// next cycle.
type Service struct {
	logger       *zap.Logger
	appID        uint64
	source       TransactionSource
	cursor       CursorStore
	sink         EventSink
	metrics      Metrics
	sleep        func(context.Context, time.Duration) error
	pollInterval time.Duration

	// lastRound is touched only by the polling goroutine.
	lastRound uint64
}

// NewService builds a listener Service with dependencies. A zero pollInterval
// falls back to the default.
func NewService(
	appID uint64,
	pollInterval time.Duration,
	source TransactionSource,
	cursor CursorStore,
	sink EventSink,
	metrics Metrics,
	logger *zap.Logger,
) (*Service, error) {
	if source == nil {
		return nil, errors.New("transaction source is required")
	}
	if cursor == nil {
		return nil, errors.New("cursor store is required")
	}
	if sink == nil {
		return nil, errors.New("event sink is required")
	}
	if metrics == nil {
		return nil, errors.New("listener metrics is required")
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Service{
		logger:       logger,
		appID:        appID,
		source:       source,
		cursor:       cursor,
		sink:         sink,
		metrics:      metrics,
		sleep:        clock.SleepWithContext,
		pollInterval: pollInterval,
	}, nil
}

// Run polls until the context is canceled. With no application id configured
// the listener stays idle rather than failing, so the rest of the process
// keeps serving.
func (s *Service) Run(ctx context.Context) error {
	if s.appID == 0 {
		s.logger.Info("no application id configured, listener idle")
		<-ctx.Done()
		return ctx.Err()
	}

	round, err := s.cursor.Load()
	if err != nil {
		s.logger.Warn("load cursor failed, starting from genesis", zap.Error(err))
		round = 0
	}
	s.lastRound = round

	s.logger.Info("listener started",
		zap.Uint64("appId", s.appID),
		zap.Uint64("round", s.lastRound),
	)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.poll(ctx)
		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return err
		}
	}
}

// poll runs one query-parse-publish cycle. The cursor is persisted only after
// the whole batch has been dispatched: a crash mid-batch replays the batch on
// restart, so handlers see at-least-once delivery.
func (s *Service) poll(ctx context.Context) {
	started := time.Now()

	var minRound uint64
	if s.lastRound > 0 {
		minRound = s.lastRound + 1
	}

	txs, err := s.source.SearchAppTransactions(ctx, s.appID, minRound)
	s.metrics.ObservePoll(err, len(txs), started)
	if err != nil {
		// Contract not deployed yet; not worth logging every cycle.
		if errors.Is(err, indexer.ErrNoSuchApplication) {
			return
		}
		s.logger.Error("indexer query failed", zap.Error(err))
		return
	}
	if len(txs) == 0 {
		return
	}

	maxRound := s.lastRound
	for _, tx := range txs {
		if event, ok := ParseTransaction(tx); ok {
			s.sink.Handle(ctx, event)
		}
		if tx.ConfirmedRound > maxRound {
			maxRound = tx.ConfirmedRound
		}
	}
	s.lastRound = maxRound

	if err := s.cursor.Save(maxRound); err != nil {
		s.logger.Error("save cursor failed", zap.Uint64("round", maxRound), zap.Error(err))
	}
}
