// Package reconciler mirrors discipline contract events into the relational store.
package reconciler

import (
	"context"
	"errors"
	"time"

	"github.com/trackbuddy/trackbuddy-backend/internal/model"
	"go.uber.org/zap"
)

// Router dispatches contract events to per-method reconciliation handlers.
// Handler faults are isolated: one bad event never blocks the next.
type Router struct {
	logger   *zap.Logger
	repo     Repository
	notifier Notifier
	metrics  Metrics
	now      func() time.Time
}

// NewRouter builds a Router. notifier may be nil when call triggering is disabled.
func NewRouter(repo Repository, notifier Notifier, metrics Metrics, logger *zap.Logger) (*Router, error) {
	if repo == nil {
		return nil, errors.New("reconciler repository is required")
	}
	if metrics == nil {
		return nil, errors.New("reconciler metrics is required")
	}

	return &Router{
		logger:   logger,
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
		now:      time.Now,
	}, nil
}

// Handle routes one event to its handler. It never returns an error: a
// failure is logged with the method name and absorbed, keeping the ingestion
// loop alive.
func (r *Router) Handle(ctx context.Context, event model.ContractEvent) {
	started := time.Now()
	err := r.dispatch(ctx, event)
	r.metrics.ObserveHandle(string(event.Method), err, started)
	if err != nil {
		r.logger.Error("event handling failed",
			zap.String("method", string(event.Method)),
			zap.String("txId", event.TxID),
			zap.Error(err),
		)
	}
}

func (r *Router) dispatch(ctx context.Context, event model.ContractEvent) error {
	switch event.Method {
	case model.MethodCreateCommitment:
		return r.handleCreateCommitment(ctx, event)
	case model.MethodVerifySession:
		return r.handleVerifySession(ctx, event)
	case model.MethodApplyPenalty:
		return r.handleApplyPenalty(ctx, event)
	case model.MethodLogDiscipline:
		return r.handleLogDiscipline(ctx, event)
	case model.MethodBridgeIntent:
		return r.handleBridgeIntent(ctx, event)
	case model.MethodSettleBridge:
		return r.handleSettleBridge(ctx, event)
	default:
		// The parser only admits known methods; anything else that slips
		// through is dropped, not errored.
		r.logger.Info("no handler for method",
			zap.String("method", string(event.Method)),
			zap.String("txId", event.TxID),
		)
		return nil
	}
}
