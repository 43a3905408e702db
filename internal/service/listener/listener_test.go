package listener

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/trackbuddy/trackbuddy-backend/internal/indexer"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
	"go.uber.org/zap"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func appCallTx(id, method string, round uint64) indexer.Transaction {
	return indexer.Transaction{
		ID:             id,
		Sender:         "WALLET",
		ConfirmedRound: round,
		RoundTime:      1_700_000_000,
		ApplicationTransaction: &indexer.ApplicationTransaction{
			ApplicationID:   745,
			ApplicationArgs: []string{b64(method)},
		},
	}
}

func TestService_poll(t *testing.T) {
	t.Parallel()

	type fields struct {
		source    TransactionSource
		cursor    CursorStore
		sink      EventSink
		metrics   Metrics
		lastRound uint64
	}
	tests := []struct {
		name          string
		prepare       func(ctrl *gomock.Controller) fields
		wantLastRound uint64
	}{
		{
			name: "publishes parsed events and saves cursor after the batch",
			prepare: func(ctrl *gomock.Controller) fields {
				src := NewMockTransactionSource(ctrl)
				cur := NewMockCursorStore(ctrl)
				sink := NewMockEventSink(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()

				txs := []indexer.Transaction{
					appCallTx("TX1", "createCommitment", 101),
					appCallTx("TX2", "unknownMethod", 102),
					appCallTx("TX3", "settleBridge", 103),
				}
				src.EXPECT().SearchAppTransactions(ctx, uint64(745), uint64(101)).Return(txs, nil)
				metrics.EXPECT().ObservePoll(nil, 3, gomock.Any())
				// TX2 has an unknown method and is dropped silently.
				sink.EXPECT().Handle(ctx, eventWith("TX1", model.MethodCreateCommitment))
				sink.EXPECT().Handle(ctx, eventWith("TX3", model.MethodSettleBridge))
				cur.EXPECT().Save(uint64(103)).Return(nil)

				return fields{source: src, cursor: cur, sink: sink, metrics: metrics, lastRound: 100}
			},
			wantLastRound: 103,
		},
		{
			name: "query error leaves cursor untouched",
			prepare: func(ctrl *gomock.Controller) fields {
				src := NewMockTransactionSource(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()
				queryErr := errors.New("indexer down")

				src.EXPECT().SearchAppTransactions(ctx, uint64(745), uint64(51)).Return(nil, queryErr)
				metrics.EXPECT().ObservePoll(queryErr, 0, gomock.Any())

				return fields{
					source:    src,
					cursor:    NewMockCursorStore(ctrl),
					sink:      NewMockEventSink(ctrl),
					metrics:   metrics,
					lastRound: 50,
				}
			},
			wantLastRound: 50,
		},
		{
			name: "missing application is swallowed quietly",
			prepare: func(ctrl *gomock.Controller) fields {
				src := NewMockTransactionSource(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()

				src.EXPECT().SearchAppTransactions(ctx, uint64(745), uint64(0)).
					Return(nil, indexer.ErrNoSuchApplication)
				metrics.EXPECT().ObservePoll(indexer.ErrNoSuchApplication, 0, gomock.Any())

				return fields{
					source:  src,
					cursor:  NewMockCursorStore(ctrl),
					sink:    NewMockEventSink(ctrl),
					metrics: metrics,
				}
			},
			wantLastRound: 0,
		},
		{
			name: "empty batch does not rewrite the cursor",
			prepare: func(ctrl *gomock.Controller) fields {
				src := NewMockTransactionSource(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()

				src.EXPECT().SearchAppTransactions(ctx, uint64(745), uint64(8)).
					Return([]indexer.Transaction{}, nil)
				metrics.EXPECT().ObservePoll(nil, 0, gomock.Any())

				return fields{
					source:    src,
					cursor:    NewMockCursorStore(ctrl),
					sink:      NewMockEventSink(ctrl),
					metrics:   metrics,
					lastRound: 7,
				}
			},
			wantLastRound: 7,
		},
		{
			name: "cursor save failure keeps in-memory round",
			prepare: func(ctrl *gomock.Controller) fields {
				src := NewMockTransactionSource(ctrl)
				cur := NewMockCursorStore(ctrl)
				sink := NewMockEventSink(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()

				txs := []indexer.Transaction{appCallTx("TX9", "logDiscipline", 40)}
				src.EXPECT().SearchAppTransactions(ctx, uint64(745), uint64(31)).Return(txs, nil)
				metrics.EXPECT().ObservePoll(nil, 1, gomock.Any())
				sink.EXPECT().Handle(ctx, gomock.Any())
				cur.EXPECT().Save(uint64(40)).Return(errors.New("disk full"))

				return fields{source: src, cursor: cur, sink: sink, metrics: metrics, lastRound: 30}
			},
			wantLastRound: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := tt.prepare(ctrl)
			s := &Service{
				logger:       zap.NewNop(),
				appID:        745,
				source:       f.source,
				cursor:       f.cursor,
				sink:         f.sink,
				metrics:      f.metrics,
				sleep:        func(context.Context, time.Duration) error { return nil },
				pollInterval: time.Millisecond,
				lastRound:    f.lastRound,
			}

			s.poll(context.Background())

			if s.lastRound != tt.wantLastRound {
				t.Fatalf("lastRound = %d, want %d", s.lastRound, tt.wantLastRound)
			}
		})
	}
}

// eventWith matches a published event by transaction id and method.
func eventWith(txID string, method model.Method) gomock.Matcher {
	return eventMatcher{txID: txID, method: method}
}

type eventMatcher struct {
	txID   string
	method model.Method
}

func (m eventMatcher) Matches(x interface{}) bool {
	event, ok := x.(model.ContractEvent)
	return ok && event.TxID == m.txID && event.Method == m.method
}

func (m eventMatcher) String() string {
	return "contract event " + m.txID + "/" + string(m.method)
}

func TestService_RunIdlesWithoutAppID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := &Service{
		logger:  zap.NewNop(),
		source:  NewMockTransactionSource(ctrl),
		cursor:  NewMockCursorStore(ctrl),
		sink:    NewMockEventSink(ctrl),
		metrics: NewMockMetrics(ctrl),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() = %v, want deadline exceeded", err)
	}
}

func TestService_RunResumesFromPersistedCursor(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockTransactionSource(ctrl)
	cur := NewMockCursorStore(ctrl)
	metrics := NewMockMetrics(ctrl)

	cur.EXPECT().Load().Return(uint64(10), nil)
	// Resumes at cursor+1; may poll repeatedly before the context expires.
	src.EXPECT().SearchAppTransactions(gomock.Any(), uint64(745), uint64(11)).
		Return(nil, nil).MinTimes(1)
	metrics.EXPECT().ObservePoll(nil, 0, gomock.Any()).MinTimes(1)

	s := &Service{
		logger:       zap.NewNop(),
		appID:        745,
		source:       src,
		cursor:       cur,
		sink:         NewMockEventSink(ctrl),
		metrics:      metrics,
		sleep:        func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
		pollInterval: time.Millisecond,
	}

	runCtx, runCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer runCancel()

	if err := s.Run(runCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() = %v, want deadline exceeded", err)
	}
}
