// Package calls escalates repeat violations into voice interventions.
package calls

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
	"go.uber.org/zap"
)

// CallType distinguishes a routine reminder from a serious intervention.
type CallType string

const (
	CallStandard   CallType = "standard"
	CallEscalation CallType = "escalation"

	standardThreshold   = 2
	escalationThreshold = 5
)

// ShouldTriggerCall decides whether a user's violation count warrants a call.
// A single slip does not; repeated ones get a standard call and chronic ones
// an escalation.
func ShouldTriggerCall(violationCount int) (CallType, bool) {
	switch {
	case violationCount >= escalationThreshold:
		return CallEscalation, true
	case violationCount >= standardThreshold:
		return CallStandard, true
	default:
		return "", false
	}
}

// Dialer places an outbound call. Implementations decide the transport.
type Dialer interface {
	Dial(ctx context.Context, phoneNumber, message string) error
}

// Notifier turns violation notifications into calls through a Dialer.
type Notifier struct {
	logger *zap.Logger
	dialer Dialer
}

// NewNotifier builds a Notifier. The dialer is required.
func NewNotifier(dialer Dialer, logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger, dialer: dialer}
}

// ViolationRecorded triggers a call when the violation count crosses a
// threshold. Dial failures are logged and swallowed: a missed call must
// never block ledger reconciliation.
func (n *Notifier) ViolationRecorded(ctx context.Context, user model.User, commitment model.Commitment, violationCount int, penaltyAmount float64) {
	callType, trigger := ShouldTriggerCall(violationCount)
	if !trigger {
		return
	}

	var message string
	switch callType {
	case CallEscalation:
		message = escalationMessage(user, commitment, violationCount)
	default:
		message = violationMessage(user, commitment, violationCount, penaltyAmount)
	}

	if err := n.dialer.Dial(ctx, user.PhoneNumber, message); err != nil {
		n.logger.Warn("intervention call failed",
			zap.String("userId", user.ID.String()),
			zap.String("callType", string(callType)),
			zap.Error(err),
		)
		return
	}

	n.logger.Info("intervention call placed",
		zap.String("userId", user.ID.String()),
		zap.String("callType", string(callType)),
		zap.Int("violationCount", violationCount),
	)
}

func violationMessage(user model.User, commitment model.Commitment, violationCount int, penaltyAmount float64) string {
	return fmt.Sprintf(
		"Hi %s, this is TrackBuddy. You missed a session for your commitment %q. "+
			"That is violation number %d, and %.2f ALGO has been deducted from your stake. "+
			"Keep your streak alive tomorrow.",
		user.Name, commitment.Title, violationCount, penaltyAmount,
	)
}

func escalationMessage(user model.User, commitment model.Commitment, violationCount int) string {
	return fmt.Sprintf(
		"Hi %s, this is TrackBuddy with a serious check-in. You have %d violations on %q. "+
			"Your stake is at risk of being fully forfeited. Let's talk about getting back on track.",
		user.Name, violationCount, commitment.Title,
	)
}

// SimulatedDialer logs calls instead of placing them, for environments
// without a telephony account.
type SimulatedDialer struct {
	logger *zap.Logger
}

// NewSimulatedDialer builds a log-only dialer.
func NewSimulatedDialer(logger *zap.Logger) *SimulatedDialer {
	return &SimulatedDialer{logger: logger}
}

// Dial records the call that would have been made.
func (d *SimulatedDialer) Dial(_ context.Context, phoneNumber, message string) error {
	d.logger.Info("simulated call",
		zap.String("callId", uuid.NewString()),
		zap.String("phoneNumber", phoneNumber),
		zap.String("message", message),
	)
	return nil
}
