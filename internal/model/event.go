package model

// Method enumerates the contract methods the reconciler understands.
type Method string

const (
	MethodCreateCommitment Method = "createCommitment"
	MethodVerifySession    Method = "verifySession"
	MethodApplyPenalty     Method = "applyPenalty"
	MethodLogDiscipline    Method = "logDiscipline"
	MethodBridgeIntent     Method = "bridgeIntent"
	MethodSettleBridge     Method = "settleBridge"
)

// ParseMethod maps a decoded first application argument to a known contract
// method. ok is false for anything else; the contract may grow methods this
// backend does not know about yet, and those are dropped rather than errored.
func ParseMethod(s string) (Method, bool) {
	switch m := Method(s); m {
	case MethodCreateCommitment,
		MethodVerifySession,
		MethodApplyPenalty,
		MethodLogDiscipline,
		MethodBridgeIntent,
		MethodSettleBridge:
		return m, true
	}
	return "", false
}

// ContractEvent is a parsed application-call transaction on the discipline
// contract. Args excludes the leading method selector. PaymentAmount carries
// the micro-unit value of a nested inner payment when one exists.
type ContractEvent struct {
	TxID           string
	Method         Method
	Sender         string
	Args           []string
	RoundTime      int64
	ConfirmedRound uint64
	GroupID        string
	PaymentAmount  *uint64
}
