package listener

import (
	"encoding/base64"

	"github.com/trackbuddy/trackbuddy-backend/internal/indexer"
	"github.com/trackbuddy/trackbuddy-backend/internal/model"
	"github.com/trackbuddy/trackbuddy-backend/pkg/safe"
)

// ParseTransaction converts an indexer transaction into a contract event.
// ok is false for transactions the reconciler does not care about: non
// app-calls, empty argument lists, undecodable args, and methods outside the
// known set. None of those are errors; the contract may carry calls this
// backend never handles.
func ParseTransaction(tx indexer.Transaction) (model.ContractEvent, bool) {
	appCall := tx.ApplicationTransaction
	if appCall == nil || len(appCall.ApplicationArgs) == 0 {
		return model.ContractEvent{}, false
	}

	args := make([]string, 0, len(appCall.ApplicationArgs))
	for _, raw := range appCall.ApplicationArgs {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return model.ContractEvent{}, false
		}
		args = append(args, string(decoded))
	}

	method, ok := model.ParseMethod(args[0])
	if !ok {
		return model.ContractEvent{}, false
	}

	var paymentAmount *uint64
	for _, inner := range tx.InnerTxns {
		if inner.PaymentTransaction != nil {
			amount := inner.PaymentTransaction.Amount
			paymentAmount = &amount
		}
	}

	roundTime, err := safe.Int64(tx.RoundTime)
	if err != nil {
		return model.ContractEvent{}, false
	}

	return model.ContractEvent{
		TxID:           tx.ID,
		Method:         method,
		Sender:         tx.Sender,
		Args:           args[1:],
		RoundTime:      roundTime,
		ConfirmedRound: tx.ConfirmedRound,
		GroupID:        tx.Group,
		PaymentAmount:  paymentAmount,
	}, true
}
