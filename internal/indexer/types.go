package indexer

// Transaction is an indexer transaction record. Only the fields the
// reconciler consumes are decoded; application args stay base64-encoded as
// the indexer delivers them.
type Transaction struct {
	ID                     string                  `json:"id"`
	Sender                 string                  `json:"sender"`
	ConfirmedRound         uint64                  `json:"confirmed-round"`
	RoundTime              uint64                  `json:"round-time"`
	Group                  string                  `json:"group,omitempty"`
	ApplicationTransaction *ApplicationTransaction `json:"application-transaction,omitempty"`
	PaymentTransaction     *PaymentTransaction     `json:"payment-transaction,omitempty"`
	InnerTxns              []Transaction           `json:"inner-txns,omitempty"`
}

// ApplicationTransaction holds the application-call portion of a transaction.
type ApplicationTransaction struct {
	ApplicationID   uint64   `json:"application-id"`
	ApplicationArgs []string `json:"application-args"`
}

// PaymentTransaction holds the payment portion of a transaction.
type PaymentTransaction struct {
	Amount   uint64 `json:"amount"`
	Receiver string `json:"receiver"`
}

type searchResponse struct {
	CurrentRound uint64        `json:"current-round"`
	NextToken    string        `json:"next-token,omitempty"`
	Transactions []Transaction `json:"transactions"`
}
