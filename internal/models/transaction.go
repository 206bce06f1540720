package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the transactions table row. ChannelDetail is stored as a
// jsonb column; Sequence is a BIGSERIAL assigned by the database.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	PairID        string          `db:"pair_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"`
	Type          string          `db:"transaction_type"`
	Channel       string          `db:"channel"`
	ChannelDetail []byte          `db:"channel_detail"`
	TxnDate       time.Time       `db:"txn_date"`
	Sequence      int64           `db:"sequence"`
	AuditFields
}
