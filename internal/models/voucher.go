package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is the vouchers table row.
type Voucher struct {
	VoucherID          string          `db:"voucher_id"`
	VoucherNo          string          `db:"voucher_no"`
	Type               string          `db:"voucher_type"`
	FromAccountID      string          `db:"from_account_id"`
	ToAccountID        string          `db:"to_account_id"`
	DebitTransactionID string          `db:"debit_transaction_id"`
	PairID             string          `db:"pair_id"`
	Amount             decimal.Decimal `db:"amount"`
	Channel            string          `db:"channel"`
	VoucherDate        time.Time       `db:"voucher_date"`
	ShiftID            string          `db:"shift_id"`
	Category           string          `db:"category"`
	Description        string          `db:"description"`
	AuditFields
}
