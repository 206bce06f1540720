package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType distinguishes money leaving the station (Payment) from money
// coming in (Receipt).
type VoucherType string

const (
	Payment VoucherType = "PAYMENT"
	Receipt VoucherType = "RECEIPT"
)

// Voucher wraps exactly one transaction pair with business metadata. It
// references the Debit leg of its pair; the Credit leg is recovered through
// the shared pair id.
type Voucher struct {
	VoucherID          string          `json:"voucherID"` // Primary key (UUID)
	VoucherNo          string          `json:"voucherNo"` // User-facing unique number
	Type               VoucherType     `json:"type"`
	FromAccountID      string          `json:"fromAccountID"` // Paying side (Credit leg)
	ToAccountID        string          `json:"toAccountID"`   // Receiving side (Debit leg)
	DebitTransactionID string          `json:"debitTransactionID"`
	PairID             string          `json:"pairID"`
	Amount             decimal.Decimal `json:"amount"` // Denormalized from the pair for listings
	Channel            PaymentChannel  `json:"channel"`
	VoucherDate        time.Time       `json:"voucherDate"`
	ShiftID            string          `json:"shiftID"` // Owning shift, empty outside settlement
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	AuditFields
}
