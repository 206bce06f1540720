package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction leg is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// PaymentChannel identifies how money physically moved.
type PaymentChannel string

const (
	ChannelCash       PaymentChannel = "CASH"
	ChannelBank       PaymentChannel = "BANK"
	ChannelMobileBank PaymentChannel = "MOBILE_BANK"
	ChannelCheque     PaymentChannel = "CHEQUE"
)

// ChannelDetail carries channel-specific metadata. Only the fields relevant
// to the channel are populated (bank name for BANK/CHEQUE, cheque number for
// CHEQUE, provider and reference for MOBILE_BANK).
type ChannelDetail struct {
	BankName     string `json:"bankName,omitempty"`
	ChequeNumber string `json:"chequeNumber,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Reference    string `json:"reference,omitempty"`
}

// Transaction is one immutable leg of a transaction pair. Legs are created
// and deleted only pair-wide; the two legs of a pair carry equal amounts and
// opposite types and share PairID.
//
// Sequence is a monotonic counter assigned by the database at insert time and
// is the definitive tie-break when two legs share the same TxnDate.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary key (UUID)
	PairID        string          `json:"pairID"`        // Shared by both legs of the pair
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"` // Always non-negative
	Type          TransactionType `json:"type"`
	Channel       PaymentChannel  `json:"channel"`
	ChannelDetail ChannelDetail   `json:"channelDetail"`
	TxnDate       time.Time       `json:"txnDate"`
	Sequence      int64           `json:"sequence"`
	AuditFields
}

// IsPairOf reports whether t and other form a well-formed pair: same pair id,
// equal amounts, opposite types.
func (t Transaction) IsPairOf(other Transaction) bool {
	if t.PairID != other.PairID {
		return false
	}
	if !t.Amount.Equal(other.Amount) {
		return false
	}
	return t.Type != other.Type
}
