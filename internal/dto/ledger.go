package dto

import (
	"time"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ListTransactionsParams holds filters for listing an account's transactions.
type ListTransactionsParams struct {
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// TransactionResponse defines the data returned for one transaction leg.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	PairID        string          `json:"pairID"`
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Channel       string          `json:"channel"`
	TxnDate       time.Time       `json:"txnDate"`
	Sequence      int64           `json:"sequence"`
}

// ListTransactionsResponse is a page of transactions plus the next cursor.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// StatementEntryResponse is one line of an account statement: a transaction
// and the running balance after it.
type StatementEntryResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	RunningBalance decimal.Decimal     `json:"runningBalance"`
}

// AccountStatementResponse is the full replayed statement of an account.
type AccountStatementResponse struct {
	AccountID      string                   `json:"accountID"`
	Entries        []StatementEntryResponse `json:"entries"`
	ClosingBalance decimal.Decimal          `json:"closingBalance"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		PairID:        txn.PairID,
		AccountID:     txn.AccountID,
		Amount:        txn.Amount,
		Type:          string(txn.Type),
		Channel:       string(txn.Channel),
		TxnDate:       txn.TxnDate,
		Sequence:      txn.Sequence,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToAccountStatementResponse converts replayed running-balance entries into
// the statement DTO.
func ToAccountStatementResponse(accountID string, entries []accounting.RunningBalanceEntry) AccountStatementResponse {
	resp := AccountStatementResponse{
		AccountID:      accountID,
		Entries:        make([]StatementEntryResponse, len(entries)),
		ClosingBalance: decimal.Zero,
	}
	for i := range entries {
		resp.Entries[i] = StatementEntryResponse{
			Transaction:    ToTransactionResponse(&entries[i].Transaction),
			RunningBalance: entries[i].Balance,
		}
	}
	if len(entries) > 0 {
		resp.ClosingBalance = entries[len(entries)-1].Balance
	}
	return resp
}
