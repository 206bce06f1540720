package services

import (
	"context"
	"time"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// TransferSpec describes one money movement between two accounts. The
// resulting pair carries the Debit leg on the receiving (to) side and the
// Credit leg on the paying (from) side.
type TransferSpec struct {
	Amount        decimal.Decimal
	FromAccountID string
	ToAccountID   string
	Channel       domain.PaymentChannel
	ChannelDetail domain.ChannelDetail
	TxnDate       time.Time
	ActorID       string
}

// LedgerBuilderSvc builds the in-memory effects of ledger mutations. The
// returned pair and balance deltas are persisted by a repository atomic unit;
// nothing here touches storage.
type LedgerBuilderSvc interface {
	// BuildTransfer validates the input (non-negative amount, both accounts
	// exist and are active) and returns the pair (index 0 the Debit leg,
	// index 1 the Credit leg) plus the balance deltas (from: -amount,
	// to: +amount).
	BuildTransfer(ctx context.Context, spec TransferSpec) ([]domain.Transaction, map[string]decimal.Decimal, error)

	// BuildReversal returns the balance deltas that exactly undo a persisted
	// pair. The pair must be structurally valid.
	BuildReversal(ctx context.Context, pair []domain.Transaction) (map[string]decimal.Decimal, error)
}

// LedgerReaderSvc exposes the read-only ledger views consumed by reporting
// collaborators.
type LedgerReaderSvc interface {
	// ListTransactionsByAccount retrieves a page of an account's transactions.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetAccountStatement replays the account's full history into a
	// chronological running-balance series starting from zero.
	GetAccountStatement(ctx context.Context, accountID string) (*dto.AccountStatementResponse, error)
}

// LedgerSvcFacade combines the ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerBuilderSvc
	LedgerReaderSvc
}
