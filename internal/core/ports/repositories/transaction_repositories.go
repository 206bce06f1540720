package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pumpsoft/station_backend/internal/core/domain"
)

// TransactionReader defines read operations over the append-only transaction
// store. All orderings are (txn_date, sequence) ascending.
type TransactionReader interface {
	// FindTransactionsByPairID retrieves both legs of a pair. Callers treat
	// anything other than exactly two legs as a consistency violation.
	FindTransactionsByPairID(ctx context.Context, pairID string) ([]domain.Transaction, error)

	// ListTransactionsByAccount retrieves a page of an account's transactions
	// within the optional date range, with a cursor token for the next page.
	ListTransactionsByAccount(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListAllTransactionsByAccount retrieves an account's full ordered history.
	// Used for balance replay; reporting collaborators should prefer the
	// paginated variant.
	ListAllTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// TransactionWriter defines the pair-wide mutations. Legs are never written
// or removed individually; both methods must be called inside the caller's
// open database transaction.
type TransactionWriter interface {
	// AppendPairInTx inserts both legs of a pair and returns them with their
	// database-assigned sequence numbers.
	AppendPairInTx(ctx context.Context, tx pgx.Tx, legs []domain.Transaction) ([]domain.Transaction, error)

	// DeletePairInTx removes both legs of a pair. Returns a consistency error
	// if fewer than two rows were deleted.
	DeletePairInTx(ctx context.Context, tx pgx.Tx, pairID string) error
}

// TransactionRepositoryFacade combines the transaction store interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
