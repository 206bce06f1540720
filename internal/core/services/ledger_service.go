package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pumpsoft/station_backend/internal/apperrors"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/pumpsoft/station_backend/internal/middleware"
	"github.com/pumpsoft/station_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrSameAccount       = errors.New("from and to accounts must differ")
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ledgerService builds transfer pairs and serves ledger read views. It owns
// the sign convention: the receiving account carries the Debit leg and gains
// the amount, the paying account carries the Credit leg and loses it.
type ledgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// BuildTransfer validates the transfer and materializes its pair and balance
// deltas. Nothing is persisted here; the caller hands the result to a
// repository atomic unit.
func (s *ledgerService) BuildTransfer(ctx context.Context, spec portssvc.TransferSpec) ([]domain.Transaction, map[string]decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if spec.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNonPositiveAmount, spec.Amount.String())
	}
	if spec.FromAccountID == spec.ToAccountID {
		return nil, nil, ErrSameAccount
	}

	accountIDs := []string{spec.FromAccountID, spec.ToAccountID}
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for transfer", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, nil, fmt.Errorf("%w: ID %s", ErrAccountInactive, id)
		}
	}

	now := time.Now().UTC()
	pairID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     spec.ActorID,
		LastUpdatedAt: now,
		LastUpdatedBy: spec.ActorID,
	}

	debitLeg := domain.Transaction{
		TransactionID: uuid.NewString(),
		PairID:        pairID,
		AccountID:     spec.ToAccountID,
		Amount:        spec.Amount,
		Type:          domain.Debit,
		Channel:       spec.Channel,
		ChannelDetail: spec.ChannelDetail,
		TxnDate:       spec.TxnDate,
		AuditFields:   audit,
	}
	creditLeg := domain.Transaction{
		TransactionID: uuid.NewString(),
		PairID:        pairID,
		AccountID:     spec.FromAccountID,
		Amount:        spec.Amount,
		Type:          domain.Credit,
		Channel:       spec.Channel,
		ChannelDetail: spec.ChannelDetail,
		TxnDate:       spec.TxnDate,
		AuditFields:   audit,
	}

	balanceChanges := map[string]decimal.Decimal{
		spec.FromAccountID: spec.Amount.Neg(),
		spec.ToAccountID:   spec.Amount,
	}

	return []domain.Transaction{debitLeg, creditLeg}, balanceChanges, nil
}

// BuildReversal computes the balance deltas that exactly undo a pair.
func (s *ledgerService) BuildReversal(ctx context.Context, pair []domain.Transaction) (map[string]decimal.Decimal, error) {
	if err := accounting.ValidatePair(pair); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConsistency, err)
	}

	balanceChanges := make(map[string]decimal.Decimal, len(pair))
	for _, leg := range pair {
		signed, err := accounting.SignedAmount(leg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrConsistency, err)
		}
		balanceChanges[leg.AccountID] = balanceChanges[leg.AccountID].Sub(signed)
	}
	return balanceChanges, nil
}

// ListTransactionsByAccount retrieves a page of an account's transactions.
func (s *ledgerService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, params.From, params.To, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// GetAccountStatement replays the account's full ordered history into a
// running-balance series starting from zero.
func (s *ledgerService) GetAccountStatement(ctx context.Context, accountID string) (*dto.AccountStatementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListAllTransactionsByAccount(ctx, accountID)
	if err != nil {
		logger.Error("Failed to load transaction history", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}

	entries, err := accounting.ComputeRunningBalances(txns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConsistency, err)
	}

	// The replayed closing balance must match the cached account balance; a
	// mismatch means a balance mutation escaped its transaction pair.
	if len(entries) > 0 && !entries[len(entries)-1].Balance.Equal(account.Balance) {
		logger.Error("Replayed balance diverges from cached balance",
			slog.String("account_id", accountID),
			slog.String("replayed", entries[len(entries)-1].Balance.String()),
			slog.String("cached", account.Balance.String()),
		)
	}

	resp := dto.ToAccountStatementResponse(accountID, entries)
	return &resp, nil
}
