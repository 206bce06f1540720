package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pumpsoft/station_backend/internal/apperrors"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/core/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionsByPairID(ctx context.Context, pairID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, pairID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, from, to, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) ListAllTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) AppendPairInTx(ctx context.Context, tx pgx.Tx, legs []domain.Transaction) ([]domain.Transaction, error) {
	args := m.Called(ctx, tx, legs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeletePairInTx(ctx context.Context, tx pgx.Tx, pairID string) error {
	args := m.Called(ctx, tx, pairID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	service         portssvc.LedgerSvcFacade
	cashAccount     domain.Account
	bankAccount     domain.Account
	userID          string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.service = services.NewLedgerService(suite.mockAccountRepo, suite.mockTxnRepo)

	suite.userID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: "1001",
		Name:          "Cash in Drawer",
		GroupCode:     "CASH",
		IsActive:      true,
	}
	suite.bankAccount = domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: "1201",
		Name:          "Station Bank",
		GroupCode:     "BANK",
		IsActive:      true,
	}
}

func (suite *LedgerServiceTestSuite) transferSpec(amount decimal.Decimal) portssvc.TransferSpec {
	return portssvc.TransferSpec{
		Amount:        amount,
		FromAccountID: suite.cashAccount.AccountID,
		ToAccountID:   suite.bankAccount.AccountID,
		Channel:       domain.ChannelCash,
		TxnDate:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ActorID:       suite.userID,
	}
}

// --- BuildTransfer ---

func (suite *LedgerServiceTestSuite) TestBuildTransfer_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(250)

	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		suite.bankAccount.AccountID: suite.bankAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccount.AccountID, suite.bankAccount.AccountID}).Return(accountsMap, nil).Once()

	pair, balanceChanges, err := suite.service.BuildTransfer(ctx, suite.transferSpec(amount))

	suite.Require().NoError(err)
	suite.Require().Len(pair, 2)

	// Debit leg sits on the receiving account, credit on the paying one.
	suite.Equal(domain.Debit, pair[0].Type)
	suite.Equal(suite.bankAccount.AccountID, pair[0].AccountID)
	suite.Equal(domain.Credit, pair[1].Type)
	suite.Equal(suite.cashAccount.AccountID, pair[1].AccountID)

	suite.Equal(pair[0].PairID, pair[1].PairID)
	suite.NotEmpty(pair[0].PairID)
	suite.True(pair[0].IsPairOf(pair[1]))
	suite.True(pair[0].Amount.Equal(amount))
	suite.Equal(suite.userID, pair[0].CreatedBy)

	suite.True(balanceChanges[suite.cashAccount.AccountID].Equal(amount.Neg()))
	suite.True(balanceChanges[suite.bankAccount.AccountID].Equal(amount))

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestBuildTransfer_NonPositiveAmount() {
	ctx := context.Background()

	_, _, err := suite.service.BuildTransfer(ctx, suite.transferSpec(decimal.Zero))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestBuildTransfer_SameAccount() {
	ctx := context.Background()
	spec := suite.transferSpec(decimal.NewFromInt(10))
	spec.ToAccountID = spec.FromAccountID

	_, _, err := suite.service.BuildTransfer(ctx, spec)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSameAccount)
}

func (suite *LedgerServiceTestSuite) TestBuildTransfer_AccountNotFound() {
	ctx := context.Background()
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		// bank account is missing
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsMap, nil).Once()

	_, _, err := suite.service.BuildTransfer(ctx, suite.transferSpec(decimal.NewFromInt(10)))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestBuildTransfer_AccountInactive() {
	ctx := context.Background()
	inactive := suite.bankAccount
	inactive.IsActive = false
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		inactive.AccountID:          inactive,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsMap, nil).Once()

	_, _, err := suite.service.BuildTransfer(ctx, suite.transferSpec(decimal.NewFromInt(10)))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
}

func (suite *LedgerServiceTestSuite) TestBuildTransfer_RepoError() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(nil, assert.AnError).Once()

	_, _, err := suite.service.BuildTransfer(ctx, suite.transferSpec(decimal.NewFromInt(10)))

	suite.Require().Error(err)
	suite.Contains(err.Error(), assert.AnError.Error())
}

// --- BuildReversal ---

func (suite *LedgerServiceTestSuite) makePair(amount decimal.Decimal) []domain.Transaction {
	pairID := uuid.NewString()
	return []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			PairID:        pairID,
			AccountID:     suite.bankAccount.AccountID,
			Amount:        amount,
			Type:          domain.Debit,
		},
		{
			TransactionID: uuid.NewString(),
			PairID:        pairID,
			AccountID:     suite.cashAccount.AccountID,
			Amount:        amount,
			Type:          domain.Credit,
		},
	}
}

func (suite *LedgerServiceTestSuite) TestBuildReversal_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(75)
	pair := suite.makePair(amount)

	changes, err := suite.service.BuildReversal(ctx, pair)

	suite.Require().NoError(err)
	// Undo the original effect: the debited account loses, the credited gains.
	suite.True(changes[suite.bankAccount.AccountID].Equal(amount.Neg()))
	suite.True(changes[suite.cashAccount.AccountID].Equal(amount))
}

func (suite *LedgerServiceTestSuite) TestBuildReversal_IncompletePair() {
	ctx := context.Background()
	pair := suite.makePair(decimal.NewFromInt(75))[:1]

	_, err := suite.service.BuildReversal(ctx, pair)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConsistency)
}

func (suite *LedgerServiceTestSuite) TestBuildReversal_MismatchedLegs() {
	ctx := context.Background()
	pair := suite.makePair(decimal.NewFromInt(75))
	pair[1].Type = domain.Debit // Both legs debit

	_, err := suite.service.BuildReversal(ctx, pair)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConsistency)
}

// --- Reads ---

func (suite *LedgerServiceTestSuite) TestListTransactionsByAccount_ClampsLimit() {
	ctx := context.Background()
	accountID := suite.cashAccount.AccountID

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&suite.cashAccount, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByAccount", ctx, accountID, (*time.Time)(nil), (*time.Time)(nil), 100, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactionsByAccount(ctx, accountID, dto.ListTransactionsParams{Limit: 5000})

	suite.Require().NoError(err)
	suite.Empty(resp.Transactions)
	suite.Nil(resp.NextToken)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestListTransactionsByAccount_AccountMissing() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListTransactionsByAccount(ctx, accountID, dto.ListTransactionsParams{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestGetAccountStatement_ReplaysFromZero() {
	ctx := context.Background()
	accountID := suite.bankAccount.AccountID

	account := suite.bankAccount
	account.Balance = decimal.NewFromInt(60)

	history := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountID: accountID, Amount: decimal.NewFromInt(100), Type: domain.Debit, Sequence: 1},
		{TransactionID: uuid.NewString(), AccountID: accountID, Amount: decimal.NewFromInt(40), Type: domain.Credit, Sequence: 2},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()
	suite.mockTxnRepo.On("ListAllTransactionsByAccount", ctx, accountID).Return(history, nil).Once()

	resp, err := suite.service.GetAccountStatement(ctx, accountID)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 2)
	suite.True(resp.Entries[0].RunningBalance.Equal(decimal.NewFromInt(100)))
	suite.True(resp.Entries[1].RunningBalance.Equal(decimal.NewFromInt(60)))
	suite.True(resp.ClosingBalance.Equal(account.Balance))
}

func (suite *LedgerServiceTestSuite) TestGetAccountStatement_EmptyHistory() {
	ctx := context.Background()
	accountID := suite.bankAccount.AccountID

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&suite.bankAccount, nil).Once()
	suite.mockTxnRepo.On("ListAllTransactionsByAccount", ctx, accountID).Return([]domain.Transaction{}, nil).Once()

	resp, err := suite.service.GetAccountStatement(ctx, accountID)

	suite.Require().NoError(err)
	suite.Empty(resp.Entries)
	suite.True(resp.ClosingBalance.IsZero())
}

// --- Run Test Suite ---
func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
