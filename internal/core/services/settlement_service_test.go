package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pumpsoft/station_backend/internal/apperrors"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/core/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ShiftRepository ---
type MockShiftRepository struct {
	mock.Mock
}

var _ portsrepo.ShiftRepositoryFacade = (*MockShiftRepository)(nil)

func (m *MockShiftRepository) FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	args := m.Called(ctx, shiftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

func (m *MockShiftRepository) ListShifts(ctx context.Context, includeInactive bool) ([]domain.Shift, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shift), args.Error(1)
}

func (m *MockShiftRepository) SaveShift(ctx context.Context, shift domain.Shift) error {
	args := m.Called(ctx, shift)
	return args.Error(0)
}

func (m *MockShiftRepository) UpdateShift(ctx context.Context, shift domain.Shift) error {
	args := m.Called(ctx, shift)
	return args.Error(0)
}

func (m *MockShiftRepository) DeactivateShift(ctx context.Context, shiftID string, userID string, now time.Time) error {
	args := m.Called(ctx, shiftID, userID, now)
	return args.Error(0)
}

func (m *MockShiftRepository) FindClosure(ctx context.Context, shiftID string, closeDate time.Time) (*domain.ShiftClosure, error) {
	args := m.Called(ctx, shiftID, closeDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftClosure), args.Error(1)
}

func (m *MockShiftRepository) ListClosuresByDate(ctx context.Context, closeDate time.Time) ([]domain.ShiftClosure, error) {
	args := m.Called(ctx, closeDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShiftClosure), args.Error(1)
}

func (m *MockShiftRepository) SaveClosure(ctx context.Context, closure domain.ShiftClosure, vouchers []domain.Voucher, pairs [][]domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, closure, vouchers, pairs, balanceChanges)
	return args.Error(0)
}

// --- Mock ReadingRepository ---
type MockReadingRepository struct {
	mock.Mock
}

var _ portsrepo.ReadingRepositoryFacade = (*MockReadingRepository)(nil)

func (m *MockReadingRepository) ListDispenserReadings(ctx context.Context, shiftID string, date time.Time) ([]domain.DispenserReading, error) {
	args := m.Called(ctx, shiftID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DispenserReading), args.Error(1)
}

func (m *MockReadingRepository) ListOtherProductSales(ctx context.Context, shiftID string, date time.Time) ([]domain.OtherProductSale, error) {
	args := m.Called(ctx, shiftID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OtherProductSale), args.Error(1)
}

func (m *MockReadingRepository) SaveDispenserReadings(ctx context.Context, readings []domain.DispenserReading) error {
	args := m.Called(ctx, readings)
	return args.Error(0)
}

func (m *MockReadingRepository) SaveOtherProductSales(ctx context.Context, sales []domain.OtherProductSale) error {
	args := m.Called(ctx, sales)
	return args.Error(0)
}

// --- Test Suite Setup ---
type SettlementServiceTestSuite struct {
	suite.Suite
	mockShiftRepo   *MockShiftRepository
	mockReadingRepo *MockReadingRepository
	mockLedger      *MockLedgerBuilder
	service         portssvc.SettlementSvcFacade
	shift           domain.Shift
	date            time.Time
	userID          string
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockShiftRepo = new(MockShiftRepository)
	suite.mockReadingRepo = new(MockReadingRepository)
	suite.mockLedger = new(MockLedgerBuilder)
	suite.service = services.NewSettlementService(suite.mockShiftRepo, suite.mockReadingRepo, suite.mockLedger)

	suite.userID = uuid.NewString()
	suite.shift = domain.Shift{
		ShiftID:  uuid.NewString(),
		Name:     "Morning",
		IsActive: true,
	}
	suite.date = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
}

func (suite *SettlementServiceTestSuite) expectOpenShift(ctx context.Context) {
	suite.mockShiftRepo.On("FindShiftByID", ctx, suite.shift.ShiftID).Return(&suite.shift, nil).Once()
	suite.mockShiftRepo.On("FindClosure", ctx, suite.shift.ShiftID, suite.date).Return(nil, apperrors.ErrNotFound).Once()
}

func (suite *SettlementServiceTestSuite) expectClosedShift(ctx context.Context) {
	suite.mockShiftRepo.On("FindShiftByID", ctx, suite.shift.ShiftID).Return(&suite.shift, nil).Once()
	suite.mockShiftRepo.On("FindClosure", ctx, suite.shift.ShiftID, suite.date).
		Return(&domain.ShiftClosure{ClosureID: uuid.NewString(), ShiftID: suite.shift.ShiftID, CloseDate: suite.date}, nil).Once()
}

// petrolReadings is one pump: net 100 litres at rate 5 for a 500 sale.
func (suite *SettlementServiceTestSuite) petrolReadings() []domain.DispenserReading {
	return []domain.DispenserReading{
		{
			ReadingID:    uuid.NewString(),
			DispenserID:  "D-01",
			ProductID:    "PETROL",
			ShiftID:      suite.shift.ShiftID,
			ReadingDate:  suite.date,
			Rate:         decimal.NewFromInt(5),
			StartReading: decimal.NewFromInt(1000),
			EndReading:   decimal.NewFromInt(1110),
			MeterTest:    decimal.NewFromInt(10),
		},
	}
}

// --- Recording ---

func (suite *SettlementServiceTestSuite) TestRecordDispenserReadings_Success() {
	ctx := context.Background()
	suite.expectOpenShift(ctx)
	suite.mockReadingRepo.On("SaveDispenserReadings", ctx, mock.AnythingOfType("[]domain.DispenserReading")).Return(nil).Once()

	req := dto.RecordReadingsRequest{
		ShiftID: suite.shift.ShiftID,
		Date:    suite.date.Add(9 * time.Hour), // Mid-shift timestamp normalizes to the date
		Readings: []dto.DispenserReadingRequest{
			{DispenserID: "D-01", ProductID: "PETROL", Rate: decimal.NewFromInt(5), StartReading: decimal.NewFromInt(1000), EndReading: decimal.NewFromInt(1110), MeterTest: decimal.NewFromInt(10)},
		},
	}

	readings, err := suite.service.RecordDispenserReadings(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(readings, 1)
	suite.NotEmpty(readings[0].ReadingID)
	suite.Equal(suite.date, readings[0].ReadingDate)
	suite.Equal(suite.userID, readings[0].CreatedBy)
	suite.mockReadingRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestRecordDispenserReadings_NegativeNet() {
	ctx := context.Background()
	suite.expectOpenShift(ctx)

	req := dto.RecordReadingsRequest{
		ShiftID: suite.shift.ShiftID,
		Date:    suite.date,
		Readings: []dto.DispenserReadingRequest{
			// End below start: a rolled-back or mis-keyed meter.
			{DispenserID: "D-01", ProductID: "PETROL", Rate: decimal.NewFromInt(5), StartReading: decimal.NewFromInt(1110), EndReading: decimal.NewFromInt(1000)},
		},
	}

	_, err := suite.service.RecordDispenserReadings(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReadingRepo.AssertNotCalled(suite.T(), "SaveDispenserReadings", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestRecordDispenserReadings_AfterClose() {
	ctx := context.Background()
	suite.expectClosedShift(ctx)

	req := dto.RecordReadingsRequest{
		ShiftID: suite.shift.ShiftID,
		Date:    suite.date,
		Readings: []dto.DispenserReadingRequest{
			{DispenserID: "D-01", ProductID: "PETROL", Rate: decimal.NewFromInt(5), EndReading: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.RecordDispenserReadings(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicateClose)
	suite.mockReadingRepo.AssertNotCalled(suite.T(), "SaveDispenserReadings", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestRecordOtherProductSales_Success() {
	ctx := context.Background()
	suite.expectOpenShift(ctx)
	suite.mockReadingRepo.On("SaveOtherProductSales", ctx, mock.AnythingOfType("[]domain.OtherProductSale")).Return(nil).Once()

	req := dto.RecordOtherSalesRequest{
		ShiftID: suite.shift.ShiftID,
		Date:    suite.date,
		Sales: []dto.OtherProductSaleRequest{
			{ProductID: "LUBRICANT", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(25)},
		},
	}

	sales, err := suite.service.RecordOtherProductSales(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(sales, 1)
	suite.Equal("LUBRICANT", sales[0].ProductID)
	suite.mockReadingRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestRecordOtherProductSales_ShiftMissing() {
	ctx := context.Background()
	suite.mockShiftRepo.On("FindShiftByID", ctx, suite.shift.ShiftID).Return(nil, apperrors.ErrNotFound).Once()

	req := dto.RecordOtherSalesRequest{
		ShiftID: suite.shift.ShiftID,
		Date:    suite.date,
		Sales:   []dto.OtherProductSaleRequest{{ProductID: "LUBRICANT", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
	}

	_, err := suite.service.RecordOtherProductSales(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrShiftNotFound)
}

// --- AvailableShifts ---

func (suite *SettlementServiceTestSuite) TestAvailableShifts_ExcludesClosed() {
	ctx := context.Background()
	evening := domain.Shift{ShiftID: uuid.NewString(), Name: "Evening", IsActive: true}

	suite.mockShiftRepo.On("ListShifts", ctx, false).Return([]domain.Shift{suite.shift, evening}, nil).Once()
	suite.mockShiftRepo.On("ListClosuresByDate", ctx, suite.date).
		Return([]domain.ShiftClosure{{ClosureID: uuid.NewString(), ShiftID: suite.shift.ShiftID, CloseDate: suite.date}}, nil).Once()

	shifts, err := suite.service.AvailableShifts(ctx, suite.date)

	suite.Require().NoError(err)
	suite.Require().Len(shifts, 1)
	suite.Equal(evening.ShiftID, shifts[0].ShiftID)
}

// --- Preview ---

func (suite *SettlementServiceTestSuite) TestPreviewSettlement_AllocatesResidualCash() {
	ctx := context.Background()
	suite.expectOpenShift(ctx)
	suite.mockReadingRepo.On("ListDispenserReadings", ctx, suite.shift.ShiftID, suite.date).Return(suite.petrolReadings(), nil).Once()
	suite.mockReadingRepo.On("ListOtherProductSales", ctx, suite.shift.ShiftID, suite.date).Return([]domain.OtherProductSale{}, nil).Once()

	req := dto.SettlementRequest{
		ShiftID:          suite.shift.ShiftID,
		Date:             suite.date,
		CreditSalesTotal: decimal.NewFromInt(100),
		BankSalesTotal:   decimal.NewFromInt(150),
	}

	snapshot, err := suite.service.PreviewSettlement(ctx, req)

	suite.Require().NoError(err)
	suite.True(snapshot.TotalSales.Equal(decimal.NewFromInt(500)))
	suite.True(snapshot.TotalCredit.Equal(decimal.NewFromInt(100)))
	suite.True(snapshot.TotalBank.Equal(decimal.NewFromInt(150)))
	suite.True(snapshot.TotalCash.Equal(decimal.NewFromInt(250)))
	suite.True(snapshot.TotalDue.Equal(decimal.NewFromInt(100)))
	suite.True(snapshot.TotalExpenses.IsZero())
	suite.Require().Len(snapshot.Products, 1)
	suite.Equal("PETROL", snapshot.Products[0].ProductID)
	suite.True(snapshot.Products[0].NetQuantity.Equal(decimal.NewFromInt(100)))
}

func (suite *SettlementServiceTestSuite) TestPreviewSettlement_AlreadyClosed() {
	ctx := context.Background()
	suite.expectClosedShift(ctx)

	_, err := suite.service.PreviewSettlement(ctx, dto.SettlementRequest{ShiftID: suite.shift.ShiftID, Date: suite.date})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicateClose)
}

// --- CloseShift ---

func (suite *SettlementServiceTestSuite) TestCloseShift_Success() {
	ctx := context.Background()
	suite.expectOpenShift(ctx)
	suite.mockReadingRepo.On("ListDispenserReadings", ctx, suite.shift.ShiftID, suite.date).Return(suite.petrolReadings(), nil).Once()
	suite.mockReadingRepo.On("ListOtherProductSales", ctx, suite.shift.ShiftID, suite.date).Return([]domain.OtherProductSale{}, nil).Once()

	expenseAccountID := uuid.NewString()
	cashAccountID := uuid.NewString()
	voucherAmount := decimal.NewFromInt(50)
	pair := buildPair(cashAccountID, expenseAccountID, voucherAmount)
	changes := map[string]decimal.Decimal{
		cashAccountID:    voucherAmount.Neg(),
		expenseAccountID: voucherAmount,
	}
	suite.mockLedger.On("BuildTransfer", ctx, mock.MatchedBy(func(spec portssvc.TransferSpec) bool {
		return spec.Amount.Equal(voucherAmount) && spec.Channel == domain.ChannelCash && spec.TxnDate.Equal(suite.date)
	})).Return(pair, changes, nil).Once()

	var savedClosure domain.ShiftClosure
	suite.mockShiftRepo.On("SaveClosure", ctx, mock.AnythingOfType("domain.ShiftClosure"), mock.AnythingOfType("[]domain.Voucher"), mock.AnythingOfType("[][]domain.Transaction"), mock.MatchedBy(func(bc map[string]decimal.Decimal) bool {
		return bc[cashAccountID].Equal(voucherAmount.Neg()) && bc[expenseAccountID].Equal(voucherAmount)
	})).Run(func(args mock.Arguments) {
		savedClosure = args.Get(1).(domain.ShiftClosure)
	}).Return(nil).Once()

	req := dto.CloseShiftRequest{
		SettlementRequest: dto.SettlementRequest{
			ShiftID:          suite.shift.ShiftID,
			Date:             suite.date,
			CreditSalesTotal: decimal.NewFromInt(100),
			BankSalesTotal:   decimal.NewFromInt(150),
		},
		Vouchers: []dto.SettlementVoucherRequest{
			{VoucherNo: "SPV-001", Type: domain.Payment, FromAccountID: cashAccountID, ToAccountID: expenseAccountID, Amount: voucherAmount, Category: "WAGES"},
		},
	}

	closure, err := suite.service.CloseShift(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(closure)
	suite.Equal(suite.shift.ShiftID, closure.ShiftID)
	suite.Equal(suite.date, closure.CloseDate)

	// The cash payment lowers the drawer and counts as the shift's expenses.
	suite.True(closure.Snapshot.TotalSales.Equal(decimal.NewFromInt(500)))
	suite.True(closure.Snapshot.TotalCash.Equal(decimal.NewFromInt(200)))
	suite.True(closure.Snapshot.TotalExpenses.Equal(voucherAmount))
	suite.True(savedClosure.Snapshot.TotalCash.Equal(decimal.NewFromInt(200)))

	suite.mockShiftRepo.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCloseShift_ZeroSales() {
	ctx := context.Background()
	suite.expectOpenShift(ctx)
	suite.mockReadingRepo.On("ListDispenserReadings", ctx, suite.shift.ShiftID, suite.date).Return([]domain.DispenserReading{}, nil).Once()
	suite.mockReadingRepo.On("ListOtherProductSales", ctx, suite.shift.ShiftID, suite.date).Return([]domain.OtherProductSale{}, nil).Once()

	req := dto.CloseShiftRequest{
		SettlementRequest: dto.SettlementRequest{ShiftID: suite.shift.ShiftID, Date: suite.date},
	}

	_, err := suite.service.CloseShift(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockShiftRepo.AssertNotCalled(suite.T(), "SaveClosure", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCloseShift_AlreadyClosed() {
	ctx := context.Background()
	suite.expectClosedShift(ctx)

	req := dto.CloseShiftRequest{
		SettlementRequest: dto.SettlementRequest{ShiftID: suite.shift.ShiftID, Date: suite.date},
	}

	_, err := suite.service.CloseShift(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicateClose)
	suite.mockReadingRepo.AssertNotCalled(suite.T(), "ListDispenserReadings", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCloseShift_InactiveShift() {
	ctx := context.Background()
	inactive := suite.shift
	inactive.IsActive = false
	suite.mockShiftRepo.On("FindShiftByID", ctx, suite.shift.ShiftID).Return(&inactive, nil).Once()

	req := dto.CloseShiftRequest{
		SettlementRequest: dto.SettlementRequest{ShiftID: suite.shift.ShiftID, Date: suite.date},
	}

	_, err := suite.service.CloseShift(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrShiftInactive)
}

// --- Lookups ---

func (suite *SettlementServiceTestSuite) TestGetClosure_NormalizesDate() {
	ctx := context.Background()
	closure := &domain.ShiftClosure{ClosureID: uuid.NewString(), ShiftID: suite.shift.ShiftID, CloseDate: suite.date}

	// Mid-day timestamp must be truncated to the closure key's midnight UTC.
	suite.mockShiftRepo.On("FindClosure", ctx, suite.shift.ShiftID, suite.date).Return(closure, nil).Once()

	got, err := suite.service.GetClosure(ctx, suite.shift.ShiftID, suite.date.Add(14*time.Hour))

	suite.Require().NoError(err)
	suite.Equal(closure.ClosureID, got.ClosureID)
	suite.mockShiftRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestSettlementService(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
