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
	ErrShiftNotFound = errors.New("shift not found")
	ErrShiftInactive = errors.New("shift is inactive")
	ErrNoSales       = errors.New("no sales recorded for this shift and date")
)

// settlementService aggregates a shift-day's raw recordings into a reconciled
// snapshot and seals the (shift, date) key. The unique index on the closure
// table is the serialization point; this layer never tries to out-guess it.
type settlementService struct {
	shiftRepo   portsrepo.ShiftRepositoryFacade
	readingRepo portsrepo.ReadingRepositoryFacade
	ledgerSvc   portssvc.LedgerBuilderSvc
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(shiftRepo portsrepo.ShiftRepositoryFacade, readingRepo portsrepo.ReadingRepositoryFacade, ledgerSvc portssvc.LedgerBuilderSvc) portssvc.SettlementSvcFacade {
	return &settlementService{
		shiftRepo:   shiftRepo,
		readingRepo: readingRepo,
		ledgerSvc:   ledgerSvc,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// normalizeDate truncates a timestamp to its calendar date at midnight UTC.
// Closure keys, reading dates and sale dates all share this normalization.
func normalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// requireOpenShift verifies the shift exists, is active and has no closure for
// the date yet.
func (s *settlementService) requireOpenShift(ctx context.Context, shiftID string, date time.Time) error {
	shift, err := s.shiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: ID %s", ErrShiftNotFound, shiftID)
		}
		return err
	}
	if !shift.IsActive {
		return fmt.Errorf("%w: ID %s", ErrShiftInactive, shiftID)
	}

	_, err = s.shiftRepo.FindClosure(ctx, shiftID, normalizeDate(date))
	if err == nil {
		return fmt.Errorf("%w: shift %s on %s", apperrors.ErrDuplicateClose, shiftID, normalizeDate(date).Format("2006-01-02"))
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return nil
}

// RecordDispenserReadings stores a batch of pump meter records for an open
// (shift, date).
func (s *settlementService) RecordDispenserReadings(ctx context.Context, req dto.RecordReadingsRequest, userID string) ([]domain.DispenserReading, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireOpenShift(ctx, req.ShiftID, req.Date); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := normalizeDate(req.Date)
	readings := make([]domain.DispenserReading, len(req.Readings))
	for i, r := range req.Readings {
		reading := domain.DispenserReading{
			ReadingID:    uuid.NewString(),
			DispenserID:  r.DispenserID,
			ProductID:    r.ProductID,
			ShiftID:      req.ShiftID,
			ReadingDate:  date,
			Rate:         r.Rate,
			StartReading: r.StartReading,
			EndReading:   r.EndReading,
			MeterTest:    r.MeterTest,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		// Reject mis-keyed meters at entry instead of letting them surface as
		// a settlement failure at close time.
		if reading.NetReading().IsNegative() {
			return nil, fmt.Errorf("%w: dispenser %s net reading %s is negative",
				apperrors.ErrValidation, r.DispenserID, reading.NetReading().String())
		}
		if r.Rate.IsNegative() {
			return nil, fmt.Errorf("%w: dispenser %s rate must be non-negative", apperrors.ErrValidation, r.DispenserID)
		}
		readings[i] = reading
	}

	if err := s.readingRepo.SaveDispenserReadings(ctx, readings); err != nil {
		logger.Error("Failed to save dispenser readings", slog.String("shift_id", req.ShiftID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Dispenser readings recorded", slog.String("shift_id", req.ShiftID), slog.Int("count", len(readings)))
	return readings, nil
}

// RecordOtherProductSales stores a batch of non-fuel sales for an open
// (shift, date).
func (s *settlementService) RecordOtherProductSales(ctx context.Context, req dto.RecordOtherSalesRequest, userID string) ([]domain.OtherProductSale, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireOpenShift(ctx, req.ShiftID, req.Date); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := normalizeDate(req.Date)
	sales := make([]domain.OtherProductSale, len(req.Sales))
	for i, sale := range req.Sales {
		if sale.Quantity.IsNegative() || sale.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: product %s quantity and unit price must be non-negative", apperrors.ErrValidation, sale.ProductID)
		}
		sales[i] = domain.OtherProductSale{
			SaleID:    uuid.NewString(),
			ProductID: sale.ProductID,
			ShiftID:   req.ShiftID,
			SaleDate:  date,
			Quantity:  sale.Quantity,
			UnitPrice: sale.UnitPrice,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	if err := s.readingRepo.SaveOtherProductSales(ctx, sales); err != nil {
		logger.Error("Failed to save other product sales", slog.String("shift_id", req.ShiftID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Other product sales recorded", slog.String("shift_id", req.ShiftID), slog.Int("count", len(sales)))
	return sales, nil
}

// AvailableShifts lists the active shifts without a closure for the date.
func (s *settlementService) AvailableShifts(ctx context.Context, date time.Time) ([]domain.Shift, error) {
	shifts, err := s.shiftRepo.ListShifts(ctx, false)
	if err != nil {
		return nil, err
	}

	closures, err := s.shiftRepo.ListClosuresByDate(ctx, normalizeDate(date))
	if err != nil {
		return nil, err
	}

	closed := make(map[string]bool, len(closures))
	for _, c := range closures {
		closed[c.ShiftID] = true
	}

	available := make([]domain.Shift, 0, len(shifts))
	for _, shift := range shifts {
		if !closed[shift.ShiftID] {
			available = append(available, shift)
		}
	}
	return available, nil
}

// allocate loads the shift-day's recordings and runs the aggregation and the
// bank/credit allocation over them.
func (s *settlementService) allocate(ctx context.Context, req dto.SettlementRequest) (accounting.AllocationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	date := normalizeDate(req.Date)

	readings, err := s.readingRepo.ListDispenserReadings(ctx, req.ShiftID, date)
	if err != nil {
		return accounting.AllocationResult{}, err
	}
	otherSales, err := s.readingRepo.ListOtherProductSales(ctx, req.ShiftID, date)
	if err != nil {
		return accounting.AllocationResult{}, err
	}

	totals, err := accounting.AggregateReadings(readings, otherSales)
	if err != nil {
		return accounting.AllocationResult{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	perProductCredit := make(map[string]decimal.Decimal, len(req.PerProductCredit))
	for _, pc := range req.PerProductCredit {
		perProductCredit[pc.ProductID] = perProductCredit[pc.ProductID].Add(pc.Amount)
	}

	result := accounting.Allocate(totals, accounting.AllocationInput{
		CreditSalesTotal: req.CreditSalesTotal,
		BankSalesTotal:   req.BankSalesTotal,
		PerProductCredit: perProductCredit,
	})

	// Negative residual cash is reported as computed; it means the reported
	// credit and bank figures exceed the product's metered sales and the
	// operator has to reconcile that by hand.
	for _, productID := range result.NegativeCash {
		logger.Warn("Negative residual cash in settlement",
			slog.String("shift_id", req.ShiftID),
			slog.String("product_id", productID),
		)
	}

	return result, nil
}

// snapshotFromAllocation assembles the snapshot. TotalDue mirrors the credit
// figure: it is what customers owe for the shift. Cash receipts entered during
// settlement raise the cash in drawer, payments lower it and count as the
// shift's expenses.
func snapshotFromAllocation(result accounting.AllocationResult, vouchers []domain.Voucher) domain.SettlementSnapshot {
	totalCash := result.TotalCash
	totalExpenses := decimal.Zero
	for _, v := range vouchers {
		switch v.Type {
		case domain.Payment:
			totalExpenses = totalExpenses.Add(v.Amount)
			if v.Channel == domain.ChannelCash {
				totalCash = totalCash.Sub(v.Amount)
			}
		case domain.Receipt:
			if v.Channel == domain.ChannelCash {
				totalCash = totalCash.Add(v.Amount)
			}
		}
	}

	return domain.SettlementSnapshot{
		TotalSales:    result.TotalSales,
		TotalCash:     totalCash,
		TotalCredit:   result.TotalCredit,
		TotalBank:     result.TotalBank,
		TotalExpenses: totalExpenses,
		TotalDue:      result.TotalCredit,
		Products:      result.Products,
	}
}

// PreviewSettlement runs the reconciliation without sealing anything.
func (s *settlementService) PreviewSettlement(ctx context.Context, req dto.SettlementRequest) (*dto.SettlementSnapshotResponse, error) {
	if err := s.requireOpenShift(ctx, req.ShiftID, req.Date); err != nil {
		return nil, err
	}

	result, err := s.allocate(ctx, req)
	if err != nil {
		return nil, err
	}

	snapshot := snapshotFromAllocation(result, nil)
	resp := dto.ToSettlementSnapshotResponse(snapshot)
	return &resp, nil
}

// CloseShift seals the (shift, date) key. The closure row, its snapshot, the
// settlement vouchers and all balance effects land in one database
// transaction; a concurrent closer loses on the closure unique index and gets
// the duplicate-close error with nothing applied.
func (s *settlementService) CloseShift(ctx context.Context, req dto.CloseShiftRequest, userID string) (*domain.ShiftClosure, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireOpenShift(ctx, req.ShiftID, req.Date); err != nil {
		return nil, err
	}

	result, err := s.allocate(ctx, req.SettlementRequest)
	if err != nil {
		return nil, err
	}
	if result.TotalSales.IsZero() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNoSales)
	}

	now := time.Now().UTC()
	date := normalizeDate(req.Date)
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	vouchers := make([]domain.Voucher, 0, len(req.Vouchers))
	pairs := make([][]domain.Transaction, 0, len(req.Vouchers))
	balanceChanges := make(map[string]decimal.Decimal)
	for _, vr := range req.Vouchers {
		pair, changes, err := s.ledgerSvc.BuildTransfer(ctx, portssvc.TransferSpec{
			Amount:        vr.Amount,
			FromAccountID: vr.FromAccountID,
			ToAccountID:   vr.ToAccountID,
			Channel:       domain.ChannelCash,
			TxnDate:       date,
			ActorID:       userID,
		})
		if err != nil {
			return nil, fmt.Errorf("settlement voucher %s: %w", vr.VoucherNo, err)
		}

		vouchers = append(vouchers, domain.Voucher{
			VoucherID:          uuid.NewString(),
			VoucherNo:          vr.VoucherNo,
			Type:               vr.Type,
			FromAccountID:      vr.FromAccountID,
			ToAccountID:        vr.ToAccountID,
			DebitTransactionID: pair[0].TransactionID,
			PairID:             pair[0].PairID,
			Amount:             vr.Amount,
			Channel:            domain.ChannelCash,
			VoucherDate:        date,
			ShiftID:            req.ShiftID,
			Category:           vr.Category,
			Description:        vr.Description,
			AuditFields:        audit,
		})
		pairs = append(pairs, pair)
		balanceChanges = mergeBalanceChanges(balanceChanges, changes)
	}

	closure := domain.ShiftClosure{
		ClosureID:   uuid.NewString(),
		ShiftID:     req.ShiftID,
		CloseDate:   date,
		Snapshot:    snapshotFromAllocation(result, vouchers),
		AuditFields: audit,
	}

	if err := s.shiftRepo.SaveClosure(ctx, closure, vouchers, pairs, balanceChanges); err != nil {
		logger.Error("Failed to close shift", slog.String("shift_id", req.ShiftID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Shift closed",
		slog.String("shift_id", req.ShiftID),
		slog.String("close_date", date.Format("2006-01-02")),
		slog.String("total_sales", closure.Snapshot.TotalSales.String()),
		slog.Int("vouchers", len(vouchers)),
	)
	return &closure, nil
}

// GetClosure retrieves the closure for a (shift, date) key.
func (s *settlementService) GetClosure(ctx context.Context, shiftID string, date time.Time) (*domain.ShiftClosure, error) {
	return s.shiftRepo.FindClosure(ctx, shiftID, normalizeDate(date))
}

// ListClosuresByDate retrieves all closures sealed for a calendar date.
func (s *settlementService) ListClosuresByDate(ctx context.Context, date time.Time) ([]domain.ShiftClosure, error) {
	return s.shiftRepo.ListClosuresByDate(ctx, normalizeDate(date))
}
