package services

import (
	"context"
	"time"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/dto"
)

// ReadingRecorderSvc records raw shift-day data. Both methods reject writes
// for a (shift, date) that already has a closure.
type ReadingRecorderSvc interface {
	RecordDispenserReadings(ctx context.Context, req dto.RecordReadingsRequest, userID string) ([]domain.DispenserReading, error)
	RecordOtherProductSales(ctx context.Context, req dto.RecordOtherSalesRequest, userID string) ([]domain.OtherProductSale, error)
}

// SettlementSvc turns recorded readings into a reconciled snapshot and seals
// shifts.
type SettlementSvc interface {
	// AvailableShifts lists the active shifts not yet closed for the date.
	AvailableShifts(ctx context.Context, date time.Time) ([]domain.Shift, error)

	// PreviewSettlement aggregates and allocates without sealing anything.
	PreviewSettlement(ctx context.Context, req dto.SettlementRequest) (*dto.SettlementSnapshotResponse, error)

	// CloseShift seals the (shift, date): validates non-zero sales, builds the
	// snapshot and persists it atomically with any settlement vouchers. A
	// concurrent or repeated close fails with the duplicate-close error.
	CloseShift(ctx context.Context, req dto.CloseShiftRequest, userID string) (*domain.ShiftClosure, error)

	GetClosure(ctx context.Context, shiftID string, date time.Time) (*domain.ShiftClosure, error)
	ListClosuresByDate(ctx context.Context, date time.Time) ([]domain.ShiftClosure, error)
}

// SettlementSvcFacade combines the settlement service interfaces.
type SettlementSvcFacade interface {
	ReadingRecorderSvc
	SettlementSvc
}
