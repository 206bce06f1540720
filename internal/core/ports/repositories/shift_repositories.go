package repositories

import (
	"context"
	"time"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ShiftReader defines read operations for shift reference data.
type ShiftReader interface {
	FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error)
	ListShifts(ctx context.Context, includeInactive bool) ([]domain.Shift, error)
}

// ShiftWriter defines write operations for shift reference data.
type ShiftWriter interface {
	SaveShift(ctx context.Context, shift domain.Shift) error
	UpdateShift(ctx context.Context, shift domain.Shift) error
	DeactivateShift(ctx context.Context, shiftID string, userID string, now time.Time) error
}

// ClosureReader defines read operations for shift closures.
type ClosureReader interface {
	// FindClosure retrieves the closure for a (shift, date) key, or ErrNotFound.
	FindClosure(ctx context.Context, shiftID string, closeDate time.Time) (*domain.ShiftClosure, error)

	// ListClosuresByDate retrieves all closures sealed for a calendar date.
	ListClosuresByDate(ctx context.Context, closeDate time.Time) ([]domain.ShiftClosure, error)
}

// ClosureWriter seals a shift. SaveClosure persists the closure marker, its
// snapshot, and any settlement vouchers (with their pairs and balance deltas)
// in one database transaction. A unique-key violation on (shift_id,
// close_date) surfaces as the duplicate-close error with nothing applied.
type ClosureWriter interface {
	SaveClosure(ctx context.Context, closure domain.ShiftClosure, vouchers []domain.Voucher, pairs [][]domain.Transaction, balanceChanges map[string]decimal.Decimal) error
}

// ShiftRepositoryFacade combines shift and closure repository interfaces.
type ShiftRepositoryFacade interface {
	ShiftReader
	ShiftWriter
	ClosureReader
	ClosureWriter
}
