package repositories

import (
	"context"
	"time"

	"github.com/pumpsoft/station_backend/internal/core/domain"
)

// ReadingReader defines read operations for raw shift-day recordings.
type ReadingReader interface {
	ListDispenserReadings(ctx context.Context, shiftID string, date time.Time) ([]domain.DispenserReading, error)
	ListOtherProductSales(ctx context.Context, shiftID string, date time.Time) ([]domain.OtherProductSale, error)
}

// ReadingWriter defines write operations for raw shift-day recordings.
// Immutability after closure is enforced by the settlement service, which
// checks the closure registry before saving.
type ReadingWriter interface {
	SaveDispenserReadings(ctx context.Context, readings []domain.DispenserReading) error
	SaveOtherProductSales(ctx context.Context, sales []domain.OtherProductSale) error
}

// ReadingRepositoryFacade combines the reading repository interfaces.
type ReadingRepositoryFacade interface {
	ReadingReader
	ReadingWriter
}
