package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	"github.com/pumpsoft/station_backend/internal/models"
	"github.com/pumpsoft/station_backend/internal/utils/mapping"
)

const readingColumns = `reading_id, dispenser_id, product_id, shift_id, reading_date, rate, start_reading, end_reading, meter_test, created_at, created_by, last_updated_at, last_updated_by`

const otherSaleColumns = `sale_id, product_id, shift_id, sale_date, quantity, unit_price, created_at, created_by, last_updated_at, last_updated_by`

type PgxReadingRepository struct {
	BaseRepository
}

// newPgxReadingRepository creates a new repository for raw shift-day data.
func newPgxReadingRepository(pool *pgxpool.Pool) portsrepo.ReadingRepositoryFacade {
	return &PgxReadingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReadingRepositoryFacade = (*PgxReadingRepository)(nil)

// SaveDispenserReadings inserts a batch of readings in one transaction.
func (r *PgxReadingRepository) SaveDispenserReadings(ctx context.Context, readings []domain.DispenserReading) error {
	if len(readings) == 0 {
		return nil
	}

	query := `
		INSERT INTO dispenser_readings (` + readingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`

	batch := &pgx.Batch{}
	for _, reading := range readings {
		m := mapping.ToModelDispenserReading(reading)
		batch.Queue(query,
			m.ReadingID,
			m.DispenserID,
			m.ProductID,
			m.ShiftID,
			m.ReadingDate,
			m.Rate,
			m.StartReading,
			m.EndReading,
			m.MeterTest,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert dispenser readings: %w", err)
	}
	return nil
}

// ListDispenserReadings retrieves a shift-day's pump records.
func (r *PgxReadingRepository) ListDispenserReadings(ctx context.Context, shiftID string, date time.Time) ([]domain.DispenserReading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM dispenser_readings
		WHERE shift_id = $1 AND reading_date = $2
		ORDER BY dispenser_id, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, shiftID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispenser readings for shift %s: %w", shiftID, err)
	}
	defer rows.Close()

	readings := []domain.DispenserReading{}
	for rows.Next() {
		var m models.DispenserReading
		err := rows.Scan(
			&m.ReadingID,
			&m.DispenserID,
			&m.ProductID,
			&m.ShiftID,
			&m.ReadingDate,
			&m.Rate,
			&m.StartReading,
			&m.EndReading,
			&m.MeterTest,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispenser reading row: %w", err)
		}
		readings = append(readings, mapping.ToDomainDispenserReading(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating dispenser reading rows: %w", rows.Err())
	}

	return readings, nil
}

// SaveOtherProductSales inserts a batch of non-fuel sales.
func (r *PgxReadingRepository) SaveOtherProductSales(ctx context.Context, sales []domain.OtherProductSale) error {
	if len(sales) == 0 {
		return nil
	}

	query := `
		INSERT INTO other_product_sales (` + otherSaleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	batch := &pgx.Batch{}
	for _, sale := range sales {
		m := mapping.ToModelOtherProductSale(sale)
		batch.Queue(query,
			m.SaleID,
			m.ProductID,
			m.ShiftID,
			m.SaleDate,
			m.Quantity,
			m.UnitPrice,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert other product sales: %w", err)
	}
	return nil
}

// ListOtherProductSales retrieves a shift-day's non-fuel sales.
func (r *PgxReadingRepository) ListOtherProductSales(ctx context.Context, shiftID string, date time.Time) ([]domain.OtherProductSale, error) {
	query := `
		SELECT ` + otherSaleColumns + `
		FROM other_product_sales
		WHERE shift_id = $1 AND sale_date = $2
		ORDER BY product_id, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, shiftID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query other product sales for shift %s: %w", shiftID, err)
	}
	defer rows.Close()

	sales := []domain.OtherProductSale{}
	for rows.Next() {
		var m models.OtherProductSale
		err := rows.Scan(
			&m.SaleID,
			&m.ProductID,
			&m.ShiftID,
			&m.SaleDate,
			&m.Quantity,
			&m.UnitPrice,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan other product sale row: %w", err)
		}
		sales = append(sales, mapping.ToDomainOtherProductSale(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating other product sale rows: %w", rows.Err())
	}

	return sales, nil
}
