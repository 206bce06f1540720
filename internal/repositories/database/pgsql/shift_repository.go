package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pumpsoft/station_backend/internal/apperrors"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	"github.com/pumpsoft/station_backend/internal/models"
	"github.com/pumpsoft/station_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const shiftColumns = `shift_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by`

const closureColumns = `closure_id, shift_id, close_date, snapshot, created_at, created_by, last_updated_at, last_updated_by`

type PgxShiftRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxShiftRepository creates a new repository for shift and closure data.
// The account repository is injected because sealing a shift applies the
// settlement vouchers' balance effects in the same transaction.
func newPgxShiftRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.ShiftRepositoryFacade {
	return &PgxShiftRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.ShiftRepositoryFacade = (*PgxShiftRepository)(nil)

func scanShift(row pgx.Row) (models.Shift, error) {
	var m models.Shift
	err := row.Scan(
		&m.ShiftID,
		&m.Name,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanClosure(row pgx.Row) (models.ShiftClosure, error) {
	var m models.ShiftClosure
	err := row.Scan(
		&m.ClosureID,
		&m.ShiftID,
		&m.CloseDate,
		&m.Snapshot,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveShift inserts a new shift.
func (r *PgxShiftRepository) SaveShift(ctx context.Context, shift domain.Shift) error {
	m := mapping.ToModelShift(shift)

	query := `
		INSERT INTO shifts (` + shiftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ShiftID,
		m.Name,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: shift named %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save shift %s: %w", m.ShiftID, err)
	}
	return nil
}

// FindShiftByID retrieves a shift by its ID.
func (r *PgxShiftRepository) FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE shift_id = $1;`

	m, err := scanShift(r.Pool.QueryRow(ctx, query, shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shift by ID %s: %w", shiftID, err)
	}

	shift := mapping.ToDomainShift(m)
	return &shift, nil
}

// ListShifts retrieves shifts ordered by name.
func (r *PgxShiftRepository) ListShifts(ctx context.Context, includeInactive bool) ([]domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE is_active = TRUE OR $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	shifts := []domain.Shift{}
	for rows.Next() {
		m, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift row: %w", err)
		}
		shifts = append(shifts, mapping.ToDomainShift(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating shift rows: %w", rows.Err())
	}

	return shifts, nil
}

// UpdateShift updates a shift's editable fields.
func (r *PgxShiftRepository) UpdateShift(ctx context.Context, shift domain.Shift) error {
	m := mapping.ToModelShift(shift)

	query := `
		UPDATE shifts
		SET name = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE shift_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.ShiftID, m.Name, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to execute update shift %s: %w", m.ShiftID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateShift marks a shift as inactive.
func (r *PgxShiftRepository) DeactivateShift(ctx context.Context, shiftID string, userID string, now time.Time) error {
	query := `
		UPDATE shifts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE shift_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, shiftID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate shift %s: %w", shiftID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindShiftByID(ctx, shiftID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check shift status after deactivation attempt for %s: %w", shiftID, findErr)
		}
		return fmt.Errorf("%w: shift %s is already inactive", apperrors.ErrValidation, shiftID)
	}
	return nil
}

// FindClosure retrieves the closure for a (shift, date) key.
func (r *PgxShiftRepository) FindClosure(ctx context.Context, shiftID string, closeDate time.Time) (*domain.ShiftClosure, error) {
	query := `SELECT ` + closureColumns + ` FROM shift_closures WHERE shift_id = $1 AND close_date = $2;`

	m, err := scanClosure(r.Pool.QueryRow(ctx, query, shiftID, closeDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find closure for shift %s on %s: %w", shiftID, closeDate.Format("2006-01-02"), err)
	}

	closure, err := mapping.ToDomainShiftClosure(m)
	if err != nil {
		return nil, err
	}
	return &closure, nil
}

// ListClosuresByDate retrieves all closures sealed for a calendar date.
func (r *PgxShiftRepository) ListClosuresByDate(ctx context.Context, closeDate time.Time) ([]domain.ShiftClosure, error) {
	query := `SELECT ` + closureColumns + ` FROM shift_closures WHERE close_date = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, closeDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query closures for %s: %w", closeDate.Format("2006-01-02"), err)
	}
	defer rows.Close()

	closures := []domain.ShiftClosure{}
	for rows.Next() {
		m, err := scanClosure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan closure row: %w", err)
		}
		closure, err := mapping.ToDomainShiftClosure(m)
		if err != nil {
			return nil, err
		}
		closures = append(closures, closure)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating closure rows: %w", rows.Err())
	}

	return closures, nil
}

// SaveClosure seals a (shift, date) in one database transaction: the closure
// row, its settlement vouchers with their pairs, and the balance effects. The
// unique index on (shift_id, close_date) is the serialization point; losing
// the race surfaces as ErrDuplicateClose with nothing applied.
func (r *PgxShiftRepository) SaveClosure(ctx context.Context, closure domain.ShiftClosure, vouchers []domain.Voucher, pairs [][]domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	if len(vouchers) != len(pairs) {
		return fmt.Errorf("%w: %d vouchers with %d pairs", apperrors.ErrConsistency, len(vouchers), len(pairs))
	}

	modelClosure, err := mapping.ToModelShiftClosure(closure)
	if err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := closure.CreatedAt
	userID := closure.CreatedBy

	// Insert the closure marker first so a concurrent closer fails before any
	// money moves.
	closureQuery := `
		INSERT INTO shift_closures (` + closureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, closureQuery,
		modelClosure.ClosureID,
		modelClosure.ShiftID,
		modelClosure.CloseDate,
		modelClosure.Snapshot,
		modelClosure.CreatedAt,
		modelClosure.CreatedBy,
		modelClosure.LastUpdatedAt,
		modelClosure.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: shift %s on %s", apperrors.ErrDuplicateClose, modelClosure.ShiftID, modelClosure.CloseDate.Format("2006-01-02"))
		}
		return fmt.Errorf("failed to insert closure %s: %w", modelClosure.ClosureID, err)
	}

	if len(balanceChanges) > 0 {
		accountIDs := make([]string, 0, len(balanceChanges))
		for accID := range balanceChanges {
			accountIDs = append(accountIDs, accID)
		}
		if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
			return fmt.Errorf("failed to lock accounts for closure: %w", err)
		}
		if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
			return fmt.Errorf("failed to update account balances for closure: %w", err)
		}
	}

	for i, voucher := range vouchers {
		insertedPair, err := appendPairInTx(ctx, tx, pairs[i])
		if err != nil {
			return err
		}

		modelVoucher := mapping.ToModelVoucher(voucher)
		modelVoucher.DebitTransactionID = insertedPair[0].TransactionID
		if _, err := tx.Exec(ctx, voucherInsertQuery, voucherInsertArgs(modelVoucher)...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return fmt.Errorf("%w: voucher number %s already exists", apperrors.ErrDuplicate, modelVoucher.VoucherNo)
			}
			return fmt.Errorf("failed to insert settlement voucher %s: %w", modelVoucher.VoucherID, err)
		}
	}

	return r.Commit(ctx, tx)
}
