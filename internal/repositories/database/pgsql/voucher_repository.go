package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pumpsoft/station_backend/internal/apperrors"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	"github.com/pumpsoft/station_backend/internal/models"
	"github.com/pumpsoft/station_backend/internal/utils/mapping"
	"github.com/pumpsoft/station_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const voucherColumns = `voucher_id, voucher_no, voucher_type, from_account_id, to_account_id, debit_transaction_id, pair_id, amount, channel, voucher_date, shift_id, category, description, created_at, created_by, last_updated_at, last_updated_by`

const voucherInsertQuery = `
	INSERT INTO vouchers (` + voucherColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
`

type PgxVoucherRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxVoucherRepository creates a new repository for voucher data. The
// account repository is injected for row locking and balance updates inside
// the voucher atomic units.
func newPgxVoucherRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

func scanVoucher(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID,
		&m.VoucherNo,
		&m.Type,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.DebitTransactionID,
		&m.PairID,
		&m.Amount,
		&m.Channel,
		&m.VoucherDate,
		&m.ShiftID,
		&m.Category,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func voucherInsertArgs(m models.Voucher) []any {
	return []any{
		m.VoucherID,
		m.VoucherNo,
		m.Type,
		m.FromAccountID,
		m.ToAccountID,
		m.DebitTransactionID,
		m.PairID,
		m.Amount,
		m.Channel,
		m.VoucherDate,
		m.ShiftID,
		m.Category,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// lockAndApplyBalances locks the touched accounts and applies the balance
// deltas; the shared first step of every voucher atomic unit.
func (r *PgxVoucherRepository) lockAndApplyBalances(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for update: %w", err)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

// SaveVoucher persists a new voucher with its transaction pair and balance
// effects in one database transaction.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher, pair []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := voucher.CreatedAt
	userID := voucher.CreatedBy

	if err := r.lockAndApplyBalances(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}

	insertedPair, err := appendPairInTx(ctx, tx, pair)
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
		return fmt.Errorf("failed to insert voucher %s: %w", modelVoucher.VoucherID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateVoucherWithPair swaps a voucher's pair for a new one and repoints the
// voucher row, all in one database transaction.
func (r *PgxVoucherRepository) UpdateVoucherWithPair(ctx context.Context, voucher domain.Voucher, oldPairID string, newPair []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := voucher.LastUpdatedAt
	userID := voucher.LastUpdatedBy

	if err := r.lockAndApplyBalances(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}

	if err := deletePairInTx(ctx, tx, oldPairID); err != nil {
		return err
	}

	insertedPair, err := appendPairInTx(ctx, tx, newPair)
	if err != nil {
		return err
	}

	updateQuery := `
		UPDATE vouchers
		SET from_account_id = $2, to_account_id = $3, debit_transaction_id = $4, pair_id = $5,
		    amount = $6, channel = $7, voucher_date = $8, category = $9, description = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE voucher_id = $1;
	`
	modelVoucher := mapping.ToModelVoucher(voucher)
	cmdTag, err := tx.Exec(ctx, updateQuery,
		modelVoucher.VoucherID,
		modelVoucher.FromAccountID,
		modelVoucher.ToAccountID,
		insertedPair[0].TransactionID,
		modelVoucher.PairID,
		modelVoucher.Amount,
		modelVoucher.Channel,
		modelVoucher.VoucherDate,
		modelVoucher.Category,
		modelVoucher.Description,
		modelVoucher.LastUpdatedAt,
		modelVoucher.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update voucher %s: %w", modelVoucher.VoucherID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// DeleteVouchersWithPairs removes the given vouchers and their pairs in one
// database transaction. All-or-nothing.
func (r *PgxVoucherRepository) DeleteVouchersWithPairs(ctx context.Context, voucherIDs []string, pairIDs []string, balanceChanges map[string]decimal.Decimal, userID string) error {
	if len(voucherIDs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()
	if err := r.lockAndApplyBalances(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}

	for _, pairID := range pairIDs {
		if err := deletePairInTx(ctx, tx, pairID); err != nil {
			return err
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM vouchers WHERE voucher_id = ANY($1);`, voucherIDs)
	if err != nil {
		return fmt.Errorf("failed to delete vouchers: %w", err)
	}
	if cmdTag.RowsAffected() != int64(len(voucherIDs)) {
		return fmt.Errorf("%w: expected to delete %d vouchers, deleted %d", apperrors.ErrConsistency, len(voucherIDs), cmdTag.RowsAffected())
	}

	return r.Commit(ctx, tx)
}

// FindVoucherByID retrieves a voucher by its ID.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`

	modelVoucher, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher by ID %s: %w", voucherID, err)
	}

	domainVoucher := mapping.ToDomainVoucher(modelVoucher)
	return &domainVoucher, nil
}

// FindVoucherByNo retrieves a voucher by its user-facing number.
func (r *PgxVoucherRepository) FindVoucherByNo(ctx context.Context, voucherNo string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_no = $1;`

	modelVoucher, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher by number %s: %w", voucherNo, err)
	}

	domainVoucher := mapping.ToDomainVoucher(modelVoucher)
	return &domainVoucher, nil
}

// ListVouchers retrieves a filtered page of vouchers, newest first. The
// cursor encodes the last row's voucher date plus its creation instant as
// the tie-break.
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, voucherType *domain.VoucherType, from, to *time.Time, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + voucherColumns + ` FROM vouchers WHERE 1=1`)
	args := []any{}

	if voucherType != nil {
		args = append(args, string(*voucherType))
		sb.WriteString(` AND voucher_type = $` + strconv.Itoa(len(args)))
	}
	if from != nil {
		args = append(args, *from)
		sb.WriteString(` AND voucher_date >= $` + strconv.Itoa(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		sb.WriteString(` AND voucher_date <= $` + strconv.Itoa(len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		cursorDate, createdAtNanos, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorCreatedAt := time.Unix(0, createdAtNanos).UTC()
		args = append(args, cursorDate)
		dateArg := strconv.Itoa(len(args))
		args = append(args, cursorCreatedAt)
		createdArg := strconv.Itoa(len(args))
		sb.WriteString(` AND (voucher_date, created_at) < ($` + dateArg + `, $` + createdArg + `)`)
	}

	args = append(args, limit+1)
	sb.WriteString(` ORDER BY voucher_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	defer rows.Close()

	modelVouchers := []models.Voucher{}
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		modelVouchers = append(modelVouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}

	var newNextToken *string
	if len(modelVouchers) > limit {
		modelVouchers = modelVouchers[:limit]
		last := modelVouchers[len(modelVouchers)-1]
		token := pagination.EncodeToken(last.VoucherDate, last.CreatedAt.UnixNano())
		newNextToken = &token
	}

	return mapping.ToDomainVoucherSlice(modelVouchers), newNextToken, nil
}
