package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pumpsoft/station_backend/internal/apperrors"
	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	"github.com/pumpsoft/station_backend/internal/models"
	"github.com/pumpsoft/station_backend/internal/utils/mapping"
	"github.com/pumpsoft/station_backend/internal/utils/pagination"
)

const transactionColumns = `transaction_id, pair_id, account_id, amount, transaction_type, channel, channel_detail, txn_date, sequence, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for the append-only
// transaction store.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.PairID,
		&m.AccountID,
		&m.Amount,
		&m.Type,
		&m.Channel,
		&m.ChannelDetail,
		&m.TxnDate,
		&m.Sequence,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindTransactionsByPairID retrieves both legs of a pair, Debit leg first.
func (r *PgxTransactionRepository) FindTransactionsByPairID(ctx context.Context, pairID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE pair_id = $1
		ORDER BY transaction_type DESC;
	`
	rows, err := r.Pool.Query(ctx, query, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for pair %s: %w", pairID, err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for pair %s: %w", pairID, err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows for pair %s: %w", pairID, err)
	}

	return mapping.ToDomainTransactionSlice(modelTxns)
}

// ListTransactionsByAccount retrieves a page of an account's transactions
// ordered by (txn_date, sequence) ascending, with cursor pagination.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1`)
	args := []any{accountID}

	if from != nil {
		args = append(args, *from)
		sb.WriteString(` AND txn_date >= $` + strconv.Itoa(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		sb.WriteString(` AND txn_date <= $` + strconv.Itoa(len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursorDate)
		dateArg := strconv.Itoa(len(args))
		args = append(args, cursorSeq)
		seqArg := strconv.Itoa(len(args))
		sb.WriteString(` AND (txn_date, sequence) > ($` + dateArg + `, $` + seqArg + `)`)
	}

	// Fetch one extra row to know whether a next page exists.
	args = append(args, limit+1)
	sb.WriteString(` ORDER BY txn_date, sequence LIMIT $` + strconv.Itoa(len(args)) + `;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row for account %s: %w", accountID, err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows for account %s: %w", accountID, err)
	}

	var newNextToken *string
	if len(modelTxns) > limit {
		modelTxns = modelTxns[:limit]
		last := modelTxns[len(modelTxns)-1]
		token := pagination.EncodeToken(last.TxnDate, last.Sequence)
		newNextToken = &token
	}

	txns, err := mapping.ToDomainTransactionSlice(modelTxns)
	if err != nil {
		return nil, nil, err
	}
	return txns, newNextToken, nil
}

// ListAllTransactionsByAccount retrieves an account's full ordered history.
func (r *PgxTransactionRepository) ListAllTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY txn_date, sequence;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction history for account %s: %w", accountID, err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for account %s: %w", accountID, err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows for account %s: %w", accountID, err)
	}

	return mapping.ToDomainTransactionSlice(modelTxns)
}

// appendPairInTx inserts both legs of a pair and fills in the sequence numbers
// the database assigned. Shared by the repositories whose atomic units append
// pairs.
func appendPairInTx(ctx context.Context, tx pgx.Tx, legs []domain.Transaction) ([]domain.Transaction, error) {
	if len(legs) != 2 {
		return nil, fmt.Errorf("%w: transaction pair must have exactly two legs, got %d", apperrors.ErrConsistency, len(legs))
	}

	query := `
		INSERT INTO transactions (transaction_id, pair_id, account_id, amount, transaction_type, channel, channel_detail, txn_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING sequence;
	`

	inserted := make([]domain.Transaction, len(legs))
	for i, leg := range legs {
		modelTxn, err := mapping.ToModelTransaction(leg)
		if err != nil {
			return nil, err
		}

		var sequence int64
		err = tx.QueryRow(ctx, query,
			modelTxn.TransactionID,
			modelTxn.PairID,
			modelTxn.AccountID,
			modelTxn.Amount,
			modelTxn.Type,
			modelTxn.Channel,
			modelTxn.ChannelDetail,
			modelTxn.TxnDate,
			modelTxn.CreatedAt,
			modelTxn.CreatedBy,
			modelTxn.LastUpdatedAt,
			modelTxn.LastUpdatedBy,
		).Scan(&sequence)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transaction %s: %w", modelTxn.TransactionID, err)
		}

		leg.Sequence = sequence
		inserted[i] = leg
	}

	return inserted, nil
}

// deletePairInTx removes both legs of a pair. Anything other than exactly two
// deleted rows is a consistency violation and must abort the caller's
// transaction.
func deletePairInTx(ctx context.Context, tx pgx.Tx, pairID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE pair_id = $1;`, pairID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction pair %s: %w", pairID, err)
	}
	if cmdTag.RowsAffected() != 2 {
		return fmt.Errorf("%w: pair %s had %d legs on delete", apperrors.ErrConsistency, pairID, cmdTag.RowsAffected())
	}
	return nil
}

// AppendPairInTx inserts both legs of a pair inside the caller's transaction.
func (r *PgxTransactionRepository) AppendPairInTx(ctx context.Context, tx pgx.Tx, legs []domain.Transaction) ([]domain.Transaction, error) {
	return appendPairInTx(ctx, tx, legs)
}

// DeletePairInTx removes both legs of a pair inside the caller's transaction.
func (r *PgxTransactionRepository) DeletePairInTx(ctx context.Context, tx pgx.Tx, pairID string) error {
	return deletePairInTx(ctx, tx, pairID)
}
