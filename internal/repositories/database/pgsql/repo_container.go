package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	voucherRepo := newPgxVoucherRepository(dbPool, accountRepo)
	shiftRepo := newPgxShiftRepository(dbPool, accountRepo)
	readingRepo := newPgxReadingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		VoucherRepo:     voucherRepo,
		ShiftRepo:       shiftRepo,
		ReadingRepo:     readingRepo,
	}
}
