package repositories

import (
	"context"
	"time"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherReader defines read operations for voucher data.
type VoucherReader interface {
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	FindVoucherByNo(ctx context.Context, voucherNo string) (*domain.Voucher, error)

	// ListVouchers retrieves a paginated list filtered by optional type and
	// date range, newest first, with a cursor token for the next page.
	ListVouchers(ctx context.Context, voucherType *domain.VoucherType, from, to *time.Time, limit int, nextToken *string) ([]domain.Voucher, *string, error)
}

// VoucherWriter defines the atomic units of the voucher workflow. Each method
// runs one database transaction: lock the touched accounts, apply the balance
// deltas, mutate the pair rows and the voucher row, then commit. Any failure
// rolls the whole unit back.
type VoucherWriter interface {
	// SaveVoucher persists a new voucher with its transaction pair.
	SaveVoucher(ctx context.Context, voucher domain.Voucher, pair []domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// UpdateVoucherWithPair replaces a voucher's pair: deletes the old pair
	// (consistency error if its two legs are not found), inserts the new one
	// and repoints the voucher row, applying the combined balance deltas.
	UpdateVoucherWithPair(ctx context.Context, voucher domain.Voucher, oldPairID string, newPair []domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// DeleteVouchersWithPairs removes the given vouchers and their pairs in a
	// single transaction, applying the reversal balance deltas. All-or-nothing.
	DeleteVouchersWithPairs(ctx context.Context, voucherIDs []string, pairIDs []string, balanceChanges map[string]decimal.Decimal, userID string) error
}

// VoucherRepositoryFacade combines all voucher repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
