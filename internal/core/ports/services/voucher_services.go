package services

import (
	"context"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/dto"
)

// VoucherReaderSvc defines read operations for vouchers.
type VoucherReaderSvc interface {
	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
}

// VoucherWriterSvc drives the voucher workflow. Every method is one atomic
// unit: either the ledger, the pair rows and the voucher row all change, or
// nothing does.
type VoucherWriterSvc interface {
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error)

	// UpdateVoucher reverses the old pair, re-applies the transfer with the
	// new fields, deletes the old pair and repoints the voucher.
	UpdateVoucher(ctx context.Context, voucherID string, req dto.UpdateVoucherRequest, userID string) (*domain.Voucher, error)

	DeleteVoucher(ctx context.Context, voucherID string, userID string) error

	// BulkDeleteVouchers deletes a batch all-or-nothing.
	BulkDeleteVouchers(ctx context.Context, req dto.BulkDeleteVouchersRequest, userID string) error
}

// VoucherSvcFacade combines the voucher service interfaces.
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
