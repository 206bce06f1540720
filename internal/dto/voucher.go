package dto

import (
	"time"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ChannelDetailRequest carries channel-specific metadata on voucher entry.
type ChannelDetailRequest struct {
	BankName     string `json:"bankName"`
	ChequeNumber string `json:"chequeNumber"`
	Provider     string `json:"provider"`
	Reference    string `json:"reference"`
}

// ToDomain converts the request metadata to its domain representation.
func (r ChannelDetailRequest) ToDomain() domain.ChannelDetail {
	return domain.ChannelDetail{
		BankName:     r.BankName,
		ChequeNumber: r.ChequeNumber,
		Provider:     r.Provider,
		Reference:    r.Reference,
	}
}

// CreateVoucherRequest defines the payload for entering a Payment or Receipt
// voucher. All fields are explicit; loosely-typed maps are rejected at the
// boundary.
type CreateVoucherRequest struct {
	VoucherNo     string               `json:"voucherNo" binding:"required"`
	Type          domain.VoucherType   `json:"type" binding:"required,oneof=PAYMENT RECEIPT"`
	FromAccountID string               `json:"fromAccountID" binding:"required"`
	ToAccountID   string               `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal      `json:"amount" binding:"required,gt=0"`
	Channel       domain.PaymentChannel `json:"channel" binding:"required,oneof=CASH BANK MOBILE_BANK CHEQUE"`
	ChannelDetail ChannelDetailRequest `json:"channelDetail"`
	Date          time.Time            `json:"date" binding:"required"`
	ShiftID       string               `json:"shiftID"`
	Category      string               `json:"category"`
	Description   string               `json:"description"`
}

// UpdateVoucherRequest defines the updatable voucher fields. Nil means
// "leave unchanged". Any change re-runs the full reverse-then-reapply path.
type UpdateVoucherRequest struct {
	FromAccountID *string                `json:"fromAccountID"`
	ToAccountID   *string                `json:"toAccountID"`
	Amount        *decimal.Decimal       `json:"amount" binding:"omitempty,gt=0"`
	Channel       *domain.PaymentChannel `json:"channel" binding:"omitempty,oneof=CASH BANK MOBILE_BANK CHEQUE"`
	ChannelDetail *ChannelDetailRequest  `json:"channelDetail"`
	Date          *time.Time             `json:"date"`
	Category      *string                `json:"category"`
	Description   *string                `json:"description"`
}

// BulkDeleteVouchersRequest names the vouchers to delete in one atomic batch.
type BulkDeleteVouchersRequest struct {
	VoucherIDs []string `json:"voucherIDs" binding:"required,min=1"`
}

// ListVouchersParams holds filters for listing vouchers.
type ListVouchersParams struct {
	Type      *domain.VoucherType
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID     string          `json:"voucherID"`
	VoucherNo     string          `json:"voucherNo"`
	Type          string          `json:"type"`
	FromAccountID string          `json:"fromAccountID"`
	ToAccountID   string          `json:"toAccountID"`
	Amount        decimal.Decimal `json:"amount"`
	Channel       string          `json:"channel"`
	Date          time.Time       `json:"date"`
	ShiftID       string          `json:"shiftID,omitempty"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListVouchersResponse is a page of vouchers plus the next-page cursor.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherResponse converts a domain.Voucher to its response DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:     v.VoucherID,
		VoucherNo:     v.VoucherNo,
		Type:          string(v.Type),
		FromAccountID: v.FromAccountID,
		ToAccountID:   v.ToAccountID,
		Amount:        v.Amount,
		Channel:       string(v.Channel),
		Date:          v.VoucherDate,
		ShiftID:       v.ShiftID,
		Category:      v.Category,
		Description:   v.Description,
		CreatedAt:     v.CreatedAt,
	}
}

// ToVoucherResponses converts a slice of vouchers.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	responses := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = ToVoucherResponse(&vouchers[i])
	}
	return responses
}
