package dto

import (
	"time"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DispenserReadingRequest is one pump's meter record for a shift-day.
type DispenserReadingRequest struct {
	DispenserID  string          `json:"dispenserID" binding:"required"`
	ProductID    string          `json:"productID" binding:"required"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
	StartReading decimal.Decimal `json:"startReading"`
	EndReading   decimal.Decimal `json:"endReading"`
	MeterTest    decimal.Decimal `json:"meterTest"`
}

// RecordReadingsRequest records a batch of dispenser readings for a
// (shift, date). Rejected once that key has been closed.
type RecordReadingsRequest struct {
	ShiftID  string                    `json:"shiftID" binding:"required"`
	Date     time.Time                 `json:"date" binding:"required"`
	Readings []DispenserReadingRequest `json:"readings" binding:"required,min=1,dive"`
}

// OtherProductSaleRequest is one non-fuel product's sale for a shift-day.
type OtherProductSaleRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

// RecordOtherSalesRequest records a batch of other-product sales for a
// (shift, date). Rejected once that key has been closed.
type RecordOtherSalesRequest struct {
	ShiftID string                    `json:"shiftID" binding:"required"`
	Date    time.Time                 `json:"date" binding:"required"`
	Sales   []OtherProductSaleRequest `json:"sales" binding:"required,min=1,dive"`
}

// ProductCreditRequest is a directly tracked per-product credit figure
// supplied by the credit-sale collaborator.
type ProductCreditRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// SettlementVoucherRequest is a cash receipt or payment entered during the
// close flow; it is persisted atomically with the closure.
type SettlementVoucherRequest struct {
	VoucherNo     string             `json:"voucherNo" binding:"required"`
	Type          domain.VoucherType `json:"type" binding:"required,oneof=PAYMENT RECEIPT"`
	FromAccountID string             `json:"fromAccountID" binding:"required"`
	ToAccountID   string             `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal    `json:"amount" binding:"required,gt=0"`
	Category      string             `json:"category"`
	Description   string             `json:"description"`
}

// SettlementRequest carries the externally reported aggregates for a
// (shift, date) reconciliation. Used both for previews and as part of the
// close payload.
type SettlementRequest struct {
	ShiftID          string                 `json:"shiftID" binding:"required"`
	Date             time.Time              `json:"date" binding:"required"`
	CreditSalesTotal decimal.Decimal        `json:"creditSalesTotal"`
	BankSalesTotal   decimal.Decimal        `json:"bankSalesTotal"`
	PerProductCredit []ProductCreditRequest `json:"perProductCredit" binding:"omitempty,dive"`
}

// CloseShiftRequest seals a (shift, date) with its reconciled snapshot and
// any vouchers entered during settlement.
type CloseShiftRequest struct {
	SettlementRequest
	Vouchers []SettlementVoucherRequest `json:"vouchers" binding:"omitempty,dive"`
}

// ProductBreakdownResponse is one product's reconciled figures.
type ProductBreakdownResponse struct {
	ProductID   string          `json:"productID"`
	NetQuantity decimal.Decimal `json:"netQuantity"`
	TotalSale   decimal.Decimal `json:"totalSale"`
	CashSales   decimal.Decimal `json:"cashSales"`
	CreditSales decimal.Decimal `json:"creditSales"`
	BankSales   decimal.Decimal `json:"bankSales"`
}

// SettlementSnapshotResponse is the reconciled financial picture of a shift.
type SettlementSnapshotResponse struct {
	TotalSales    decimal.Decimal            `json:"totalSales"`
	TotalCash     decimal.Decimal            `json:"totalCash"`
	TotalCredit   decimal.Decimal            `json:"totalCredit"`
	TotalBank     decimal.Decimal            `json:"totalBank"`
	TotalExpenses decimal.Decimal            `json:"totalExpenses"`
	TotalDue      decimal.Decimal            `json:"totalDue"`
	Products      []ProductBreakdownResponse `json:"products"`
}

// ClosureResponse is a sealed shift settlement.
type ClosureResponse struct {
	ClosureID string                     `json:"closureID"`
	ShiftID   string                     `json:"shiftID"`
	CloseDate time.Time                  `json:"closeDate"`
	Snapshot  SettlementSnapshotResponse `json:"snapshot"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// ToSettlementSnapshotResponse converts a domain snapshot to its DTO.
func ToSettlementSnapshotResponse(s domain.SettlementSnapshot) SettlementSnapshotResponse {
	products := make([]ProductBreakdownResponse, len(s.Products))
	for i, p := range s.Products {
		products[i] = ProductBreakdownResponse{
			ProductID:   p.ProductID,
			NetQuantity: p.NetQuantity,
			TotalSale:   p.TotalSale,
			CashSales:   p.CashSales,
			CreditSales: p.CreditSales,
			BankSales:   p.BankSales,
		}
	}
	return SettlementSnapshotResponse{
		TotalSales:    s.TotalSales,
		TotalCash:     s.TotalCash,
		TotalCredit:   s.TotalCredit,
		TotalBank:     s.TotalBank,
		TotalExpenses: s.TotalExpenses,
		TotalDue:      s.TotalDue,
		Products:      products,
	}
}

// ToClosureResponse converts a domain.ShiftClosure to its DTO.
func ToClosureResponse(c *domain.ShiftClosure) ClosureResponse {
	return ClosureResponse{
		ClosureID: c.ClosureID,
		ShiftID:   c.ShiftID,
		CloseDate: c.CloseDate,
		Snapshot:  ToSettlementSnapshotResponse(c.Snapshot),
		CreatedAt: c.CreatedAt,
	}
}

// ToClosureResponses converts a slice of closures.
func ToClosureResponses(closures []domain.ShiftClosure) []ClosureResponse {
	responses := make([]ClosureResponse, len(closures))
	for i := range closures {
		responses[i] = ToClosureResponse(&closures[i])
	}
	return responses
}
