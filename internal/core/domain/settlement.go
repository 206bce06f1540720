package domain

import "github.com/shopspring/decimal"

// ProductBreakdown is one product's reconciled share of a shift's sales.
// Invariant: CashSales + CreditSales + BankSales == TotalSale.
type ProductBreakdown struct {
	ProductID   string          `json:"productID"`
	NetQuantity decimal.Decimal `json:"netQuantity"`
	TotalSale   decimal.Decimal `json:"totalSale"`
	CashSales   decimal.Decimal `json:"cashSales"`
	CreditSales decimal.Decimal `json:"creditSales"`
	BankSales   decimal.Decimal `json:"bankSales"`
}

// SettlementSnapshot is the sealed financial picture of a closed shift.
type SettlementSnapshot struct {
	TotalSales    decimal.Decimal    `json:"totalSales"`
	TotalCash     decimal.Decimal    `json:"totalCash"`
	TotalCredit   decimal.Decimal    `json:"totalCredit"`
	TotalBank     decimal.Decimal    `json:"totalBank"`
	TotalExpenses decimal.Decimal    `json:"totalExpenses"`
	TotalDue      decimal.Decimal    `json:"totalDue"`
	Products      []ProductBreakdown `json:"products"`
}
