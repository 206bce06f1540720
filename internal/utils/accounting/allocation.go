package accounting

import (
	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationInput carries the externally reported aggregates that the
// allocation splits across products. PerProductCredit overrides the
// proportional credit split for products it names.
type AllocationInput struct {
	CreditSalesTotal decimal.Decimal
	BankSalesTotal   decimal.Decimal
	PerProductCredit map[string]decimal.Decimal
}

// AllocationResult is the per-product breakdown plus grand totals. Warnings
// lists product ids whose residual cash figure came out negative; the values
// are reported as computed, never clamped.
type AllocationResult struct {
	Products     []domain.ProductBreakdown
	TotalSales   decimal.Decimal
	TotalCash    decimal.Decimal
	TotalCredit  decimal.Decimal
	TotalBank    decimal.Decimal
	NegativeCash []string
}

// Allocate splits each product's total sale into credit, bank and cash
// portions. Bank sales are split in proportion to each product's share of the
// grand total; credit sales use the directly tracked per-product figure when
// present, else the same proportional split; cash is the residual.
//
// For every product cash + credit + bank == total_sale by construction.
func Allocate(totals ReadingTotals, input AllocationInput) AllocationResult {
	result := AllocationResult{
		Products:    make([]domain.ProductBreakdown, 0, len(totals.Products)),
		TotalSales:  totals.GrandTotal,
		TotalCash:   decimal.Zero,
		TotalCredit: decimal.Zero,
		TotalBank:   decimal.Zero,
	}

	for _, p := range totals.Products {
		proportion := decimal.Zero
		if totals.GrandTotal.IsPositive() {
			proportion = p.TotalSale.Div(totals.GrandTotal)
		}

		bank := input.BankSalesTotal.Mul(proportion)

		credit, tracked := input.PerProductCredit[p.ProductID]
		if !tracked {
			credit = input.CreditSalesTotal.Mul(proportion)
		}

		cash := p.TotalSale.Sub(credit).Sub(bank)
		if cash.IsNegative() {
			result.NegativeCash = append(result.NegativeCash, p.ProductID)
		}

		result.Products = append(result.Products, domain.ProductBreakdown{
			ProductID:   p.ProductID,
			NetQuantity: p.NetQuantity,
			TotalSale:   p.TotalSale,
			CashSales:   cash,
			CreditSales: credit,
			BankSales:   bank,
		})
		result.TotalCash = result.TotalCash.Add(cash)
		result.TotalCredit = result.TotalCredit.Add(credit)
		result.TotalBank = result.TotalBank.Add(bank)
	}

	return result
}
