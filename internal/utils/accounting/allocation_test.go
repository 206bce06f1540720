package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalsOf(products ...ProductTotal) ReadingTotals {
	totals := ReadingTotals{Products: products, GrandTotal: decimal.Zero}
	for _, p := range products {
		totals.GrandTotal = totals.GrandTotal.Add(p.TotalSale)
	}
	return totals
}

func TestAllocateProportionalBankSplit(t *testing.T) {
	// Two products 700 and 300, bank aggregate 200 => bank shares 140 and 60.
	totals := totalsOf(
		ProductTotal{ProductID: "diesel", TotalSale: decimal.NewFromInt(700)},
		ProductTotal{ProductID: "petrol", TotalSale: decimal.NewFromInt(300)},
	)

	result := Allocate(totals, AllocationInput{
		CreditSalesTotal: decimal.Zero,
		BankSalesTotal:   decimal.NewFromInt(200),
	})

	require.Len(t, result.Products, 2)
	assert.True(t, result.Products[0].BankSales.Equal(decimal.NewFromInt(140)))
	assert.True(t, result.Products[1].BankSales.Equal(decimal.NewFromInt(60)))
	assert.True(t, result.Products[0].CashSales.Equal(decimal.NewFromInt(560)))
	assert.True(t, result.Products[1].CashSales.Equal(decimal.NewFromInt(240)))
	assert.Empty(t, result.NegativeCash)
}

func TestAllocateInvariantCashCreditBankEqualsTotal(t *testing.T) {
	totals := totalsOf(
		ProductTotal{ProductID: "diesel", TotalSale: decimal.RequireFromString("49800.50")},
		ProductTotal{ProductID: "petrol", TotalSale: decimal.RequireFromString("12345.67")},
		ProductTotal{ProductID: "octane", TotalSale: decimal.RequireFromString("333.33")},
	)

	result := Allocate(totals, AllocationInput{
		CreditSalesTotal: decimal.RequireFromString("10000.25"),
		BankSalesTotal:   decimal.RequireFromString("4321.99"),
	})

	epsilon := decimal.RequireFromString("0.0000001")
	for _, p := range result.Products {
		sum := p.CashSales.Add(p.CreditSales).Add(p.BankSales)
		diff := sum.Sub(p.TotalSale).Abs()
		assert.True(t, diff.LessThanOrEqual(epsilon),
			"product %s: cash+credit+bank=%s, total=%s", p.ProductID, sum.String(), p.TotalSale.String())
	}
}

func TestAllocatePerProductCreditOverride(t *testing.T) {
	totals := totalsOf(
		ProductTotal{ProductID: "diesel", TotalSale: decimal.NewFromInt(600)},
		ProductTotal{ProductID: "petrol", TotalSale: decimal.NewFromInt(400)},
	)

	result := Allocate(totals, AllocationInput{
		CreditSalesTotal: decimal.NewFromInt(100),
		BankSalesTotal:   decimal.Zero,
		PerProductCredit: map[string]decimal.Decimal{
			"diesel": decimal.NewFromInt(250),
		},
	})

	// diesel uses the tracked figure, petrol falls back to the proportional split.
	assert.True(t, result.Products[0].CreditSales.Equal(decimal.NewFromInt(250)))
	assert.True(t, result.Products[1].CreditSales.Equal(decimal.NewFromInt(40)))
	assert.True(t, result.Products[0].CashSales.Equal(decimal.NewFromInt(350)))
	assert.True(t, result.Products[1].CashSales.Equal(decimal.NewFromInt(360)))
}

func TestAllocateZeroGrandTotal(t *testing.T) {
	totals := totalsOf(ProductTotal{ProductID: "diesel", TotalSale: decimal.Zero})

	result := Allocate(totals, AllocationInput{
		CreditSalesTotal: decimal.NewFromInt(100),
		BankSalesTotal:   decimal.NewFromInt(100),
	})

	// Zero-guard: no division by zero, everything allocates to zero.
	require.Len(t, result.Products, 1)
	assert.True(t, result.Products[0].BankSales.IsZero())
	assert.True(t, result.Products[0].CreditSales.IsZero())
	assert.True(t, result.Products[0].CashSales.IsZero())
}

func TestAllocateFlagsNegativeResidualCash(t *testing.T) {
	totals := totalsOf(ProductTotal{ProductID: "diesel", TotalSale: decimal.NewFromInt(100)})

	result := Allocate(totals, AllocationInput{
		CreditSalesTotal: decimal.NewFromInt(80),
		BankSalesTotal:   decimal.NewFromInt(50),
	})

	// Upstream aggregates exceed the product total: residual goes negative and
	// is reported as computed, never clamped.
	require.Len(t, result.Products, 1)
	assert.True(t, result.Products[0].CashSales.Equal(decimal.NewFromInt(-30)))
	assert.Equal(t, []string{"diesel"}, result.NegativeCash)
}
