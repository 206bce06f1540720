package accounting

import (
	"fmt"
	"sort"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProductTotal is one product's aggregated quantity and sale value across all
// dispensers and other-product sales of a shift.
type ProductTotal struct {
	ProductID   string
	NetQuantity decimal.Decimal
	TotalSale   decimal.Decimal
}

// ReadingTotals is the output of aggregating a shift's raw readings.
type ReadingTotals struct {
	Products   []ProductTotal // Sorted by product id for deterministic output
	GrandTotal decimal.Decimal
}

// AggregateReadings folds dispenser readings and other-product sales into
// per-product totals plus a grand total.
//
// A negative net reading (end < start + meter_test) is rejected rather than
// clamped: it always means mis-keyed meter values or a meter rollback, and
// clamping would silently corrupt the reconciliation.
func AggregateReadings(readings []domain.DispenserReading, otherSales []domain.OtherProductSale) (ReadingTotals, error) {
	quantities := make(map[string]decimal.Decimal)
	sales := make(map[string]decimal.Decimal)

	for _, r := range readings {
		net := r.NetReading()
		if net.IsNegative() {
			return ReadingTotals{}, fmt.Errorf("dispenser %s: net reading %s is negative (end=%s start=%s meter_test=%s)",
				r.DispenserID, net.String(), r.EndReading.String(), r.StartReading.String(), r.MeterTest.String())
		}
		quantities[r.ProductID] = quantities[r.ProductID].Add(net)
		sales[r.ProductID] = sales[r.ProductID].Add(net.Mul(r.Rate))
	}

	for _, s := range otherSales {
		if s.Quantity.IsNegative() || s.UnitPrice.IsNegative() {
			return ReadingTotals{}, fmt.Errorf("other product sale %s: quantity and unit price must be non-negative", s.SaleID)
		}
		quantities[s.ProductID] = quantities[s.ProductID].Add(s.Quantity)
		sales[s.ProductID] = sales[s.ProductID].Add(s.Total())
	}

	productIDs := make([]string, 0, len(sales))
	for id := range sales {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	totals := ReadingTotals{
		Products:   make([]ProductTotal, 0, len(productIDs)),
		GrandTotal: decimal.Zero,
	}
	for _, id := range productIDs {
		totals.Products = append(totals.Products, ProductTotal{
			ProductID:   id,
			NetQuantity: quantities[id],
			TotalSale:   sales[id],
		})
		totals.GrandTotal = totals.GrandTotal.Add(sales[id])
	}
	return totals, nil
}
