package accounting

import (
	"testing"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(dispenser, product string, start, end, meterTest, rate int64) domain.DispenserReading {
	return domain.DispenserReading{
		ReadingID:    "r-" + dispenser,
		DispenserID:  dispenser,
		ProductID:    product,
		Rate:         decimal.NewFromInt(rate),
		StartReading: decimal.NewFromInt(start),
		EndReading:   decimal.NewFromInt(end),
		MeterTest:    decimal.NewFromInt(meterTest),
	}
}

func TestAggregateReadingsSingleDispenser(t *testing.T) {
	// start=1000, end=1500, meter_test=2, rate=100 => net 498, sale 49800
	totals, err := AggregateReadings([]domain.DispenserReading{
		reading("d1", "diesel", 1000, 1500, 2, 100),
	}, nil)
	require.NoError(t, err)

	require.Len(t, totals.Products, 1)
	assert.Equal(t, "diesel", totals.Products[0].ProductID)
	assert.True(t, totals.Products[0].NetQuantity.Equal(decimal.NewFromInt(498)))
	assert.True(t, totals.Products[0].TotalSale.Equal(decimal.NewFromInt(49800)))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(49800)))
}

func TestAggregateReadingsGroupsByProduct(t *testing.T) {
	readings := []domain.DispenserReading{
		reading("d1", "diesel", 0, 100, 0, 10),   // 1000
		reading("d2", "diesel", 50, 150, 0, 10),  // 1000
		reading("d3", "petrol", 0, 200, 10, 20),  // 3800
	}
	otherSales := []domain.OtherProductSale{
		{SaleID: "s1", ProductID: "lube", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(40)}, // 200
	}

	totals, err := AggregateReadings(readings, otherSales)
	require.NoError(t, err)

	require.Len(t, totals.Products, 3)
	// Sorted by product id
	assert.Equal(t, "diesel", totals.Products[0].ProductID)
	assert.True(t, totals.Products[0].NetQuantity.Equal(decimal.NewFromInt(200)))
	assert.True(t, totals.Products[0].TotalSale.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "lube", totals.Products[1].ProductID)
	assert.True(t, totals.Products[1].TotalSale.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "petrol", totals.Products[2].ProductID)
	assert.True(t, totals.Products[2].TotalSale.Equal(decimal.NewFromInt(3800)))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(6000)))
}

func TestAggregateReadingsRejectsNegativeNetReading(t *testing.T) {
	_, err := AggregateReadings([]domain.DispenserReading{
		reading("d1", "diesel", 1000, 1001, 5, 100), // net = -4
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestAggregateReadingsZeroNetReading(t *testing.T) {
	totals, err := AggregateReadings([]domain.DispenserReading{
		reading("d1", "diesel", 1000, 1002, 2, 100), // net = 0
	}, nil)
	require.NoError(t, err)
	assert.True(t, totals.GrandTotal.IsZero())
}
