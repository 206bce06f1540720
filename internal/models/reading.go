package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DispenserReading is the dispenser_readings table row.
type DispenserReading struct {
	ReadingID    string          `db:"reading_id"`
	DispenserID  string          `db:"dispenser_id"`
	ProductID    string          `db:"product_id"`
	ShiftID      string          `db:"shift_id"`
	ReadingDate  time.Time       `db:"reading_date"`
	Rate         decimal.Decimal `db:"rate"`
	StartReading decimal.Decimal `db:"start_reading"`
	EndReading   decimal.Decimal `db:"end_reading"`
	MeterTest    decimal.Decimal `db:"meter_test"`
	AuditFields
}

// OtherProductSale is the other_product_sales table row.
type OtherProductSale struct {
	SaleID    string          `db:"sale_id"`
	ProductID string          `db:"product_id"`
	ShiftID   string          `db:"shift_id"`
	SaleDate  time.Time       `db:"sale_date"`
	Quantity  decimal.Decimal `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	AuditFields
}
