package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DispenserReading is one fuel pump's meter record for a (shift, date).
// Rows become immutable once a ShiftClosure exists for that key.
type DispenserReading struct {
	ReadingID    string          `json:"readingID"` // Primary key (UUID)
	DispenserID  string          `json:"dispenserID"`
	ProductID    string          `json:"productID"`
	ShiftID      string          `json:"shiftID"`
	ReadingDate  time.Time       `json:"readingDate"` // Calendar date, midnight UTC
	Rate         decimal.Decimal `json:"rate"`        // Unit sale price
	StartReading decimal.Decimal `json:"startReading"`
	EndReading   decimal.Decimal `json:"endReading"`
	MeterTest    decimal.Decimal `json:"meterTest"` // Self-test draws, not customer sales
	AuditFields
}

// NetReading is the customer-sold volume: end - start - meter_test.
func (r DispenserReading) NetReading() decimal.Decimal {
	return r.EndReading.Sub(r.StartReading).Sub(r.MeterTest)
}

// TotalSale is the reading's sale value at the recorded rate.
func (r DispenserReading) TotalSale() decimal.Decimal {
	return r.NetReading().Mul(r.Rate)
}

// OtherProductSale records non-fuel sales (lubricants, LPG, ...) for a
// (shift, date). Immutable once the key is closed.
type OtherProductSale struct {
	SaleID    string          `json:"saleID"` // Primary key (UUID)
	ProductID string          `json:"productID"`
	ShiftID   string          `json:"shiftID"`
	SaleDate  time.Time       `json:"saleDate"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	AuditFields
}

// Total is quantity * unit price.
func (s OtherProductSale) Total() decimal.Decimal {
	return s.Quantity.Mul(s.UnitPrice)
}
