package mapping

import (
	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/models"
)

func ToModelDispenserReading(d domain.DispenserReading) models.DispenserReading {
	return models.DispenserReading{
		ReadingID:    d.ReadingID,
		DispenserID:  d.DispenserID,
		ProductID:    d.ProductID,
		ShiftID:      d.ShiftID,
		ReadingDate:  d.ReadingDate,
		Rate:         d.Rate,
		StartReading: d.StartReading,
		EndReading:   d.EndReading,
		MeterTest:    d.MeterTest,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainDispenserReading(m models.DispenserReading) domain.DispenserReading {
	return domain.DispenserReading{
		ReadingID:    m.ReadingID,
		DispenserID:  m.DispenserID,
		ProductID:    m.ProductID,
		ShiftID:      m.ShiftID,
		ReadingDate:  m.ReadingDate,
		Rate:         m.Rate,
		StartReading: m.StartReading,
		EndReading:   m.EndReading,
		MeterTest:    m.MeterTest,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelOtherProductSale(d domain.OtherProductSale) models.OtherProductSale {
	return models.OtherProductSale{
		SaleID:      d.SaleID,
		ProductID:   d.ProductID,
		ShiftID:     d.ShiftID,
		SaleDate:    d.SaleDate,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainOtherProductSale(m models.OtherProductSale) domain.OtherProductSale {
	return domain.OtherProductSale{
		SaleID:      m.SaleID,
		ProductID:   m.ProductID,
		ShiftID:     m.ShiftID,
		SaleDate:    m.SaleDate,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
