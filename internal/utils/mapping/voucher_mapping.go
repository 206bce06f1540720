package mapping

import (
	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/models"
)

func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:          d.VoucherID,
		VoucherNo:          d.VoucherNo,
		Type:               string(d.Type),
		FromAccountID:      d.FromAccountID,
		ToAccountID:        d.ToAccountID,
		DebitTransactionID: d.DebitTransactionID,
		PairID:             d.PairID,
		Amount:             d.Amount,
		Channel:            string(d.Channel),
		VoucherDate:        d.VoucherDate,
		ShiftID:            d.ShiftID,
		Category:           d.Category,
		Description:        d.Description,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:          m.VoucherID,
		VoucherNo:          m.VoucherNo,
		Type:               domain.VoucherType(m.Type),
		FromAccountID:      m.FromAccountID,
		ToAccountID:        m.ToAccountID,
		DebitTransactionID: m.DebitTransactionID,
		PairID:             m.PairID,
		Amount:             m.Amount,
		Channel:            domain.PaymentChannel(m.Channel),
		VoucherDate:        m.VoucherDate,
		ShiftID:            m.ShiftID,
		Category:           m.Category,
		Description:        m.Description,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainVoucherSlice(ms []models.Voucher) []domain.Voucher {
	ds := make([]domain.Voucher, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainVoucher(m)
	}
	return ds
}
