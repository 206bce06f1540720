package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/models"
)

// ToModelTransaction converts a domain transaction to its table row,
// serializing the channel metadata to JSON.
func ToModelTransaction(d domain.Transaction) (models.Transaction, error) {
	detail, err := json.Marshal(d.ChannelDetail)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to marshal channel detail for transaction %s: %w", d.TransactionID, err)
	}
	return models.Transaction{
		TransactionID: d.TransactionID,
		PairID:        d.PairID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		Type:          string(d.Type),
		Channel:       string(d.Channel),
		ChannelDetail: detail,
		TxnDate:       d.TxnDate,
		Sequence:      d.Sequence,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainTransaction converts a table row back to the domain transaction.
func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	var detail domain.ChannelDetail
	if len(m.ChannelDetail) > 0 {
		if err := json.Unmarshal(m.ChannelDetail, &detail); err != nil {
			return domain.Transaction{}, fmt.Errorf("failed to unmarshal channel detail for transaction %s: %w", m.TransactionID, err)
		}
	}
	return domain.Transaction{
		TransactionID: m.TransactionID,
		PairID:        m.PairID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		Type:          domain.TransactionType(m.Type),
		Channel:       domain.PaymentChannel(m.Channel),
		ChannelDetail: detail,
		TxnDate:       m.TxnDate,
		Sequence:      m.Sequence,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainTransactionSlice converts a slice of rows, failing on the first
// malformed row.
func ToDomainTransactionSlice(ms []models.Transaction) ([]domain.Transaction, error) {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		d, err := ToDomainTransaction(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
