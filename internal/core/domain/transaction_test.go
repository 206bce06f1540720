package domain_test

import (
	"testing"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_IsPairOf(t *testing.T) {
	debit := domain.Transaction{
		TransactionID: "txn_debit",
		PairID:        "pair_1",
		AccountID:     "acc_bank",
		Amount:        decimal.NewFromInt(100),
		Type:          domain.Debit,
	}
	credit := domain.Transaction{
		TransactionID: "txn_credit",
		PairID:        "pair_1",
		AccountID:     "acc_cash",
		Amount:        decimal.NewFromInt(100),
		Type:          domain.Credit,
	}

	tests := []struct {
		name   string
		mutate func(*domain.Transaction)
		want   bool
	}{
		{
			name:   "well-formed pair",
			mutate: func(*domain.Transaction) {},
			want:   true,
		},
		{
			name:   "different pair id",
			mutate: func(other *domain.Transaction) { other.PairID = "pair_2" },
			want:   false,
		},
		{
			name:   "unequal amounts",
			mutate: func(other *domain.Transaction) { other.Amount = decimal.NewFromInt(99) },
			want:   false,
		},
		{
			name:   "same type on both legs",
			mutate: func(other *domain.Transaction) { other.Type = domain.Debit },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := credit
			tt.mutate(&other)
			assert.Equal(t, tt.want, debit.IsPairOf(other))
			assert.Equal(t, tt.want, other.IsPairOf(debit))
		})
	}
}
