package accounting

import (
	"testing"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(id string, txnType domain.TransactionType, amount int64) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		PairID:        "pair-" + id,
		AccountID:     "acc-1",
		Amount:        decimal.NewFromInt(amount),
		Type:          txnType,
	}
}

func TestSignedAmount(t *testing.T) {
	debit, err := SignedAmount(txn("t1", domain.Debit, 500))
	require.NoError(t, err)
	assert.True(t, debit.Equal(decimal.NewFromInt(500)), "debit should increase the balance")

	credit, err := SignedAmount(txn("t2", domain.Credit, 500))
	require.NoError(t, err)
	assert.True(t, credit.Equal(decimal.NewFromInt(-500)), "credit should decrease the balance")

	_, err = SignedAmount(domain.Transaction{TransactionID: "t3", Type: "BOGUS"})
	assert.Error(t, err)
}

func TestComputeRunningBalances(t *testing.T) {
	txns := []domain.Transaction{
		txn("t1", domain.Debit, 1000),
		txn("t2", domain.Credit, 300),
		txn("t3", domain.Debit, 50),
		txn("t4", domain.Credit, 750),
	}

	entries, err := ComputeRunningBalances(txns)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	expected := []int64{1000, 700, 750, 0}
	for i, want := range expected {
		assert.True(t, entries[i].Balance.Equal(decimal.NewFromInt(want)),
			"entry %d: expected balance %d, got %s", i, want, entries[i].Balance.String())
		assert.Equal(t, txns[i].TransactionID, entries[i].Transaction.TransactionID)
	}
}

func TestComputeRunningBalancesEmpty(t *testing.T) {
	entries, err := ComputeRunningBalances(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidatePair(t *testing.T) {
	debit := domain.Transaction{TransactionID: "d1", PairID: "p1", Amount: decimal.NewFromInt(500), Type: domain.Debit}
	credit := domain.Transaction{TransactionID: "c1", PairID: "p1", Amount: decimal.NewFromInt(500), Type: domain.Credit}

	assert.NoError(t, ValidatePair([]domain.Transaction{debit, credit}))

	// Wrong leg count
	assert.Error(t, ValidatePair([]domain.Transaction{debit}))

	// Mismatched amount
	badAmount := credit
	badAmount.Amount = decimal.NewFromInt(400)
	assert.Error(t, ValidatePair([]domain.Transaction{debit, badAmount}))

	// Same direction on both legs
	badType := credit
	badType.Type = domain.Debit
	assert.Error(t, ValidatePair([]domain.Transaction{debit, badType}))

	// Different pair ids
	badPair := credit
	badPair.PairID = "p2"
	assert.Error(t, ValidatePair([]domain.Transaction{debit, badPair}))
}
