package accounting

import (
	"fmt"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the balance effect of one transaction leg. The
// receiving side of a transfer carries the Debit leg, so a Debit increases
// the account's balance and a Credit decreases it. This convention is shared
// by the ledger's balance-change calculation and the running-balance replay;
// changing one without the other breaks balance replayability.
func SignedAmount(txn domain.Transaction) (decimal.Decimal, error) {
	switch txn.Type {
	case domain.Debit:
		return txn.Amount, nil
	case domain.Credit:
		return txn.Amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown transaction type '%s' for transaction %s", txn.Type, txn.TransactionID)
	}
}

// RunningBalanceEntry pairs a transaction with the account balance after it.
type RunningBalanceEntry struct {
	Transaction domain.Transaction
	Balance     decimal.Decimal
}

// ComputeRunningBalances replays an ordered transaction sequence for a single
// account into the chronological balance series, starting from zero. The fold
// deliberately ignores any seeded opening balance; consumers wanting the
// cached balance must replay the full history.
func ComputeRunningBalances(txns []domain.Transaction) ([]RunningBalanceEntry, error) {
	entries := make([]RunningBalanceEntry, len(txns))
	balance := decimal.Zero
	for i, txn := range txns {
		signed, err := SignedAmount(txn)
		if err != nil {
			return nil, err
		}
		balance = balance.Add(signed)
		entries[i] = RunningBalanceEntry{Transaction: txn, Balance: balance}
	}
	return entries, nil
}

// ValidatePair checks the structural invariants of a transaction pair: two
// legs, equal non-negative amounts, opposite types, shared pair id.
func ValidatePair(pair []domain.Transaction) error {
	if len(pair) != 2 {
		return fmt.Errorf("transaction pair must have exactly two legs, got %d", len(pair))
	}
	if pair[0].Amount.IsNegative() || pair[1].Amount.IsNegative() {
		return fmt.Errorf("transaction amounts must be non-negative")
	}
	if !pair[0].IsPairOf(pair[1]) {
		return fmt.Errorf("legs %s and %s do not form a valid pair", pair[0].TransactionID, pair[1].TransactionID)
	}
	return nil
}
