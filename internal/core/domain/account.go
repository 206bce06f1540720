package domain

import "github.com/shopspring/decimal"

// Account represents a ledger head of the station's books (cash in hand,
// a bank, a customer, a supplier, an expense head, ...).
//
// Balance is a materialized value maintained alongside the transaction
// history; every mutation happens under a row lock inside the same database
// transaction that records the transaction pair.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	AccountNumber string          `json:"accountNumber"` // User-facing unique account number
	Name          string          `json:"name"`
	GroupCode     string          `json:"groupCode"` // Classification code for reporting
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}
