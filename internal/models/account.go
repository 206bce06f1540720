package models

import "github.com/shopspring/decimal"

// Account is the accounts table row.
type Account struct {
	AccountID     string          `db:"account_id"`
	AccountNumber string          `db:"account_number"`
	Name          string          `db:"name"`
	GroupCode     string          `db:"group_code"`
	Balance       decimal.Decimal `db:"balance"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}
