package models

import "time"

// Shift is the shifts table row.
type Shift struct {
	ShiftID  string `db:"shift_id"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
	AuditFields
}

// ShiftClosure is the shift_closures table row. Snapshot is a jsonb column
// holding the full reconciled settlement.
type ShiftClosure struct {
	ClosureID string    `db:"closure_id"`
	ShiftID   string    `db:"shift_id"`
	CloseDate time.Time `db:"close_date"`
	Snapshot  []byte    `db:"snapshot"`
	AuditFields
}
