package domain

import "time"

// Shift is a named work period ("Morning", "Night") against which sales and
// readings are grouped. Long-lived reference data.
type Shift struct {
	ShiftID  string `json:"shiftID"` // Primary key (UUID)
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	AuditFields
}

// ShiftClosure seals a (shift, calendar date) combination. At most one
// closure may exist per key; the unique index on (shift_id, close_date) is
// the serialization point for concurrent closers. There is no transition
// back to open.
type ShiftClosure struct {
	ClosureID string             `json:"closureID"` // Primary key (UUID)
	ShiftID   string             `json:"shiftID"`
	CloseDate time.Time          `json:"closeDate"` // Calendar date, midnight UTC
	Snapshot  SettlementSnapshot `json:"snapshot"`
	AuditFields
}
