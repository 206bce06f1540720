package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/models"
)

func ToModelShift(d domain.Shift) models.Shift {
	return models.Shift{
		ShiftID:     d.ShiftID,
		Name:        d.Name,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainShift(m models.Shift) domain.Shift {
	return domain.Shift{
		ShiftID:     m.ShiftID,
		Name:        m.Name,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelShiftClosure serializes the settlement snapshot to the jsonb column.
func ToModelShiftClosure(d domain.ShiftClosure) (models.ShiftClosure, error) {
	snapshot, err := json.Marshal(d.Snapshot)
	if err != nil {
		return models.ShiftClosure{}, fmt.Errorf("failed to marshal settlement snapshot for closure %s: %w", d.ClosureID, err)
	}
	return models.ShiftClosure{
		ClosureID:   d.ClosureID,
		ShiftID:     d.ShiftID,
		CloseDate:   d.CloseDate,
		Snapshot:    snapshot,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

func ToDomainShiftClosure(m models.ShiftClosure) (domain.ShiftClosure, error) {
	var snapshot domain.SettlementSnapshot
	if len(m.Snapshot) > 0 {
		if err := json.Unmarshal(m.Snapshot, &snapshot); err != nil {
			return domain.ShiftClosure{}, fmt.Errorf("failed to unmarshal settlement snapshot for closure %s: %w", m.ClosureID, err)
		}
	}
	return domain.ShiftClosure{
		ClosureID:   m.ClosureID,
		ShiftID:     m.ShiftID,
		CloseDate:   m.CloseDate,
		Snapshot:    snapshot,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}
