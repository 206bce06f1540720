package dto

import "github.com/pumpsoft/station_backend/internal/core/domain"

// CreateShiftRequest defines the payload for creating a shift.
type CreateShiftRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateShiftRequest defines the updatable shift fields.
type UpdateShiftRequest struct {
	Name *string `json:"name"`
}

// ShiftResponse defines the data returned for a shift.
type ShiftResponse struct {
	ShiftID  string `json:"shiftID"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// ToShiftResponse converts a domain.Shift to its response DTO.
func ToShiftResponse(s *domain.Shift) ShiftResponse {
	return ShiftResponse{
		ShiftID:  s.ShiftID,
		Name:     s.Name,
		IsActive: s.IsActive,
	}
}

// ToShiftResponses converts a slice of shifts.
func ToShiftResponses(shifts []domain.Shift) []ShiftResponse {
	responses := make([]ShiftResponse, len(shifts))
	for i := range shifts {
		responses[i] = ToShiftResponse(&shifts[i])
	}
	return responses
}
