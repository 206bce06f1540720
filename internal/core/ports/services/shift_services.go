package services

import (
	"context"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	"github.com/pumpsoft/station_backend/internal/dto"
)

// ShiftSvcFacade manages shift reference data.
type ShiftSvcFacade interface {
	CreateShift(ctx context.Context, req dto.CreateShiftRequest, creatorUserID string) (*domain.Shift, error)
	GetShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error)
	ListShifts(ctx context.Context, includeInactive bool) ([]domain.Shift, error)
	UpdateShift(ctx context.Context, shiftID string, req dto.UpdateShiftRequest, userID string) (*domain.Shift, error)
	DeactivateShift(ctx context.Context, shiftID string, userID string) error
}
