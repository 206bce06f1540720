package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pumpsoft/station_backend/internal/core/domain"
	portsrepo "github.com/pumpsoft/station_backend/internal/core/ports/repositories"
	portssvc "github.com/pumpsoft/station_backend/internal/core/ports/services"
	"github.com/pumpsoft/station_backend/internal/dto"
	"github.com/pumpsoft/station_backend/internal/middleware"
)

// shiftService manages shift reference data.
type shiftService struct {
	shiftRepo portsrepo.ShiftRepositoryFacade
}

// NewShiftService creates a new shift service.
func NewShiftService(shiftRepo portsrepo.ShiftRepositoryFacade) portssvc.ShiftSvcFacade {
	return &shiftService{shiftRepo: shiftRepo}
}

var _ portssvc.ShiftSvcFacade = (*shiftService)(nil)

// CreateShift creates a new active shift.
func (s *shiftService) CreateShift(ctx context.Context, req dto.CreateShiftRequest, creatorUserID string) (*domain.Shift, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	shift := domain.Shift{
		ShiftID:  uuid.NewString(),
		Name:     req.Name,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.shiftRepo.SaveShift(ctx, shift); err != nil {
		logger.Error("Failed to save shift", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Shift created", slog.String("shift_id", shift.ShiftID), slog.String("name", shift.Name))
	return &shift, nil
}

// GetShiftByID retrieves a single shift.
func (s *shiftService) GetShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	return s.shiftRepo.FindShiftByID(ctx, shiftID)
}

// ListShifts retrieves shifts, optionally including inactive ones.
func (s *shiftService) ListShifts(ctx context.Context, includeInactive bool) ([]domain.Shift, error) {
	return s.shiftRepo.ListShifts(ctx, includeInactive)
}

// UpdateShift applies the given field changes to a shift.
func (s *shiftService) UpdateShift(ctx context.Context, shiftID string, req dto.UpdateShiftRequest, userID string) (*domain.Shift, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	shift, err := s.shiftRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	updated := *shift
	if req.Name != nil {
		updated.Name = *req.Name
	}
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	if err := s.shiftRepo.UpdateShift(ctx, updated); err != nil {
		logger.Error("Failed to update shift", slog.String("shift_id", shiftID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}

	return &updated, nil
}

// DeactivateShift marks a shift inactive. Existing closures and readings stay.
func (s *shiftService) DeactivateShift(ctx context.Context, shiftID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.shiftRepo.FindShiftByID(ctx, shiftID); err != nil {
		return err
	}

	if err := s.shiftRepo.DeactivateShift(ctx, shiftID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate shift", slog.String("shift_id", shiftID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to deactivate shift: %w", err)
	}

	logger.Info("Shift deactivated", slog.String("shift_id", shiftID))
	return nil
}
