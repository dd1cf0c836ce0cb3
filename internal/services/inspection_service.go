package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/repository"
)

type InspectionService struct {
	inspectionRepo *repository.InspectionRepository
	claimRepo      *repository.ClaimRepository
	accountRepo    *repository.AccountRepository
	notifier       *Notifier
}

func NewInspectionService(
	inspectionRepo *repository.InspectionRepository,
	claimRepo *repository.ClaimRepository,
	accountRepo *repository.AccountRepository,
	notifier *Notifier,
) *InspectionService {
	return &InspectionService{
		inspectionRepo: inspectionRepo,
		claimRepo:      claimRepo,
		accountRepo:    accountRepo,
		notifier:       notifier,
	}
}

// CreateInspection schedules an inspection for a vehicle, optionally tied to
// a claim under review.
func (s *InspectionService) CreateInspection(ctx context.Context, req *models.CreateInspectionRequest) (*models.VehicleInspection, error) {
	vehicle, err := s.accountRepo.GetVehicleByID(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}

	staff, err := s.accountRepo.GetStaffByID(ctx, req.AssignedStaffID)
	if err != nil {
		return nil, fmt.Errorf("staff not found: %w", err)
	}
	if !staff.IsActive {
		return nil, fmt.Errorf("staff member is not active")
	}

	if req.ClaimID != nil {
		if _, err := s.claimRepo.GetByID(ctx, *req.ClaimID); err != nil {
			return nil, fmt.Errorf("claim not found: %w", err)
		}
	}

	now := time.Now()
	inspection := &models.VehicleInspection{
		ID:                 uuid.New(),
		VehicleID:          vehicle.ID,
		ClaimID:            req.ClaimID,
		AssignedStaffID:    staff.ID,
		ScheduledDate:      req.ScheduledDate,
		Status:             models.InspectionScheduled,
		InspectionLocation: req.InspectionLocation,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.inspectionRepo.Create(ctx, inspection); err != nil {
		return nil, err
	}

	slog.Info("Inspection scheduled",
		"inspection_id", inspection.ID,
		"vehicle_id", vehicle.ID,
		"staff_id", staff.ID,
		"scheduled_date", req.ScheduledDate)

	return inspection, nil
}

// StartInspection marks an inspection as in progress.
func (s *InspectionService) StartInspection(ctx context.Context, id uuid.UUID) (*models.VehicleInspection, error) {
	return s.transition(ctx, id, models.InspectionInProgress, func(inspection *models.VehicleInspection) {})
}

// CompleteInspection records the findings of a finished inspection.
func (s *InspectionService) CompleteInspection(ctx context.Context, id uuid.UUID, req *models.CompleteInspectionRequest) (*models.VehicleInspection, error) {
	if req.Result == "" {
		return nil, fmt.Errorf("inspection result is required")
	}

	return s.transition(ctx, id, models.InspectionCompleted, func(inspection *models.VehicleInspection) {
		now := time.Now()
		inspection.CompletedDate = &now
		inspection.Result = &req.Result
		inspection.OverallAssessment = req.OverallAssessment
		inspection.ConfirmedCorrect = req.ConfirmedCorrect
	})
}

// VerifyInspection records a second staff member's verification.
func (s *InspectionService) VerifyInspection(ctx context.Context, id uuid.UUID, req *models.VerifyInspectionRequest) (*models.VehicleInspection, error) {
	staff, err := s.accountRepo.GetStaffByID(ctx, req.StaffID)
	if err != nil {
		return nil, fmt.Errorf("staff not found: %w", err)
	}

	return s.transition(ctx, id, models.InspectionVerified, func(inspection *models.VehicleInspection) {
		now := time.Now()
		inspection.VerifiedByStaffID = &staff.ID
		inspection.VerifiedAt = &now
	})
}

// CancelInspection calls off a scheduled or running inspection.
func (s *InspectionService) CancelInspection(ctx context.Context, id uuid.UUID) (*models.VehicleInspection, error) {
	return s.transition(ctx, id, models.InspectionCancelled, func(inspection *models.VehicleInspection) {})
}

func (s *InspectionService) transition(ctx context.Context, id uuid.UUID, to models.InspectionStatus, mutate func(*models.VehicleInspection)) (*models.VehicleInspection, error) {
	inspection, err := s.inspectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspection not found: %w", err)
	}

	if !inspection.Status.CanTransition(to) {
		return nil, fmt.Errorf("invalid inspection transition from %s to %s", inspection.Status, to)
	}

	mutate(inspection)
	inspection.Status = to
	inspection.UpdatedAt = time.Now()

	if err := s.inspectionRepo.Update(ctx, inspection); err != nil {
		return nil, err
	}

	slog.Info("Inspection transitioned", "inspection_id", inspection.ID, "status", inspection.Status)
	return inspection, nil
}

// AttachReport links an uploaded report object to the inspection.
func (s *InspectionService) AttachReport(ctx context.Context, id uuid.UUID, objectName string) (*models.VehicleInspection, error) {
	inspection, err := s.inspectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspection not found: %w", err)
	}

	inspection.DocumentObject = &objectName
	inspection.UpdatedAt = time.Now()

	if err := s.inspectionRepo.Update(ctx, inspection); err != nil {
		return nil, err
	}

	return inspection, nil
}

// GetInspection retrieves an inspection.
func (s *InspectionService) GetInspection(ctx context.Context, id uuid.UUID) (*models.VehicleInspection, error) {
	inspection, err := s.inspectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspection not found: %w", err)
	}
	return inspection, nil
}

// ListInspections retrieves inspections, optionally filtered.
func (s *InspectionService) ListInspections(ctx context.Context, filters map[string]interface{}) ([]models.VehicleInspection, error) {
	return s.inspectionRepo.GetAll(ctx, filters)
}
