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

// EstimateValidityDays is the quote validity window.
const EstimateValidityDays = 7

type EstimateService struct {
	estimateRepo *repository.EstimateRepository
	accountRepo  *repository.AccountRepository
	notifier     *Notifier
}

func NewEstimateService(
	estimateRepo *repository.EstimateRepository,
	accountRepo *repository.AccountRepository,
	notifier *Notifier,
) *EstimateService {
	return &EstimateService{
		estimateRepo: estimateRepo,
		accountRepo:  accountRepo,
		notifier:     notifier,
	}
}

// CreateEstimate computes a premium quote and stores it. When the request is
// flagged as submitted the quote skips DRAFT and goes straight to review.
func (s *EstimateService) CreateEstimate(ctx context.Context, req *models.CreateEstimateRequest) (*models.Estimate, error) {
	if req.DurationMonths <= 0 {
		return nil, fmt.Errorf("invalid duration: must be at least one month")
	}

	customer, err := s.accountRepo.GetCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("customer account is not active")
	}

	vehicle, err := s.accountRepo.GetVehicleByID(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}
	if vehicle.CustomerID != customer.ID {
		return nil, fmt.Errorf("vehicle does not belong to customer")
	}

	insuranceType, err := s.accountRepo.GetInsuranceTypeByID(ctx, req.InsuranceTypeID)
	if err != nil {
		return nil, fmt.Errorf("insurance type not found: %w", err)
	}
	if !insuranceType.IsActive {
		return nil, fmt.Errorf("insurance type is not active")
	}

	vehicleClass := ""
	if vehicle.VehicleClass != nil {
		vehicleClass = *vehicle.VehicleClass
	}

	breakdown := ComputePremium(
		vehicle.VehicleRate,
		insuranceType.BaseRatePercent,
		insuranceType.TypeCode,
		vehicleClass,
		req.DurationMonths,
	)

	number, err := generateDocumentNumber(ctx, s.estimateRepo.ExistsByNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to generate estimate number: %w", err)
	}

	status := models.EstimateDraft
	if req.Submit {
		status = models.EstimateSubmitted
	}

	now := time.Now()
	estimate := &models.Estimate{
		ID:                uuid.New(),
		EstimateNumber:    number,
		CustomerID:        customer.ID,
		VehicleID:         vehicle.ID,
		InsuranceTypeID:   insuranceType.ID,
		CustomerName:      customer.CustomerName,
		VehicleName:       vehicle.VehicleName,
		InsuranceTypeCode: insuranceType.TypeCode,
		DurationMonths:    req.DurationMonths,
		Warranty:          req.Warranty,
		BaseAmount:        breakdown.Base,
		SurchargeAmount:   breakdown.Surcharge,
		TaxAmount:         breakdown.Tax,
		TotalAmount:       breakdown.Total,
		Status:            status,
		ValidUntil:        now.AddDate(0, 0, EstimateValidityDays),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.estimateRepo.Create(ctx, estimate); err != nil {
		return nil, err
	}

	slog.Info("Estimate created",
		"estimate_id", estimate.ID,
		"estimate_number", estimate.EstimateNumber,
		"total_amount", estimate.TotalAmount,
		"status", estimate.Status)

	return estimate, nil
}

// SubmitEstimate moves a draft quote into review.
func (s *EstimateService) SubmitEstimate(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	return s.decide(ctx, id, models.EstimateSubmitted, nil, nil)
}

// ApproveEstimate marks the quote as accepted by staff.
func (s *EstimateService) ApproveEstimate(ctx context.Context, id uuid.UUID, req *models.DecideEstimateRequest) (*models.Estimate, error) {
	return s.decide(ctx, id, models.EstimateApproved, &req.Note, &req.StaffUserID)
}

// RejectEstimate marks the quote as declined by staff.
func (s *EstimateService) RejectEstimate(ctx context.Context, id uuid.UUID, req *models.DecideEstimateRequest) (*models.Estimate, error) {
	return s.decide(ctx, id, models.EstimateRejected, &req.Note, &req.StaffUserID)
}

func (s *EstimateService) decide(ctx context.Context, id uuid.UUID, to models.EstimateStatus, note *string, decidedBy *uuid.UUID) (*models.Estimate, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("estimate not found: %w", err)
	}

	if estimate.IsExpired(time.Now()) {
		return nil, fmt.Errorf("estimate %s has expired", estimate.EstimateNumber)
	}

	if !estimate.Status.CanTransition(to) {
		return nil, fmt.Errorf("invalid estimate transition from %s to %s", estimate.Status, to)
	}

	estimate.Status = to
	if note != nil && *note != "" {
		estimate.DecisionNote = note
	}
	estimate.DecidedBy = decidedBy
	estimate.UpdatedAt = time.Now()

	if err := s.estimateRepo.Update(ctx, estimate); err != nil {
		return nil, err
	}

	slog.Info("Estimate decided", "estimate_id", estimate.ID, "status", estimate.Status)

	return estimate, nil
}

// GetEstimate retrieves a single estimate.
func (s *EstimateService) GetEstimate(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("estimate not found: %w", err)
	}
	return estimate, nil
}

// ListEstimates retrieves estimates, optionally filtered.
func (s *EstimateService) ListEstimates(ctx context.Context, filters map[string]interface{}) ([]models.Estimate, error) {
	return s.estimateRepo.GetAll(ctx, filters)
}
