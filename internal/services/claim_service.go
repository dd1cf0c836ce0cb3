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

const (
	// AccidentReportWindowDays is how long after an accident a claim may
	// still be filed.
	AccidentReportWindowDays = 5

	// claimNumberSeed starts the claim number sequence. The first claim ever
	// issued gets claimNumberSeed + 1.
	claimNumberSeed = int64(2026300000)
)

type ClaimService struct {
	claimRepo   *repository.ClaimRepository
	policyRepo  *repository.PolicyRepository
	accountRepo *repository.AccountRepository
	lifecycle   *LifecycleService
	notifier    *Notifier
}

func NewClaimService(
	claimRepo *repository.ClaimRepository,
	policyRepo *repository.PolicyRepository,
	accountRepo *repository.AccountRepository,
	lifecycle *LifecycleService,
	notifier *Notifier,
) *ClaimService {
	return &ClaimService{
		claimRepo:   claimRepo,
		policyRepo:  policyRepo,
		accountRepo: accountRepo,
		lifecycle:   lifecycle,
		notifier:    notifier,
	}
}

// ValidateAccidentDate checks the reporting window: the accident must not be
// in the future and must be at most five days old.
func ValidateAccidentDate(accidentDate, now time.Time) error {
	if accidentDate.After(now) {
		return fmt.Errorf("accident date cannot be in the future")
	}
	if accidentDate.Before(now.AddDate(0, 0, -AccidentReportWindowDays)) {
		return fmt.Errorf("accident must be reported within %d days", AccidentReportWindowDays)
	}
	return nil
}

// CreateClaim files a claim against an active policy. The policy status is
// refreshed first so a claim can never ride on a stale ACTIVE.
func (s *ClaimService) CreateClaim(ctx context.Context, req *models.CreateClaimRequest) (*models.Claim, error) {
	if req.AccidentPlace == "" {
		return nil, fmt.Errorf("accident place is required")
	}

	policy, err := s.policyRepo.GetByID(ctx, req.PolicyID)
	if err != nil {
		return nil, fmt.Errorf("policy not found: %w", err)
	}

	if err := s.lifecycle.RefreshPolicy(ctx, policy); err != nil {
		slog.Warn("Failed to refresh policy before claim intake", "policy_id", policy.ID, "error", err)
	}

	if policy.Status != models.PolicyActive {
		return nil, fmt.Errorf("policy %s is not active", policy.PolicyNumber)
	}

	now := time.Now()
	if err := ValidateAccidentDate(req.AccidentDate, now); err != nil {
		return nil, err
	}

	if policy.StartDate != nil && req.AccidentDate.Before(*policy.StartDate) {
		return nil, fmt.Errorf("accident date is outside the coverage period")
	}
	if policy.EndDate != nil && req.AccidentDate.After(*policy.EndDate) {
		return nil, fmt.Errorf("accident date is outside the coverage period")
	}

	maxNumber, err := s.claimRepo.GetMaxClaimNumber(ctx)
	if err != nil {
		return nil, err
	}
	if maxNumber < claimNumberSeed {
		maxNumber = claimNumberSeed
	}

	claim := &models.Claim{
		ID:            uuid.New(),
		ClaimNumber:   maxNumber + 1,
		PolicyID:      policy.ID,
		AccidentPlace: req.AccidentPlace,
		AccidentDate:  req.AccidentDate,
		InsuredAmount: policy.PremiumAmount,
		Status:        models.ClaimSubmitted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, err
	}

	slog.Info("Claim filed",
		"claim_id", claim.ID,
		"claim_number", claim.ClaimNumber,
		"policy_number", policy.PolicyNumber)

	customer, err := s.accountRepo.GetCustomerByID(ctx, policy.CustomerID)
	if err == nil && customer.UserID != nil {
		s.notifier.Notify(ctx, customer.UserID,
			"Claim received",
			fmt.Sprintf("Claim %d for policy %s has been received and is awaiting review.", claim.ClaimNumber, policy.PolicyNumber),
			models.ChannelInApp)
	}

	return claim, nil
}

// ReviewClaim moves a claim into UNDER_REVIEW.
func (s *ClaimService) ReviewClaim(ctx context.Context, claimID uuid.UUID, req *models.ReviewClaimRequest) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	if !claim.Status.CanTransition(models.ClaimUnderReview) {
		return nil, fmt.Errorf("invalid claim transition from %s to %s", claim.Status, models.ClaimUnderReview)
	}

	claim.Status = models.ClaimUnderReview
	claim.ReviewedBy = &req.StaffID
	if req.Note != nil {
		claim.DecisionNote = req.Note
	}
	claim.UpdatedAt = time.Now()

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	slog.Info("Claim under review", "claim_id", claim.ID, "staff_id", req.StaffID)
	return claim, nil
}

// RequestMoreInfo asks the policyholder for additional material.
func (s *ClaimService) RequestMoreInfo(ctx context.Context, claimID uuid.UUID, req *models.ReviewClaimRequest) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	if !claim.Status.CanTransition(models.ClaimRequestMoreInfo) {
		return nil, fmt.Errorf("invalid claim transition from %s to %s", claim.Status, models.ClaimRequestMoreInfo)
	}

	claim.Status = models.ClaimRequestMoreInfo
	claim.ReviewedBy = &req.StaffID
	if req.Note != nil {
		claim.DecisionNote = req.Note
	}
	claim.UpdatedAt = time.Now()

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	return claim, nil
}

// ValidateClaimableAmount checks an approval amount against the insured
// amount snapshot. The payout can never exceed what the policy covers.
func ValidateClaimableAmount(claimable, insured float64) error {
	if claimable <= 0 {
		return fmt.Errorf("invalid claimable amount")
	}
	if claimable > insured {
		return fmt.Errorf("claimable amount exceeds insured amount of %.2f", insured)
	}
	return nil
}

// ApproveClaim approves a reviewed claim for a claimable amount that must not
// exceed the insured amount.
func (s *ClaimService) ApproveClaim(ctx context.Context, claimID uuid.UUID, req *models.ApproveClaimRequest) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	if !claim.Status.CanTransition(models.ClaimApproved) {
		return nil, fmt.Errorf("invalid claim transition from %s to %s", claim.Status, models.ClaimApproved)
	}

	if err := ValidateClaimableAmount(req.ClaimableAmount, claim.InsuredAmount); err != nil {
		return nil, err
	}

	amount := Round2(req.ClaimableAmount)
	claim.Status = models.ClaimApproved
	claim.ClaimableAmount = &amount
	claim.ApprovedBy = &req.StaffID
	if req.Note != nil {
		claim.DecisionNote = req.Note
	}
	claim.UpdatedAt = time.Now()

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	slog.Info("Claim approved",
		"claim_id", claim.ID,
		"claim_number", claim.ClaimNumber,
		"claimable_amount", amount)

	return claim, nil
}

// RejectClaim declines a reviewed claim. A note explaining the decision is
// mandatory.
func (s *ClaimService) RejectClaim(ctx context.Context, claimID uuid.UUID, req *models.RejectClaimRequest) (*models.Claim, error) {
	if req.Note == "" {
		return nil, fmt.Errorf("rejection note is required")
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	if !claim.Status.CanTransition(models.ClaimRejected) {
		return nil, fmt.Errorf("invalid claim transition from %s to %s", claim.Status, models.ClaimRejected)
	}

	claim.Status = models.ClaimRejected
	claim.ApprovedBy = &req.StaffID
	claim.DecisionNote = &req.Note
	claim.UpdatedAt = time.Now()

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	slog.Info("Claim rejected", "claim_id", claim.ID, "claim_number", claim.ClaimNumber)
	return claim, nil
}

// PayClaim settles an approved claim.
func (s *ClaimService) PayClaim(ctx context.Context, claimID uuid.UUID) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	if !claim.Status.CanTransition(models.ClaimPaid) {
		return nil, fmt.Errorf("invalid claim transition from %s to %s", claim.Status, models.ClaimPaid)
	}

	now := time.Now()
	claim.Status = models.ClaimPaid
	claim.PaidAt = &now
	claim.UpdatedAt = now

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	slog.Info("Claim paid out", "claim_id", claim.ID, "claim_number", claim.ClaimNumber)
	return claim, nil
}

// GetClaim retrieves a claim.
func (s *ClaimService) GetClaim(ctx context.Context, claimID uuid.UUID) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}
	return claim, nil
}

// ListClaims retrieves claims, optionally filtered.
func (s *ClaimService) ListClaims(ctx context.Context, filters map[string]interface{}) ([]models.Claim, error) {
	return s.claimRepo.GetAll(ctx, filters)
}
