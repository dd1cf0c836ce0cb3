package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/repository"
)

// PaymentDueDays is the payment window granted on issuance and renewal.
const PaymentDueDays = 7

type PolicyService struct {
	policyRepo   *repository.PolicyRepository
	estimateRepo *repository.EstimateRepository
	billRepo     *repository.BillRepository
	claimRepo    *repository.ClaimRepository
	accountRepo  *repository.AccountRepository
	lifecycle    *LifecycleService
	notifier     *Notifier
}

func NewPolicyService(
	policyRepo *repository.PolicyRepository,
	estimateRepo *repository.EstimateRepository,
	billRepo *repository.BillRepository,
	claimRepo *repository.ClaimRepository,
	accountRepo *repository.AccountRepository,
	lifecycle *LifecycleService,
	notifier *Notifier,
) *PolicyService {
	return &PolicyService{
		policyRepo:   policyRepo,
		estimateRepo: estimateRepo,
		billRepo:     billRepo,
		claimRepo:    claimRepo,
		accountRepo:  accountRepo,
		lifecycle:    lifecycle,
		notifier:     notifier,
	}
}

// CreatePolicy issues a policy directly, without a prior estimate. Customer,
// vehicle and insurance type attributes are snapshotted onto the policy row.
func (s *PolicyService) CreatePolicy(ctx context.Context, req *models.CreatePolicyRequest) (*models.Policy, error) {
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

	premium := 0.0
	if req.PremiumAmount != nil && *req.PremiumAmount > 0 {
		premium = Round2(*req.PremiumAmount)
	} else {
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
		premium = breakdown.Total
	}

	now := time.Now()
	start := now
	if req.StartDate != nil {
		start = *req.StartDate
	}
	end := start.AddDate(0, req.DurationMonths, 0).AddDate(0, 0, -1)

	number, err := generateDocumentNumber(ctx, s.policyRepo.ExistsByNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to generate policy number: %w", err)
	}

	dueDate := now.AddDate(0, 0, PaymentDueDays)
	policy := &models.Policy{
		ID:                uuid.New(),
		PolicyNumber:      number,
		CustomerID:        customer.ID,
		VehicleID:         vehicle.ID,
		CustomerName:      customer.CustomerName,
		CustomerAddress:   customer.Address,
		CustomerPhone:     customer.Phone,
		VehicleName:       vehicle.VehicleName,
		VehicleNumber:     vehicle.VehicleNumber,
		BodyNumber:        vehicle.BodyNumber,
		EngineNumber:      vehicle.EngineNumber,
		VehicleRate:       vehicle.VehicleRate,
		InsuranceTypeCode: insuranceType.TypeCode,
		InsuranceTypeName: insuranceType.TypeName,
		BaseRatePercent:   insuranceType.BaseRatePercent,
		Warranty:          req.Warranty,
		StartDate:         &start,
		EndDate:           &end,
		DurationMonths:    req.DurationMonths,
		PremiumAmount:     premium,
		Status:            models.PolicyWaitingPayment,
		PaymentDueDate:    &dueDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.policyRepo.Create(ctx, policy); err != nil {
		return nil, err
	}

	if req.CreateBill {
		if err := s.createBill(ctx, policy, models.BillInitial, premium, &dueDate); err != nil {
			slog.Error("Failed to create initial bill", "policy_id", policy.ID, "error", err)
		}
	}

	slog.Info("Policy created",
		"policy_id", policy.ID,
		"policy_number", policy.PolicyNumber,
		"premium_amount", policy.PremiumAmount)

	s.notifier.Audit(ctx, customer.UserID, "CREATE", "policy", policy.PolicyNumber)

	return policy, nil
}

// CreateFromEstimate converts an approved, unexpired estimate into a policy.
// The estimate is locked so exactly one policy can ever come out of it.
func (s *PolicyService) CreateFromEstimate(ctx context.Context, estimateID uuid.UUID, createBill bool) (*models.Policy, error) {
	tx, err := s.estimateRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	estimate, err := s.estimateRepo.GetByIDForUpdateTx(ctx, tx, estimateID)
	if err != nil {
		return nil, fmt.Errorf("estimate not found: %w", err)
	}

	if estimate.Status == models.EstimateConverted {
		return nil, fmt.Errorf("estimate %s already converted", estimate.EstimateNumber)
	}
	if estimate.Status != models.EstimateApproved {
		return nil, fmt.Errorf("estimate %s must be approved before conversion", estimate.EstimateNumber)
	}
	if estimate.IsExpired(time.Now()) {
		return nil, fmt.Errorf("estimate %s has expired", estimate.EstimateNumber)
	}

	customer, err := s.accountRepo.GetCustomerByID(ctx, estimate.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	vehicle, err := s.accountRepo.GetVehicleByID(ctx, estimate.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}
	insuranceType, err := s.accountRepo.GetInsuranceTypeByID(ctx, estimate.InsuranceTypeID)
	if err != nil {
		return nil, fmt.Errorf("insurance type not found: %w", err)
	}

	number, err := generateDocumentNumber(ctx, s.policyRepo.ExistsByNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to generate policy number: %w", err)
	}

	now := time.Now()
	start := now
	end := start.AddDate(0, estimate.DurationMonths, 0).AddDate(0, 0, -1)
	dueDate := now.AddDate(0, 0, PaymentDueDays)

	policy := &models.Policy{
		ID:                uuid.New(),
		PolicyNumber:      number,
		CustomerID:        customer.ID,
		VehicleID:         vehicle.ID,
		EstimateID:        &estimate.ID,
		CustomerName:      customer.CustomerName,
		CustomerAddress:   customer.Address,
		CustomerPhone:     customer.Phone,
		VehicleName:       vehicle.VehicleName,
		VehicleNumber:     vehicle.VehicleNumber,
		BodyNumber:        vehicle.BodyNumber,
		EngineNumber:      vehicle.EngineNumber,
		VehicleRate:       vehicle.VehicleRate,
		InsuranceTypeCode: insuranceType.TypeCode,
		InsuranceTypeName: insuranceType.TypeName,
		BaseRatePercent:   insuranceType.BaseRatePercent,
		Warranty:          estimate.Warranty,
		StartDate:         &start,
		EndDate:           &end,
		DurationMonths:    estimate.DurationMonths,
		PremiumAmount:     estimate.TotalAmount,
		Status:            models.PolicyWaitingPayment,
		PaymentDueDate:    &dueDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.policyRepo.CreateTx(ctx, tx, policy); err != nil {
		return nil, err
	}

	estimate.Status = models.EstimateConverted
	estimate.UpdatedAt = now
	if err := s.estimateRepo.UpdateTx(tx, estimate); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}

	if createBill {
		if err := s.createBill(ctx, policy, models.BillInitial, policy.PremiumAmount, &dueDate); err != nil {
			slog.Error("Failed to create initial bill", "policy_id", policy.ID, "error", err)
		}
	}

	slog.Info("Policy created from estimate",
		"policy_id", policy.ID,
		"policy_number", policy.PolicyNumber,
		"estimate_number", estimate.EstimateNumber)

	s.notifier.Audit(ctx, customer.UserID, "CONVERT", "estimate", estimate.EstimateNumber)

	return policy, nil
}

// ApplyPaymentResult settles the oldest open bill of the policy and moves the
// policy accordingly. On success a staged renewal is promoted into the live
// coverage dates and the policy activates. On failure past the due date the
// policy lapses (renewal pending) or is cancelled as overdue (initial
// issuance).
func (s *PolicyService) ApplyPaymentResult(ctx context.Context, policyID uuid.UUID, success bool) (*models.Policy, error) {
	tx, err := s.policyRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	policy, err := s.policyRepo.GetByIDForUpdateTx(ctx, tx, policyID)
	if err != nil {
		return nil, fmt.Errorf("policy not found: %w", err)
	}

	bill, err := s.billRepo.GetOldestUnpaidByPolicyTx(ctx, tx, policy.ID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("no unpaid bill found for policy %s", policy.PolicyNumber)
	}

	now := time.Now()

	if success {
		bill.Status = models.BillPaid
		bill.Paid = true
		bill.PaidAt = &now
		bill.UpdatedAt = now
		if err := s.billRepo.UpdateTx(tx, bill); err != nil {
			return nil, err
		}

		s.activate(policy, now)
	} else {
		bill.Status = models.BillUnpaid
		bill.Paid = false
		bill.PaidAt = nil
		bill.UpdatedAt = now
		if err := s.billRepo.UpdateTx(tx, bill); err != nil {
			return nil, err
		}

		applyLifecycleState(policy, now)
	}

	if err := s.policyRepo.UpdateTx(tx, policy); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment result: %w", err)
	}

	slog.Info("Payment result applied",
		"policy_id", policy.ID,
		"success", success,
		"status", policy.Status)

	return policy, nil
}

// ActivateForPaidBillTx promotes a fully paid policy inside the caller's
// transaction. It is the activation half of ApplyPaymentResult, used by the
// payment ledger once a bill reaches PAID.
func (s *PolicyService) ActivateForPaidBillTx(ctx context.Context, tx *sqlx.Tx, policyID uuid.UUID) error {
	policy, err := s.policyRepo.GetByIDForUpdateTx(ctx, tx, policyID)
	if err != nil {
		return fmt.Errorf("policy not found: %w", err)
	}

	if policy.Status != models.PolicyWaitingPayment && !policy.HasPendingRenewal() {
		return nil
	}

	s.activate(policy, time.Now())

	return s.policyRepo.UpdateTx(tx, policy)
}

// activate promotes any staged renewal into the live coverage fields and
// moves the policy to ACTIVE with no outstanding due date.
func (s *PolicyService) activate(policy *models.Policy, now time.Time) {
	s.promoteRenewal(policy)
	policy.Status = models.PolicyActive
	policy.PaymentDueDate = nil
	policy.UpdatedAt = now
}

// promoteRenewal copies a staged renewal triplet into the live coverage
// fields and clears the staging. No-op when nothing is staged.
func (s *PolicyService) promoteRenewal(policy *models.Policy) {
	if !policy.HasPendingRenewal() {
		return
	}

	policy.StartDate = policy.PendingRenewalStart
	policy.EndDate = policy.PendingRenewalEnd
	policy.DurationMonths = *policy.PendingRenewalMonths
	policy.ClearPendingRenewal()
}

// RenewPolicy stages a renewal on an active or lapsed policy. Coverage dates
// take effect only once the renewal bill is paid.
func (s *PolicyService) RenewPolicy(ctx context.Context, policyID uuid.UUID, req *models.RenewPolicyRequest) (*models.Policy, error) {
	if req.DurationMonths <= 0 {
		return nil, fmt.Errorf("invalid duration: must be at least one month")
	}

	policy, err := s.policyRepo.GetByID(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("policy not found: %w", err)
	}

	if policy.Status != models.PolicyActive && policy.Status != models.PolicyLapsed {
		return nil, fmt.Errorf("policy %s cannot be renewed from status %s", policy.PolicyNumber, policy.Status)
	}

	now := time.Now()
	start := now
	if policy.EndDate != nil {
		start = policy.EndDate.AddDate(0, 0, 1)
	}
	end := start.AddDate(0, req.DurationMonths, 0).AddDate(0, 0, -1)

	renewalPremium := ProratedRenewalPremium(policy.PremiumAmount, req.DurationMonths, policy.DurationMonths)
	dueDate := now.AddDate(0, 0, PaymentDueDays)

	months := req.DurationMonths
	policy.PendingRenewalMonths = &months
	policy.PendingRenewalStart = &start
	policy.PendingRenewalEnd = &end
	policy.PaymentDueDate = &dueDate
	policy.Status = models.PolicyWaitingPayment
	policy.UpdatedAt = now

	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}

	if req.CreateBill {
		if err := s.createBill(ctx, policy, models.BillRenewal, renewalPremium, &dueDate); err != nil {
			slog.Error("Failed to create renewal bill", "policy_id", policy.ID, "error", err)
		}
	}

	slog.Info("Policy renewal staged",
		"policy_id", policy.ID,
		"policy_number", policy.PolicyNumber,
		"renewal_months", req.DurationMonths,
		"renewal_premium", renewalPremium)

	return policy, nil
}

// CancelPolicy cancels the policy with a mandatory reason. Cancellation is
// refused while the policy has an approved or paid claim whose accident date
// falls on or after the cancellation date.
func (s *PolicyService) CancelPolicy(ctx context.Context, policyID uuid.UUID, req *models.CancelPolicyRequest) (*models.Policy, error) {
	if req.Reason == "" {
		return nil, fmt.Errorf("cancellation reason is required")
	}

	policy, err := s.policyRepo.GetByID(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("policy not found: %w", err)
	}

	if !policy.Status.CanTransition(models.PolicyCancelled) {
		return nil, fmt.Errorf("policy %s cannot be cancelled from status %s", policy.PolicyNumber, policy.Status)
	}

	now := time.Now()
	blocked, err := s.claimRepo.HasBlockingClaims(ctx, policy.ID, now)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, fmt.Errorf("policy %s has payable claims and cannot be cancelled", policy.PolicyNumber)
	}

	cancellation := &models.InsuranceCancellation{
		ID:           uuid.New(),
		PolicyID:     policy.ID,
		CancelDate:   now,
		Reason:       req.Reason,
		RefundAmount: Round2(req.RefundAmount),
		CreatedAt:    now,
	}
	if err := s.policyRepo.CreateCancellation(ctx, cancellation); err != nil {
		return nil, err
	}

	policy.Status = models.PolicyCancelled
	policy.CancelReason = &req.Reason
	policy.CancelEffectiveDate = &now
	policy.ClearPendingRenewal()
	policy.PaymentDueDate = nil
	policy.UpdatedAt = now

	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}

	slog.Info("Policy cancelled",
		"policy_id", policy.ID,
		"policy_number", policy.PolicyNumber,
		"reason", req.Reason)

	s.notifier.Audit(ctx, nil, "CANCEL", "policy", policy.PolicyNumber)

	return policy, nil
}

// GetPolicy retrieves a policy, refreshing its status first so the caller
// never sees a stale state.
func (s *PolicyService) GetPolicy(ctx context.Context, policyID uuid.UUID) (*models.Policy, error) {
	policy, err := s.policyRepo.GetByID(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("policy not found: %w", err)
	}

	if err := s.lifecycle.RefreshPolicy(ctx, policy); err != nil {
		slog.Warn("Failed to refresh policy status", "policy_id", policy.ID, "error", err)
	}

	return policy, nil
}

// ListPolicies runs the lifecycle sweep, then lists policies.
func (s *PolicyService) ListPolicies(ctx context.Context, filters map[string]interface{}) ([]models.Policy, error) {
	if err := s.lifecycle.RunLifecycleUpdate(ctx); err != nil {
		slog.Warn("Lifecycle sweep before listing failed", "error", err)
	}

	return s.policyRepo.GetAll(ctx, filters)
}

// AttachAddressProof links an uploaded address proof object to the policy.
func (s *PolicyService) AttachAddressProof(ctx context.Context, policyID uuid.UUID, objectName string) (*models.Policy, error) {
	policy, err := s.policyRepo.GetByID(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("policy not found: %w", err)
	}

	policy.AddressProofObject = &objectName
	policy.UpdatedAt = time.Now()

	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}

	return policy, nil
}

// AttachPolicyDocument links a generated policy document to the policy.
func (s *PolicyService) AttachPolicyDocument(ctx context.Context, policyID uuid.UUID, objectName string) (*models.Policy, error) {
	policy, err := s.policyRepo.GetByID(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("policy not found: %w", err)
	}

	policy.DocumentObject = &objectName
	policy.UpdatedAt = time.Now()

	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}

	return policy, nil
}

// DeactivateCustomer disables the customer account and hides their policies
// from default listings.
func (s *PolicyService) DeactivateCustomer(ctx context.Context, customerID uuid.UUID) error {
	if err := s.accountRepo.DeactivateCustomer(ctx, customerID); err != nil {
		return err
	}

	if err := s.policyRepo.SetHiddenByCustomer(ctx, customerID, true); err != nil {
		return err
	}

	slog.Info("Customer deactivated", "customer_id", customerID)
	s.notifier.Audit(ctx, nil, "DEACTIVATE", "customer", customerID.String())

	return nil
}

func (s *PolicyService) createBill(ctx context.Context, policy *models.Policy, billType models.BillType, amount float64, dueDate *time.Time) error {
	now := time.Now()
	bill := &models.Bill{
		ID:        uuid.New(),
		PolicyID:  policy.ID,
		BillType:  billType,
		BillDate:  now,
		Amount:    amount,
		Paid:      false,
		Status:    models.BillUnpaid,
		DueDate:   dueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.billRepo.Create(ctx, bill)
}
