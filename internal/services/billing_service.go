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

type BillingService struct {
	billRepo      *repository.BillRepository
	policyService *PolicyService
	notifier      *Notifier
}

func NewBillingService(
	billRepo *repository.BillRepository,
	policyService *PolicyService,
	notifier *Notifier,
) *BillingService {
	return &BillingService{
		billRepo:      billRepo,
		policyService: policyService,
		notifier:      notifier,
	}
}

// ComputeBillStatus derives a bill's status from its amount and the total of
// successful payments. A zero or negative amount is settled by definition.
func ComputeBillStatus(amount, paidTotal float64) models.BillStatus {
	switch {
	case amount <= 0:
		return models.BillPaid
	case paidTotal >= amount:
		return models.BillPaid
	case paidTotal > 0:
		return models.BillPartiallyPaid
	default:
		return models.BillUnpaid
	}
}

// CreatePayment registers a PENDING payment against a bill. The amount
// defaults to the outstanding remainder and must not exceed it.
func (s *BillingService) CreatePayment(ctx context.Context, billID uuid.UUID, req *models.CreatePaymentRequest) (*models.BillPayment, error) {
	tx, err := s.billRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bill, err := s.billRepo.GetByIDForUpdateTx(ctx, tx, billID)
	if err != nil {
		return nil, fmt.Errorf("bill not found: %w", err)
	}

	if bill.Status == models.BillPaid {
		return nil, fmt.Errorf("bill is already paid")
	}

	paidTotal, err := s.billRepo.SumSuccessPaymentsTx(ctx, tx, bill.ID)
	if err != nil {
		return nil, err
	}

	remaining := bill.Amount - paidTotal
	if remaining < 0 {
		remaining = 0
	}

	amount := remaining
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount")
	}
	if amount > remaining {
		return nil, fmt.Errorf("payment amount exceeds outstanding balance of %.2f", remaining)
	}

	method := req.Method
	if method == "" {
		method = "CARD"
	}

	now := time.Now()
	ref := fmt.Sprintf("BILL-%s-%d", bill.ID, now.UnixMilli())
	if req.TransactionRef != nil && *req.TransactionRef != "" {
		ref = *req.TransactionRef
	}

	payment := &models.BillPayment{
		ID:             uuid.New(),
		BillID:         bill.ID,
		Amount:         Round2(amount),
		Method:         method,
		Status:         models.PaymentPending,
		TransactionRef: ref,
		Note:           req.Note,
		CreatedAt:      now,
	}

	if err := s.billRepo.CreatePaymentTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	slog.Info("Payment created",
		"payment_id", payment.ID,
		"bill_id", bill.ID,
		"amount", payment.Amount,
		"transaction_ref", payment.TransactionRef)

	return payment, nil
}

// ConfirmPayment settles a PENDING payment as SUCCESS or FAILED, recomputes
// the bill and, when the bill reaches PAID, activates the policy.
func (s *BillingService) ConfirmPayment(ctx context.Context, paymentID uuid.UUID, success bool) (*models.BillPayment, error) {
	tx, err := s.billRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	payment, err := s.billRepo.GetPaymentByIDTx(ctx, tx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment not found: %w", err)
	}

	if payment.Status != models.PaymentPending {
		return nil, fmt.Errorf("payment has already been processed as %s", payment.Status)
	}

	bill, err := s.billRepo.GetByIDForUpdateTx(ctx, tx, payment.BillID)
	if err != nil {
		return nil, fmt.Errorf("bill not found: %w", err)
	}

	now := time.Now()
	if success {
		payment.Status = models.PaymentSuccess
	} else {
		payment.Status = models.PaymentFailed
	}
	payment.UpdatedAt = &now
	payment.ProcessedAt = &now

	if err := s.billRepo.UpdatePaymentTx(tx, payment); err != nil {
		return nil, err
	}

	becamePaid, err := s.recomputeBillTx(ctx, tx, bill, now)
	if err != nil {
		return nil, err
	}

	if becamePaid {
		if err := s.policyService.ActivateForPaidBillTx(ctx, tx, bill.PolicyID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment confirmation: %w", err)
	}

	slog.Info("Payment confirmed",
		"payment_id", payment.ID,
		"bill_id", bill.ID,
		"payment_status", payment.Status,
		"bill_status", bill.Status)

	return payment, nil
}

// RecordManualPayment records an immediately successful payment, for cash or
// bank-transfer settlements handled at the counter.
func (s *BillingService) RecordManualPayment(ctx context.Context, billID uuid.UUID, req *models.CreatePaymentRequest) (*models.BillPayment, error) {
	tx, err := s.billRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bill, err := s.billRepo.GetByIDForUpdateTx(ctx, tx, billID)
	if err != nil {
		return nil, fmt.Errorf("bill not found: %w", err)
	}

	if bill.Status == models.BillPaid {
		return nil, fmt.Errorf("bill is already paid")
	}

	paidTotal, err := s.billRepo.SumSuccessPaymentsTx(ctx, tx, bill.ID)
	if err != nil {
		return nil, err
	}

	remaining := bill.Amount - paidTotal
	if remaining < 0 {
		remaining = 0
	}

	amount := remaining
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount")
	}
	if amount > remaining {
		return nil, fmt.Errorf("payment amount exceeds outstanding balance of %.2f", remaining)
	}

	method := req.Method
	if method == "" {
		method = "MANUAL"
	}

	now := time.Now()
	ref := fmt.Sprintf("BILL-%s-%d", bill.ID, now.UnixMilli())
	if req.TransactionRef != nil && *req.TransactionRef != "" {
		ref = *req.TransactionRef
	}

	payment := &models.BillPayment{
		ID:             uuid.New(),
		BillID:         bill.ID,
		Amount:         Round2(amount),
		Method:         method,
		Status:         models.PaymentSuccess,
		TransactionRef: ref,
		Note:           req.Note,
		CreatedAt:      now,
		ProcessedAt:    &now,
	}

	if err := s.billRepo.CreatePaymentTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	becamePaid, err := s.recomputeBillTx(ctx, tx, bill, now)
	if err != nil {
		return nil, err
	}

	if becamePaid {
		if err := s.policyService.ActivateForPaidBillTx(ctx, tx, bill.PolicyID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit manual payment: %w", err)
	}

	slog.Info("Manual payment recorded",
		"payment_id", payment.ID,
		"bill_id", bill.ID,
		"amount", payment.Amount,
		"bill_status", bill.Status)

	return payment, nil
}

// recomputeBillTx refreshes the bill from its payment ledger. Returns whether
// this update moved the bill into PAID.
func (s *BillingService) recomputeBillTx(ctx context.Context, tx *sqlx.Tx, bill *models.Bill, now time.Time) (bool, error) {
	paidTotal, err := s.billRepo.SumSuccessPaymentsTx(ctx, tx, bill.ID)
	if err != nil {
		return false, err
	}

	wasPaid := bill.Status == models.BillPaid
	status := ComputeBillStatus(bill.Amount, paidTotal)

	bill.Status = status
	bill.Paid = status == models.BillPaid
	if bill.Paid && bill.PaidAt == nil {
		bill.PaidAt = &now
	}
	if !bill.Paid {
		bill.PaidAt = nil
	}
	bill.UpdatedAt = now

	if err := s.billRepo.UpdateTx(tx, bill); err != nil {
		return false, err
	}

	return bill.Paid && !wasPaid, nil
}

// AttachInvoice links a generated invoice object to the bill.
func (s *BillingService) AttachInvoice(ctx context.Context, billID uuid.UUID, objectName string) (*models.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("bill not found: %w", err)
	}

	bill.InvoiceObject = &objectName
	bill.UpdatedAt = time.Now()

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// GetBill retrieves a bill.
func (s *BillingService) GetBill(ctx context.Context, billID uuid.UUID) (*models.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("bill not found: %w", err)
	}
	return bill, nil
}

// ListBills retrieves bills, optionally filtered.
func (s *BillingService) ListBills(ctx context.Context, filters map[string]interface{}) ([]models.Bill, error) {
	return s.billRepo.GetAll(ctx, filters)
}

// ListPayments retrieves the payment ledger of a bill.
func (s *BillingService) ListPayments(ctx context.Context, billID uuid.UUID) ([]models.BillPayment, error) {
	return s.billRepo.GetPaymentsByBill(ctx, billID)
}
