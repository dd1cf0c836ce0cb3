package repository

import (
	"context"
	"fmt"
	"vehicle-insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const billColumns = `
	id, policy_id, bill_type, bill_date, amount, paid, status,
	due_date, paid_at, invoice_object, created_at, updated_at`

const paymentColumns = `
	id, bill_id, amount, method, status, transaction_ref, note,
	created_at, updated_at, processed_at`

type BillRepository struct {
	db *sqlx.DB
}

func NewBillRepository(db *sqlx.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) BeginTransaction() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

func (r *BillRepository) Create(ctx context.Context, bill *models.Bill) error {
	return r.create(ctx, r.db, bill)
}

func (r *BillRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, bill *models.Bill) error {
	return r.create(ctx, tx, bill)
}

func (r *BillRepository) create(ctx context.Context, execer sqlx.ExtContext, bill *models.Bill) error {
	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES (:id, :policy_id, :bill_type, :bill_date, :amount, :paid, :status,
		        :due_date, :paid_at, :invoice_object, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, execer, query, bill)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	return nil
}

// GetByID retrieves a bill by its ID
func (r *BillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`

	err := r.db.GetContext(ctx, &bill, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill by id: %w", err)
	}

	return &bill, nil
}

// GetByIDForUpdateTx locks the bill row for the duration of the transaction.
// Payment creation and confirmation both run under this lock so concurrent
// confirmations cannot overpay a bill.
func (r *BillRepository) GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 FOR UPDATE`

	err := tx.GetContext(ctx, &bill, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock bill: %w", err)
	}

	return &bill, nil
}

// GetOldestUnpaidByPolicyTx locks and returns the oldest not-fully-paid bill
// for the policy, or nil when every bill is settled.
func (r *BillRepository) GetOldestUnpaidByPolicyTx(ctx context.Context, tx *sqlx.Tx, policyID uuid.UUID) (*models.Bill, error) {
	var bills []models.Bill
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE policy_id = $1 AND status <> 'PAID'
		ORDER BY bill_date ASC
		LIMIT 1
		FOR UPDATE
	`

	err := tx.SelectContext(ctx, &bills, query, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unpaid bill: %w", err)
	}
	if len(bills) == 0 {
		return nil, nil
	}

	return &bills[0], nil
}

// GetAll retrieves bills with optional filters
func (r *BillRepository) GetAll(ctx context.Context, filters map[string]interface{}) ([]models.Bill, error) {
	var bills []models.Bill
	query := `SELECT ` + billColumns + ` FROM bills WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if policyID, ok := filters["policy_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND policy_id = $%d", argCount)
		args = append(args, policyID)
		argCount++
	}

	if status, ok := filters["status"].(models.BillStatus); ok {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += " ORDER BY bill_date DESC"

	err := r.db.SelectContext(ctx, &bills, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}

	return bills, nil
}

func (r *BillRepository) Update(ctx context.Context, bill *models.Bill) error {
	query := `
		UPDATE bills
		SET amount = :amount, paid = :paid, status = :status, due_date = :due_date,
		    paid_at = :paid_at, invoice_object = :invoice_object, updated_at = :updated_at
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, bill)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}

	return nil
}

func (r *BillRepository) UpdateTx(tx *sqlx.Tx, bill *models.Bill) error {
	query := `
		UPDATE bills
		SET amount = :amount, paid = :paid, status = :status, due_date = :due_date,
		    paid_at = :paid_at, invoice_object = :invoice_object, updated_at = :updated_at
		WHERE id = :id
	`

	_, err := tx.NamedExec(query, bill)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}

	return nil
}

// SumSuccessPaymentsTx returns the paid total for a bill inside the
// current transaction.
func (r *BillRepository) SumSuccessPaymentsTx(ctx context.Context, tx *sqlx.Tx, billID uuid.UUID) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM bill_payments WHERE bill_id = $1 AND status = 'SUCCESS'`

	err := tx.GetContext(ctx, &total, query, billID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}

	return total, nil
}

func (r *BillRepository) CreatePaymentTx(ctx context.Context, tx *sqlx.Tx, payment *models.BillPayment) error {
	query := `
		INSERT INTO bill_payments (` + paymentColumns + `)
		VALUES (:id, :bill_id, :amount, :method, :status, :transaction_ref, :note,
		        :created_at, :updated_at, :processed_at)
	`

	_, err := sqlx.NamedExecContext(ctx, tx, query, payment)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetPaymentByIDTx locks a payment row inside the current transaction
func (r *BillRepository) GetPaymentByIDTx(ctx context.Context, tx *sqlx.Tx, paymentID uuid.UUID) (*models.BillPayment, error) {
	var payment models.BillPayment
	query := `SELECT ` + paymentColumns + ` FROM bill_payments WHERE id = $1 FOR UPDATE`

	err := tx.GetContext(ctx, &payment, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock payment: %w", err)
	}

	return &payment, nil
}

func (r *BillRepository) UpdatePaymentTx(tx *sqlx.Tx, payment *models.BillPayment) error {
	query := `
		UPDATE bill_payments
		SET status = :status, note = :note, updated_at = :updated_at, processed_at = :processed_at
		WHERE id = :id
	`

	_, err := tx.NamedExec(query, payment)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	return nil
}

// GetPaymentsByBill retrieves all payments recorded against a bill
func (r *BillRepository) GetPaymentsByBill(ctx context.Context, billID uuid.UUID) ([]models.BillPayment, error) {
	var payments []models.BillPayment
	query := `SELECT ` + paymentColumns + ` FROM bill_payments WHERE bill_id = $1 ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &payments, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return payments, nil
}
