package repository

import (
	"context"
	"fmt"
	"vehicle-insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const policyColumns = `
	id, policy_number, customer_id, vehicle_id, estimate_id,
	customer_name, customer_address, customer_phone,
	vehicle_name, vehicle_number, body_number, engine_number, vehicle_rate,
	insurance_type_code, insurance_type_name, base_rate_percent, warranty,
	start_date, end_date, duration_months, premium_amount, status,
	pending_renewal_months, pending_renewal_start, pending_renewal_end,
	payment_due_date, cancel_reason, cancel_effective_date, is_hidden,
	address_proof_object, document_object, created_at, updated_at`

const policyUpdateSet = `
	status = :status,
	start_date = :start_date, end_date = :end_date,
	duration_months = :duration_months, premium_amount = :premium_amount,
	pending_renewal_months = :pending_renewal_months,
	pending_renewal_start = :pending_renewal_start,
	pending_renewal_end = :pending_renewal_end,
	payment_due_date = :payment_due_date,
	cancel_reason = :cancel_reason,
	cancel_effective_date = :cancel_effective_date,
	is_hidden = :is_hidden,
	document_object = :document_object,
	updated_at = :updated_at`

type PolicyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) BeginTransaction() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

func (r *PolicyRepository) Create(ctx context.Context, policy *models.Policy) error {
	return r.create(ctx, r.db, policy)
}

func (r *PolicyRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, policy *models.Policy) error {
	return r.create(ctx, tx, policy)
}

func (r *PolicyRepository) create(ctx context.Context, execer sqlx.ExtContext, policy *models.Policy) error {
	query := `
		INSERT INTO policies (` + policyColumns + `)
		VALUES (:id, :policy_number, :customer_id, :vehicle_id, :estimate_id,
		        :customer_name, :customer_address, :customer_phone,
		        :vehicle_name, :vehicle_number, :body_number, :engine_number, :vehicle_rate,
		        :insurance_type_code, :insurance_type_name, :base_rate_percent, :warranty,
		        :start_date, :end_date, :duration_months, :premium_amount, :status,
		        :pending_renewal_months, :pending_renewal_start, :pending_renewal_end,
		        :payment_due_date, :cancel_reason, :cancel_effective_date, :is_hidden,
		        :address_proof_object, :document_object, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, execer, query, policy)
	if err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	return nil
}

// GetByID retrieves a policy by its ID
func (r *PolicyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Policy, error) {
	var policy models.Policy
	query := `SELECT ` + policyColumns + ` FROM policies WHERE id = $1`

	err := r.db.GetContext(ctx, &policy, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get policy by id: %w", err)
	}

	return &policy, nil
}

// GetByIDForUpdateTx locks the policy row for the duration of the transaction
func (r *PolicyRepository) GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Policy, error) {
	var policy models.Policy
	query := `SELECT ` + policyColumns + ` FROM policies WHERE id = $1 FOR UPDATE`

	err := tx.GetContext(ctx, &policy, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock policy: %w", err)
	}

	return &policy, nil
}

// GetAll retrieves policies with optional filters. Hidden policies are
// excluded unless include_hidden is set.
func (r *PolicyRepository) GetAll(ctx context.Context, filters map[string]interface{}) ([]models.Policy, error) {
	var policies []models.Policy
	query := `SELECT ` + policyColumns + ` FROM policies WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if includeHidden, ok := filters["include_hidden"].(bool); !ok || !includeHidden {
		query += " AND is_hidden = FALSE"
	}

	if customerID, ok := filters["customer_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND customer_id = $%d", argCount)
		args = append(args, customerID)
		argCount++
	}

	if status, ok := filters["status"].(models.PolicyStatus); ok {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	err := r.db.SelectContext(ctx, &policies, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get policies: %w", err)
	}

	return policies, nil
}

// GetByStatuses retrieves all policies currently in one of the given
// statuses. Used by the lifecycle sweep.
func (r *PolicyRepository) GetByStatuses(ctx context.Context, statuses []models.PolicyStatus) ([]models.Policy, error) {
	query, args, err := sqlx.In(
		`SELECT `+policyColumns+` FROM policies WHERE status IN (?)`, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to build status query: %w", err)
	}

	var policies []models.Policy
	err = r.db.SelectContext(ctx, &policies, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get policies by status: %w", err)
	}

	return policies, nil
}

func (r *PolicyRepository) Update(ctx context.Context, policy *models.Policy) error {
	query := `UPDATE policies SET ` + policyUpdateSet + ` WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, policy)
	if err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("policy not found")
	}

	return nil
}

func (r *PolicyRepository) UpdateTx(tx *sqlx.Tx, policy *models.Policy) error {
	query := `UPDATE policies SET ` + policyUpdateSet + ` WHERE id = :id`

	_, err := tx.NamedExec(query, policy)
	if err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}

	return nil
}

// ExistsByNumber checks whether a policy number is already taken
func (r *PolicyRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM policies WHERE policy_number = $1)`

	err := r.db.GetContext(ctx, &exists, query, number)
	if err != nil {
		return false, fmt.Errorf("failed to check policy number: %w", err)
	}

	return exists, nil
}

// SetHiddenByCustomer flips the soft-visibility flag on all of a customer's
// policies. Used when the customer account is deactivated.
func (r *PolicyRepository) SetHiddenByCustomer(ctx context.Context, customerID uuid.UUID, hidden bool) error {
	query := `UPDATE policies SET is_hidden = $1, updated_at = NOW() WHERE customer_id = $2`

	_, err := r.db.ExecContext(ctx, query, hidden, customerID)
	if err != nil {
		return fmt.Errorf("failed to update policy visibility: %w", err)
	}

	return nil
}

// CreateCancellation records an insurance cancellation row
func (r *PolicyRepository) CreateCancellation(ctx context.Context, cancellation *models.InsuranceCancellation) error {
	query := `
		INSERT INTO insurance_cancellations (id, policy_id, cancel_date, reason, refund_amount, created_at)
		VALUES (:id, :policy_id, :cancel_date, :reason, :refund_amount, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, cancellation)
	if err != nil {
		return fmt.Errorf("failed to create cancellation record: %w", err)
	}

	return nil
}
