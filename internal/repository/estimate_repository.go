package repository

import (
	"context"
	"fmt"
	"vehicle-insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const estimateColumns = `
	id, estimate_number, customer_id, vehicle_id, insurance_type_id,
	customer_name, vehicle_name, insurance_type_code, duration_months,
	warranty, base_amount, surcharge_amount, tax_amount, total_amount,
	status, valid_until, decision_note, decided_by, created_at, updated_at`

type EstimateRepository struct {
	db *sqlx.DB
}

func NewEstimateRepository(db *sqlx.DB) *EstimateRepository {
	return &EstimateRepository{db: db}
}

func (r *EstimateRepository) BeginTransaction() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

func (r *EstimateRepository) Create(ctx context.Context, estimate *models.Estimate) error {
	query := `
		INSERT INTO estimates (` + estimateColumns + `)
		VALUES (:id, :estimate_number, :customer_id, :vehicle_id, :insurance_type_id,
		        :customer_name, :vehicle_name, :insurance_type_code, :duration_months,
		        :warranty, :base_amount, :surcharge_amount, :tax_amount, :total_amount,
		        :status, :valid_until, :decision_note, :decided_by, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, estimate)
	if err != nil {
		return fmt.Errorf("failed to create estimate: %w", err)
	}

	return nil
}

// GetByID retrieves an estimate by its ID
func (r *EstimateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	var estimate models.Estimate
	query := `SELECT ` + estimateColumns + ` FROM estimates WHERE id = $1`

	err := r.db.GetContext(ctx, &estimate, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate by id: %w", err)
	}

	return &estimate, nil
}

// GetByIDForUpdateTx locks the estimate row for the duration of the
// transaction. Conversion runs under this lock so one estimate can never be
// converted into two policies.
func (r *EstimateRepository) GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Estimate, error) {
	var estimate models.Estimate
	query := `SELECT ` + estimateColumns + ` FROM estimates WHERE id = $1 FOR UPDATE`

	err := tx.GetContext(ctx, &estimate, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock estimate: %w", err)
	}

	return &estimate, nil
}

// GetAll retrieves estimates with optional filters
func (r *EstimateRepository) GetAll(ctx context.Context, filters map[string]interface{}) ([]models.Estimate, error) {
	var estimates []models.Estimate
	query := `SELECT ` + estimateColumns + ` FROM estimates WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if customerID, ok := filters["customer_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND customer_id = $%d", argCount)
		args = append(args, customerID)
		argCount++
	}

	if status, ok := filters["status"].(models.EstimateStatus); ok {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	err := r.db.SelectContext(ctx, &estimates, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get estimates: %w", err)
	}

	return estimates, nil
}

func (r *EstimateRepository) Update(ctx context.Context, estimate *models.Estimate) error {
	query := `
		UPDATE estimates
		SET status = :status, decision_note = :decision_note, decided_by = :decided_by,
		    updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, estimate)
	if err != nil {
		return fmt.Errorf("failed to update estimate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("estimate not found")
	}

	return nil
}

func (r *EstimateRepository) UpdateTx(tx *sqlx.Tx, estimate *models.Estimate) error {
	query := `
		UPDATE estimates
		SET status = :status, decision_note = :decision_note, decided_by = :decided_by,
		    updated_at = :updated_at
		WHERE id = :id
	`

	_, err := tx.NamedExec(query, estimate)
	if err != nil {
		return fmt.Errorf("failed to update estimate: %w", err)
	}

	return nil
}

// ExistsByNumber checks whether an estimate number is already taken
func (r *EstimateRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM estimates WHERE estimate_number = $1)`

	err := r.db.GetContext(ctx, &exists, query, number)
	if err != nil {
		return false, fmt.Errorf("failed to check estimate number: %w", err)
	}

	return exists, nil
}
