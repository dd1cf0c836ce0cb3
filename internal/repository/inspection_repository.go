package repository

import (
	"context"
	"fmt"
	"vehicle-insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const inspectionColumns = `
	id, vehicle_id, claim_id, assigned_staff_id, scheduled_date, completed_date,
	status, result, inspection_location, overall_assessment, confirmed_correct,
	document_object, verified_by_staff_id, verified_at, created_at, updated_at`

type InspectionRepository struct {
	db *sqlx.DB
}

func NewInspectionRepository(db *sqlx.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

func (r *InspectionRepository) Create(ctx context.Context, inspection *models.VehicleInspection) error {
	query := `
		INSERT INTO vehicle_inspections (` + inspectionColumns + `)
		VALUES (:id, :vehicle_id, :claim_id, :assigned_staff_id, :scheduled_date, :completed_date,
		        :status, :result, :inspection_location, :overall_assessment, :confirmed_correct,
		        :document_object, :verified_by_staff_id, :verified_at, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, inspection)
	if err != nil {
		return fmt.Errorf("failed to create inspection: %w", err)
	}

	return nil
}

// GetByID retrieves an inspection by its ID
func (r *InspectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VehicleInspection, error) {
	var inspection models.VehicleInspection
	query := `SELECT ` + inspectionColumns + ` FROM vehicle_inspections WHERE id = $1`

	err := r.db.GetContext(ctx, &inspection, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection by id: %w", err)
	}

	return &inspection, nil
}

// GetAll retrieves inspections with optional filters
func (r *InspectionRepository) GetAll(ctx context.Context, filters map[string]interface{}) ([]models.VehicleInspection, error) {
	var inspections []models.VehicleInspection
	query := `SELECT ` + inspectionColumns + ` FROM vehicle_inspections WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if vehicleID, ok := filters["vehicle_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND vehicle_id = $%d", argCount)
		args = append(args, vehicleID)
		argCount++
	}

	if claimID, ok := filters["claim_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND claim_id = $%d", argCount)
		args = append(args, claimID)
		argCount++
	}

	if staffID, ok := filters["assigned_staff_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND assigned_staff_id = $%d", argCount)
		args = append(args, staffID)
		argCount++
	}

	if status, ok := filters["status"].(models.InspectionStatus); ok {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += " ORDER BY scheduled_date DESC"

	err := r.db.SelectContext(ctx, &inspections, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get inspections: %w", err)
	}

	return inspections, nil
}

func (r *InspectionRepository) Update(ctx context.Context, inspection *models.VehicleInspection) error {
	query := `
		UPDATE vehicle_inspections
		SET completed_date = :completed_date, status = :status, result = :result,
		    inspection_location = :inspection_location, overall_assessment = :overall_assessment,
		    confirmed_correct = :confirmed_correct, document_object = :document_object,
		    verified_by_staff_id = :verified_by_staff_id, verified_at = :verified_at,
		    updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, inspection)
	if err != nil {
		return fmt.Errorf("failed to update inspection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("inspection not found")
	}

	return nil
}
