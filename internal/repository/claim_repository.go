package repository

import (
	"context"
	"fmt"
	"time"
	"vehicle-insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const claimColumns = `
	id, claim_number, policy_id, accident_place, accident_date,
	insured_amount, claimable_amount, status, reviewed_by, approved_by,
	decision_note, paid_at, created_at, updated_at`

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) BeginTransaction() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES (:id, :claim_number, :policy_id, :accident_place, :accident_date,
		        :insured_amount, :claimable_amount, :status, :reviewed_by, :approved_by,
		        :decision_note, :paid_at, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, claim)
	if err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}

	return nil
}

// GetByID retrieves a claim by its ID
func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	var claim models.Claim
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`

	err := r.db.GetContext(ctx, &claim, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim by id: %w", err)
	}

	return &claim, nil
}

// GetByIDForUpdateTx locks the claim row for the duration of the transaction
func (r *ClaimRepository) GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Claim, error) {
	var claim models.Claim
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1 FOR UPDATE`

	err := tx.GetContext(ctx, &claim, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock claim: %w", err)
	}

	return &claim, nil
}

// GetAll retrieves claims with optional filters
func (r *ClaimRepository) GetAll(ctx context.Context, filters map[string]interface{}) ([]models.Claim, error) {
	var claims []models.Claim
	query := `SELECT ` + claimColumns + ` FROM claims WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if policyID, ok := filters["policy_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND policy_id = $%d", argCount)
		args = append(args, policyID)
		argCount++
	}

	if status, ok := filters["status"].(models.ClaimStatus); ok {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	err := r.db.SelectContext(ctx, &claims, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims: %w", err)
	}

	return claims, nil
}

func (r *ClaimRepository) Update(ctx context.Context, claim *models.Claim) error {
	query := `
		UPDATE claims
		SET claimable_amount = :claimable_amount, status = :status,
		    reviewed_by = :reviewed_by, approved_by = :approved_by,
		    decision_note = :decision_note, paid_at = :paid_at, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, claim)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("claim not found")
	}

	return nil
}

func (r *ClaimRepository) UpdateTx(tx *sqlx.Tx, claim *models.Claim) error {
	query := `
		UPDATE claims
		SET claimable_amount = :claimable_amount, status = :status,
		    reviewed_by = :reviewed_by, approved_by = :approved_by,
		    decision_note = :decision_note, paid_at = :paid_at, updated_at = :updated_at
		WHERE id = :id
	`

	_, err := tx.NamedExec(query, claim)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}

	return nil
}

// GetMaxClaimNumber returns the highest claim number issued so far, or zero
// when no claim exists yet.
func (r *ClaimRepository) GetMaxClaimNumber(ctx context.Context) (int64, error) {
	var max int64
	query := `SELECT COALESCE(MAX(claim_number), 0) FROM claims`

	err := r.db.GetContext(ctx, &max, query)
	if err != nil {
		return 0, fmt.Errorf("failed to get max claim number: %w", err)
	}

	return max, nil
}

// HasBlockingClaims reports whether the policy has an approved or paid claim
// whose accident happened on or after the given date. Cancellation is refused
// while such a claim exists.
func (r *ClaimRepository) HasBlockingClaims(ctx context.Context, policyID uuid.UUID, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM claims
			WHERE policy_id = $1
			  AND status IN ('APPROVED', 'PAID')
			  AND accident_date >= $2
		)
	`

	err := r.db.GetContext(ctx, &exists, query, policyID, since)
	if err != nil {
		return false, fmt.Errorf("failed to check blocking claims: %w", err)
	}

	return exists, nil
}
