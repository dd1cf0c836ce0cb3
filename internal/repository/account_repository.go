package repository

import (
	"context"
	"fmt"
	"vehicle-insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AccountRepository covers the reference data the policy flows hang off of:
// users, customers, staff, vehicles and insurance types.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash, email, role, is_locked, created_at
	          FROM users WHERE username = $1`

	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (r *AccountRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash, email, role, is_locked, created_at
	          FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

func (r *AccountRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, email, role, is_locked, created_at)
		VALUES (:id, :username, :password_hash, :email, :role, :is_locked, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	query := `SELECT id, user_id, customer_name, address, phone, is_active, created_at
	          FROM customers WHERE id = $1`

	err := r.db.GetContext(ctx, &customer, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by id: %w", err)
	}

	return &customer, nil
}

func (r *AccountRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, user_id, customer_name, address, phone, is_active, created_at)
		VALUES (:id, :user_id, :customer_name, :address, :phone, :is_active, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, customer)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// DeactivateCustomer marks the customer inactive. Their policies are hidden
// separately by the policy repository.
func (r *AccountRepository) DeactivateCustomer(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE customers SET is_active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("customer not found")
	}

	return nil
}

func (r *AccountRepository) GetStaffByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var staff models.Staff
	query := `SELECT id, user_id, full_name, phone, position, is_active
	          FROM staff WHERE id = $1`

	err := r.db.GetContext(ctx, &staff, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff by id: %w", err)
	}

	return &staff, nil
}

func (r *AccountRepository) GetVehicleByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	query := `SELECT id, customer_id, vehicle_name, vehicle_class, vehicle_brand, vehicle_rate,
	                 body_number, engine_number, vehicle_number, seat_count, manufacture_year, created_at
	          FROM vehicles WHERE id = $1`

	err := r.db.GetContext(ctx, &vehicle, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle by id: %w", err)
	}

	return &vehicle, nil
}

func (r *AccountRepository) GetVehiclesByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	query := `SELECT id, customer_id, vehicle_name, vehicle_class, vehicle_brand, vehicle_rate,
	                 body_number, engine_number, vehicle_number, seat_count, manufacture_year, created_at
	          FROM vehicles WHERE customer_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &vehicles, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicles: %w", err)
	}

	return vehicles, nil
}

func (r *AccountRepository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, customer_id, vehicle_name, vehicle_class, vehicle_brand, vehicle_rate,
		                      body_number, engine_number, vehicle_number, seat_count, manufacture_year, created_at)
		VALUES (:id, :customer_id, :vehicle_name, :vehicle_class, :vehicle_brand, :vehicle_rate,
		        :body_number, :engine_number, :vehicle_number, :seat_count, :manufacture_year, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, vehicle)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetInsuranceTypeByID(ctx context.Context, id uuid.UUID) (*models.InsuranceType, error) {
	var insuranceType models.InsuranceType
	query := `SELECT id, type_code, type_name, description, base_rate_percent, is_active, created_at
	          FROM insurance_types WHERE id = $1`

	err := r.db.GetContext(ctx, &insuranceType, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance type by id: %w", err)
	}

	return &insuranceType, nil
}

func (r *AccountRepository) GetInsuranceTypes(ctx context.Context) ([]models.InsuranceType, error) {
	var types []models.InsuranceType
	query := `SELECT id, type_code, type_name, description, base_rate_percent, is_active, created_at
	          FROM insurance_types WHERE is_active = TRUE ORDER BY type_code`

	err := r.db.SelectContext(ctx, &types, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance types: %w", err)
	}

	return types, nil
}
