package models

import (
	"time"

	"github.com/google/uuid"
)

// Estimate is a premium quote for a customer/vehicle/insurance-type
// combination. Customer and vehicle names are snapshotted at creation.
type Estimate struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	EstimateNumber    string         `json:"estimate_number" db:"estimate_number"`
	CustomerID        uuid.UUID      `json:"customer_id" db:"customer_id"`
	VehicleID         uuid.UUID      `json:"vehicle_id" db:"vehicle_id"`
	InsuranceTypeID   uuid.UUID      `json:"insurance_type_id" db:"insurance_type_id"`
	CustomerName      string         `json:"customer_name" db:"customer_name"`
	VehicleName       string         `json:"vehicle_name" db:"vehicle_name"`
	InsuranceTypeCode string         `json:"insurance_type_code" db:"insurance_type_code"`
	DurationMonths    int            `json:"duration_months" db:"duration_months"`
	Warranty          *string        `json:"warranty,omitempty" db:"warranty"`
	BaseAmount        float64        `json:"base_amount" db:"base_amount"`
	SurchargeAmount   float64        `json:"surcharge_amount" db:"surcharge_amount"`
	TaxAmount         float64        `json:"tax_amount" db:"tax_amount"`
	TotalAmount       float64        `json:"total_amount" db:"total_amount"`
	Status            EstimateStatus `json:"status" db:"status"`
	ValidUntil        time.Time      `json:"valid_until" db:"valid_until"`
	DecisionNote      *string        `json:"decision_note,omitempty" db:"decision_note"`
	DecidedBy         *uuid.UUID     `json:"decided_by,omitempty" db:"decided_by"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// IsExpired reports whether the quote's 7-day validity window has passed.
func (e *Estimate) IsExpired(now time.Time) bool {
	return now.After(e.ValidUntil)
}
