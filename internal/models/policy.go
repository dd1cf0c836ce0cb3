package models

import (
	"time"

	"github.com/google/uuid"
)

// Policy is the issued insurance contract. Customer, vehicle and insurance
// type attributes are snapshotted at issuance so later edits to those
// records never alter the historical contract.
type Policy struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	PolicyNumber string     `json:"policy_number" db:"policy_number"`
	CustomerID   uuid.UUID  `json:"customer_id" db:"customer_id"`
	VehicleID    uuid.UUID  `json:"vehicle_id" db:"vehicle_id"`
	EstimateID   *uuid.UUID `json:"estimate_id,omitempty" db:"estimate_id"`

	CustomerName      string  `json:"customer_name" db:"customer_name"`
	CustomerAddress   *string `json:"customer_address,omitempty" db:"customer_address"`
	CustomerPhone     *string `json:"customer_phone,omitempty" db:"customer_phone"`
	VehicleName       string  `json:"vehicle_name" db:"vehicle_name"`
	VehicleNumber     *string `json:"vehicle_number,omitempty" db:"vehicle_number"`
	BodyNumber        *string `json:"body_number,omitempty" db:"body_number"`
	EngineNumber      *string `json:"engine_number,omitempty" db:"engine_number"`
	VehicleRate       float64 `json:"vehicle_rate" db:"vehicle_rate"`
	InsuranceTypeCode string  `json:"insurance_type_code" db:"insurance_type_code"`
	InsuranceTypeName string  `json:"insurance_type_name" db:"insurance_type_name"`
	BaseRatePercent   float64 `json:"base_rate_percent" db:"base_rate_percent"`
	Warranty          *string `json:"warranty,omitempty" db:"warranty"`

	StartDate      *time.Time   `json:"start_date,omitempty" db:"start_date"`
	EndDate        *time.Time   `json:"end_date,omitempty" db:"end_date"`
	DurationMonths int          `json:"duration_months" db:"duration_months"`
	PremiumAmount  float64      `json:"premium_amount" db:"premium_amount"`
	Status         PolicyStatus `json:"status" db:"status"`

	// Staged renewal values. All three are set together and promoted into
	// StartDate/EndDate/DurationMonths when the renewal bill is paid.
	PendingRenewalMonths *int       `json:"pending_renewal_months,omitempty" db:"pending_renewal_months"`
	PendingRenewalStart  *time.Time `json:"pending_renewal_start,omitempty" db:"pending_renewal_start"`
	PendingRenewalEnd    *time.Time `json:"pending_renewal_end,omitempty" db:"pending_renewal_end"`

	PaymentDueDate      *time.Time `json:"payment_due_date,omitempty" db:"payment_due_date"`
	CancelReason        *string    `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CancelEffectiveDate *time.Time `json:"cancel_effective_date,omitempty" db:"cancel_effective_date"`
	IsHidden            bool       `json:"is_hidden" db:"is_hidden"`

	AddressProofObject *string `json:"address_proof_object,omitempty" db:"address_proof_object"`
	DocumentObject     *string `json:"document_object,omitempty" db:"document_object"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasPendingRenewal reports whether a renewal is staged on the policy.
func (p *Policy) HasPendingRenewal() bool {
	return p.PendingRenewalMonths != nil && p.PendingRenewalStart != nil && p.PendingRenewalEnd != nil
}

// ClearPendingRenewal resets the staged renewal triplet.
func (p *Policy) ClearPendingRenewal() {
	p.PendingRenewalMonths = nil
	p.PendingRenewalStart = nil
	p.PendingRenewalEnd = nil
}

type InsuranceCancellation struct {
	ID           uuid.UUID `json:"id" db:"id"`
	PolicyID     uuid.UUID `json:"policy_id" db:"policy_id"`
	CancelDate   time.Time `json:"cancel_date" db:"cancel_date"`
	Reason       string    `json:"reason" db:"reason"`
	RefundAmount float64   `json:"refund_amount" db:"refund_amount"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
