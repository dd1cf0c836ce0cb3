package models

import (
	"time"

	"github.com/google/uuid"
)

// Claim is a policyholder's loss claim against a policy.
//
// InsuredAmount is populated from the policy's premium at intake, not from a
// coverage limit. The original system behaves this way and the name is kept.
type Claim struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	ClaimNumber     int64       `json:"claim_number" db:"claim_number"`
	PolicyID        uuid.UUID   `json:"policy_id" db:"policy_id"`
	AccidentPlace   string      `json:"accident_place" db:"accident_place"`
	AccidentDate    time.Time   `json:"accident_date" db:"accident_date"`
	InsuredAmount   float64     `json:"insured_amount" db:"insured_amount"`
	ClaimableAmount *float64    `json:"claimable_amount,omitempty" db:"claimable_amount"`
	Status          ClaimStatus `json:"status" db:"status"`
	ReviewedBy      *uuid.UUID  `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ApprovedBy      *uuid.UUID  `json:"approved_by,omitempty" db:"approved_by"`
	DecisionNote    *string     `json:"decision_note,omitempty" db:"decision_note"`
	PaidAt          *time.Time  `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// VehicleInspection tracks a dispatched inspection for a vehicle, optionally
// linked to a claim.
type VehicleInspection struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	VehicleID          uuid.UUID        `json:"vehicle_id" db:"vehicle_id"`
	ClaimID            *uuid.UUID       `json:"claim_id,omitempty" db:"claim_id"`
	AssignedStaffID    uuid.UUID        `json:"assigned_staff_id" db:"assigned_staff_id"`
	ScheduledDate      time.Time        `json:"scheduled_date" db:"scheduled_date"`
	CompletedDate      *time.Time       `json:"completed_date,omitempty" db:"completed_date"`
	Status             InspectionStatus `json:"status" db:"status"`
	Result             *string          `json:"result,omitempty" db:"result"`
	InspectionLocation *string          `json:"inspection_location,omitempty" db:"inspection_location"`
	OverallAssessment  *string          `json:"overall_assessment,omitempty" db:"overall_assessment"`
	ConfirmedCorrect   *bool            `json:"confirmed_correct,omitempty" db:"confirmed_correct"`
	DocumentObject     *string          `json:"document_object,omitempty" db:"document_object"`
	VerifiedByStaffID  *uuid.UUID       `json:"verified_by_staff_id,omitempty" db:"verified_by_staff_id"`
	VerifiedAt         *time.Time       `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}
