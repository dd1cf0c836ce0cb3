package models

import (
	"time"

	"github.com/google/uuid"
)

type CreateEstimateRequest struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	VehicleID       uuid.UUID `json:"vehicle_id"`
	InsuranceTypeID uuid.UUID `json:"insurance_type_id"`
	DurationMonths  int       `json:"duration_months"`
	Warranty        *string   `json:"warranty,omitempty"`
	Submit          bool      `json:"submit"`
}

type DecideEstimateRequest struct {
	Note        string    `json:"note"`
	StaffUserID uuid.UUID `json:"staff_user_id"`
}

type CreatePolicyRequest struct {
	CustomerID      uuid.UUID  `json:"customer_id"`
	VehicleID       uuid.UUID  `json:"vehicle_id"`
	InsuranceTypeID uuid.UUID  `json:"insurance_type_id"`
	DurationMonths  int        `json:"duration_months"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	PremiumAmount   *float64   `json:"premium_amount,omitempty"`
	Warranty        *string    `json:"warranty,omitempty"`
	CreateBill      bool       `json:"create_bill"`
}

type PaymentResultRequest struct {
	Success bool `json:"success"`
}

type RenewPolicyRequest struct {
	DurationMonths int  `json:"duration_months"`
	CreateBill     bool `json:"create_bill"`
}

type CancelPolicyRequest struct {
	Reason       string  `json:"reason"`
	RefundAmount float64 `json:"refund_amount"`
}

type CreatePaymentRequest struct {
	Amount         *float64 `json:"amount,omitempty"`
	Method         string   `json:"method"`
	TransactionRef *string  `json:"transaction_ref,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

type ConfirmPaymentRequest struct {
	Success bool `json:"success"`
}

type CreateClaimRequest struct {
	PolicyID      uuid.UUID `json:"policy_id"`
	AccidentPlace string    `json:"accident_place"`
	AccidentDate  time.Time `json:"accident_date"`
}

type ReviewClaimRequest struct {
	StaffID uuid.UUID `json:"staff_id"`
	Note    *string   `json:"note,omitempty"`
}

type ApproveClaimRequest struct {
	StaffID         uuid.UUID `json:"staff_id"`
	ClaimableAmount float64   `json:"claimable_amount"`
	Note            *string   `json:"note,omitempty"`
}

type RejectClaimRequest struct {
	StaffID uuid.UUID `json:"staff_id"`
	Note    string    `json:"note"`
}

type CreateInspectionRequest struct {
	VehicleID          uuid.UUID  `json:"vehicle_id"`
	ClaimID            *uuid.UUID `json:"claim_id,omitempty"`
	AssignedStaffID    uuid.UUID  `json:"assigned_staff_id"`
	ScheduledDate      time.Time  `json:"scheduled_date"`
	InspectionLocation *string    `json:"inspection_location,omitempty"`
}

type CompleteInspectionRequest struct {
	Result            string  `json:"result"`
	OverallAssessment *string `json:"overall_assessment,omitempty"`
	ConfirmedCorrect  *bool   `json:"confirmed_correct,omitempty"`
}

type VerifyInspectionRequest struct {
	StaffID uuid.UUID `json:"staff_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

type GenerateOTPRequest struct {
	Email string `json:"email"`
}

type ValidateOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
