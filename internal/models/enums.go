package models

type EstimateStatus string

const (
	EstimateDraft     EstimateStatus = "DRAFT"
	EstimateSubmitted EstimateStatus = "SUBMITTED"
	EstimateApproved  EstimateStatus = "APPROVED"
	EstimateRejected  EstimateStatus = "REJECTED"
	EstimateConverted EstimateStatus = "CONVERTED"
)

type PolicyStatus string

const (
	PolicyWaitingPayment PolicyStatus = "WAITING_PAYMENT"
	PolicyActive         PolicyStatus = "ACTIVE"
	PolicyLapsed         PolicyStatus = "LAPSED"
	PolicyCancelled      PolicyStatus = "CANCELLED"
)

type BillType string

const (
	BillInitial BillType = "INITIAL"
	BillRenewal BillType = "RENEWAL"
)

type BillStatus string

const (
	BillUnpaid        BillStatus = "UNPAID"
	BillPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillPaid          BillStatus = "PAID"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

type ClaimStatus string

const (
	ClaimSubmitted       ClaimStatus = "SUBMITTED"
	ClaimUnderReview     ClaimStatus = "UNDER_REVIEW"
	ClaimRequestMoreInfo ClaimStatus = "REQUEST_MORE_INFO"
	ClaimApproved        ClaimStatus = "APPROVED"
	ClaimRejected        ClaimStatus = "REJECTED"
	ClaimPaid            ClaimStatus = "PAID"
)

type InspectionStatus string

const (
	InspectionScheduled  InspectionStatus = "SCHEDULED"
	InspectionInProgress InspectionStatus = "IN_PROGRESS"
	InspectionCompleted  InspectionStatus = "COMPLETED"
	InspectionVerified   InspectionStatus = "VERIFIED"
	InspectionCancelled  InspectionStatus = "CANCELLED"
)

type NotificationStatus string

const (
	NotificationQueued NotificationStatus = "QUEUED"
	NotificationSent   NotificationStatus = "SENT"
	NotificationFailed NotificationStatus = "FAILED"
)

type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "IN_APP"
	ChannelEmail NotificationChannel = "EMAIL"
)

// Transition tables. Every status mutation goes through CanTransition so a
// typo'd status string can never enter the database.

var estimateTransitions = map[EstimateStatus][]EstimateStatus{
	EstimateDraft:     {EstimateSubmitted, EstimateApproved, EstimateRejected},
	EstimateSubmitted: {EstimateApproved, EstimateRejected},
	EstimateApproved:  {EstimateConverted},
}

var policyTransitions = map[PolicyStatus][]PolicyStatus{
	PolicyWaitingPayment: {PolicyActive, PolicyLapsed, PolicyCancelled},
	PolicyActive:         {PolicyWaitingPayment, PolicyLapsed, PolicyCancelled},
	PolicyLapsed:         {PolicyWaitingPayment, PolicyCancelled},
}

var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimSubmitted:       {ClaimUnderReview},
	ClaimUnderReview:     {ClaimRequestMoreInfo, ClaimApproved, ClaimRejected},
	ClaimRequestMoreInfo: {ClaimUnderReview},
	ClaimApproved:        {ClaimPaid},
}

var inspectionTransitions = map[InspectionStatus][]InspectionStatus{
	InspectionScheduled:  {InspectionInProgress, InspectionCancelled},
	InspectionInProgress: {InspectionCompleted, InspectionCancelled},
	InspectionCompleted:  {InspectionVerified},
}

func (s EstimateStatus) CanTransition(to EstimateStatus) bool {
	for _, allowed := range estimateTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s PolicyStatus) CanTransition(to PolicyStatus) bool {
	for _, allowed := range policyTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s ClaimStatus) CanTransition(to ClaimStatus) bool {
	for _, allowed := range claimTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s InspectionStatus) CanTransition(to InspectionStatus) bool {
	for _, allowed := range inspectionTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}
