package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// ESTIMATE TRANSITIONS
// ============================================================================

func TestEstimateTransitions(t *testing.T) {
	assert.True(t, EstimateDraft.CanTransition(EstimateSubmitted))
	assert.True(t, EstimateDraft.CanTransition(EstimateApproved))
	assert.True(t, EstimateDraft.CanTransition(EstimateRejected))
	assert.True(t, EstimateSubmitted.CanTransition(EstimateApproved))
	assert.True(t, EstimateSubmitted.CanTransition(EstimateRejected))
	assert.True(t, EstimateApproved.CanTransition(EstimateConverted))

	assert.False(t, EstimateDraft.CanTransition(EstimateConverted))
	assert.False(t, EstimateSubmitted.CanTransition(EstimateDraft))
	assert.False(t, EstimateRejected.CanTransition(EstimateApproved))
	assert.False(t, EstimateConverted.CanTransition(EstimateApproved))
}

// ============================================================================
// POLICY TRANSITIONS
// ============================================================================

func TestPolicyTransitions(t *testing.T) {
	assert.True(t, PolicyWaitingPayment.CanTransition(PolicyActive))
	assert.True(t, PolicyWaitingPayment.CanTransition(PolicyLapsed))
	assert.True(t, PolicyWaitingPayment.CanTransition(PolicyCancelled))
	assert.True(t, PolicyActive.CanTransition(PolicyWaitingPayment))
	assert.True(t, PolicyActive.CanTransition(PolicyLapsed))
	assert.True(t, PolicyActive.CanTransition(PolicyCancelled))
	assert.True(t, PolicyLapsed.CanTransition(PolicyWaitingPayment))
	assert.True(t, PolicyLapsed.CanTransition(PolicyCancelled))

	assert.False(t, PolicyLapsed.CanTransition(PolicyActive))
	assert.False(t, PolicyCancelled.CanTransition(PolicyActive))
	assert.False(t, PolicyCancelled.CanTransition(PolicyWaitingPayment))
}

// ============================================================================
// CLAIM TRANSITIONS
// ============================================================================

func TestClaimTransitions(t *testing.T) {
	assert.True(t, ClaimSubmitted.CanTransition(ClaimUnderReview))
	assert.True(t, ClaimUnderReview.CanTransition(ClaimRequestMoreInfo))
	assert.True(t, ClaimUnderReview.CanTransition(ClaimApproved))
	assert.True(t, ClaimUnderReview.CanTransition(ClaimRejected))
	assert.True(t, ClaimRequestMoreInfo.CanTransition(ClaimUnderReview))
	assert.True(t, ClaimApproved.CanTransition(ClaimPaid))

	assert.False(t, ClaimSubmitted.CanTransition(ClaimApproved))
	assert.False(t, ClaimSubmitted.CanTransition(ClaimPaid))
	assert.False(t, ClaimRejected.CanTransition(ClaimUnderReview))
	assert.False(t, ClaimPaid.CanTransition(ClaimApproved))
}

// ============================================================================
// INSPECTION TRANSITIONS
// ============================================================================

func TestInspectionTransitions(t *testing.T) {
	assert.True(t, InspectionScheduled.CanTransition(InspectionInProgress))
	assert.True(t, InspectionScheduled.CanTransition(InspectionCancelled))
	assert.True(t, InspectionInProgress.CanTransition(InspectionCompleted))
	assert.True(t, InspectionInProgress.CanTransition(InspectionCancelled))
	assert.True(t, InspectionCompleted.CanTransition(InspectionVerified))

	assert.False(t, InspectionScheduled.CanTransition(InspectionCompleted))
	assert.False(t, InspectionCompleted.CanTransition(InspectionCancelled))
	assert.False(t, InspectionVerified.CanTransition(InspectionScheduled))
	assert.False(t, InspectionCancelled.CanTransition(InspectionInProgress))
}
