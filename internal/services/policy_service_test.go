package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vehicle-insurance-service/internal/models"
)

// ============================================================================
// PAYMENT ACTIVATION
// ============================================================================

func TestActivateSettlesWaitingPayment(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)
	due := now.AddDate(0, 0, 3)
	policy.PaymentDueDate = &due

	svc := &PolicyService{}
	svc.activate(policy, now)

	assert.Equal(t, models.PolicyActive, policy.Status)
	assert.Nil(t, policy.PaymentDueDate)
}

func TestActivatePromotesStagedRenewal(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)
	due := now.AddDate(0, 0, 3)
	policy.PaymentDueDate = &due
	stageRenewal(policy)

	wantStart := *policy.PendingRenewalStart
	wantEnd := *policy.PendingRenewalEnd
	wantMonths := *policy.PendingRenewalMonths

	svc := &PolicyService{}
	svc.activate(policy, now)

	assert.Equal(t, models.PolicyActive, policy.Status)
	assert.Nil(t, policy.PaymentDueDate)
	assert.Equal(t, wantStart, *policy.StartDate)
	assert.Equal(t, wantEnd, *policy.EndDate)
	assert.Equal(t, wantMonths, policy.DurationMonths)
	assert.False(t, policy.HasPendingRenewal())
}

func TestActivateWithoutStagingKeepsCoverageDates(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)

	wantStart := *policy.StartDate
	wantEnd := *policy.EndDate

	svc := &PolicyService{}
	svc.activate(policy, now)

	assert.Equal(t, models.PolicyActive, policy.Status)
	assert.Equal(t, wantStart, *policy.StartDate)
	assert.Equal(t, wantEnd, *policy.EndDate)
}
