package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"vehicle-insurance-service/internal/models"
)

func newTestPolicy(status models.PolicyStatus) *models.Policy {
	now := time.Now()
	start := now.AddDate(0, -6, 0)
	end := start.AddDate(0, 12, 0).AddDate(0, 0, -1)
	return &models.Policy{
		ID:             uuid.New(),
		PolicyNumber:   "20260101123456",
		CustomerID:     uuid.New(),
		VehicleID:      uuid.New(),
		CustomerName:   "Test Customer",
		VehicleName:    "Test Vehicle",
		StartDate:      &start,
		EndDate:        &end,
		DurationMonths: 12,
		PremiumAmount:  1_200_000,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func stageRenewal(policy *models.Policy) {
	months := 6
	start := policy.EndDate.AddDate(0, 0, 1)
	end := start.AddDate(0, months, 0).AddDate(0, 0, -1)
	policy.PendingRenewalMonths = &months
	policy.PendingRenewalStart = &start
	policy.PendingRenewalEnd = &end
}

// ============================================================================
// LIFECYCLE TRANSITIONS
// ============================================================================

func TestNextLifecycleStateNoChangeBeforeDueDate(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)
	due := now.AddDate(0, 0, 3)
	policy.PaymentDueDate = &due

	next, changed := NextLifecycleState(policy, now)

	assert.False(t, changed)
	assert.Equal(t, models.PolicyWaitingPayment, next)
}

func TestNextLifecycleStateOverdueInitialCancels(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)
	due := now.AddDate(0, 0, -1)
	policy.PaymentDueDate = &due

	next, changed := NextLifecycleState(policy, now)

	assert.True(t, changed)
	assert.Equal(t, models.PolicyCancelled, next)
}

func TestNextLifecycleStateOverdueRenewalLapses(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)
	due := now.AddDate(0, 0, -1)
	policy.PaymentDueDate = &due
	stageRenewal(policy)

	next, changed := NextLifecycleState(policy, now)

	assert.True(t, changed)
	assert.Equal(t, models.PolicyLapsed, next)
}

func TestNextLifecycleStateActiveWithinGrace(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyActive)
	end := now.AddDate(0, 0, -3)
	policy.EndDate = &end

	_, changed := NextLifecycleState(policy, now)

	// Three days past expiry is still inside the seven day grace window.
	assert.False(t, changed)
}

func TestNextLifecycleStateActivePastGraceLapses(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyActive)
	end := now.AddDate(0, 0, -8)
	policy.EndDate = &end

	next, changed := NextLifecycleState(policy, now)

	assert.True(t, changed)
	assert.Equal(t, models.PolicyLapsed, next)
}

func TestNextLifecycleStateTerminalStatesUntouched(t *testing.T) {
	now := time.Now()

	for _, status := range []models.PolicyStatus{models.PolicyCancelled, models.PolicyLapsed} {
		policy := newTestPolicy(status)
		_, changed := NextLifecycleState(policy, now)
		assert.False(t, changed, "status %s should not transition", status)
	}
}

func TestApplyLifecycleStateOverdueCancelSetsReason(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)
	due := now.AddDate(0, 0, -1)
	policy.PaymentDueDate = &due

	changed := applyLifecycleState(policy, now)

	assert.True(t, changed)
	assert.Equal(t, models.PolicyCancelled, policy.Status)
	assert.NotNil(t, policy.CancelReason)
	assert.Equal(t, "Payment overdue", *policy.CancelReason)
	assert.Nil(t, policy.PaymentDueDate)
}

func TestApplyLifecycleStateLapseClearsStagedRenewal(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)
	due := now.AddDate(0, 0, -1)
	policy.PaymentDueDate = &due
	stageRenewal(policy)

	changed := applyLifecycleState(policy, now)

	assert.True(t, changed)
	assert.Equal(t, models.PolicyLapsed, policy.Status)
	assert.False(t, policy.HasPendingRenewal())
	assert.Nil(t, policy.PaymentDueDate)
}

func TestApplyLifecycleStateIsIdempotent(t *testing.T) {
	now := time.Now()
	policy := newTestPolicy(models.PolicyWaitingPayment)
	due := now.AddDate(0, 0, -1)
	policy.PaymentDueDate = &due

	first := applyLifecycleState(policy, now)
	second := applyLifecycleState(policy, now)

	assert.True(t, first)
	assert.False(t, second)
}

// ============================================================================
// RENEWAL REMINDERS
// ============================================================================

func TestIsReminderDay(t *testing.T) {
	assert.True(t, isReminderDay(30))
	assert.True(t, isReminderDay(15))
	assert.True(t, isReminderDay(7))

	assert.False(t, isReminderDay(31))
	assert.False(t, isReminderDay(14))
	assert.False(t, isReminderDay(6))
	assert.False(t, isReminderDay(0))
	assert.False(t, isReminderDay(-7))
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2026, 1, 1, 23, 59, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 30, daysBetween(from, to))
	assert.Equal(t, -30, daysBetween(to, from))
	assert.Equal(t, 0, daysBetween(from, from))
}
