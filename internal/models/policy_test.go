package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// PENDING RENEWAL STAGING
// ============================================================================

func TestHasPendingRenewalRequiresAllThreeFields(t *testing.T) {
	months := 12
	start := time.Now()
	end := start.AddDate(0, 12, 0).AddDate(0, 0, -1)

	policy := &Policy{}
	assert.False(t, policy.HasPendingRenewal())

	policy.PendingRenewalMonths = &months
	assert.False(t, policy.HasPendingRenewal())

	policy.PendingRenewalStart = &start
	assert.False(t, policy.HasPendingRenewal())

	policy.PendingRenewalEnd = &end
	assert.True(t, policy.HasPendingRenewal())
}

func TestClearPendingRenewal(t *testing.T) {
	months := 12
	start := time.Now()
	end := start.AddDate(0, 12, 0).AddDate(0, 0, -1)

	policy := &Policy{
		PendingRenewalMonths: &months,
		PendingRenewalStart:  &start,
		PendingRenewalEnd:    &end,
	}

	policy.ClearPendingRenewal()

	assert.False(t, policy.HasPendingRenewal())
	assert.Nil(t, policy.PendingRenewalMonths)
	assert.Nil(t, policy.PendingRenewalStart)
	assert.Nil(t, policy.PendingRenewalEnd)
}
