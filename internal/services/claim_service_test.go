package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// ACCIDENT REPORTING WINDOW
// ============================================================================

func TestValidateAccidentDateToday(t *testing.T) {
	now := time.Now()
	assert.NoError(t, ValidateAccidentDate(now.Add(-time.Hour), now))
}

func TestValidateAccidentDateAtWindowEdge(t *testing.T) {
	now := time.Now()
	accident := now.AddDate(0, 0, -AccidentReportWindowDays).Add(time.Hour)

	assert.NoError(t, ValidateAccidentDate(accident, now))
}

func TestValidateAccidentDateFutureRejected(t *testing.T) {
	now := time.Now()
	err := ValidateAccidentDate(now.Add(time.Hour), now)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "future")
}

func TestValidateAccidentDateTooOldRejected(t *testing.T) {
	now := time.Now()
	err := ValidateAccidentDate(now.AddDate(0, 0, -6), now)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "within")
}

// ============================================================================
// APPROVAL AMOUNT BOUND
// ============================================================================

func TestValidateClaimableAmountWithinInsured(t *testing.T) {
	assert.NoError(t, ValidateClaimableAmount(1_000_000, 2_750_000))
	assert.NoError(t, ValidateClaimableAmount(2_750_000, 2_750_000))
}

func TestValidateClaimableAmountExceedsInsured(t *testing.T) {
	err := ValidateClaimableAmount(2_750_001, 2_750_000)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds insured amount")
}

func TestValidateClaimableAmountRejectsNonPositive(t *testing.T) {
	assert.Error(t, ValidateClaimableAmount(0, 2_750_000))
	assert.Error(t, ValidateClaimableAmount(-500, 2_750_000))
}
