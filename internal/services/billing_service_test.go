package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vehicle-insurance-service/internal/models"
)

// ============================================================================
// BILL STATUS RECOMPUTATION
// ============================================================================

func TestComputeBillStatusUnpaid(t *testing.T) {
	assert.Equal(t, models.BillUnpaid, ComputeBillStatus(500_000, 0))
}

func TestComputeBillStatusPartialThenPaid(t *testing.T) {
	// First a 200,000 payment, then another 300,000 settles the bill.
	assert.Equal(t, models.BillPartiallyPaid, ComputeBillStatus(500_000, 200_000))
	assert.Equal(t, models.BillPaid, ComputeBillStatus(500_000, 500_000))
}

func TestComputeBillStatusOverpaymentStaysPaid(t *testing.T) {
	assert.Equal(t, models.BillPaid, ComputeBillStatus(500_000, 600_000))
}

func TestComputeBillStatusZeroAmountIsPaid(t *testing.T) {
	assert.Equal(t, models.BillPaid, ComputeBillStatus(0, 0))
	assert.Equal(t, models.BillPaid, ComputeBillStatus(-100, 0))
}
