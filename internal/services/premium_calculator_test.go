package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// PREMIUM COMPUTATION
// ============================================================================

func TestComputePremiumBasicSedan(t *testing.T) {
	breakdown := ComputePremium(100_000_000, 2.5, "BASIC", "SEDAN", 12)

	assert.Equal(t, 2_500_000.0, breakdown.Base)
	assert.Equal(t, 0.0, breakdown.Surcharge)
	assert.Equal(t, 250_000.0, breakdown.Tax)
	assert.Equal(t, 2_750_000.0, breakdown.Total)
}

func TestComputePremiumPlusLongDuration(t *testing.T) {
	// The duration factor caps at 1.0, so 24 months only pays the type
	// surcharge.
	breakdown := ComputePremium(100_000_000, 2.5, "PLUS", "SEDAN", 24)

	assert.Equal(t, 2_500_000.0, breakdown.Base)
	assert.Equal(t, 500_000.0, breakdown.Surcharge)
	assert.Equal(t, 300_000.0, breakdown.Tax)
	assert.Equal(t, 3_300_000.0, breakdown.Total)
}

func TestComputePremiumCommercialTruck(t *testing.T) {
	breakdown := ComputePremium(100_000_000, 2.5, "COMM-FLEET", "TRUCK", 12)

	// composite = 1.0 * 1.30 * 1.15 = 1.495
	assert.Equal(t, 2_500_000.0, breakdown.Base)
	assert.Equal(t, 1_237_500.0, breakdown.Surcharge)
	assert.Equal(t, 373_750.0, breakdown.Tax)
	assert.Equal(t, 4_111_250.0, breakdown.Total)
}

func TestComputePremiumShortDurationNeverDiscounts(t *testing.T) {
	// 6 months gives composite 0.5, clamped to zero surcharge rather than a
	// rebate.
	breakdown := ComputePremium(100_000_000, 2.5, "BASIC", "SEDAN", 6)

	assert.Equal(t, 0.0, breakdown.Surcharge)
	assert.Equal(t, 250_000.0, breakdown.Tax)
}

func TestComputePremiumMotorbikeClampsToZeroSurcharge(t *testing.T) {
	// composite = 1.0 * 1.0 * 0.90 < 1
	breakdown := ComputePremium(50_000_000, 2.5, "BASIC", "MOTORBIKE", 12)

	assert.Equal(t, 1_250_000.0, breakdown.Base)
	assert.Equal(t, 0.0, breakdown.Surcharge)
}

func TestComputePremiumCaseInsensitiveMatching(t *testing.T) {
	upper := ComputePremium(100_000_000, 2.5, "PLUS", "SUV", 12)
	lower := ComputePremium(100_000_000, 2.5, "plus", "suv", 12)

	assert.Equal(t, upper, lower)
	assert.Greater(t, upper.Surcharge, 0.0)
}

func TestComputePremiumDefaultsBaseRate(t *testing.T) {
	breakdown := ComputePremium(100_000_000, 0, "BASIC", "SEDAN", 12)

	// Falls back to the 2.5 percent default.
	assert.Equal(t, 2_500_000.0, breakdown.Base)
}

// ============================================================================
// RENEWAL PRORATION
// ============================================================================

func TestProratedRenewalPremiumHalfYear(t *testing.T) {
	amount := ProratedRenewalPremium(1_200_000, 6, 12)
	assert.Equal(t, 600_000.0, amount)
}

func TestProratedRenewalPremiumExtension(t *testing.T) {
	amount := ProratedRenewalPremium(1_200_000, 24, 12)
	assert.Equal(t, 2_400_000.0, amount)
}

func TestProratedRenewalPremiumZeroOldDuration(t *testing.T) {
	amount := ProratedRenewalPremium(1_200_000, 6, 0)
	assert.Equal(t, 1_200_000.0, amount)
}

// ============================================================================
// ROUNDING
// ============================================================================

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, -1.24, Round2(-1.236))
	assert.Equal(t, 100.0, Round2(100.0))
}
