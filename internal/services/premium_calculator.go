package services

import (
	"math"
	"strings"
)

// DefaultBaseRatePercent is applied when an insurance type carries no rate.
const DefaultBaseRatePercent = 2.5

// PremiumBreakdown is the result of a premium computation.
type PremiumBreakdown struct {
	Base      float64 `json:"base_amount"`
	Surcharge float64 `json:"surcharge_amount"`
	Tax       float64 `json:"tax_amount"`
	Total     float64 `json:"total_amount"`
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputePremium calculates the premium breakdown for a vehicle, insurance
// type and duration.
//
// The composite factor combines a duration factor (months/12, capped at 1.0
// so long contracts never pay extra through it), a type factor keyed on the
// type code and a model factor keyed on the vehicle class. Both keys use
// case-insensitive substring matching. A composite below 1 is clamped to a
// zero surcharge rather than a rebate.
func ComputePremium(vehicleRate, baseRatePercent float64, typeCode, vehicleClass string, durationMonths int) PremiumBreakdown {
	rate := baseRatePercent
	if rate <= 0 {
		rate = DefaultBaseRatePercent
	}

	base := Round2(vehicleRate * rate / 100)

	durationFactor := float64(durationMonths) / 12
	if durationFactor > 1 {
		durationFactor = 1
	}

	typeFactor := 1.00
	upperCode := strings.ToUpper(typeCode)
	switch {
	case strings.Contains(upperCode, "PLUS"):
		typeFactor = 1.20
	case strings.Contains(upperCode, "COMM"):
		typeFactor = 1.30
	}

	modelFactor := 1.00
	upperClass := strings.ToUpper(vehicleClass)
	switch {
	case strings.Contains(upperClass, "SUV"), strings.Contains(upperClass, "TRUCK"):
		modelFactor = 1.15
	case strings.Contains(upperClass, "MOTORBIKE"):
		modelFactor = 0.90
	}

	composite := durationFactor * typeFactor * modelFactor

	surcharge := Round2(base * math.Max(composite-1, 0))
	tax := Round2((base + surcharge) * 0.10)

	return PremiumBreakdown{
		Base:      base,
		Surcharge: surcharge,
		Tax:       tax,
		Total:     base + surcharge + tax,
	}
}

// ProratedRenewalPremium scales an existing premium to a new duration.
func ProratedRenewalPremium(premium float64, newMonths, oldMonths int) float64 {
	if oldMonths <= 0 {
		return Round2(premium)
	}
	return Round2(premium * float64(newMonths) / float64(oldMonths))
}
