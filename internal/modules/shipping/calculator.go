package shipping

import "github.com/shopspring/decimal"

// ComputeCharge prices a shipment with a matched rule:
//
//	additional fixed cost
//	+ rate per weight unit * max(weight - lower weight limit, 0)
//	+ round(subtotal * percentage / 100, 2)
//
// The percentage part rounds half to even. The result is never negative.
func ComputeCharge(rule Rule, weight, subtotal decimal.Decimal) decimal.Decimal {
	charge := rule.AdditionalFixedCost

	if rule.RatePerWeightUnit.IsPositive() {
		billable := decimal.Max(weight.Sub(rule.LowerWeightLimit), decimal.Zero)
		charge = charge.Add(rule.RatePerWeightUnit.Mul(billable))
	}

	if rule.PercentageRateOfSubtotal.IsPositive() {
		charge = charge.Add(subtotal.Mul(rule.PercentageRateOfSubtotal).Shift(-2).RoundBank(2))
	}

	return decimal.Max(charge, decimal.Zero)
}
