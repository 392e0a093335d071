package domain

import "github.com/shopspring/decimal"

// DepositCapMultiplier is the statutory cap on a security deposit,
// expressed as a multiple of the tenancy's monthly rent.
const DepositCapMultiplier = 2

// MaxAllowedDeposit returns the maximum legal deposit for a monthly rent.
func MaxAllowedDeposit(monthlyRent decimal.Decimal) decimal.Decimal {
	return monthlyRent.Mul(decimal.NewFromInt(DepositCapMultiplier))
}

// ValidateDepositAmount validates a proposed deposit against the legal cap.
// When the monthly rent is unknown or zero there is no legal basis to cap,
// so only positivity is enforced.
func ValidateDepositAmount(depositAmount, monthlyRent decimal.Decimal) error {
	if depositAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if monthlyRent.IsPositive() && depositAmount.GreaterThan(MaxAllowedDeposit(monthlyRent)) {
		return ErrExceedsLegalCap
	}
	return nil
}
