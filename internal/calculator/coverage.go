package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCoverage is the share of a claim's cost the payer disburses when no
// other rate is configured.
var DefaultCoverage = decimal.RequireFromString("0.8")

// ValidateCoverage checks that a coverage rate is a fraction in (0, 1].
func ValidateCoverage(coverage decimal.Decimal) error {
	if !coverage.IsPositive() {
		return fmt.Errorf("coverage must be greater than zero, got %s", coverage)
	}
	if coverage.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("coverage must not exceed 1, got %s", coverage)
	}
	return nil
}

// PayableAmount computes the amount disbursed for a claim.
// Based on the rule: amount = floor(cost × coverage)
func PayableAmount(cost, coverage decimal.Decimal) (decimal.Decimal, error) {
	if !cost.IsPositive() {
		return decimal.Zero, fmt.Errorf("cost must be positive, got %s", cost)
	}
	if err := ValidateCoverage(coverage); err != nil {
		return decimal.Zero, err
	}
	return cost.Mul(coverage).Floor(), nil
}
