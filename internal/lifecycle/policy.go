package lifecycle

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/claimwise/internal/calculator"
)

// Policy holds the business rules applied when a payment is derived.
// The zero value uses calculator.DefaultCoverage.
type Policy struct {
	Coverage decimal.Decimal
}

// NewPolicy returns a policy with the given coverage rate.
func NewPolicy(coverage decimal.Decimal) (Policy, error) {
	if err := calculator.ValidateCoverage(coverage); err != nil {
		return Policy{}, &ValidationError{Field: "coverage", Reason: err.Error()}
	}
	return Policy{Coverage: coverage}, nil
}

// DefaultPolicy returns the 80% coverage policy.
func DefaultPolicy() Policy {
	return Policy{Coverage: calculator.DefaultCoverage}
}

func (p Policy) coverage() decimal.Decimal {
	if p.Coverage.IsZero() {
		return calculator.DefaultCoverage
	}
	return p.Coverage
}
