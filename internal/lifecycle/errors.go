package lifecycle

import "fmt"

// Entity names used in errors.
const (
	EntityClaim     = "claim"
	EntityPayment   = "payment"
	EntityTreatment = "treatment"
)

// InvalidTransitionError reports a status change that is not legal from the
// record's current status.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot move from %s to %s", e.Entity, e.ID, e.From, e.To)
}

// NotFoundError reports a claim, payment or treatment id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// DuplicatePaymentError reports an attempt to derive a payment for a claim that
// already has an active one.
type DuplicatePaymentError struct {
	ClaimID   string
	PaymentID string
}

func (e *DuplicatePaymentError) Error() string {
	return fmt.Sprintf("claim %s already has active payment %s", e.ClaimID, e.PaymentID)
}

// ValidationError reports malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
