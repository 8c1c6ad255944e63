package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentInitiated PaymentStatus = "initiated"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRejected  PaymentStatus = "rejected"
)

var paymentStatuses = []PaymentStatus{
	PaymentPending, PaymentInitiated, PaymentCompleted, PaymentRejected,
}

// ParsePaymentStatus maps a raw status string onto the canonical set, ignoring case.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, st := range paymentStatuses {
		if string(st) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// IsTerminal reports whether the bank has finished with the payment.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentRejected
}

// IsActive reports whether the payment still counts against its claim.
// Only bank-rejected payments are inactive.
func (s PaymentStatus) IsActive() bool {
	return s != PaymentRejected
}

// Payment is a disbursement derived from an approved claim.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// ClaimID is the claim this payment was derived from.
	ClaimID string

	// Amount is the payable amount, never more than the claim cost.
	Amount decimal.Decimal

	Status PaymentStatus

	// InitiatedAt is the Unix timestamp when the payment was derived.
	InitiatedAt int64

	// CompletedAt is set when the bank completes or rejects the payment.
	CompletedAt int64

	// BankNotes are the bank's processing notes.
	BankNotes string
}
