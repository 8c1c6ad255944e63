package lifecycle

import (
	"time"

	"github.com/mmynk/claimwise/internal/calculator"
	"github.com/mmynk/claimwise/internal/models"
)

var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:   {models.PaymentInitiated, models.PaymentCompleted, models.PaymentRejected},
	models.PaymentInitiated: {models.PaymentCompleted, models.PaymentRejected},
}

// CanTransitionPayment reports whether a payment may move from one status to another.
func CanTransitionPayment(from, to models.PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func paymentTransition(p models.Payment, to models.PaymentStatus) error {
	if !CanTransitionPayment(p.Status, to) {
		return &InvalidTransitionError{
			Entity: EntityPayment,
			ID:     p.ID,
			From:   string(p.Status),
			To:     string(to),
		}
	}
	return nil
}

// ActivePayment returns the first payment of the claim that has not been
// rejected by the bank, or nil.
func ActivePayment(claimID string, payments []models.Payment) *models.Payment {
	for i := range payments {
		if payments[i].ClaimID == claimID && payments[i].Status.IsActive() {
			return &payments[i]
		}
	}
	return nil
}

// DerivePayment builds the pending payment for a claim being approved:
// amount = floor(cost × coverage). It fails with DuplicatePaymentError when the
// claim already has an active payment.
func DerivePayment(c models.Claim, payments []models.Payment, policy Policy, now time.Time) (models.Payment, error) {
	if active := ActivePayment(c.ID, payments); active != nil {
		return models.Payment{}, &DuplicatePaymentError{ClaimID: c.ID, PaymentID: active.ID}
	}
	amount, err := calculator.PayableAmount(c.Cost, policy.coverage())
	if err != nil {
		return models.Payment{}, &ValidationError{Field: "cost", Reason: err.Error()}
	}
	return models.Payment{
		ClaimID:     c.ID,
		Amount:      amount,
		Status:      models.PaymentPending,
		InitiatedAt: now.Unix(),
	}, nil
}

// ReissuePayment derives a fresh payment for an approved claim whose earlier
// payments were all rejected by the bank.
func ReissuePayment(c models.Claim, payments []models.Payment, policy Policy, now time.Time) (models.Payment, error) {
	if c.Status != models.ClaimApproved {
		return models.Payment{}, &InvalidTransitionError{
			Entity: EntityClaim,
			ID:     c.ID,
			From:   string(c.Status),
			To:     string(models.ClaimApproved),
		}
	}
	return DerivePayment(c, payments, policy, now)
}

// InitiatePayment marks a pending payment as handed to the bank's transfer system.
func InitiatePayment(p models.Payment) (models.Payment, error) {
	if err := paymentTransition(p, models.PaymentInitiated); err != nil {
		return models.Payment{}, err
	}
	p.Status = models.PaymentInitiated
	return p, nil
}

// CompletePayment settles a payment and moves its claim to paid.
// Both records are returned so the caller can persist them together.
func CompletePayment(p models.Payment, c models.Claim, notes string, now time.Time) (models.Payment, models.Claim, error) {
	if p.ClaimID != c.ID {
		return models.Payment{}, models.Claim{}, &ValidationError{Field: "claim_id", Reason: "payment does not belong to claim " + c.ID}
	}
	if err := paymentTransition(p, models.PaymentCompleted); err != nil {
		return models.Payment{}, models.Claim{}, err
	}
	if err := claimTransition(c, models.ClaimPaid); err != nil {
		return models.Payment{}, models.Claim{}, err
	}

	p.Status = models.PaymentCompleted
	p.CompletedAt = now.Unix()
	p.BankNotes = notes

	c.Status = models.ClaimPaid
	c.PaidAt = now.Unix()
	return p, c, nil
}

// RejectPayment records the bank's refusal. The claim stays approved so that a
// new payment can be issued for it.
func RejectPayment(p models.Payment, notes string, now time.Time) (models.Payment, error) {
	if err := paymentTransition(p, models.PaymentRejected); err != nil {
		return models.Payment{}, err
	}
	p.Status = models.PaymentRejected
	p.CompletedAt = now.Unix()
	p.BankNotes = notes
	return p, nil
}
