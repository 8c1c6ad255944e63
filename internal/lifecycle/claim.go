// Package lifecycle implements the claim and payment state machines and the rule
// that derives a payment from an approved claim.
//
// Every function takes records by value and returns updated copies; nothing here
// performs I/O or keeps state, so callers own persistence and atomicity.
package lifecycle

import (
	"strings"
	"time"

	"github.com/mmynk/claimwise/internal/models"
)

var claimTransitions = map[models.ClaimStatus][]models.ClaimStatus{
	models.ClaimDraft:       {models.ClaimSubmitted},
	models.ClaimPending:     {models.ClaimSubmitted},
	models.ClaimSubmitted:   {models.ClaimUnderReview, models.ClaimApproved, models.ClaimRejected},
	models.ClaimUnderReview: {models.ClaimApproved, models.ClaimRejected},
	models.ClaimApproved:    {models.ClaimPaid},
}

// CanTransitionClaim reports whether a claim may move from one status to another.
func CanTransitionClaim(from, to models.ClaimStatus) bool {
	for _, next := range claimTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func claimTransition(c models.Claim, to models.ClaimStatus) error {
	if !CanTransitionClaim(c.Status, to) {
		return &InvalidTransitionError{
			Entity: EntityClaim,
			ID:     c.ID,
			From:   string(c.Status),
			To:     string(to),
		}
	}
	return nil
}

// Decision is an insurance reviewer's verdict on a claim.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ParseDecision accepts "approved" or "rejected" in any letter case.
func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(s))) {
	case DecisionApproved:
		return DecisionApproved, nil
	case DecisionRejected:
		return DecisionRejected, nil
	}
	return "", &ValidationError{Field: "decision", Reason: "must be approved or rejected"}
}

// ValidateClaim checks the fields every claim must carry.
func ValidateClaim(c models.Claim) error {
	if strings.TrimSpace(c.PatientID) == "" {
		return &ValidationError{Field: "patient_id", Reason: "required"}
	}
	if strings.TrimSpace(c.DoctorID) == "" {
		return &ValidationError{Field: "doctor_id", Reason: "required"}
	}
	if strings.TrimSpace(c.Diagnosis) == "" {
		return &ValidationError{Field: "diagnosis", Reason: "required"}
	}
	if !c.Cost.IsPositive() {
		return &ValidationError{Field: "cost", Reason: "must be greater than zero"}
	}
	return nil
}

// NewClaim prepares a claim for creation. It starts in draft when draft is set,
// otherwise in pending. Lifecycle timestamps are cleared.
func NewClaim(c models.Claim, draft bool, now time.Time) (models.Claim, error) {
	if err := ValidateClaim(c); err != nil {
		return models.Claim{}, err
	}
	c.Status = models.ClaimPending
	if draft {
		c.Status = models.ClaimDraft
	}
	c.InsuranceNotes = ""
	c.SubmittedAt, c.ReviewedAt, c.PaidAt = 0, 0, 0
	c.CreatedAt = now.Unix()
	return c, nil
}

// ClaimFromTreatment derives a pending claim from a doctor's treatment record.
func ClaimFromTreatment(t models.Treatment, documents []string, notes string, now time.Time) (models.Claim, error) {
	return NewClaim(models.Claim{
		PatientID:   t.PatientID,
		DoctorID:    t.DoctorID,
		TreatmentID: t.ID,
		Diagnosis:   t.Diagnosis,
		Cost:        t.Cost,
		Documents:   documents,
		Notes:       notes,
	}, false, now)
}

// SubmitClaim moves a draft or pending claim to submitted.
func SubmitClaim(c models.Claim, now time.Time) (models.Claim, error) {
	if err := claimTransition(c, models.ClaimSubmitted); err != nil {
		return models.Claim{}, err
	}
	if err := ValidateClaim(c); err != nil {
		return models.Claim{}, err
	}
	c.Status = models.ClaimSubmitted
	c.SubmittedAt = now.Unix()
	return c, nil
}

// StartReview records that an insurance reviewer opened a submitted claim.
func StartReview(c models.Claim) (models.Claim, error) {
	if err := claimTransition(c, models.ClaimUnderReview); err != nil {
		return models.Claim{}, err
	}
	c.Status = models.ClaimUnderReview
	return c, nil
}

// ReviewClaim applies an insurance decision. On approval it derives the claim's
// payment, which is returned without an ID; the store assigns one. payments are
// the claim's existing payments and are used for the duplicate guard.
// Rejection requires notes and never produces a payment.
func ReviewClaim(c models.Claim, payments []models.Payment, decision Decision, notes string, policy Policy, now time.Time) (models.Claim, *models.Payment, error) {
	switch decision {
	case DecisionApproved:
		if err := claimTransition(c, models.ClaimApproved); err != nil {
			return models.Claim{}, nil, err
		}
		p, err := DerivePayment(c, payments, policy, now)
		if err != nil {
			return models.Claim{}, nil, err
		}
		c.Status = models.ClaimApproved
		c.ReviewedAt = now.Unix()
		if notes != "" {
			c.InsuranceNotes = notes
		}
		return c, &p, nil

	case DecisionRejected:
		if err := claimTransition(c, models.ClaimRejected); err != nil {
			return models.Claim{}, nil, err
		}
		if strings.TrimSpace(notes) == "" {
			return models.Claim{}, nil, &ValidationError{Field: "notes", Reason: "required when rejecting a claim"}
		}
		c.Status = models.ClaimRejected
		c.ReviewedAt = now.Unix()
		c.InsuranceNotes = notes
		return c, nil, nil
	}
	return models.Claim{}, nil, &ValidationError{Field: "decision", Reason: "must be approved or rejected"}
}

// Deletion describes what removing a claim takes with it.
type Deletion struct {
	ClaimID    string
	PaymentIDs []string

	// Completed lists removed payments the bank had already paid out.
	Completed []models.Payment
}

// PlanDeletion returns the cascade for deleting a claim: the claim and every
// payment derived from it, whatever their status.
func PlanDeletion(c models.Claim, payments []models.Payment) Deletion {
	d := Deletion{ClaimID: c.ID}
	for _, p := range payments {
		if p.ClaimID != c.ID {
			continue
		}
		d.PaymentIDs = append(d.PaymentIDs, p.ID)
		if p.Status == models.PaymentCompleted {
			d.Completed = append(d.Completed, p)
		}
	}
	return d
}
