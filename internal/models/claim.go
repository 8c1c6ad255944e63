package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClaimStatus is the lifecycle state of a claim.
type ClaimStatus string

const (
	ClaimDraft       ClaimStatus = "draft"
	ClaimPending     ClaimStatus = "pending"
	ClaimSubmitted   ClaimStatus = "submitted"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimApproved    ClaimStatus = "approved"
	ClaimRejected    ClaimStatus = "rejected"
	ClaimPaid        ClaimStatus = "paid"
)

var claimStatuses = []ClaimStatus{
	ClaimDraft, ClaimPending, ClaimSubmitted, ClaimUnderReview,
	ClaimApproved, ClaimRejected, ClaimPaid,
}

// ParseClaimStatus maps a raw status string onto the canonical set.
// Matching ignores case and surrounding whitespace, so "APPROVED" and "approved"
// are the same status.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, st := range claimStatuses {
		if string(st) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown claim status %q", s)
}

// IsTerminal reports whether no further claim transition is defined.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimRejected || s == ClaimPaid
}

// Reviewed reports whether an insurance decision has been recorded for the claim.
func (s ClaimStatus) Reviewed() bool {
	return s == ClaimApproved || s == ClaimRejected || s == ClaimPaid
}

// Claim is a patient's request for reimbursement tied to a treatment.
type Claim struct {
	// ID is the unique identifier for the claim (UUID format).
	ID string

	// PatientID is the patient the reimbursement is for.
	PatientID string

	// DoctorID is the doctor who performed the treatment.
	DoctorID string

	// TreatmentID references the upstream treatment record. Optional.
	TreatmentID string

	// Diagnosis is free text copied from the treatment or entered by the patient.
	Diagnosis string

	// Cost is the amount claimed. Always positive.
	Cost decimal.Decimal

	// Documents are references to supporting files held by the document store.
	Documents []string

	// Notes are free-text notes from the submitter.
	Notes string

	// InsuranceNotes carries the reviewer's reason on rejection.
	InsuranceNotes string

	Status ClaimStatus

	// SubmittedAt is set when the claim enters submitted.
	SubmittedAt int64

	// ReviewedAt is set when the reviewer approves or rejects.
	ReviewedAt int64

	// PaidAt is set when the associated payment completes.
	PaidAt int64

	// CreatedAt is the Unix timestamp when the claim was created.
	CreatedAt int64
}
