// Package models defines the core domain records for claimwise.
//
// # Records
//
//   - Claim: a patient's reimbursement request tied to a treatment
//   - Payment: a disbursement derived from an approved claim
//   - Treatment: a doctor-authored clinical record a claim can be derived from
//
// Relationships are expressed with ID strings, never pointers. Timestamps are Unix
// seconds; zero means "not set".
//
// # Status vocabulary
//
// ClaimStatus and PaymentStatus are closed sets. Every value that crosses a boundary
// (request payload, database row) goes through ParseClaimStatus / ParsePaymentStatus,
// which accept any letter case and reject everything else. Which transitions between
// them are legal is decided by package lifecycle, not here.
package models
