package models

import "github.com/shopspring/decimal"

// Treatment is a doctor-authored clinical record. Claims can be derived from it,
// but the claim lifecycle never modifies it.
type Treatment struct {
	// ID is the unique identifier for the treatment (UUID format).
	ID string

	PatientID string
	DoctorID  string

	Diagnosis string

	// Cost is the billed cost of the treatment.
	Cost decimal.Decimal

	// TreatedAt is the Unix timestamp of the treatment itself.
	TreatedAt int64

	Notes string

	// CreatedAt is the Unix timestamp when the record was stored.
	CreatedAt int64
}
