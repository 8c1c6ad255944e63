// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/claimwise/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional write finds the record in a
	// different status than the one it was loaded with.
	ErrConflict = errors.New("record was modified concurrently")

	// ErrActivePaymentExists is returned when inserting a payment for a claim that
	// already has a non-rejected one.
	ErrActivePaymentExists = errors.New("claim already has an active payment")
)

// ClaimFilter narrows ListClaims. Empty fields match everything.
type ClaimFilter struct {
	PatientID string
	DoctorID  string
	Status    models.ClaimStatus
}

// PaymentFilter narrows ListPayments. Empty fields match everything.
type PaymentFilter struct {
	ClaimID string
	Status  models.PaymentStatus
}

// Change is one lifecycle transition, persisted atomically by Apply.
//
// A non-nil Claim is written only if the stored claim is still in ClaimFrom.
// A non-nil Payment is inserted when PaymentFrom is empty, otherwise it is
// written only if the stored payment is still in PaymentFrom.
type Change struct {
	Claim     *models.Claim
	ClaimFrom models.ClaimStatus

	Payment     *models.Payment
	PaymentFrom models.PaymentStatus
}

// Store defines the interface for claim storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateTreatment persists a treatment record. ID and CreatedAt are filled
	// in when empty.
	CreateTreatment(ctx context.Context, t *models.Treatment) error

	// GetTreatment retrieves a treatment by ID.
	GetTreatment(ctx context.Context, treatmentID string) (*models.Treatment, error)

	// CreateClaim persists a new claim. ID and CreatedAt are filled in when empty.
	CreateClaim(ctx context.Context, claim *models.Claim) error

	// GetClaim retrieves a claim by ID, including its document references.
	GetClaim(ctx context.Context, claimID string) (*models.Claim, error)

	// ListClaims returns claims matching the filter, newest first.
	ListClaims(ctx context.Context, filter ClaimFilter) ([]*models.Claim, error)

	// DeleteClaim removes a claim together with its documents and payments.
	DeleteClaim(ctx context.Context, claimID string) error

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)

	// ListPayments returns payments matching the filter, oldest first.
	ListPayments(ctx context.Context, filter PaymentFilter) ([]*models.Payment, error)

	// Apply persists a lifecycle change in a single transaction.
	// Returns ErrConflict or ErrActivePaymentExists when a guard fails; nothing is
	// written in that case.
	Apply(ctx context.Context, change Change) error

	// Close releases any resources held by the store.
	Close() error
}
