package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "claimwise-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newClaim(status models.ClaimStatus) *models.Claim {
	return &models.Claim{
		PatientID: "patient-1",
		DoctorID:  "doctor-1",
		Diagnosis: "Migraine",
		Cost:      decimal.RequireFromString("250.50"),
		Documents: []string{"referral.pdf", "invoice.pdf"},
		Notes:     "follow-up visit",
		Status:    status,
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateClaim generates ID and CreatedAt", func(t *testing.T) {
		claim := newClaim(models.ClaimPending)
		if err := store.CreateClaim(ctx, claim); err != nil {
			t.Fatalf("CreateClaim failed: %v", err)
		}
		if claim.ID == "" {
			t.Error("Expected claim ID to be generated")
		}
		if claim.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetClaim retrieves complete claim", func(t *testing.T) {
		original := newClaim(models.ClaimDraft)
		if err := store.CreateClaim(ctx, original); err != nil {
			t.Fatalf("CreateClaim failed: %v", err)
		}

		retrieved, err := store.GetClaim(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetClaim failed: %v", err)
		}
		if retrieved.Status != models.ClaimDraft {
			t.Errorf("Status mismatch: got %s, want draft", retrieved.Status)
		}
		if !retrieved.Cost.Equal(original.Cost) {
			t.Errorf("Cost mismatch: got %s, want %s", retrieved.Cost, original.Cost)
		}
		if len(retrieved.Documents) != 2 || retrieved.Documents[0] != "referral.pdf" {
			t.Errorf("Documents mismatch: got %v", retrieved.Documents)
		}
		if retrieved.TreatmentID != "" {
			t.Errorf("Expected empty treatment ID, got %s", retrieved.TreatmentID)
		}
	})

	t.Run("GetClaim returns ErrNotFound for nonexistent claim", func(t *testing.T) {
		_, err := store.GetClaim(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Treatment round trip and claim reference", func(t *testing.T) {
		tr := &models.Treatment{
			PatientID: "patient-9",
			DoctorID:  "doctor-9",
			Diagnosis: "Sprained ankle",
			Cost:      decimal.NewFromInt(320),
		}
		if err := store.CreateTreatment(ctx, tr); err != nil {
			t.Fatalf("CreateTreatment failed: %v", err)
		}
		got, err := store.GetTreatment(ctx, tr.ID)
		if err != nil {
			t.Fatalf("GetTreatment failed: %v", err)
		}
		if got.Diagnosis != tr.Diagnosis || !got.Cost.Equal(tr.Cost) {
			t.Errorf("Treatment mismatch: got %+v", got)
		}

		claim := newClaim(models.ClaimPending)
		claim.TreatmentID = tr.ID
		if err := store.CreateClaim(ctx, claim); err != nil {
			t.Fatalf("CreateClaim failed: %v", err)
		}
		retrieved, err := store.GetClaim(ctx, claim.ID)
		if err != nil {
			t.Fatalf("GetClaim failed: %v", err)
		}
		if retrieved.TreatmentID != tr.ID {
			t.Errorf("TreatmentID mismatch: got %s, want %s", retrieved.TreatmentID, tr.ID)
		}

		if _, err := store.GetTreatment(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestListClaims(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fixtures := []struct {
		patient string
		doctor  string
		status  models.ClaimStatus
		created int64
	}{
		{"alice", "dr-house", models.ClaimPending, 100},
		{"alice", "dr-grey", models.ClaimSubmitted, 200},
		{"bob", "dr-house", models.ClaimSubmitted, 300},
	}
	for _, f := range fixtures {
		c := newClaim(f.status)
		c.PatientID, c.DoctorID, c.CreatedAt = f.patient, f.doctor, f.created
		if err := store.CreateClaim(ctx, c); err != nil {
			t.Fatalf("CreateClaim failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter storage.ClaimFilter
		want   int
	}{
		{"no filter", storage.ClaimFilter{}, 3},
		{"by patient", storage.ClaimFilter{PatientID: "alice"}, 2},
		{"by doctor", storage.ClaimFilter{DoctorID: "dr-house"}, 2},
		{"by status", storage.ClaimFilter{Status: models.ClaimSubmitted}, 2},
		{"combined", storage.ClaimFilter{PatientID: "alice", Status: models.ClaimSubmitted}, 1},
		{"no match", storage.ClaimFilter{Status: models.ClaimPaid}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := store.ListClaims(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListClaims failed: %v", err)
			}
			if len(claims) != tt.want {
				t.Errorf("got %d claims, want %d", len(claims), tt.want)
			}
			for _, c := range claims {
				if len(c.Documents) != 2 {
					t.Errorf("claim %s documents not loaded: %v", c.ID, c.Documents)
				}
			}
		})
	}

	claims, err := store.ListClaims(ctx, storage.ClaimFilter{})
	if err != nil {
		t.Fatalf("ListClaims failed: %v", err)
	}
	if claims[0].CreatedAt != 300 {
		t.Errorf("expected newest claim first, got CreatedAt=%d", claims[0].CreatedAt)
	}
}

func TestApply(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	claim := newClaim(models.ClaimSubmitted)
	if err := store.CreateClaim(ctx, claim); err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}

	approved := *claim
	approved.Status = models.ClaimApproved
	approved.ReviewedAt = 1000
	payment := &models.Payment{
		ClaimID:     claim.ID,
		Amount:      decimal.NewFromInt(200),
		Status:      models.PaymentPending,
		InitiatedAt: 1000,
	}

	t.Run("approval writes claim and payment together", func(t *testing.T) {
		err := store.Apply(ctx, storage.Change{
			Claim:     &approved,
			ClaimFrom: models.ClaimSubmitted,
			Payment:   payment,
		})
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if payment.ID == "" {
			t.Fatal("Expected payment ID to be generated")
		}

		got, err := store.GetClaim(ctx, claim.ID)
		if err != nil {
			t.Fatalf("GetClaim failed: %v", err)
		}
		if got.Status != models.ClaimApproved || got.ReviewedAt != 1000 {
			t.Errorf("claim not updated: %+v", got)
		}
		p, err := store.GetPayment(ctx, payment.ID)
		if err != nil {
			t.Fatalf("GetPayment failed: %v", err)
		}
		if !p.Amount.Equal(decimal.NewFromInt(200)) || p.Status != models.PaymentPending {
			t.Errorf("payment mismatch: %+v", p)
		}
	})

	t.Run("stale claim status is a conflict and writes nothing", func(t *testing.T) {
		second := &models.Payment{ClaimID: claim.ID, Amount: decimal.NewFromInt(200), Status: models.PaymentPending, InitiatedAt: 2000}
		err := store.Apply(ctx, storage.Change{
			Claim:     &approved,
			ClaimFrom: models.ClaimSubmitted,
			Payment:   second,
		})
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict, got %v", err)
		}
		payments, err := store.ListPayments(ctx, storage.PaymentFilter{ClaimID: claim.ID})
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 1 {
			t.Errorf("expected 1 payment after rolled back change, got %d", len(payments))
		}
	})

	t.Run("second active payment violates the unique index", func(t *testing.T) {
		second := &models.Payment{ClaimID: claim.ID, Amount: decimal.NewFromInt(200), Status: models.PaymentPending, InitiatedAt: 2000}
		err := store.Apply(ctx, storage.Change{Payment: second})
		if !errors.Is(err, storage.ErrActivePaymentExists) {
			t.Fatalf("Expected ErrActivePaymentExists, got %v", err)
		}
	})

	t.Run("rejected payment frees the claim for a new one", func(t *testing.T) {
		rejected := *payment
		rejected.Status = models.PaymentRejected
		rejected.CompletedAt = 3000
		rejected.BankNotes = "insufficient funds"
		if err := store.Apply(ctx, storage.Change{Payment: &rejected, PaymentFrom: models.PaymentPending}); err != nil {
			t.Fatalf("Apply reject failed: %v", err)
		}

		again := &models.Payment{ClaimID: claim.ID, Amount: decimal.NewFromInt(200), Status: models.PaymentPending, InitiatedAt: 4000}
		if err := store.Apply(ctx, storage.Change{Payment: again}); err != nil {
			t.Fatalf("Apply reissue failed: %v", err)
		}

		pending, err := store.ListPayments(ctx, storage.PaymentFilter{Status: models.PaymentPending})
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(pending) != 1 || pending[0].ID != again.ID {
			t.Errorf("expected only the reissued payment pending, got %+v", pending)
		}
	})

	t.Run("stale payment status is a conflict", func(t *testing.T) {
		stale := *payment
		stale.Status = models.PaymentCompleted
		err := store.Apply(ctx, storage.Change{Payment: &stale, PaymentFrom: models.PaymentPending})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})
}

func TestDeleteClaimCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	claim := newClaim(models.ClaimPaid)
	if err := store.CreateClaim(ctx, claim); err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}
	payment := &models.Payment{ClaimID: claim.ID, Amount: decimal.NewFromInt(200), Status: models.PaymentCompleted, InitiatedAt: 1, CompletedAt: 2}
	if err := store.Apply(ctx, storage.Change{Payment: payment}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if err := store.DeleteClaim(ctx, claim.ID); err != nil {
		t.Fatalf("DeleteClaim failed: %v", err)
	}
	if _, err := store.GetClaim(ctx, claim.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected claim to be gone, got %v", err)
	}
	if _, err := store.GetPayment(ctx, payment.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected payment to be cascaded, got %v", err)
	}

	if err := store.DeleteClaim(ctx, claim.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
