package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/internal/storage"
)

const claimColumns = `id, patient_id, doctor_id, treatment_id, diagnosis, cost, notes, insurance_notes,
	status, submitted_at, reviewed_at, paid_at, created_at`

// CreateClaim persists a new claim and its document references.
func (s *SQLiteStore) CreateClaim(ctx context.Context, claim *models.Claim) error {
	// Generate IDs if not set
	if claim.ID == "" {
		claim.ID = uuid.New().String()
	}
	if claim.CreatedAt == 0 {
		claim.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO claims (`+claimColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		claim.ID, claim.PatientID, claim.DoctorID, nullable(claim.TreatmentID), claim.Diagnosis,
		claim.Cost.String(), claim.Notes, claim.InsuranceNotes, string(claim.Status),
		claim.SubmittedAt, claim.ReviewedAt, claim.PaidAt, claim.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}

	for i, ref := range claim.Documents {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO claim_documents (claim_id, position, ref) VALUES (?, ?, ?)",
			claim.ID, i, ref,
		)
		if err != nil {
			return fmt.Errorf("failed to insert claim document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetClaim retrieves a claim by ID, including its document references.
func (s *SQLiteStore) GetClaim(ctx context.Context, claimID string) (*models.Claim, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+claimColumns+" FROM claims WHERE id = ?", claimID)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("claim %s: %w", claimID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	if claim.Documents, err = s.claimDocuments(ctx, claim.ID); err != nil {
		return nil, err
	}
	return claim, nil
}

// ListClaims returns claims matching the filter, newest first.
func (s *SQLiteStore) ListClaims(ctx context.Context, filter storage.ClaimFilter) ([]*models.Claim, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.PatientID != "" {
		where = append(where, "patient_id = ?")
		args = append(args, filter.PatientID)
	}
	if filter.DoctorID != "" {
		where = append(where, "doctor_id = ?")
		args = append(args, filter.DoctorID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := "SELECT " + claimColumns + " FROM claims"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	var claims []*models.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate claims: %w", err)
	}
	// The store runs on one connection, so the cursor must be released before
	// documents are queried.
	rows.Close()

	for _, claim := range claims {
		if claim.Documents, err = s.claimDocuments(ctx, claim.ID); err != nil {
			return nil, err
		}
	}
	return claims, nil
}

// DeleteClaim removes a claim. Documents and payments go with it through
// ON DELETE CASCADE.
func (s *SQLiteStore) DeleteClaim(ctx context.Context, claimID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM claims WHERE id = ?", claimID)
	if err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("claim %s: %w", claimID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) claimDocuments(ctx context.Context, claimID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT ref FROM claim_documents WHERE claim_id = ? ORDER BY position",
		claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim documents: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan claim document: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claim documents: %w", err)
	}
	return refs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClaim(row rowScanner) (*models.Claim, error) {
	claim := &models.Claim{}
	var (
		treatmentID sql.NullString
		cost        string
		status      string
	)
	err := row.Scan(&claim.ID, &claim.PatientID, &claim.DoctorID, &treatmentID, &claim.Diagnosis,
		&cost, &claim.Notes, &claim.InsuranceNotes, &status,
		&claim.SubmittedAt, &claim.ReviewedAt, &claim.PaidAt, &claim.CreatedAt)
	if err != nil {
		return nil, err
	}

	if treatmentID.Valid {
		claim.TreatmentID = treatmentID.String
	}
	if claim.Cost, err = scanDecimal(cost, "cost"); err != nil {
		return nil, err
	}
	if claim.Status, err = models.ParseClaimStatus(status); err != nil {
		return nil, err
	}
	return claim, nil
}
