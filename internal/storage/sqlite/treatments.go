package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/internal/storage"
)

// CreateTreatment persists a new treatment record.
func (s *SQLiteStore) CreateTreatment(ctx context.Context, t *models.Treatment) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	if t.TreatedAt == 0 {
		t.TreatedAt = t.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO treatments (id, patient_id, doctor_id, diagnosis, cost, treated_at, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.PatientID, t.DoctorID, t.Diagnosis, t.Cost.String(), t.TreatedAt, t.Notes, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert treatment: %w", err)
	}
	return nil
}

// GetTreatment retrieves a treatment by ID.
func (s *SQLiteStore) GetTreatment(ctx context.Context, treatmentID string) (*models.Treatment, error) {
	t := &models.Treatment{}
	var cost string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, patient_id, doctor_id, diagnosis, cost, treated_at, notes, created_at
		 FROM treatments WHERE id = ?`,
		treatmentID,
	).Scan(&t.ID, &t.PatientID, &t.DoctorID, &t.Diagnosis, &cost, &t.TreatedAt, &t.Notes, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("treatment %s: %w", treatmentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get treatment: %w", err)
	}

	if t.Cost, err = scanDecimal(cost, "cost"); err != nil {
		return nil, err
	}
	return t, nil
}
