package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/internal/storage"
)

const paymentColumns = "id, claim_id, amount, status, initiated_at, completed_at, bank_notes"

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", paymentID)
	payment, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPayments returns payments matching the filter, oldest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, filter storage.PaymentFilter) ([]*models.Payment, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.ClaimID != "" {
		where = append(where, "claim_id = ?")
		args = append(args, filter.ClaimID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := "SELECT " + paymentColumns + " FROM payments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY initiated_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// Apply persists a lifecycle change. Updates are conditional on the status the
// caller loaded, so two racing transitions on the same record cannot both win.
func (s *SQLiteStore) Apply(ctx context.Context, change storage.Change) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if c := change.Claim; c != nil {
		res, err := tx.ExecContext(ctx,
			`UPDATE claims
			 SET status = ?, insurance_notes = ?, submitted_at = ?, reviewed_at = ?, paid_at = ?
			 WHERE id = ? AND status = ?`,
			string(c.Status), c.InsuranceNotes, c.SubmittedAt, c.ReviewedAt, c.PaidAt,
			c.ID, string(change.ClaimFrom),
		)
		if err != nil {
			return fmt.Errorf("failed to update claim: %w", err)
		}
		if err := expectOneRow(res, "claim", c.ID); err != nil {
			return err
		}
	}

	if p := change.Payment; p != nil {
		if change.PaymentFrom == "" {
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO payments ("+paymentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
				p.ID, p.ClaimID, p.Amount.String(), string(p.Status), p.InitiatedAt, p.CompletedAt, p.BankNotes,
			)
			if isUniqueViolation(err) {
				return fmt.Errorf("claim %s: %w", p.ClaimID, storage.ErrActivePaymentExists)
			}
			if err != nil {
				return fmt.Errorf("failed to insert payment: %w", err)
			}
		} else {
			res, err := tx.ExecContext(ctx,
				`UPDATE payments SET status = ?, completed_at = ?, bank_notes = ?
				 WHERE id = ? AND status = ?`,
				string(p.Status), p.CompletedAt, p.BankNotes,
				p.ID, string(change.PaymentFrom),
			)
			if err != nil {
				return fmt.Errorf("failed to update payment: %w", err)
			}
			if err := expectOneRow(res, "payment", p.ID); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%s %s: %w", entity, id, storage.ErrConflict)
	}
	return nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var amount, status string
	err := row.Scan(&payment.ID, &payment.ClaimID, &amount, &status,
		&payment.InitiatedAt, &payment.CompletedAt, &payment.BankNotes)
	if err != nil {
		return nil, err
	}
	if payment.Amount, err = scanDecimal(amount, "amount"); err != nil {
		return nil, err
	}
	if payment.Status, err = models.ParsePaymentStatus(status); err != nil {
		return nil, err
	}
	return payment, nil
}
