package sqlite

import (
	"context"
	"database/sql"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Money columns are TEXT so decimal amounts round-trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS treatments (
    id TEXT PRIMARY KEY,
    patient_id TEXT NOT NULL,
    doctor_id TEXT NOT NULL,
    diagnosis TEXT NOT NULL,
    cost TEXT NOT NULL,
    treated_at INTEGER NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS claims (
    id TEXT PRIMARY KEY,
    patient_id TEXT NOT NULL,
    doctor_id TEXT NOT NULL,
    treatment_id TEXT,
    diagnosis TEXT NOT NULL,
    cost TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    insurance_notes TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    submitted_at INTEGER NOT NULL DEFAULT 0,
    reviewed_at INTEGER NOT NULL DEFAULT 0,
    paid_at INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (treatment_id) REFERENCES treatments(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS claim_documents (
    claim_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    ref TEXT NOT NULL,
    PRIMARY KEY (claim_id, position),
    FOREIGN KEY (claim_id) REFERENCES claims(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    claim_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    status TEXT NOT NULL,
    initiated_at INTEGER NOT NULL,
    completed_at INTEGER NOT NULL DEFAULT 0,
    bank_notes TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (claim_id) REFERENCES claims(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_claims_patient_id ON claims(patient_id);
CREATE INDEX IF NOT EXISTS idx_claims_doctor_id ON claims(doctor_id);
CREATE INDEX IF NOT EXISTS idx_claims_status ON claims(status);
CREATE INDEX IF NOT EXISTS idx_payments_claim_id ON payments(claim_id);
CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);

-- At most one payment per claim that the bank has not rejected.
CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_active_claim
    ON payments(claim_id) WHERE status != 'rejected';
`

// runMigrations executes the schema setup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
