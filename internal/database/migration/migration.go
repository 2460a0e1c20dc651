package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// steps run in order, each at most once. Never edit a released step; append
// a new one instead.
var steps = []migrationStep{
	{
		Name: "create_table_students",
		SQL: `CREATE TABLE IF NOT EXISTS students (
  id         BIGSERIAL   PRIMARY KEY,
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL DEFAULT '',
  phone      TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_courses",
		SQL: `CREATE TABLE IF NOT EXISTS courses (
  id          BIGSERIAL     PRIMARY KEY,
  name        TEXT          NOT NULL,
  description TEXT          NOT NULL DEFAULT '',
  duration    INTEGER       NOT NULL CHECK (duration > 0),
  fee         NUMERIC(12,2) NOT NULL CHECK (fee >= 0)
);`,
	},
	{
		Name: "create_table_batches",
		SQL: `CREATE TABLE IF NOT EXISTS batches (
  id              BIGSERIAL PRIMARY KEY,
  course_id       BIGINT    NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
  name            TEXT      NOT NULL,
  start_date      DATE      NOT NULL,
  end_date        DATE      NOT NULL,
  instructor_name TEXT      NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_student_courses",
		SQL: `CREATE TABLE IF NOT EXISTS student_courses (
  student_id BIGINT NOT NULL REFERENCES students (id) ON DELETE CASCADE,
  course_id  BIGINT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
  PRIMARY KEY (student_id, course_id)
);`,
	},
	{
		Name: "create_table_document_sequences",
		SQL: `CREATE TABLE IF NOT EXISTS document_sequences (
  prefix     TEXT        NOT NULL,
  year       INTEGER     NOT NULL CHECK (year BETWEEN 1 AND 9999),
  highest    INTEGER     NOT NULL CHECK (highest BETWEEN 0 AND 9999),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (prefix, year)
);`,
	},
	{
		Name: "create_table_invoices",
		SQL: `CREATE TABLE IF NOT EXISTS invoices (
  id             UUID          PRIMARY KEY,
  invoice_number TEXT          NOT NULL UNIQUE,
  student_id     BIGINT        NOT NULL REFERENCES students (id),
  course_id      BIGINT        NOT NULL REFERENCES courses (id),
  batch_id       BIGINT        REFERENCES batches (id),
  amount         NUMERIC(12,2) NOT NULL CHECK (amount > 0),
  payment_date   DATE          NOT NULL,
  pdf_path       TEXT          NOT NULL DEFAULT '',
  created_at     TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_invoices_student_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_invoices_student_id ON invoices (student_id);`,
	},
	{
		Name: "create_table_custom_invoices",
		SQL: `CREATE TABLE IF NOT EXISTS custom_invoices (
  id                UUID          PRIMARY KEY,
  invoice_number    TEXT          NOT NULL UNIQUE,
  recipient_name    TEXT          NOT NULL,
  recipient_email   TEXT          NOT NULL DEFAULT '',
  recipient_phone   TEXT          NOT NULL DEFAULT '',
  recipient_address TEXT          NOT NULL DEFAULT '',
  payment_date      DATE          NOT NULL,
  items             JSONB         NOT NULL,
  subtotal          NUMERIC(14,4) NOT NULL,
  tax_percentage    NUMERIC(6,2)  NOT NULL DEFAULT 0,
  tax_amount        NUMERIC(14,4) NOT NULL,
  discount          NUMERIC(12,2) NOT NULL DEFAULT 0,
  total_amount      NUMERIC(14,4) NOT NULL,
  amount_paid       NUMERIC(12,2) NOT NULL DEFAULT 0,
  notes             TEXT          NOT NULL DEFAULT '',
  pdf_path          TEXT          NOT NULL DEFAULT '',
  created_at        TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_certificates",
		SQL: `CREATE TABLE IF NOT EXISTS certificates (
  id              UUID        PRIMARY KEY,
  certificate_id  TEXT        NOT NULL UNIQUE,
  student_id      BIGINT      NOT NULL REFERENCES students (id),
  course_id       BIGINT      NOT NULL REFERENCES courses (id),
  batch_id        BIGINT      REFERENCES batches (id),
  completion_date DATE        NOT NULL,
  pdf_path        TEXT        NOT NULL DEFAULT '',
  issued_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (student_id, course_id)
);`,
	},
	{
		// Two-place inputs yield at most eight places of tax and total.
		Name: "widen_custom_invoice_totals",
		SQL: `ALTER TABLE custom_invoices
  ALTER COLUMN subtotal     TYPE NUMERIC(20,8),
  ALTER COLUMN tax_amount   TYPE NUMERIC(20,8),
  ALTER COLUMN total_amount TYPE NUMERIC(20,8);`,
	},
	{
		Name: "create_index_certificates_student_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_certificates_student_id ON certificates (student_id);`,
	},
}

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureMigrated applies every step that is not yet recorded in
// schema_migrations. Each step and its ledger row commit together.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))
	log.Info("db_migration_check")

	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		log.Error("db_migration_failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("create migration ledger: %w", err)
	}

	applied := 0
	for _, step := range steps {
		var done bool
		err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, step.Name).Scan(&done)
		if err != nil {
			log.Error("db_migration_failed", zap.String("migration_step", step.Name), zap.Error(err))
			return fmt.Errorf("check migration step %s: %w", step.Name, err)
		}
		if done {
			continue
		}

		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("step_duration", time.Since(stepStart)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		applied++
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)),
		)
	}

	if applied == 0 {
		log.Info("db_migration_skip", zap.Duration("duration", time.Since(start)))
		return nil
	}
	log.Info("db_migration_success", zap.Int("steps_applied", applied), zap.Duration("duration", time.Since(start)))
	return nil
}

func applyStep(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
