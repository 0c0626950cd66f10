package repository

import (
	"context"
	"fmt"

	"github.com/shiftboard/shiftboard-backend/pkg/database"
)

// Schema is the DDL for the tables this service reads and writes. Employees
// and corporations are owned by the staff directory and only read here; the
// DDL exists so a fresh database (tests, local dev) has them.
const Schema = `
CREATE TABLE IF NOT EXISTS corporations (
	id                      UUID PRIMARY KEY,
	name                    TEXT NOT NULL UNIQUE,
	business_day_start_hour SMALLINT,
	business_day_end_hour   SMALLINT,
	CONSTRAINT corporations_business_day_check CHECK (
		(business_day_start_hour IS NULL OR business_day_start_hour BETWEEN -24 AND 48) AND
		(business_day_end_hour IS NULL OR business_day_end_hour BETWEEN -24 AND 72)
	)
);

CREATE TABLE IF NOT EXISTS employees (
	id               UUID PRIMARY KEY,
	name             TEXT NOT NULL,
	category_tag     TEXT NOT NULL DEFAULT '',
	corporation_id   UUID REFERENCES corporations(id),
	corporation_name TEXT,
	deleted_at       TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS shift_entries (
	id                    UUID PRIMARY KEY,
	employee_id           UUID NOT NULL REFERENCES employees(id),
	employee_category_tag TEXT NOT NULL DEFAULT '',
	shift_date            DATE NOT NULL,
	start_time            VARCHAR(5) NOT NULL CONSTRAINT shift_entries_start_time_check CHECK (start_time ~ '^[0-9]{2}:[0-9]{2}$'),
	end_time              VARCHAR(5) NOT NULL CONSTRAINT shift_entries_end_time_check CHECK (end_time ~ '^[0-9]{2}:[0-9]{2}$'),
	approved              BOOLEAN NOT NULL DEFAULT FALSE,
	created_by            TEXT,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS shift_entries_employee_date_idx ON shift_entries (employee_id, shift_date);
CREATE INDEX IF NOT EXISTS shift_entries_date_idx ON shift_entries (shift_date);
`

// Migrate applies Schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schedule schema: %w", err)
	}
	return nil
}
