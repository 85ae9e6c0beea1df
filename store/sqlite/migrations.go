package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the medledger store (SQLite).
var Migrations = migrate.NewGroup("medledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_medledger_users",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_users (
    address    TEXT PRIMARY KEY,
    role       TEXT NOT NULL DEFAULT 'none',
    registered INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_users`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_medledger_records",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_records (
    patient     TEXT NOT NULL,
    idx         INTEGER NOT NULL,
    data_hash   TEXT NOT NULL DEFAULT '',
    timestamp   INTEGER NOT NULL DEFAULT 0,
    record_type TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (patient, idx)
);

CREATE INDEX IF NOT EXISTS idx_medledger_records_patient ON medledger_records (patient);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_records`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_medledger_consent",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_consent (
    patient  TEXT NOT NULL,
    consumer TEXT NOT NULL,
    granted  INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (patient, consumer)
);

CREATE INDEX IF NOT EXISTS idx_medledger_consent_patient ON medledger_consent (patient);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_consent`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_medledger_beneficiaries",
			Version: "20250101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_beneficiaries (
    patient     TEXT PRIMARY KEY,
    beneficiary TEXT NOT NULL DEFAULT ''
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_beneficiaries`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_medledger_access_requests",
			Version: "20250101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_access_requests (
    id        TEXT PRIMARY KEY,
    from_addr TEXT NOT NULL DEFAULT '',
    to_addr   TEXT NOT NULL DEFAULT '',
    status    TEXT NOT NULL DEFAULT 'pending',
    timestamp INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_medledger_areq_from ON medledger_access_requests (from_addr);
CREATE INDEX IF NOT EXISTS idx_medledger_areq_to ON medledger_access_requests (to_addr);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_access_requests`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_medledger_invoices",
			Version: "20250101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_invoices (
    id             TEXT PRIMARY KEY,
    provider       TEXT NOT NULL DEFAULT '',
    patient        TEXT NOT NULL DEFAULT '',
    amount         TEXT NOT NULL DEFAULT '0',
    service        TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'pending',
    timestamp      INTEGER NOT NULL DEFAULT 0,
    settlement_ref TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_medledger_invoices_provider ON medledger_invoices (provider);
CREATE INDEX IF NOT EXISTS idx_medledger_invoices_patient ON medledger_invoices (patient);
CREATE INDEX IF NOT EXISTS idx_medledger_invoices_status ON medledger_invoices (status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_invoices`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_medledger_tips",
			Version: "20250101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_tips (
    id        TEXT PRIMARY KEY,
    from_addr TEXT NOT NULL DEFAULT '',
    to_addr   TEXT NOT NULL DEFAULT '',
    amount    TEXT NOT NULL DEFAULT '0',
    message   TEXT NOT NULL DEFAULT '',
    timestamp INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_medledger_tips_to ON medledger_tips (to_addr);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_tips`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_medledger_emergency_logs",
			Version: "20250101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_emergency_logs (
    id        TEXT PRIMARY KEY,
    doctor    TEXT NOT NULL DEFAULT '',
    patient   TEXT NOT NULL DEFAULT '',
    reason    TEXT NOT NULL DEFAULT '',
    timestamp INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_medledger_emrg_patient ON medledger_emergency_logs (patient);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_emergency_logs`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_medledger_transactions",
			Version: "20250101000009",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medledger_transactions (
    hash      TEXT PRIMARY KEY,
    seq       INTEGER NOT NULL DEFAULT 0,
    from_addr TEXT NOT NULL DEFAULT '',
    to_addr   TEXT NOT NULL DEFAULT '',
    action    TEXT NOT NULL DEFAULT '',
    data      TEXT NOT NULL DEFAULT '{}',
    timestamp INTEGER NOT NULL DEFAULT 0,
    status    TEXT NOT NULL DEFAULT 'success'
);

CREATE INDEX IF NOT EXISTS idx_medledger_txns_seq ON medledger_transactions (seq);
CREATE INDEX IF NOT EXISTS idx_medledger_txns_from ON medledger_transactions (from_addr);
CREATE INDEX IF NOT EXISTS idx_medledger_txns_to ON medledger_transactions (to_addr);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS medledger_transactions`)
				return err
			},
		},
	)
}
