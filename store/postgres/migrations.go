package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the token ledger store (PostgreSQL).
var Migrations = migrate.NewGroup("tokenledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_tokenledger_accounts",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tokenledger_accounts (
    id         TEXT PRIMARY KEY,
    balance    TEXT NOT NULL DEFAULT '0',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tokenledger_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tokenledger_state",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tokenledger_state (
    id           INTEGER PRIMARY KEY CHECK (id = 1),
    owner        TEXT NOT NULL DEFAULT '',
    total_supply TEXT NOT NULL DEFAULT '0',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tokenledger_state`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tokenledger_pending_transfers",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tokenledger_pending_transfers (
    id         TEXT PRIMARY KEY,
    sender     TEXT NOT NULL DEFAULT '',
    receiver   TEXT NOT NULL DEFAULT '',
    amount     TEXT NOT NULL DEFAULT '0',
    memo       TEXT NOT NULL DEFAULT '',
    payload    TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tokenledger_pending_sender ON tokenledger_pending_transfers (sender);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tokenledger_pending_transfers`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tokenledger_events",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tokenledger_events (
    id           TEXT PRIMARY KEY,
    standard     TEXT NOT NULL DEFAULT '',
    version      TEXT NOT NULL DEFAULT '',
    event        TEXT NOT NULL DEFAULT '',
    timestamp    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    owner_id     TEXT NOT NULL DEFAULT '',
    old_owner_id TEXT NOT NULL DEFAULT '',
    new_owner_id TEXT NOT NULL DEFAULT '',
    amount       TEXT NOT NULL DEFAULT '0',
    memo         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_tokenledger_events_kind ON tokenledger_events (event, timestamp);
CREATE INDEX IF NOT EXISTS idx_tokenledger_events_owner ON tokenledger_events (owner_id);
CREATE INDEX IF NOT EXISTS idx_tokenledger_events_timestamp ON tokenledger_events (timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tokenledger_events`)
				return err
			},
		},
	)
}
