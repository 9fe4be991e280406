package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent and applied on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		display_name  TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		skill_level   TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS clubs (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_by TEXT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS club_memberships (
		club_id    TEXT NOT NULL REFERENCES clubs(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role       TEXT NOT NULL CHECK (role IN ('admin', 'member')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (club_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id         TEXT PRIMARY KEY,
		player1_id TEXT NOT NULL REFERENCES users(id),
		player2_id TEXT NOT NULL REFERENCES users(id),
		team_name  TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (player1_id <> player2_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tournaments (
		id                    TEXT PRIMARY KEY,
		club_id               TEXT NOT NULL REFERENCES clubs(id),
		created_by            TEXT NOT NULL REFERENCES users(id),
		title                 TEXT NOT NULL,
		slug                  TEXT NOT NULL,
		status                TEXT NOT NULL,
		min_participants      INTEGER NOT NULL,
		max_participants      INTEGER NOT NULL,
		event_type            TEXT NOT NULL,
		format                TEXT NOT NULL,
		participant_count     INTEGER NOT NULL DEFAULT 0 CHECK (participant_count >= 0),
		total_rounds          INTEGER NOT NULL DEFAULT 0,
		total_matches         INTEGER NOT NULL DEFAULT 0,
		start_date            TIMESTAMPTZ NOT NULL,
		end_date              TIMESTAMPTZ NOT NULL,
		registration_deadline TIMESTAMPTZ NOT NULL,
		logo_key              TEXT,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at          TIMESTAMPTZ,
		cancelled_at          TIMESTAMPTZ,
		cancellation_reason   TEXT,
		cancelled_by          TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS tournaments_status_deadline_idx ON tournaments (status, registration_deadline)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id                TEXT PRIMARY KEY,
		tournament_id     TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		player_id         TEXT NOT NULL,
		player_name       TEXT NOT NULL,
		skill_level       TEXT,
		partner_id        TEXT,
		partner_name      TEXT,
		partner_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		team_id           TEXT REFERENCES teams(id),
		registered_by     TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT participants_tournament_id_player_id_key UNIQUE (tournament_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id              TEXT PRIMARY KEY,
		type            TEXT NOT NULL,
		tournament_id   TEXT,
		event_id        TEXT,
		club_id         TEXT,
		user_id         TEXT NOT NULL,
		previous_status TEXT,
		new_status      TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS activities_tournament_idx ON activities (tournament_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id           TEXT PRIMARY KEY,
		event_id     TEXT NOT NULL,
		applicant_id TEXT NOT NULL,
		partner_id   TEXT,
		status       TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		approved_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS applications_event_idx ON applications (event_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS leagues (
		id               TEXT PRIMARY KEY,
		host_id          TEXT NOT NULL,
		title            TEXT NOT NULL,
		max_participants INTEGER NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS lightning_events (
		id               TEXT PRIMARY KEY,
		host_id          TEXT NOT NULL,
		title            TEXT NOT NULL,
		max_participants INTEGER NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id               TEXT PRIMARY KEY,
		host_id          TEXT NOT NULL,
		title            TEXT NOT NULL,
		max_participants INTEGER NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_rooms (
		id         TEXT PRIMARY KEY,
		type       TEXT NOT NULL,
		event_id   TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_room_members (
		room_id TEXT NOT NULL REFERENCES chat_rooms(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		PRIMARY KEY (room_id, user_id)
	)`,
}

// Migrate creates any missing tables in a single transaction.
func Migrate(ctx context.Context, conn *sql.DB) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range schema {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i, err)
		}
	}
	return tx.Commit()
}
