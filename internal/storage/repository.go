// Package storage persists full collection snapshots to SQLite, one
// row per record domain. The in-memory stores are the source of truth
// while the process runs; rows here are what survives a restart and
// what the mirror worker ships to the remote sheet.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Mirror states for a snapshot row.
const (
	MirrorPending  = "pending"
	MirrorDone     = "done"
	MirrorErrState = "error"
)

// DirtySnapshot identifies a snapshot awaiting a mirror attempt.
type DirtySnapshot struct {
	Domain    string
	UpdatedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSnapshot upserts the domain's payload and resets its mirror
// state so the worker picks it up again.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, domain string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (domain, payload, updated_at, mirror_state)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at,
			mirror_state = excluded.mirror_state`,
		domain, string(payload), time.Now().UTC(), MirrorPending)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", domain, err)
	}
	return nil
}

// LoadSnapshot returns the stored payload for a domain, or nil when no
// snapshot has ever been written.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, domain string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE domain = ?`, domain).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", domain, err)
	}
	return []byte(payload), nil
}

// DirtySnapshots lists domains whose latest payload has not been
// mirrored yet, oldest first.
func (r *SQLiteRepository) DirtySnapshots(ctx context.Context, limit int) ([]DirtySnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT domain, updated_at FROM snapshots
		WHERE mirror_state != ?
		ORDER BY updated_at ASC
		LIMIT ?`, MirrorDone, limit)
	if err != nil {
		return nil, fmt.Errorf("list dirty snapshots: %w", err)
	}
	defer rows.Close()

	var dirty []DirtySnapshot
	for rows.Next() {
		var d DirtySnapshot
		if err := rows.Scan(&d.Domain, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dirty snapshot: %w", err)
		}
		dirty = append(dirty, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dirty snapshots: %w", err)
	}
	return dirty, nil
}

// MarkMirrored records a successful mirror of the domain's snapshot.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, domain string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE snapshots SET mirror_state = ?, mirrored_at = ? WHERE domain = ?`,
		MirrorDone, time.Now().UTC(), domain)
	if err != nil {
		return fmt.Errorf("mark snapshot mirrored %s: %w", domain, err)
	}
	return nil
}

// MarkMirrorError flags the snapshot for retry by the backfill pass.
func (r *SQLiteRepository) MarkMirrorError(ctx context.Context, domain string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE snapshots SET mirror_state = ? WHERE domain = ?`,
		MirrorErrState, domain)
	if err != nil {
		return fmt.Errorf("mark snapshot mirror error %s: %w", domain, err)
	}
	return nil
}
