package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"netdiagram/internal/domain"
	"netdiagram/internal/repository"
)

var _ repository.SnapshotStore = (*Repository)(nil)

// Repository implements repository.SnapshotStore using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the database at dbPath. ":memory:" gives
// a private in-memory database.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" a single database and serialises writers.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	PRAGMA journal_mode = WAL;
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		data JSON NOT NULL,
		devices INTEGER NOT NULL DEFAULT 0,
		links INTEGER NOT NULL DEFAULT 0,
		saved_at TEXT NOT NULL
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Save stores the snapshot under name, replacing any previous one
func (r *Repository) Save(ctx context.Context, name string, snap *domain.Snapshot) error {
	if snap == nil {
		snap = &domain.Snapshot{}
	}
	data, err := marshalJSON(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", name, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (name, data, devices, links, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			devices = excluded.devices,
			links = excluded.links,
			saved_at = excluded.saved_at
	`, name, data, len(snap.Devices), len(snap.Links), formatTime(r.now()))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return nil
}

// Load returns the snapshot stored under name
func (r *Repository) Load(ctx context.Context, name string) (*domain.Snapshot, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", name, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", name, err)
	}

	snap := &domain.Snapshot{}
	if err := unmarshalJSON(data, snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", name, err)
	}
	return snap, nil
}

// List describes every stored snapshot, most recent first
func (r *Repository) List(ctx context.Context) ([]repository.SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, devices, links, saved_at
		FROM snapshots
		ORDER BY saved_at DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	infos := make([]repository.SnapshotInfo, 0)
	for rows.Next() {
		var (
			info    repository.SnapshotInfo
			savedAt string
		)
		if err := rows.Scan(&info.Name, &info.Devices, &info.Links, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if info.SavedAt, err = parseTime(savedAt); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", info.Name, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the snapshot stored under name
func (r *Repository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", name, repository.ErrNotFound)
	}
	return nil
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}
