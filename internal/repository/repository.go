package repository

import (
	"context"
	"errors"
	"time"

	"netdiagram/internal/domain"
)

// ErrNotFound is returned when no snapshot has the requested name
var ErrNotFound = errors.New("snapshot not found")

// SnapshotInfo describes a saved snapshot without loading it
type SnapshotInfo struct {
	Name    string    `json:"name"`
	Devices int       `json:"devices"`
	Links   int       `json:"links"`
	SavedAt time.Time `json:"saved_at"`
}

// SnapshotStore saves and loads named graph snapshots
type SnapshotStore interface {
	Save(ctx context.Context, name string, snap *domain.Snapshot) error
	Load(ctx context.Context, name string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]SnapshotInfo, error)
	Delete(ctx context.Context, name string) error

	// Close releases resources
	Close() error
}
