package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"netdiagram/internal/domain"
	"netdiagram/internal/repository"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func sampleSnapshot() *domain.Snapshot {
	g := domain.NewGraph()
	h := g.AddDevice(domain.KindHost, 1.5, 2.5)
	h.Label = "web"
	r := g.AddDevice(domain.KindRouter, 10, 20)
	r.Label = "gw"
	l, _ := g.AddLink(h.ID, r.ID)
	l.Label = "uplink"
	return g.Snapshot()
}

// ============================================================================
// Snapshot Tests
// ============================================================================

func TestSaveAndLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("round trips a snapshot", func(t *testing.T) {
		want := sampleSnapshot()
		assertNoError(t, repo.Save(ctx, "lab", want))

		got, err := repo.Load(ctx, "lab")
		assertNoError(t, err)
		assertEqual(t, want, got)
	})

	t.Run("save replaces existing snapshot", func(t *testing.T) {
		assertNoError(t, repo.Save(ctx, "lab", &domain.Snapshot{
			Devices: []domain.DeviceState{{ID: 1, Kind: domain.KindHost, Label: "only"}},
			Links:   []domain.LinkState{},
		}))

		got, err := repo.Load(ctx, "lab")
		assertNoError(t, err)
		assertEqual(t, 1, len(got.Devices))
		assertEqual(t, "only", got.Devices[0].Label)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		_, err := repo.Load(ctx, "nope")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	repo.now = func() time.Time { return clock }

	assertNoError(t, repo.Save(ctx, "older", sampleSnapshot()))
	clock = base.Add(time.Minute)
	assertNoError(t, repo.Save(ctx, "newer", &domain.Snapshot{}))

	infos, err := repo.List(ctx)
	assertNoError(t, err)
	assertEqual(t, []repository.SnapshotInfo{
		{Name: "newer", Devices: 0, Links: 0, SavedAt: base.Add(time.Minute)},
		{Name: "older", Devices: 2, Links: 1, SavedAt: base},
	}, infos)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.Save(ctx, "lab", sampleSnapshot()))
	assertNoError(t, repo.Delete(ctx, "lab"))

	if _, err := repo.Load(ctx, "lab"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "lab"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSaveNilSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.Save(ctx, "empty", nil))
	got, err := repo.Load(ctx, "empty")
	assertNoError(t, err)

	g, err := domain.FromSnapshot(got)
	assertNoError(t, err)
	assertEqual(t, 0, g.DeviceCount())
}
