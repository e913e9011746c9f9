package watcher

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.yaml")
	if err := os.WriteFile(path, []byte("hosts: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 1)
	w := New(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, log.New(io.Discard)).WithDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// keep writing until the watcher has registered the directory
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-changed:
			break loop
		case <-ticker.C:
			if err := os.WriteFile(path, []byte("hosts: [{id: a}]\n"), 0644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no change reported")
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w := New(path, func() { calls.Add(1) }, log.New(io.Discard)).WithDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	go func() {
		for range 5 {
			os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644)
			time.Sleep(20 * time.Millisecond)
		}
	}()

	if err := w.Watch(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("expected no callbacks, got %d", n)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "diagram.yaml"), func() {}, log.New(io.Discard))

	if err := w.Watch(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}
