package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quakes.json")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan []string, 10)
	w := New([]string{path}, func(p []string) { changed <- p }).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("[ ]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-changed:
		want, _ := filepath.Abs(path)
		if len(got) != 1 || got[0] != want {
			t.Errorf("expected change for [%s], got %v", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	// The burst collapses into a single call
	select {
	case got := <-changed:
		t.Errorf("unexpected second change: %v", got)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing", "quakes.json")}, func([]string) {})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := w.Watch(ctx); err == nil || errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected watch error for missing directory, got %v", err)
	}
}

func TestWatch_BurstReportsEveryFile(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "quakes.json")
	bindings := filepath.Join(dir, "bindings.json")
	for _, p := range []string{records, bindings} {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	changed := make(chan []string, 10)
	w := New([]string{records, bindings}, func(p []string) { changed <- p }).WithDebounce(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx) }()

	time.Sleep(100 * time.Millisecond)

	// Bindings first, records last
	if err := os.WriteFile(bindings, []byte(`{"bindings": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(records, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		wantBindings, _ := filepath.Abs(bindings)
		wantRecords, _ := filepath.Abs(records)
		if len(got) != 2 || got[0] != wantBindings || got[1] != wantRecords {
			t.Errorf("expected [%s %s], got %v", wantBindings, wantRecords, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}
