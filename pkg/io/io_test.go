package io

import (
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stackmerge/pkg/core/layout"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
	assertNoTemps(t, dir)
}

func TestWriteAtomicFailureKeepsDestination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "original" {
		t.Errorf("destination = %q, want untouched", got)
	}
	assertNoTemps(t, dir)
}

func TestWriteAtomicFailureCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.bin")

	_ = WriteAtomic(path, 0o644, func(io.Writer) error { return errors.New("nope") })

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("destination exists after failed write: %v", err)
	}
	assertNoTemps(t, dir)
}

func TestWriteAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.bin")
	if err := WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestPlanJSONRoundTrip(t *testing.T) {
	p, err := layout.Build([]image.Point{{100, 50}, {200, 100}}, layout.Vertical)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := ExportPlanJSON(p, path); err != nil {
		t.Fatalf("ExportPlanJSON() error: %v", err)
	}

	got, err := ImportPlanJSON(path)
	if err != nil {
		t.Fatalf("ImportPlanJSON() error: %v", err)
	}
	if got.Orientation != p.Orientation || got.Size() != p.Size() || len(got.Entries) != len(p.Entries) {
		t.Fatalf("round trip = %+v, want %+v", got, p)
	}
	for i := range p.Entries {
		if got.Entries[i] != p.Entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], p.Entries[i])
		}
	}
}

func assertNoTemps(t *testing.T, dir string) {
	t.Helper()
	matches, _ := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	if len(matches) > 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}
