package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestBytesOpen(t *testing.T) {
	b := Bytes{Label: "mem", Data: []byte("hello")}
	if b.Name() != "mem" {
		t.Errorf("Name() = %q, want %q", b.Name(), "mem")
	}

	for i := 0; i < 2; i++ {
		rc, err := b.Open()
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if string(data) != "hello" {
			t.Errorf("read %q, want %q", data, "hello")
		}
	}
}

func TestFileOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	rc, err := File(path).Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "data" {
		t.Errorf("read %q, want %q", data, "data")
	}

	if _, err := File(filepath.Join(t.TempDir(), "missing.png")).Open(); err == nil {
		t.Error("Open() on missing file should fail")
	}
}

func TestIsImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"a.PNG", true},
		{"a.jpeg", true},
		{"dir/a.webp", true},
		{"a.txt", false},
		{"png", false},
	}
	for _, tt := range tests {
		if got := IsImagePath(tt.path); got != tt.want {
			t.Errorf("IsImagePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFilesExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.png", "a.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	srcs, err := Files([]string{"first.png", dir, "missing.png"})
	if err != nil {
		t.Fatalf("Files() error: %v", err)
	}

	want := []string{
		"first.png",
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		"missing.png",
	}
	got := Names(srcs)
	if len(got) != len(want) {
		t.Fatalf("Files() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Files()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
