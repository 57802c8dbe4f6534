// Package source provides the byte sources that feed the merge engine.
//
// A [Source] is anything that can be opened for reading and named in error
// messages. The caller owns the ordered list of sources; the engine opens
// each one exactly once per invocation and never retains it.
package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is a named, re-openable image byte stream.
type Source interface {
	// Name identifies the source in logs and errors (usually a path).
	Name() string
	// Open returns a fresh reader over the source bytes.
	Open() (io.ReadCloser, error)
}

// File is a Source backed by a file on disk.
type File string

// Name returns the file path.
func (f File) Name() string { return string(f) }

// Open opens the file for reading.
func (f File) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// Bytes is an in-memory Source, used for streams and tests.
type Bytes struct {
	Label string
	Data  []byte
}

// Name returns the label.
func (b Bytes) Name() string { return b.Label }

// Open returns a reader over a shared, read-only view of Data.
func (b Bytes) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// Extensions lists the file extensions picked up when a directory is expanded.
var Extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImagePath reports whether path has a supported image extension.
func IsImagePath(path string) bool {
	return Extensions[strings.ToLower(filepath.Ext(path))]
}

// Files converts paths to sources. A directory expands to the image files it
// directly contains, in lexical order; other paths are kept as given so that
// unreadable inputs surface as decode errors instead of being skipped.
func Files(paths []string) ([]Source, error) {
	var out []Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, File(p))
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && IsImagePath(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, n := range names {
			out = append(out, File(filepath.Join(p, n)))
		}
	}
	return out, nil
}

// Names returns the names of srcs in order.
func Names(srcs []Source) []string {
	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = s.Name()
	}
	return names
}
