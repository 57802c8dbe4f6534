package sink

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/stackmerge/pkg/errors"
)

// Format is an output raster format.
type Format int

const (
	PNG Format = iota
	JPEG
	WEBP
)

// DefaultFormat is used when no recognizable format is requested.
const DefaultFormat = PNG

var formatNames = map[string]Format{
	"png":  PNG,
	"jpg":  JPEG,
	"jpeg": JPEG,
	"webp": WEBP,
}

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := formatNames[key]; ok {
		return f, nil
	}
	return 0, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported output format %q (use png, jpg or webp)", s)
}

// FormatFromPath resolves the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, errors.New(errors.ErrCodeUnsupportedFormat, "%q has no file extension", path)
	}
	return ParseFormat(ext)
}

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case WEBP:
		return "webp"
	}
	return "unknown"
}

// Extension returns the canonical file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return ".jpg"
	case WEBP:
		return ".webp"
	}
	return ".png"
}

// MIMEType returns the media type of encoded output.
func (f Format) MIMEType() string {
	return "image/" + f.String()
}

// SupportsAlpha reports whether the format can store transparency.
func (f Format) SupportsAlpha() bool {
	return f != JPEG
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Quality defaults and codec ranges.
const (
	DefaultQuality = 95
	minJPEGQuality = 1
	minWEBPQuality = 0
	maxQuality     = 100
)

// ClampQuality forces q into the range the format's codec accepts.
// PNG is lossless and returns q unchanged.
func ClampQuality(f Format, q int) int {
	lo := minWEBPQuality
	switch f {
	case PNG:
		return q
	case JPEG:
		lo = minJPEGQuality
	}
	return min(max(q, lo), maxQuality)
}
