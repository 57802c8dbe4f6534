package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/stackmerge/pkg/core/sink"
)

// NoticeCode identifies a non-fatal condition reported with a result.
type NoticeCode string

const (
	// NoticeFormatDefaulted means the requested format was not recognized
	// and PNG was written instead.
	NoticeFormatDefaulted NoticeCode = "FORMAT_DEFAULTED"

	// NoticeExtensionReplaced means the destination extension named a
	// different format than the one requested and was swapped.
	NoticeExtensionReplaced NoticeCode = "EXTENSION_REPLACED"
)

// Notice is a non-fatal message attached to an export.
type Notice struct {
	Code    NoticeCode `json:"code"`
	Message string     `json:"message"`
}

func (n Notice) String() string { return n.Message }

// ResolveFormat picks the output format and final path for an export.
//
// An explicit format wins; otherwise the destination extension decides.
// An unrecognized format falls back to PNG: ".png" is appended to the path
// unless it already ends in it, and a NoticeFormatDefaulted is returned.
// A recognized explicit format gets its extension appended when the
// destination has none or an unrecognized one. When the destination
// extension names another format it is replaced, with a
// NoticeExtensionReplaced.
func ResolveFormat(format, destination string) (sink.Format, string, []Notice) {
	hint := format
	if hint == "" {
		hint = filepath.Ext(destination)
	}

	f, err := sink.ParseFormat(hint)
	if err != nil {
		path := destination
		if !strings.EqualFold(filepath.Ext(path), sink.DefaultFormat.Extension()) {
			path += sink.DefaultFormat.Extension()
		}
		return sink.DefaultFormat, path, []Notice{{
			Code:    NoticeFormatDefaulted,
			Message: fmt.Sprintf("format %q not recognized, saved as PNG to %s", displayHint(hint), path),
		}}
	}

	if format == "" {
		return f, destination, nil
	}
	ext := filepath.Ext(destination)
	extFormat, err := sink.ParseFormat(ext)
	switch {
	case ext == "" || err != nil:
		destination += f.Extension()
	case extFormat != f:
		path := strings.TrimSuffix(destination, ext) + f.Extension()
		return f, path, []Notice{{
			Code:    NoticeExtensionReplaced,
			Message: fmt.Sprintf("%s output does not match %s, saved to %s", f, displayHint(ext), path),
		}}
	}
	return f, destination, nil
}

func displayHint(h string) string {
	if h == "" {
		return "(none)"
	}
	return strings.TrimPrefix(h, ".")
}
