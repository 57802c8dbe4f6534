package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/stackmerge/pkg/errors"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
		excludes string
	}{
		{
			name:     "coded",
			err:      errors.New(errors.ErrCodeDecode, "decode %s", "bad.png"),
			contains: []string{"decode bad.png", "[DECODE_ERROR]"},
			excludes: "DECODE_ERROR: decode",
		},
		{
			name:     "wrapped cause",
			err:      errors.Wrap(errors.ErrCodeEncode, fmt.Errorf("disk full"), "write out.png"),
			contains: []string{"write out.png: disk full", "[ENCODE_ERROR]"},
		},
		{
			name:     "plain",
			err:      fmt.Errorf("unknown flag: --nope"),
			contains: []string{"unknown flag: --nope"},
			excludes: "[DECODE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, missing %q", got, want)
				}
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("FormatError() = %q, should not contain %q", got, tt.excludes)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
