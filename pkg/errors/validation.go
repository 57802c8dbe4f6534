package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates a destination path for an exported image.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidInput, "output path must name a file, not a directory")
	}

	return nil
}

// ValidateBounds checks a preview bounding box.
func ValidateBounds(maxWidth, maxHeight int) error {
	if maxWidth <= 0 || maxHeight <= 0 {
		return New(ErrCodeInvalidDimensions, "preview bounds must be positive, got %dx%d", maxWidth, maxHeight)
	}
	return nil
}
