package errors

import (
	"strings"
	"unicode"
)

// ValidateInputPath validates a voxel array path supplied by a caller.
// The file itself is not touched; existence is checked by the reader so
// that a missing file reports FILE_NOT_FOUND rather than INVALID_PATH.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "input path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidatePhaseLabel checks that label lies in [0, phases).
// A non-positive phases value disables the check.
func ValidatePhaseLabel(label, phases int) error {
	if phases <= 0 {
		return nil
	}
	if label < 0 || label >= phases {
		return New(ErrCodeInvalidPhaseLabel, "phase label %d outside [0,%d)", label, phases)
	}
	return nil
}
