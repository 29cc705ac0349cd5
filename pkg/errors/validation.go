package errors

import "unicode"

const (
	maxFunctionNameLength = 1024
	maxPathLength         = 500
)

// ValidateFunctionName validates a function name used to select a graph from
// a compiler output document. Names come from compiler output and may contain
// almost anything (generics, paths, closures), so only emptiness, length and
// control characters are rejected.
func ValidateFunctionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFunction, "function name cannot be empty")
	}

	if len(name) > maxFunctionNameLength {
		return New(ErrCodeInvalidFunction, "function name too long (max %d characters)", maxFunctionNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFunction, "function name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a file path supplied to the CLI.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

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
