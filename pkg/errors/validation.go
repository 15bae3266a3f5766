package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// nameRegex matches document and script names.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName validates a document or gesture script name. Names are used
// as file stems and as keys in the event stream, so they must be short and
// free of separators.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "name too long (max 128 characters)")
	}

	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid name: %q", name)
	}

	return nil
}

// ValidatePath validates a file path below a workspace directory.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateRedisURL validates a Redis connection URL.
// It only checks the scheme; the client parses the rest.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values. field names the offending
// input in the message.
func ValidateFinite(field string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s must be finite, got %v", field, v)
		}
	}
	return nil
}
