package errors

import (
	"strings"
	"unicode"
)

// ValidateVenueName validates a venue identifier for safety and
// correctness. Venue names key Mongo collections and cache namespaces,
// so the rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 128 characters
func ValidateVenueName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidVenue, "venue name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidVenue, "venue name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidVenue, "venue name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidVenue, "venue name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateMapPath validates a user-supplied map file path.
// It prevents null bytes and unreasonable lengths; the path may be
// absolute or relative since the CLI accepts both.
func ValidateMapPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "map path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "map path too long (max 500 characters)")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "map path contains a null byte")
	}
	return nil
}
