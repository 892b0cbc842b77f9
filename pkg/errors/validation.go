package errors

import (
	"strings"
	"unicode"
)

// MaxQueryLength bounds search and suggestion queries accepted from users.
const MaxQueryLength = 1024

// ValidateQuery validates a search query received from an untrusted client.
// Blank queries are valid (they clear the search); only oversized queries and
// control characters are rejected.
func ValidateQuery(q string) error {
	if len(q) > MaxQueryLength {
		return New(ErrCodeInvalidInput, "query too long (max %d characters)", MaxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "query contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a path the CLI is about to write an export to.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not point at a directory-like name (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, got directory %q", path)
	}

	return nil
}

// ValidateNodeID validates a node identifier received from an untrusted client.
// Identifiers produced by the builder have the form "node-<n>".
func ValidateNodeID(id string) error {
	rest, ok := strings.CutPrefix(id, "node-")
	if !ok || rest == "" {
		return New(ErrCodeInvalidInput, "invalid node id: %q", id)
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidInput, "invalid node id: %q", id)
		}
	}
	return nil
}
