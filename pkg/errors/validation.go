package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier coming from untrusted input
// (CSV files, API payloads). Node IDs become file-name fragments and
// graph-database properties downstream, so the rules are intentionally
// conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidNode, "node ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node ID contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a caller-supplied output path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeMalformedInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeMalformedInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeMalformedInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeMalformedInput, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeMalformedInput, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURI validates a collaborator connection URI (neo4j, mongo,
// redis). It checks for an explicit scheme without fully parsing the URI.
func ValidateURI(raw string, schemes ...string) error {
	if raw == "" {
		return New(ErrCodeMalformedInput, "URI cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(raw, s+"://") {
			return nil
		}
	}
	return New(ErrCodeMalformedInput, "URI must use one of the schemes: %s", strings.Join(schemes, ", "))
}
