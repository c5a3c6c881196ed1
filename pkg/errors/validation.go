package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// nodeIDRegex matches node identifiers as they appear in datasets and URLs.
var nodeIDRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidateNodeID validates a node identifier. Node ids travel through
// URLs, cache keys, and view filenames, so the rules are conservative:
// letters and digits, with ., _, - allowed between them, at most 256
// bytes, no control characters.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	// The regex also rules out separators, traversal sequences, and
	// leading or trailing punctuation.
	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid node id: %q", id)
	}

	return nil
}

// ValidateViewName validates a saved-view name.
// Names are display strings, not identifiers, so anything printable of a
// reasonable length is allowed.
func ValidateViewName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "view name cannot be empty")
	}

	const maxNameLength = 120
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "view name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidName, "view name contains invalid characters")
		}
	}

	return nil
}

// ValidateDatasetPath validates a dataset file path supplied over the API.
// CLI callers loading local files skip this; it guards server-side loads.
//
// Accepted paths are relative, at most 500 bytes, and free of ".."
// segments, backslashes, and control characters.
func ValidateDatasetPath(path string) error {
	const maxPathLength = 500

	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	case strings.Contains(path, ".."):
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	case strings.Contains(path, `\`):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateBaseURL validates the base URL share links are built on.
// Only http and https URLs with a host are accepted.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}
