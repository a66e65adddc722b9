package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a series or scene name. Names end up in SVG
// output and log lines, so control characters are rejected.
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidScene, "name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "name contains invalid control characters")
		}
	}
	return nil
}

// colorRegex accepts hex colours, CSS colour keywords and rgb()/rgba()/hsl()
// functions.
var colorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3,4}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|[a-zA-Z]+|(rgb|rgba|hsl|hsla)\([0-9.,%\s]+\))$`)

// ValidateColor validates a fill colour. The empty string means "no fill"
// and is accepted.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidScene, "invalid color: %q", color)
	}
	return nil
}

// valueFormatRegex matches a single floating-point printf verb.
var valueFormatRegex = regexp.MustCompile(`%[-+# 0]*[0-9]*(\.[0-9]+)?[eEfFgGv]`)

// ValidateValueFormat validates the printf format used to turn a data value
// into label text. It must contain exactly one float verb; literal percent
// signs are written as %%.
func ValidateValueFormat(format string) error {
	if format == "" {
		return nil
	}
	stripped := strings.ReplaceAll(format, "%%", "")
	verbs := valueFormatRegex.FindAllString(stripped, -1)
	if len(verbs) != 1 || strings.Count(stripped, "%") != 1 {
		return New(ErrCodeInvalidScene, "value format must contain exactly one float verb: %q", format)
	}
	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a supported scheme.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %s", strings.Join(schemes, ", "))
}
