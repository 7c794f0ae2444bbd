package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SanitizeFilename keeps letters, digits, dots, dashes and underscores
// and strips any path components, so user input cannot shape object
// keys.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "/" {
		return "file"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ObjectKey builds a unique per-user storage key that still ends in
// the original (sanitized) filename.
func ObjectKey(userID, filename string) string {
	return fmt.Sprintf("%s/%s_%s_%s",
		userID,
		time.Now().UTC().Format("20060102T150405"),
		uuid.NewString()[:8],
		SanitizeFilename(filename),
	)
}

// FileExt returns the lowercased extension without the leading dot.
func FileExt(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
