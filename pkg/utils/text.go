package utils

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename strips path components and characters that are unsafe in
// stored file names, keeping the extension intact.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))

	replacer := strings.NewReplacer(
		" ", "_",
		"..", "_",
		"/", "_",
		"\\", "_",
		"\x00", "",
	)
	name = replacer.Replace(name)

	if name == "" || name == "." {
		return "file"
	}
	return name
}

// TruncateText limits user-supplied text to n runes.
func TruncateText(input string, n int) string {
	runes := []rune(input)
	if len(runes) <= n {
		return input
	}
	return string(runes[:n])
}
