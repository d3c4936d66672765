package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for upload.
// The extraction backend only understands PDF.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
