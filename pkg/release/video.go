package release

import (
	"path"
	"strings"
)

// videoExtensions is the closed set of extensions treated as video.
var videoExtensions = []string{
	".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv",
	".webm", ".m4v", ".ts", ".mpg", ".mpeg",
}

// IsVideo reports whether name has a known video extension (case-insensitive).
func IsVideo(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, v := range videoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// TrimVideoExt removes a trailing known video extension, if any.
func TrimVideoExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
