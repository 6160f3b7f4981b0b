package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

var posterExts = []string{".jpg", ".jpeg", ".png"}

// posterNames lists directory-wide artwork in priority order.
var posterNames = []string{"poster", "cover", "folder", "thumbnail"}

// FindPoster looks for artwork next to the media file: first one sharing
// its base name (lecture.mp4 -> lecture.jpg), then common poster names.
// Returns the path, or empty string if not found.
func FindPoster(mediaPath string) string {
	if mediaPath == "" {
		return ""
	}
	dir := filepath.Dir(mediaPath)
	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	for _, name := range append([]string{stem}, posterNames...) {
		for _, ext := range posterExts {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}
