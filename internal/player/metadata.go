package player

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
)

// MediaInfo describes the loaded media.
type MediaInfo struct {
	Path     string
	Title    string
	Artist   string
	Format   string // upper-case extension, e.g. "MP3", "MP4"
	Duration time.Duration
}

// Label returns "Artist - Title", or just the title.
func (i *MediaInfo) Label() string {
	if i == nil {
		return ""
	}
	if i.Artist != "" {
		return i.Artist + " - " + i.Title
	}
	return i.Title
}

// ReadMediaInfo reads tag metadata from path. Files without readable tags
// fall back to their base name, so the error is only set when the file
// cannot be opened.
func ReadMediaInfo(path string) (*MediaInfo, error) {
	info := &MediaInfo{
		Path:   path,
		Title:  filepath.Base(path),
		Format: strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")),
	}

	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return info, nil //nolint:nilerr // untagged media is fine
	}
	if title := strings.TrimSpace(m.Title()); title != "" {
		info.Title = title
	}
	info.Artist = strings.TrimSpace(m.Artist())
	return info, nil
}
