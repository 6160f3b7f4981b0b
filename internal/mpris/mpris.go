//go:build linux

package mpris

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/engage/internal/player"
)

const (
	busName  = "engage"
	identity = "Engage"
)

var mimeTypes = []string{
	"video/mp4", "video/x-matroska", "video/webm", "video/quicktime", "video/x-msvideo",
	"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg",
}

// Adapter publishes the engagement session on the session bus.
type Adapter struct {
	server *server.Server
}

// New starts serving MPRIS for the session. Play, pause and media keys go
// through ctl, so they are ignored while a rating is pending.
func New(ctl Controller, engine player.Interface, logger *log.Logger) (*Adapter, error) {
	c := newControl(ctl, engine)
	a := &Adapter{
		server: server.NewServer(busName, session{}, &transport{c: c}),
	}
	go func() {
		if err := a.server.Listen(); err != nil && logger != nil {
			logger.Debug("mpris server stopped", "err", err)
		}
	}()
	return a, nil
}

// Close stops serving and releases the bus name.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// session implements OrgMprisMediaPlayer2Adapter. There is no window to
// raise and quitting is left to the viewer.
type session struct{}

func (session) Raise() error                          { return nil }
func (session) Quit() error                           { return nil }
func (session) CanQuit() (bool, error)                { return false, nil }
func (session) CanRaise() (bool, error)               { return false, nil }
func (session) HasTrackList() (bool, error)           { return false, nil }
func (session) Identity() (string, error)             { return identity, nil }
func (session) SupportedMimeTypes() ([]string, error) { return mimeTypes, nil }

//nolint:revive // Method name required by interface.
func (session) SupportedUriSchemes() ([]string, error) { return []string{"file"}, nil }

// transport implements OrgMprisMediaPlayer2PlayerAdapter over a single
// media item that only moves forward by playing, so seeking is refused.
type transport struct {
	c *control
}

func (t *transport) Next() error                                  { return errUnsupported }
func (t *transport) Previous() error                              { return errUnsupported }
func (t *transport) Seek(types.Microseconds) error                { return errUnsupported }
func (t *transport) SetPosition(string, types.Microseconds) error { return errUnsupported }
func (t *transport) CanGoNext() (bool, error)                     { return false, nil }
func (t *transport) CanGoPrevious() (bool, error)                 { return false, nil }
func (t *transport) CanSeek() (bool, error)                       { return false, nil }
func (t *transport) CanControl() (bool, error)                    { return true, nil }
func (t *transport) Rate() (float64, error)                       { return 1, nil }
func (t *transport) MinimumRate() (float64, error)                { return 1, nil }
func (t *transport) MaximumRate() (float64, error)                { return 1, nil }
func (t *transport) SetRate(float64) error                        { return nil }

//nolint:revive // Method name required by interface.
func (t *transport) OpenUri(string) error { return errUnsupported }

func (t *transport) Play() error      { return t.c.play() }
func (t *transport) Pause() error     { return t.c.pause() }
func (t *transport) Stop() error      { return t.c.pause() }
func (t *transport) PlayPause() error { return t.c.playPause() }

func (t *transport) CanPlay() (bool, error)  { return t.c.canPlay(), nil }
func (t *transport) CanPause() (bool, error) { return t.c.canPause(), nil }

func (t *transport) Position() (int64, error) { return t.c.positionMicros(), nil }

func (t *transport) Volume() (float64, error)      { return t.c.volume(), nil }
func (t *transport) SetVolume(level float64) error { return t.c.setVolume(level) }

func (t *transport) PlaybackStatus() (types.PlaybackStatus, error) {
	switch t.c.status() {
	case StatusPlaying:
		return types.PlaybackStatusPlaying, nil
	case StatusPaused:
		return types.PlaybackStatusPaused, nil
	default:
		return types.PlaybackStatusStopped, nil
	}
}

func (t *transport) Metadata() (types.Metadata, error) {
	info := t.c.info
	if !t.c.hasMedia() {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(info.Path)),
		Length:  types.Microseconds(info.Duration.Microseconds()),
		Title:   info.Label(),
	}
	if info.Artist != "" {
		meta.Artist = []string{info.Artist}
	}
	if poster := FindPoster(info.Path); poster != "" {
		if abs, err := filepath.Abs(poster); err == nil {
			poster = abs
		}
		meta.ArtUrl = "file://" + poster
	}
	return meta, nil
}
