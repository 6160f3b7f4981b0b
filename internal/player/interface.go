// internal/player/interface.go
package player

import (
	"errors"
	"time"
)

var (
	// ErrNoMedia is returned by Play when nothing is loaded.
	ErrNoMedia = errors.New("no media loaded")
	// ErrUnsupported is returned for files no engine can handle.
	ErrUnsupported = errors.New("unsupported media format")
	// ErrFinished is returned by Play once the media has played to the end.
	ErrFinished = errors.New("media finished")
)

// Interface defines the engine contract for dependency injection and testing.
// Play and Pause are idempotent on the matching state.
type Interface interface {
	Load(path string) error
	Play() error
	Pause() error
	Stop()
	State() State
	Position() time.Duration
	Duration() time.Duration
	Info() *MediaInfo
	Close() error
}

// Verify engines implement Interface at compile time.
var (
	_ Interface = (*Audio)(nil)
	_ Interface = (*Clock)(nil)
)
