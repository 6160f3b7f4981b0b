//go:build !linux

package notify

// New returns Discard. Popups are only sent over the freedesktop bus.
func New() (Notifier, error) {
	return Discard, nil
}
