//go:build !unix

// Package stderr provides a no-op implementation on platforms whose audio
// backends don't produce stderr noise.
package stderr

import "os"

// Capture is a no-op on this platform.
type Capture struct{}

// Start is a no-op on this platform.
func Start(_ func(line string)) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on this platform.
func (c *Capture) Stop() {}
