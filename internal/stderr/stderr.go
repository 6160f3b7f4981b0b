//go:build unix

// Package stderr captures stderr output from C libraries (the audio
// backend) that write directly to file descriptor 2, bypassing Go's
// os.Stderr. This prevents raw error messages from corrupting the TUI layout.
package stderr

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Capture redirects a file descriptor into a pipe and forwards each
// non-empty line to a callback.
type Capture struct {
	fd   int
	orig int
	r    *os.File
	w    *os.File
	done chan struct{}
}

// Start begins capturing stderr output.
// Must be called early in main(), before any C library initialization.
// Returns an error if capture cannot be set up, but the program can continue
// without stderr capture (errors will just go to the original stderr).
func Start(forward func(line string)) (*Capture, error) {
	return capture(int(os.Stderr.Fd()), forward)
}

func capture(fd int, forward func(string)) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	// Save original file descriptor
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	// Redirect fd to the pipe's write end
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{fd: fd, orig: orig, r: r, w: w, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				forward(line)
			}
		}
	}()
	return c, nil
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Useful for fatal errors that must be visible even if TUI is running.
func (c *Capture) WriteOriginal(msg string) {
	if c == nil {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores the original descriptor and waits until every captured
// line has been forwarded. Safe on a nil Capture.
func (c *Capture) Stop() {
	if c == nil || c.w == nil {
		return
	}

	_ = unix.Dup2(c.orig, c.fd)
	_ = unix.Close(c.orig)

	// Closing the last write end lets the reader drain and exit.
	c.w.Close()
	c.w = nil
	<-c.done
	c.r.Close()
}
