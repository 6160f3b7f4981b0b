//go:build unix

package stderr

import (
	"os"
	"sync"
	"testing"
)

func TestCapture_ForwardsLines(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	var mu sync.Mutex
	var lines []string
	c, err := capture(int(w.Fd()), func(line string) {
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("capture() error: %v", err)
	}

	if _, err := w.WriteString("ALSA lib pcm.c: underrun\n\n   \n  second line  \n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	c.Stop()

	mu.Lock()
	defer mu.Unlock()
	want := []string{"ALSA lib pcm.c: underrun", "second line"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestCapture_RestoresDescriptor(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	c, err := capture(int(w.Fd()), func(string) {})
	if err != nil {
		t.Fatalf("capture() error: %v", err)
	}
	c.WriteOriginal("direct\n")
	c.Stop()
	c.Stop()

	if _, err := w.WriteString("after\n"); err != nil {
		t.Fatalf("write after stop: %v", err)
	}
	buf := make([]byte, 64)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "direct\nafter\n" && got != "direct\n" {
		t.Errorf("original pipe got %q", got)
	}
}

func TestStop_NilCapture(t *testing.T) {
	var c *Capture
	c.Stop()
}
