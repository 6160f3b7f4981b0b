package gaze

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
)

// reading is one JSON line emitted by the vendor bridge.
type reading struct {
	Connected bool    `json:"connected"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Lost      bool    `json:"lost"`
}

// BridgeTracker reads gaze from a helper process that talks to the vendor
// SDK and prints one JSON object per line on stdout. Only the latest
// reading is kept.
type BridgeTracker struct {
	cmd    *exec.Cmd
	logger *log.Logger

	mu     sync.Mutex
	latest reading
	alive  bool

	done      chan struct{}
	closeOnce sync.Once
}

// Verify BridgeTracker implements Tracker at compile time.
var _ Tracker = (*BridgeTracker)(nil)

// StartBridge launches argv and starts reading its output.
func StartBridge(ctx context.Context, argv []string, logger *log.Logger) (*BridgeTracker, error) {
	if len(argv) == 0 {
		return nil, errors.New("gaze bridge: empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("gaze bridge: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("gaze bridge: start %s: %w", argv[0], err)
	}

	t := NewStreamTracker(stdout, logger)
	t.cmd = cmd
	return t, nil
}

// NewStreamTracker reads bridge output from r until EOF.
func NewStreamTracker(r io.Reader, logger *log.Logger) *BridgeTracker {
	if logger == nil {
		logger = log.Default()
	}
	t := &BridgeTracker{
		logger: logger,
		alive:  true,
		done:   make(chan struct{}),
	}
	go t.readLoop(r)
	return t
}

func (t *BridgeTracker) readLoop(r io.Reader) {
	defer close(t.done)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var rd reading
		if err := json.Unmarshal(sc.Bytes(), &rd); err != nil {
			t.logger.Debug("gaze bridge: skip line", "err", err)
			continue
		}
		t.mu.Lock()
		t.latest = rd
		t.mu.Unlock()
	}
	if err := sc.Err(); err != nil {
		t.logger.Warn("gaze bridge: read", "err", err)
	}

	t.mu.Lock()
	t.alive = false
	t.mu.Unlock()
}

// Connected reports whether the bridge is running and its last reading
// said the tracker server was reachable.
func (t *BridgeTracker) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alive && t.latest.Connected
}

// ScreenGaze returns the latest reading.
func (t *BridgeTracker) ScreenGaze() (Gaze, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.alive || !t.latest.Connected {
		return Gaze{}, ErrNotConnected
	}
	return Gaze{X: t.latest.X, Y: t.latest.Y, Lost: t.latest.Lost}, nil
}

// Done is closed once the bridge output ends.
func (t *BridgeTracker) Done() <-chan struct{} {
	return t.done
}

// Close stops the bridge process.
func (t *BridgeTracker) Close() error {
	var err error
	t.closeOnce.Do(func() {
		if t.cmd == nil || t.cmd.Process == nil {
			return
		}
		if kerr := t.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = kerr
		}
		<-t.done
		_ = t.cmd.Wait()
	})
	return err
}
