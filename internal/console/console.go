// Package console drives the engagement controller from line-oriented
// input, for terminals where the full-screen player is not wanted.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/errmsg"
)

const unknownCommand = "Unknown command. Please try again."

// Engine reports the playback position fed to the controller on each tick.
type Engine interface {
	Position() time.Duration
	Duration() time.Duration
}

// Options configures Run.
type Options struct {
	// TickInterval defaults to one second.
	TickInterval time.Duration
	// OnRated runs after an accepted rating.
	OnRated func()
	Logger  *log.Logger
}

// Run reads commands from in until EOF, an exit command or ctx is done.
// A reader goroutine scans lines into a channel; this loop owns every call
// into the controller, interleaving them with ticks.
func Run(ctx context.Context, ctl *engagement.Controller, engine Engine, in io.Reader, out io.Writer, opts Options) error {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	ticker := time.NewTicker(opts.TickInterval)
	defer ticker.Stop()

	c := &console{ctl: ctl, engine: engine, out: out, opts: opts}
	fmt.Fprintln(out, "Enter: play/pause · 1-5: rate · q: rate now · t: time · x: exit")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := ctl.Tick(engine.Position(), engine.Duration()); err != nil {
				c.report(errmsg.OpTick, err)
			}
			c.announce()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read commands: %w", err)
					}
				default:
				}
				return nil
			}
			if !c.handle(line) {
				return nil
			}
			c.announce()
		}
	}
}

type console struct {
	ctl    *engagement.Controller
	engine Engine
	out    io.Writer
	opts   Options

	announced bool
}

// handle runs one command and reports whether the loop should continue.
func (c *console) handle(line string) bool {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "":
		if _, err := c.ctl.Toggle(); err != nil {
			c.report(errmsg.OpToggle, err)
		}
	case "q":
		if _, err := c.ctl.RequestRating(); err != nil {
			c.report(errmsg.OpRequestRating, err)
		}
	case "t":
		fmt.Fprintln(c.out, engagement.TimeReport(c.engine.Position(), c.engine.Duration()))
	case "x", "quit", "exit":
		return false
	default:
		if len(cmd) == 1 && cmd[0] >= '0' && cmd[0] <= '9' {
			accepted, err := c.ctl.RateKey(cmd)
			if err != nil {
				c.report(errmsg.OpRate, err)
			}
			if accepted && c.opts.OnRated != nil {
				c.opts.OnRated()
			}
			return true
		}
		fmt.Fprintln(c.out, unknownCommand)
	}
	return true
}

// announce prints the rating question once each time playback locks.
func (c *console) announce() {
	locked := c.ctl.Snapshot().Locked()
	if locked && !c.announced {
		fmt.Fprintln(c.out, "Please rate your engagement")
		fmt.Fprintln(c.out, "1 for strongly disagree and 5 for strongly agree")
	}
	c.announced = locked
}

func (c *console) report(op errmsg.Op, err error) {
	c.opts.Logger.Error("command failed", "op", op, "err", err)
	fmt.Fprintln(c.out, errmsg.Format(op, err))
}
