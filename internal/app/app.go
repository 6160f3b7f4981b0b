package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/keymap"
	"github.com/llehouerou/engage/internal/player"
	"github.com/llehouerou/engage/internal/ui/playerbar"
)

// Options configures the model.
type Options struct {
	// Title is shown in the header; defaults to the media label.
	Title string
	// TickInterval defaults to one second.
	TickInterval time.Duration
	// OnRated runs after an accepted rating, e.g. to dismiss a prompt popup.
	OnRated func()
	Logger  *log.Logger
}

// Model is the bubbletea model of the player. The controller owns playback
// state; the model only forwards input and renders snapshots.
type Model struct {
	ctl    *engagement.Controller
	engine player.Interface
	sub    *engagement.Subscription
	logger *log.Logger

	keys   *keymap.Resolver
	keyMap keymap.KeyMap
	help   help.Model
	bar    playerbar.Bar

	title    string
	interval time.Duration
	onRated  func()

	snap       engagement.Snapshot
	lastEvent  *engagement.Event
	statusLine string
	errLine    string

	Width  int
	Height int
}

// New creates the model and subscribes to the controller.
func New(ctl *engagement.Controller, engine player.Interface, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Title == "" {
		if info := engine.Info(); info != nil {
			opts.Title = info.Label()
		}
	}

	m := Model{
		ctl:      ctl,
		engine:   engine,
		sub:      ctl.Subscribe(),
		logger:   opts.Logger,
		keys:     keymap.NewResolver(keymap.Bindings),
		keyMap:   keymap.NewKeyMap(),
		help:     help.New(),
		bar:      playerbar.NewBar(),
		title:    opts.Title,
		interval: opts.TickInterval,
		onRated:  opts.OnRated,
		Width:    80,
	}
	m.refresh()
	return m
}

// Init starts the tick loop and the event watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(TickCmd(m.interval), m.WatchEvents())
}

// Snapshot returns the last controller snapshot the model rendered.
func (m Model) Snapshot() engagement.Snapshot {
	return m.snap
}

func (m *Model) refresh() {
	m.snap = m.ctl.Snapshot()
	m.keyMap.SetLocked(m.snap.Locked())
}
