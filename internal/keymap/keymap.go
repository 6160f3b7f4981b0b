package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Binding describes a single key binding for documentation and dispatch.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// Bindings contains all key bindings.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", ContextGlobal},
	{ActionHelp, []string{"?"}, "Toggle help", ContextGlobal},
	{ActionStatus, []string{"t"}, "Show time", ContextGlobal},

	// Playback
	{ActionPlayPause, []string{" ", "enter"}, "Play/pause", ContextPlayback},
	{ActionRequestRating, []string{"r"}, "Pause and rate now", ContextPlayback},

	// Prompt
	{ActionRate, []string{"1", "2", "3", "4", "5"}, "Rate engagement", ContextPrompt},
}

// KeyMap adapts the bindings to the bubbles help component.
type KeyMap struct {
	Quit          key.Binding
	Help          key.Binding
	Status        key.Binding
	PlayPause     key.Binding
	RequestRating key.Binding
	Rate          key.Binding
}

// NewKeyMap builds a KeyMap from Bindings.
func NewKeyMap() KeyMap {
	b := make(map[Action]key.Binding, len(Bindings))
	for _, kb := range Bindings {
		b[kb.Action] = key.NewBinding(
			key.WithKeys(kb.Keys...),
			key.WithHelp(helpKey(kb), kb.Description),
		)
	}
	return KeyMap{
		Quit:          b[ActionQuit],
		Help:          b[ActionHelp],
		Status:        b[ActionStatus],
		PlayPause:     b[ActionPlayPause],
		RequestRating: b[ActionRequestRating],
		Rate:          b[ActionRate],
	}
}

// SetLocked enables the rating keys and disables play/pause and the rating
// request while a rating is pending, so help only lists what works.
func (k *KeyMap) SetLocked(locked bool) {
	k.Rate.SetEnabled(locked)
	k.PlayPause.SetEnabled(!locked)
	k.RequestRating.SetEnabled(!locked)
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Rate, k.RequestRating, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.RequestRating, k.Status},
		{k.Rate},
		{k.Help, k.Quit},
	}
}

func helpKey(kb Binding) string {
	switch kb.Action {
	case ActionPlayPause:
		return "space"
	case ActionRate:
		return "1-5"
	default:
		return kb.Keys[0]
	}
}
