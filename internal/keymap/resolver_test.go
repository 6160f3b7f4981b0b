package keymap

import "testing"

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(Bindings)

	tests := []struct {
		key      string
		contexts []string
		want     Action
	}{
		{"q", nil, ActionQuit},
		{"ctrl+c", nil, ActionQuit},
		{" ", nil, ActionPlayPause},
		{"enter", nil, ActionPlayPause},
		{"3", nil, ActionRate},
		{"r", []string{ContextPlayback}, ActionRequestRating},
		{"r", []string{ContextPrompt}, ""},
		{"4", []string{ContextGlobal, ContextPlayback}, ""},
		{"t", []string{ContextGlobal}, ActionStatus},
		{"x", nil, ""},
		{"", nil, ""},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.key, tt.contexts...); got != tt.want {
			t.Errorf("Resolve(%q, %v) = %q, want %q", tt.key, tt.contexts, got, tt.want)
		}
	}
}

func TestResolver_ActiveContexts(t *testing.T) {
	r := NewResolver(Bindings)

	idle := Active(false)
	if got := r.Resolve(" ", idle...); got != ActionPlayPause {
		t.Errorf("idle: Resolve(space) = %q, want play_pause", got)
	}
	if got := r.Resolve("2", idle...); got != "" {
		t.Errorf("idle: Resolve(2) = %q, want unbound", got)
	}

	locked := Active(true)
	if got := r.Resolve("2", locked...); got != ActionRate {
		t.Errorf("locked: Resolve(2) = %q, want rate", got)
	}
	if got := r.Resolve(" ", locked...); got != "" {
		t.Errorf("locked: Resolve(space) = %q, want unbound", got)
	}
	if got := r.Resolve("?", locked...); got != ActionHelp {
		t.Errorf("locked: Resolve(?) = %q, want help", got)
	}
}

func TestResolver_ContextOrder(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionRequestRating, []string{"q"}, "Rate now", ContextPlayback},
		{ActionQuit, []string{"q"}, "Quit", ContextGlobal},
		{ActionHelp, []string{"q"}, "Shadowed", ContextGlobal},
	})

	if got := r.Resolve("q", ContextGlobal, ContextPlayback); got != ActionQuit {
		t.Errorf("Resolve(q, global first) = %q, want quit", got)
	}
	if got := r.Resolve("q", ContextPlayback, ContextGlobal); got != ActionRequestRating {
		t.Errorf("Resolve(q, playback first) = %q, want request_rating", got)
	}
	// Binding order decides when no contexts are given.
	if got := r.Resolve("q"); got != ActionRequestRating {
		t.Errorf("Resolve(q) = %q, want request_rating", got)
	}
}

func TestResolver_EmptyBindings(t *testing.T) {
	r := NewResolver(nil)
	if got := r.Resolve("q"); got != "" {
		t.Errorf("Resolve on empty resolver = %q, want empty", got)
	}
	if got := r.Resolve("q", ContextGlobal); got != "" {
		t.Errorf("Resolve(q, global) on empty resolver = %q, want empty", got)
	}
}
