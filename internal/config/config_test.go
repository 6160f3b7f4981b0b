//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/record", filepath.Join(home, "record")},
		{"tilde with nested path", "~/studies/pilot/record", filepath.Join(home, "studies", "pilot", "record")},
		{"absolute path unchanged", "/var/lib/engage", "/var/lib/engage"},
		{"relative path unchanged", "record", "record"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	if lastPath := paths[len(paths)-1]; lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "engage", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engage.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
record_dir = "/data/record"
prompt_interval = 10
tick_interval_ms = 250
start_playing = true
media_duration = 95.5

[cue]
tone = false
frequency_hz = 440

[store]
enabled = false

[log]
level = " DEBUG "

[gaze]
rate_hz = 60
bridge = ["beam-bridge", "--json"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.RecordDir != "/data/record" {
		t.Errorf("RecordDir = %q", cfg.RecordDir)
	}
	if got := cfg.PromptEvery(); got != 10*time.Second {
		t.Errorf("PromptEvery() = %v, want 10s", got)
	}
	if got := cfg.TickEvery(); got != 250*time.Millisecond {
		t.Errorf("TickEvery() = %v, want 250ms", got)
	}
	if !cfg.StartPlaying {
		t.Error("StartPlaying = false, want true")
	}
	if got := cfg.MediaLength(); got != 95500*time.Millisecond {
		t.Errorf("MediaLength() = %v, want 1m35.5s", got)
	}

	cue := cfg.GetCueConfig()
	if cue.ToneEnabled() {
		t.Error("tone should be disabled")
	}
	if !cue.PopupEnabled() {
		t.Error("popup should default to enabled")
	}
	if cue.FrequencyHz != 440 || cue.Length() != 250*time.Millisecond {
		t.Errorf("cue = %+v", cue)
	}

	if cfg.StoreEnabled() {
		t.Error("store should be disabled")
	}
	if !cfg.MPRISEnabled() {
		t.Error("mpris should default to enabled")
	}
	if got := cfg.GetLogConfig().Level; got != "debug" {
		t.Errorf("log level = %q, want debug", got)
	}
	if !cfg.HasGazeBridge() || cfg.Gaze.Bridge[1] != "--json" {
		t.Errorf("gaze bridge = %v", cfg.Gaze.Bridge)
	}
	if got := cfg.GetGazeConfig().RateHz; got != 60 {
		t.Errorf("gaze rate = %v, want 60", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.RecordDir != DefaultRecordDir {
		t.Errorf("RecordDir = %q, want %q", cfg.RecordDir, DefaultRecordDir)
	}
	if got := cfg.PromptEvery(); got != 4*time.Second {
		t.Errorf("PromptEvery() = %v, want 4s", got)
	}
	if got := cfg.TickEvery(); got != time.Second {
		t.Errorf("TickEvery() = %v, want 1s", got)
	}
	if cfg.StartPlaying {
		t.Error("StartPlaying should default to false")
	}
	if cfg.MediaLength() != 0 {
		t.Errorf("MediaLength() = %v, want 0", cfg.MediaLength())
	}
	if !cfg.StoreEnabled() || !cfg.MPRISEnabled() {
		t.Error("store and mpris should default to enabled")
	}
	if cfg.HasGazeBridge() {
		t.Error("no gaze bridge should be configured")
	}
}

func TestLoad_WorkingDirectoryWins(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	home := t.TempDir()
	t.Setenv("HOME", home)

	userDir := filepath.Join(home, ".config", "engage")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "config.toml"), []byte("prompt_interval = 7\nstart_playing = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("prompt_interval = 9\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PromptInterval != 9 {
		t.Errorf("PromptInterval = %d, want 9 from ./config.toml", cfg.PromptInterval)
	}
	if !cfg.StartPlaying {
		t.Error("StartPlaying from the user config should survive the merge")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
	if _, err := Load(writeConfig(t, "prompt_interval = [")); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestTickEvery_Clamped(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{0, time.Second},
		{-5, time.Second},
		{10, 50 * time.Millisecond},
		{60000, 5 * time.Second},
		{500, 500 * time.Millisecond},
	}
	for _, tt := range tests {
		cfg := Config{TickIntervalMS: tt.ms}
		if got := cfg.TickEvery(); got != tt.want {
			t.Errorf("TickEvery(%d) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}

func TestGetCueConfig(t *testing.T) {
	tests := []struct {
		name       string
		input      CueConfig
		wantFreq   float64
		wantLength time.Duration
		wantTone   bool
		wantPopup  bool
	}{
		{"defaults", CueConfig{}, 880, 250 * time.Millisecond, true, true},
		{"custom", CueConfig{FrequencyHz: 660, LengthMS: 400, Tone: ptr(true), Popup: ptr(false)}, 660, 400 * time.Millisecond, true, false},
		{"out of range", CueConfig{FrequencyHz: 50000, LengthMS: 10000}, 880, 250 * time.Millisecond, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Cue: tt.input}
			got := cfg.GetCueConfig()
			if got.FrequencyHz != tt.wantFreq {
				t.Errorf("FrequencyHz = %v, want %v", got.FrequencyHz, tt.wantFreq)
			}
			if got.Length() != tt.wantLength {
				t.Errorf("Length() = %v, want %v", got.Length(), tt.wantLength)
			}
			if got.ToneEnabled() != tt.wantTone || got.PopupEnabled() != tt.wantPopup {
				t.Errorf("tone/popup = %v/%v, want %v/%v",
					got.ToneEnabled(), got.PopupEnabled(), tt.wantTone, tt.wantPopup)
			}
		})
	}
}

func TestGetAudioConfig(t *testing.T) {
	tests := []struct {
		volume float64
		want   float64
	}{
		{0, 1},
		{-1, 1},
		{1.5, 1},
		{0.4, 0.4},
	}
	for _, tt := range tests {
		cfg := Config{Audio: AudioConfig{Volume: tt.volume}}
		if got := cfg.GetAudioConfig().Volume; got != tt.want {
			t.Errorf("GetAudioConfig(%v).Volume = %v, want %v", tt.volume, got, tt.want)
		}
	}
}

func TestGetLogConfig(t *testing.T) {
	for _, level := range []string{"", "verbose", "INFO"} {
		cfg := Config{Log: LogConfig{Level: level}}
		if got := cfg.GetLogConfig().Level; got != "info" {
			t.Errorf("GetLogConfig(%q).Level = %q, want info", level, got)
		}
	}
	cfg := Config{Log: LogConfig{Level: "warn"}}
	if got := cfg.GetLogConfig().Level; got != "warn" {
		t.Errorf("GetLogConfig(warn).Level = %q, want warn", got)
	}
}

func TestGetGazeConfig(t *testing.T) {
	cfg := Config{}
	got := cfg.GetGazeConfig()
	if got.RateHz != 30 || got.OutputDir != "." {
		t.Errorf("GetGazeConfig() = %+v, want 30Hz in .", got)
	}

	cfg.Gaze = GazeConfig{RateHz: 5000, OutputDir: "/tmp/gaze", Bridge: []string{""}}
	got = cfg.GetGazeConfig()
	if got.RateHz != 30 || got.OutputDir != "/tmp/gaze" {
		t.Errorf("GetGazeConfig() = %+v", got)
	}
	if cfg.HasGazeBridge() {
		t.Error("empty bridge command should not count as configured")
	}
}
