package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultRecordDir      = "./record"
	DefaultPromptInterval = 4
	DefaultTickIntervalMS = 1000
	minTickIntervalMS     = 50
	maxTickIntervalMS     = 5000
)

type Config struct {
	RecordDir      string  `koanf:"record_dir"`
	PromptInterval int     `koanf:"prompt_interval"`  // seconds between engagement prompts
	TickIntervalMS int     `koanf:"tick_interval_ms"` // how often playback position is checked
	StartPlaying   bool    `koanf:"start_playing"`    // start playing instead of paused
	MediaDuration  float64 `koanf:"media_duration"`   // seconds, for media without a decoder

	Cue   CueConfig   `koanf:"cue"`
	Audio AudioConfig `koanf:"audio"`
	Store StoreConfig `koanf:"store"`
	MPRIS MPRISConfig `koanf:"mpris"`
	Log   LogConfig   `koanf:"log"`
	Gaze  GazeConfig  `koanf:"gaze"`
}

// CueConfig controls how a due rating is signalled.
type CueConfig struct {
	Tone        *bool   `koanf:"tone"`         // play a short tone (default: true)
	Popup       *bool   `koanf:"popup"`        // desktop notification (default: true)
	FrequencyHz float64 `koanf:"frequency_hz"` // tone pitch (default: 880)
	LengthMS    int     `koanf:"length_ms"`    // tone length (default: 250)
}

// AudioConfig holds playback output settings.
type AudioConfig struct {
	Volume float64 `koanf:"volume"` // 0.0-1.0, 0 means default (1.0)
}

// StoreConfig toggles the sqlite session history.
type StoreConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Path    string `koanf:"path"`    // default: XDG data dir
}

// MPRISConfig toggles media-key integration.
type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // default: XDG state dir
}

// GazeConfig holds eye-tracker sampling settings.
type GazeConfig struct {
	RateHz    float64  `koanf:"rate_hz"`    // samples per second (default: 30)
	Bridge    []string `koanf:"bridge"`     // command printing JSON gaze lines
	OutputDir string   `koanf:"output_dir"` // where CSV files go (default: ".")
}

// Load reads the user and working-directory config files. A non-empty
// explicit path is loaded last and must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}
	if explicit != "" {
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
		}
	}

	cfg := &Config{
		RecordDir: DefaultRecordDir,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.RecordDir = expandPath(cfg.RecordDir)
	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Gaze.OutputDir != "" {
		cfg.Gaze.OutputDir = expandPath(cfg.Gaze.OutputDir)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/engage/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "engage", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// PromptEvery returns the prompt interval, defaulting to four seconds.
func (c *Config) PromptEvery() time.Duration {
	if c.PromptInterval <= 0 {
		return DefaultPromptInterval * time.Second
	}
	return time.Duration(c.PromptInterval) * time.Second
}

// TickEvery returns the position polling interval, clamped to 50ms-5s.
func (c *Config) TickEvery() time.Duration {
	ms := c.TickIntervalMS
	if ms <= 0 {
		ms = DefaultTickIntervalMS
	}
	ms = min(max(ms, minTickIntervalMS), maxTickIntervalMS)
	return time.Duration(ms) * time.Millisecond
}

// MediaLength returns the configured duration for undecoded media.
func (c *Config) MediaLength() time.Duration {
	if c.MediaDuration <= 0 {
		return 0
	}
	return time.Duration(c.MediaDuration * float64(time.Second))
}

// GetCueConfig returns the cue configuration with defaults applied.
func (c *Config) GetCueConfig() CueConfig {
	cfg := c.Cue
	if cfg.FrequencyHz <= 0 || cfg.FrequencyHz > 20000 {
		cfg.FrequencyHz = 880
	}
	if cfg.LengthMS <= 0 || cfg.LengthMS > 5000 {
		cfg.LengthMS = 250
	}
	return cfg
}

// ToneEnabled reports whether the audible cue is on (default: true).
func (c CueConfig) ToneEnabled() bool {
	return c.Tone == nil || *c.Tone
}

// PopupEnabled reports whether the notification cue is on (default: true).
func (c CueConfig) PopupEnabled() bool {
	return c.Popup == nil || *c.Popup
}

// Length returns the tone length.
func (c CueConfig) Length() time.Duration {
	return time.Duration(c.LengthMS) * time.Millisecond
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioConfig {
	cfg := c.Audio
	if cfg.Volume <= 0 || cfg.Volume > 1 {
		cfg.Volume = 1
	}
	return cfg
}

// StoreEnabled reports whether the session history is kept (default: true).
func (c *Config) StoreEnabled() bool {
	return c.Store.Enabled == nil || *c.Store.Enabled
}

// MPRISEnabled reports whether media keys are exposed (default: true).
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		cfg.Level = "info"
	}
	return cfg
}

// GetGazeConfig returns the gaze configuration with defaults applied.
func (c *Config) GetGazeConfig() GazeConfig {
	cfg := c.Gaze
	if cfg.RateHz <= 0 || cfg.RateHz > 1000 {
		cfg.RateHz = 30
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg
}

// HasGazeBridge returns true if a bridge command is configured.
func (c *Config) HasGazeBridge() bool {
	return len(c.Gaze.Bridge) > 0 && c.Gaze.Bridge[0] != ""
}
