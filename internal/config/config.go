package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scoreleaf/scoreleaf/internal/engine"
)

const (
	configDirName  = ".scoreleaf"
	configFileName = "config.json"
)

var ErrNotConfigured = errors.New("scoreleaf is not configured")

// Config stores user-defined scoreleaf settings.
type Config struct {
	// ScoresDir is where score markup files live.
	ScoresDir string `json:"scores_dir"`
	// Zoom is the scale applied when a score is first opened.
	Zoom float64 `json:"zoom,omitempty"`
	// Engine holds optional pagination overrides. Zero values fall back
	// to the built-in defaults.
	Engine EngineOverrides `json:"engine,omitempty"`
}

// EngineOverrides tweaks the pagination tuning. Only the knobs users have
// actually asked for are exposed here.
type EngineOverrides struct {
	BandGap      float64 `json:"band_gap,omitempty"`
	BottomMargin float64 `json:"bottom_margin,omitempty"`
	DebounceMS   int     `json:"debounce_ms,omitempty"`
}

// Tuning returns the engine tuning with the config's overrides applied.
func (c Config) Tuning() engine.Tuning {
	tun := engine.DefaultTuning()
	if c.Engine.BandGap > 0 {
		tun.BandGap = c.Engine.BandGap
	}
	if c.Engine.BottomMargin > 0 {
		tun.LastBandMargin = c.Engine.BottomMargin
	}
	if c.Engine.DebounceMS > 0 {
		tun.DebounceWindow = time.Duration(c.Engine.DebounceMS) * time.Millisecond
	}
	return tun
}

// InitialZoom returns the configured opening zoom, defaulting to 1.
func (c Config) InitialZoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// DefaultScoresDir returns the default scores directory used by the
// configurator.
func DefaultScoresDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "scores"), nil
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Exists reports whether the config file exists.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Load reads and validates the saved configuration.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	scoresDir, err := NormalizeScoresDir(cfg.ScoresDir)
	if err != nil {
		return Config{}, fmt.Errorf("invalid scores_dir: %w", err)
	}
	cfg.ScoresDir = scoresDir

	return cfg, nil
}

// Save writes configuration to disk.
func Save(cfg Config) error {
	scoresDir, err := NormalizeScoresDir(cfg.ScoresDir)
	if err != nil {
		return fmt.Errorf("invalid scores_dir: %w", err)
	}
	cfg.ScoresDir = scoresDir

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(path, data, 0o600)
}

// NormalizeScoresDir expands and normalizes a scores directory path.
func NormalizeScoresDir(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
