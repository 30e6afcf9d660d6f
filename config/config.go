// Package config loads editor settings for the viewport transform core
// from a TOML file, falling back to defaults when the file or individual
// keys are missing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/trackedit/viewport"
)

// Config captures the settings the composition root feeds into the
// transform service and its collaborators.
type Config struct {
	// ImageWidth and ImageHeight are the assumed track extent when a view
	// does not report one.
	ImageWidth  int
	ImageHeight int

	// CacheSize and StableCacheSize bound the service's two caches.
	CacheSize       int
	StableCacheSize int

	// DriftThreshold is the pixel distance above which a stability check
	// flags drift.
	DriftThreshold float64

	// SequenceDir is the directory holding the background image sequence.
	// Empty means no sequence is configured.
	SequenceDir string
}

const defaultConfigPath = "~/.config/trackedit/viewport.toml"

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ImageWidth:      viewport.DefaultImageWidth,
		ImageHeight:     viewport.DefaultImageHeight,
		CacheSize:       viewport.DefaultCacheSize,
		StableCacheSize: viewport.DefaultStableCacheSize,
		DriftThreshold:  viewport.DefaultDriftThreshold,
	}
}

// Load locates and parses the settings file. A missing file is not an
// error: the defaults apply. Empty or zero keys keep their defaults, so a
// partial file overrides only what it names.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var raw struct {
		ImageWidth      int     `toml:"image_width"`
		ImageHeight     int     `toml:"image_height"`
		CacheSize       int     `toml:"cache_size"`
		StableCacheSize int     `toml:"stable_cache_size"`
		DriftThreshold  float64 `toml:"drift_threshold"`
		SequenceDir     string  `toml:"sequence_dir"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.ImageWidth > 0 {
		cfg.ImageWidth = raw.ImageWidth
	}
	if raw.ImageHeight > 0 {
		cfg.ImageHeight = raw.ImageHeight
	}
	if raw.CacheSize > 0 {
		cfg.CacheSize = raw.CacheSize
	}
	if raw.StableCacheSize > 0 {
		cfg.StableCacheSize = raw.StableCacheSize
	}
	if raw.DriftThreshold > 0 {
		cfg.DriftThreshold = raw.DriftThreshold
	}
	if dir := strings.TrimSpace(raw.SequenceDir); dir != "" {
		cfg.SequenceDir = mustExpand(dir)
	}

	return cfg, nil
}

// ServiceOptions translates the settings into viewport service options.
func (c Config) ServiceOptions() []viewport.Option {
	return []viewport.Option{
		viewport.WithCacheSize(c.CacheSize),
		viewport.WithStableCacheSize(c.StableCacheSize),
		viewport.WithDriftThreshold(c.DriftThreshold),
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("empty path")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}
