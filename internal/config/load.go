package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up next to a scene and in the
// working directory.
const FileName = "scatter.yaml"

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Load builds the configuration for a run on scenePath with priority
// defaults < file < flags. scenePath may be empty.
func Load(scenePath string) (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile(scenePath)
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Candidates lists the config files consulted for scenePath, most
// specific first: next to the scene, the working directory, then the
// user config directory.
func Candidates(scenePath string) []string {
	var out []string
	if scenePath != "" {
		out = append(out, filepath.Join(filepath.Dir(scenePath), FileName))
	}
	out = append(out, FileName)
	if dir := ConfigDir(); dir != "" {
		out = append(out, filepath.Join(dir, "config.yaml"))
	}
	return out
}

func findConfigFile(scenePath string) string {
	seen := make(map[string]bool)
	for _, path := range Candidates(scenePath) {
		abs, err := filepath.Abs(path)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so
// typos do not silently fall back to defaults. An empty file is allowed.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error
	check := func(bad bool, format string, args ...any) {
		if bad {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Engine.HistoryLimit < 0, "engine.history_limit %d is negative", c.Engine.HistoryLimit)
	check(c.Preview.Width <= 0 || c.Preview.Height <= 0,
		"preview size %dx%d must be positive", c.Preview.Width, c.Preview.Height)
	check(c.Preview.Padding < 0, "preview.padding %d is negative", c.Preview.Padding)
	check(c.Preview.SampleStep < 0, "preview.sample_step %g is negative", c.Preview.SampleStep)
	check(c.Watch.Debounce < 0, "watch.debounce %v is negative", c.Watch.Debounce)

	return errors.Join(errs...)
}
