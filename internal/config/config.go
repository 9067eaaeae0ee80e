// Package config handles tool configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/splinescatter/internal/engine"
)

// Config holds all settings.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Preview PreviewConfig `yaml:"preview"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig holds placement engine limits.
type EngineConfig struct {
	MaxInstancesPerProfile int     `yaml:"max_instances_per_profile"` // 0 = unlimited
	DefaultStrandGap       float32 `yaml:"default_strand_gap"`
	HistoryLimit           int     `yaml:"history_limit"`
}

// PreviewConfig holds PNG preview settings.
type PreviewConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Padding    int     `yaml:"padding"`     // pixels
	SampleStep float32 `yaml:"sample_step"` // curve units between polyline samples
}

// WatchConfig holds scene watching settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxInstancesPerProfile: 10000,
			DefaultStrandGap:       1,
			HistoryLimit:           64,
		},
		Preview: PreviewConfig{
			Width:      1024,
			Height:     1024,
			Padding:    32,
			SampleStep: 5,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// EngineOptions converts the engine section to engine.Options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		MaxInstances:     c.Engine.MaxInstancesPerProfile,
		DefaultStrandGap: c.Engine.DefaultStrandGap,
		HistoryLimit:     c.Engine.HistoryLimit,
	}
}
