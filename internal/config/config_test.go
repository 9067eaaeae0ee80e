package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Engine defaults
	if cfg.Engine.MaxInstancesPerProfile != 10000 {
		t.Errorf("expected instance cap 10000, got %d", cfg.Engine.MaxInstancesPerProfile)
	}
	if cfg.Engine.DefaultStrandGap != 1 {
		t.Errorf("expected strand gap 1, got %f", cfg.Engine.DefaultStrandGap)
	}
	if cfg.Engine.HistoryLimit != 64 {
		t.Errorf("expected history limit 64, got %d", cfg.Engine.HistoryLimit)
	}

	// Preview defaults
	if cfg.Preview.Width != 1024 || cfg.Preview.Height != 1024 {
		t.Errorf("expected 1024x1024 preview, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}

	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("expected debounce 200ms, got %v", cfg.Watch.Debounce)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.Engine.MaxInstancesPerProfile = 5
	cfg.Engine.DefaultStrandGap = 40

	opts := cfg.EngineOptions()
	if opts.MaxInstances != 5 || opts.DefaultStrandGap != 40 || opts.HistoryLimit != 64 {
		t.Errorf("unexpected engine options %+v", opts)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
engine:
  max_instances_per_profile: 500
  default_strand_gap: 25
  history_limit: 8

preview:
  width: 640
  height: 480
  padding: 10
  sample_step: 2.5

watch:
  debounce: 1s

logging:
  level: "debug"
  log_file: "scatter.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Engine.MaxInstancesPerProfile != 500 {
		t.Errorf("expected instance cap 500, got %d", cfg.Engine.MaxInstancesPerProfile)
	}
	if cfg.Engine.DefaultStrandGap != 25 {
		t.Errorf("expected strand gap 25, got %f", cfg.Engine.DefaultStrandGap)
	}
	if cfg.Engine.HistoryLimit != 8 {
		t.Errorf("expected history limit 8, got %d", cfg.Engine.HistoryLimit)
	}
	if cfg.Preview.Width != 640 || cfg.Preview.Height != 480 || cfg.Preview.Padding != 10 {
		t.Errorf("unexpected preview %+v", cfg.Preview)
	}
	if cfg.Preview.SampleStep != 2.5 {
		t.Errorf("expected sample step 2.5, got %f", cfg.Preview.SampleStep)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "scatter.log" {
		t.Errorf("expected log file 'scatter.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("preview:\n  width: 300\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Preview.Width != 300 {
		t.Errorf("expected width 300, got %d", cfg.Preview.Width)
	}
	// Untouched sections keep their defaults.
	if cfg.Preview.Height != 1024 || cfg.Engine.HistoryLimit != 64 {
		t.Error("defaults were not preserved")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
engine:
  history_limit: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	os.Chdir(tmpDir)

	sceneDir := filepath.Join(tmpDir, "scenes")
	if err := os.MkdirAll(sceneDir, 0755); err != nil {
		t.Fatalf("failed to create scene dir: %v", err)
	}
	scenePath := filepath.Join(sceneDir, "road.yaml")

	if path := findConfigFile(scenePath); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("preview:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(scenePath); path != FileName {
		t.Errorf("expected %s in working directory, got %q", FileName, path)
	}

	nextToScene := filepath.Join(sceneDir, FileName)
	if err := os.WriteFile(nextToScene, []byte("preview:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(scenePath); path != nextToScene {
		t.Errorf("expected config next to scene, got %q", path)
	}

	cfg, err := Load(scenePath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Preview.Width != 640 {
		t.Errorf("expected width 640 from scene directory, got %d", cfg.Preview.Width)
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates(filepath.Join("scenes", "road.yaml"))
	if len(got) < 2 {
		t.Fatalf("expected at least 2 candidates, got %v", got)
	}
	if got[0] != filepath.Join("scenes", FileName) || got[1] != FileName {
		t.Errorf("unexpected candidate order %v", got)
	}

	if got := Candidates(""); got[0] != FileName {
		t.Errorf("expected working directory first without a scene, got %v", got)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("preview:\n  widht: 300\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for misspelled key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty config should load, got %v", err)
	}
	if cfg.Preview.Width != 1024 {
		t.Errorf("expected default width, got %d", cfg.Preview.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"unlimited instances", func(c *Config) { c.Engine.MaxInstancesPerProfile = 0 }, true},
		{"zero width", func(c *Config) { c.Preview.Width = 0 }, false},
		{"negative padding", func(c *Config) { c.Preview.Padding = -1 }, false},
		{"negative sample step", func(c *Config) { c.Preview.SampleStep = -2 }, false},
		{"negative history", func(c *Config) { c.Engine.HistoryLimit = -1 }, false},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "max instances flag",
			setup: func() { *flagMaxInstances = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Engine.MaxInstancesPerProfile != 0 {
					t.Errorf("expected unlimited instances, got %d", cfg.Engine.MaxInstancesPerProfile)
				}
			},
			teardown: func() { *flagMaxInstances = -1 },
		},
		{
			name:  "unset max instances keeps default",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Engine.MaxInstancesPerProfile != 10000 {
					t.Errorf("expected default cap, got %d", cfg.Engine.MaxInstancesPerProfile)
				}
			},
			teardown: func() {},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Preview.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Preview.Width)
				}
				if cfg.Preview.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Preview.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
preview:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Preview.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Preview.Width)
	}
	if cfg.Preview.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Preview.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Watch.Debounce = 750 * time.Millisecond
	cfg.Engine.DefaultStrandGap = 12
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Watch.Debounce != 750*time.Millisecond {
		t.Errorf("expected debounce 750ms, got %v", loaded.Watch.Debounce)
	}
	if loaded.Engine.DefaultStrandGap != 12 {
		t.Errorf("expected strand gap 12, got %f", loaded.Engine.DefaultStrandGap)
	}
}
