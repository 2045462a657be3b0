// Package config loads the YAML configuration a compositor or client
// binary reads at startup: socket naming, advertised SHM formats, seat
// capability bitset, and static output geometry.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
)

const DefaultParallelConnections = 64

// Config is the root document. Every field has a workable zero value so
// a missing config file is not itself an error.
type Config struct {
	Display    DisplayConfig    `yaml:"display"`
	Shm        ShmConfig        `yaml:"shm"`
	Seat       SeatConfig       `yaml:"seat"`
	Outputs    []OutputConfig   `yaml:"outputs,omitempty"`
	Server     ServerConfig     `yaml:"server"`
}

type DisplayConfig struct {
	Name          string `yaml:"name"`
	RuntimeDirEnv string `yaml:"runtime_dir_env,omitempty"`
}

type ShmConfig struct {
	Formats []string `yaml:"formats,omitempty"`
}

type SeatConfig struct {
	Name         string `yaml:"name"`
	Pointer      bool   `yaml:"pointer"`
	Keyboard     bool   `yaml:"keyboard"`
	Touch        bool   `yaml:"touch"`
}

type OutputConfig struct {
	Name          string `yaml:"name"`
	WidthMM       int32  `yaml:"width_mm"`
	HeightMM      int32  `yaml:"height_mm"`
	Width         int32  `yaml:"width"`
	Height        int32  `yaml:"height"`
	RefreshMHz    int32  `yaml:"refresh_mhz"`
	Scale         int32  `yaml:"scale"`
}

type ServerConfig struct {
	MaxConnections int `yaml:"max_connections"`
}

// Load reads path if it exists, applies environment overrides, and fills
// zero-valued fields with workable defaults. A missing file is not an
// error — every field falls back to its default.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/wzl/config.yaml, following
// os.UserConfigDir's fallback rules when that variable is unset.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", wlerr.Wrap(wlerr.PermissionDenied, "resolve config directory", err)
	}
	return filepath.Join(dir, "wzl", "config.yaml"), nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return wlerr.Wrap(wlerr.PermissionDenied, "read config file", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return wlerr.Wrap(wlerr.InvalidArgument, "parse config file", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if cfg.Display.Name == "" {
		cfg.Display.Name = os.Getenv("WAYLAND_DISPLAY")
	}
	if v := os.Getenv("WZL_MAX_CONNECTIONS"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			cfg.Server.MaxConnections = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Display.Name == "" {
		cfg.Display.Name = "wayland-0"
	}
	if cfg.Seat.Name == "" {
		cfg.Seat.Name = "seat0"
	}
	if len(cfg.Shm.Formats) == 0 {
		cfg.Shm.Formats = []string{"argb8888", "xrgb8888"}
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = DefaultParallelConnections
	}
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, wlerr.New(wlerr.InvalidArgument, "not a positive integer")
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
