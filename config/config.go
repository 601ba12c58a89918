package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-surface/surface"

	"github.com/google/uuid"
)

// ControllerType identifies the kind of controller
type ControllerType string

const (
	ControllerSurface  ControllerType = "surface"
	ControllerExtender ControllerType = "extender"
)

// ControllerConfig defines a saved controller configuration
type ControllerConfig struct {
	ID          string         `json:"id"`
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
}

// SurfaceConfig holds the console behaviour settings.
type SurfaceConfig struct {
	SmoothingSpeed   int    `json:"smoothingSpeed"`
	ExtenderSide     string `json:"extenderSide,omitempty"` // "left" or "right"
	Extenders        int    `json:"extenders,omitempty"`
	DisplayWidth     int    `json:"displayWidth,omitempty"`
	TickMillis       int    `json:"tickMillis,omitempty"`
	MeterMillis      int    `json:"meterMillis,omitempty"`
	FaderSync        string `json:"faderSync,omitempty"` // "mixer" or "channel"
	PreferPanFrames  bool   `json:"preferPanFrames,omitempty"`
	BacklightMinutes int    `json:"backlightMinutes"`
	Clicking         bool   `json:"clicking"`
}

// HostConfig sizes the built-in simulated host.
type HostConfig struct {
	Tracks     int      `json:"tracks,omitempty"`
	TrackNames []string `json:"trackNames,omitempty"`
	Channels   int      `json:"channels,omitempty"`
	Tempo      int      `json:"tempo,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	ThemePath string `json:"themePath,omitempty"`
	Debug     bool   `json:"debug,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	Surface     SurfaceConfig      `json:"surface"`
	Host        HostConfig         `json:"host,omitempty"`
	UI          UIConfig           `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Controllers: []ControllerConfig{
			{
				ID:          uuid.New().String(),
				PortName:    "DDX3216",
				Type:        ControllerSurface,
				AutoConnect: true,
			},
		},
		Surface: SurfaceConfig{
			SmoothingSpeed:   469,
			ExtenderSide:     "left",
			DisplayWidth:     surface.DefaultRowWidth,
			TickMillis:       48,
			MeterMillis:      48,
			FaderSync:        "mixer",
			BacklightMinutes: 2,
			Clicking:         true,
		},
		Host: HostConfig{
			Tracks:   17,
			Channels: 16,
			Tempo:    120,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-surface"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file gives the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Controllers = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range cfg.Controllers {
		if cfg.Controllers[i].ID == "" {
			cfg.Controllers[i].ID = uuid.New().String()
		}
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindController finds a controller config by port name
func (c *Config) FindController(portName string) *ControllerConfig {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == portName {
			return &c.Controllers[i]
		}
	}
	return nil
}

// AddController adds or updates a controller config. New entries get an ID.
func (c *Config) AddController(ctrl ControllerConfig) {
	for i := range c.Controllers {
		if c.Controllers[i].PortName == ctrl.PortName {
			if ctrl.ID == "" {
				ctrl.ID = c.Controllers[i].ID
			}
			c.Controllers[i] = ctrl
			return
		}
	}
	if ctrl.ID == "" {
		ctrl.ID = uuid.New().String()
	}
	c.Controllers = append(c.Controllers, ctrl)
}

// MatchPort returns the saved controller for a port: an exact port name
// first, then a saved name the port name contains (case-insensitive).
func (c *Config) MatchPort(name string) *ControllerConfig {
	if ctrl := c.FindController(name); ctrl != nil {
		return ctrl
	}
	lower := strings.ToLower(name)
	for i := range c.Controllers {
		p := c.Controllers[i].PortName
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return &c.Controllers[i]
		}
	}
	return nil
}

// SurfaceOptions converts the surface section into core options.
func (c *Config) SurfaceOptions() surface.Options {
	o := surface.DefaultOptions()
	s := c.Surface
	if s.SmoothingSpeed >= 0 {
		o.SmoothSpeed = s.SmoothingSpeed
	}
	if s.DisplayWidth > 0 {
		o.RowWidth = s.DisplayWidth
	}
	if s.Extenders > 0 {
		o.Extenders = s.Extenders
	}
	if s.ExtenderSide == "right" {
		o.ExtenderSide = surface.ExtenderRight
	}
	if s.FaderSync == "channel" {
		o.SyncTarget = surface.TargetChannel
	}
	o.PreferPanFrames = s.PreferPanFrames
	o.BacklightMinutes = s.BacklightMinutes
	o.Clicking = s.Clicking
	return o
}
