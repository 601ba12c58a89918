package config

import (
	"os"
	"path/filepath"
	"testing"

	"go-surface/surface"
)

func TestLoadMissingGivesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Controllers) != 1 || cfg.Controllers[0].ID == "" {
		t.Errorf("controllers = %+v", cfg.Controllers)
	}
	if cfg.Surface.SmoothingSpeed != 469 || !cfg.Surface.Clicking {
		t.Errorf("surface = %+v", cfg.Surface)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.Surface.Extenders = 2
	cfg.Surface.ExtenderSide = "right"
	cfg.AddController(ControllerConfig{PortName: "DDX3216 XT", Type: ControllerExtender, AutoConnect: true})
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Controllers) != 2 {
		t.Fatalf("controllers = %+v", got.Controllers)
	}
	if got.Controllers[1].ID != cfg.Controllers[1].ID {
		t.Errorf("ID changed: %q -> %q", cfg.Controllers[1].ID, got.Controllers[1].ID)
	}
	if got.Surface.Extenders != 2 || got.Surface.ExtenderSide != "right" {
		t.Errorf("surface = %+v", got.Surface)
	}
}

func TestLoadFillsMissingIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"controllers":[{"portName":"Mackie","type":"surface","autoConnect":true}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Controllers) != 1 || cfg.Controllers[0].ID == "" {
		t.Errorf("controllers = %+v", cfg.Controllers)
	}
	if cfg.Surface.BacklightMinutes != 2 {
		t.Errorf("omitted surface settings lost their defaults: %+v", cfg.Surface)
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{"), 0644)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestAddControllerKeepsID(t *testing.T) {
	cfg := &Config{}
	cfg.AddController(ControllerConfig{PortName: "DDX3216", Type: ControllerSurface})
	id := cfg.Controllers[0].ID
	cfg.AddController(ControllerConfig{PortName: "DDX3216", Type: ControllerSurface, AutoConnect: true})
	if len(cfg.Controllers) != 1 || cfg.Controllers[0].ID != id || !cfg.Controllers[0].AutoConnect {
		t.Errorf("controllers = %+v", cfg.Controllers)
	}
	if cfg.FindController("nope") != nil {
		t.Error("FindController found a missing port")
	}
}

func TestMatchPort(t *testing.T) {
	cfg := &Config{Controllers: []ControllerConfig{
		{PortName: "DDX3216 XT", Type: ControllerExtender, AutoConnect: true},
		{PortName: "ddx3216", Type: ControllerSurface, AutoConnect: true},
		{PortName: "DDX3216 XT MIDI 2", Type: ControllerExtender},
	}}
	for _, tt := range []struct {
		name string
		want ControllerType
		auto bool
		ok   bool
	}{
		{"DDX3216 XT MIDI 1", ControllerExtender, true, true},
		{"DDX3216 MIDI 1", ControllerSurface, true, true},
		{"DDX3216 XT MIDI 2", ControllerExtender, false, true},
		{"Launchpad X", "", false, false},
	} {
		ctrl := cfg.MatchPort(tt.name)
		if (ctrl != nil) != tt.ok {
			t.Errorf("MatchPort(%q) = %+v", tt.name, ctrl)
			continue
		}
		if ctrl != nil && (ctrl.Type != tt.want || ctrl.AutoConnect != tt.auto) {
			t.Errorf("MatchPort(%q) = %+v, want %q auto=%v", tt.name, ctrl, tt.want, tt.auto)
		}
	}
}

func TestSurfaceOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Surface.FaderSync = "channel"
	cfg.Surface.ExtenderSide = "right"
	cfg.Surface.Extenders = 1
	cfg.Surface.SmoothingSpeed = 0
	o := cfg.SurfaceOptions()
	if o.SyncTarget != surface.TargetChannel || o.ExtenderSide != surface.ExtenderRight || o.Extenders != 1 {
		t.Errorf("options = %+v", o)
	}
	if o.SmoothSpeed != 0 || o.RowWidth != surface.DefaultRowWidth || o.BacklightMinutes != 2 {
		t.Errorf("options = %+v", o)
	}
}
