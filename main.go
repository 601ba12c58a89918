package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"go-surface/bridge"
	"go-surface/config"
	"go-surface/debug"
	"go-surface/host"
	"go-surface/midi"
	"go-surface/theme"
	"go-surface/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Keep stray logrus output off the alt screen
	logrus.SetLevel(logrus.ErrorLevel)
	if cfg.UI.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("Debug log disabled: %v\n", err)
		}
	}

	palette, err := theme.Load(cfg.UI.ThemePath)
	if err != nil {
		debug.Warn("main", "theme %s: %v", cfg.UI.ThemePath, err)
		palette = theme.DefaultPalette()
	}
	th := theme.New(palette)

	// Simulated host
	hostOpts := host.DefaultOptions()
	if cfg.Host.Tracks > 0 {
		hostOpts.Tracks = cfg.Host.Tracks
	}
	if cfg.Host.Channels > 0 {
		hostOpts.Channels = cfg.Host.Channels
	}
	if cfg.Host.Tempo > 0 {
		hostOpts.Tempo = cfg.Host.Tempo
	}
	hostOpts.TrackNames = cfg.Host.TrackNames
	h := host.New(hostOpts)

	// Surface bridge
	opts := bridge.DefaultOptions()
	opts.Surface = cfg.SurfaceOptions()
	if cfg.Surface.TickMillis > 0 {
		opts.Tick = time.Duration(cfg.Surface.TickMillis) * time.Millisecond
	}
	if cfg.Surface.MeterMillis > 0 {
		opts.MeterTick = time.Duration(cfg.Surface.MeterMillis) * time.Millisecond
	}
	manager := bridge.New(h, opts)
	manager.Start()
	defer manager.Stop()

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(portMatcher(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	fmt.Println("go-surface")
	fmt.Println("Connect the console any time - it will be detected automatically")
	fmt.Println("")

	m := tui.NewModel(manager, deviceMgr, th, cfg.Surface.DisplayWidth)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// portMatcher classifies ports by the saved controllers first. A saved
// port with autoConnect off is ignored; unknown ports go by name.
func portMatcher(cfg *config.Config) midi.Matcher {
	return func(name string) midi.ControllerType {
		ctrl := cfg.MatchPort(name)
		if ctrl == nil {
			return midi.Classify(name)
		}
		if !ctrl.AutoConnect {
			return midi.ControllerUnknown
		}
		switch ctrl.Type {
		case config.ControllerSurface:
			return midi.ControllerSurface
		case config.ControllerExtender:
			return midi.ControllerExtender
		}
		return midi.Classify(name)
	}
}
