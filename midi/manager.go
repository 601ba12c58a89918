package midi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-surface/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of console units
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	match       Matcher
}

// NewDeviceManager creates a new device manager. A nil match uses Classify.
func NewDeviceManager(match Matcher) *DeviceManager {
	if match == nil {
		match = Classify
	}
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		match:       match,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	copy := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		copy[k] = v
	}
	return copy
}

// GetSurface returns the first connected main unit (or nil)
func (dm *DeviceManager) GetSurface() Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	var ids []string
	for id, c := range dm.controllers {
		if c.Type() == ControllerSurface {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)
	return dm.controllers[ids[0]]
}

// GetExtenders returns the connected extender units ordered by port name
func (dm *DeviceManager) GetExtenders() []Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	var ids []string
	for id, c := range dm.controllers {
		if c.Type() == ControllerExtender {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]Controller, len(ids))
	for i, id := range ids {
		out[i] = dm.controllers[id]
	}
	return out
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		inPorts := gomidi.GetInPorts()
		outPorts := gomidi.GetOutPorts()
		ch <- portsResult{inPorts: inPorts, outPorts: outPorts}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out

	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		debug.Warn("devices", "MIDI port scan timed out")
		return
	}

	seenIDs := make(map[string]bool)
	var events []DeviceEvent

	for i, inPort := range inPorts {
		id := inPort.String()
		typ := dm.match(id)
		if typ == ControllerUnknown {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		ctrl, err := NewPortController(id, typ, inPorts[i], matchOutPort(id, outPorts))
		if err != nil {
			debug.Warn("devices", "open %s: %v", id, err)
			continue
		}
		debug.Log("devices", "connected %s as %s", id, typ)

		dm.mu.Lock()
		dm.controllers[id] = ctrl
		dm.mu.Unlock()
		events = append(events, DeviceEvent{Type: DeviceConnected, Controller: ctrl, ID: id})
	}

	// Check for disconnects
	dm.mu.Lock()
	for id, c := range dm.controllers {
		if !seenIDs[id] {
			c.Close()
			delete(dm.controllers, id)
			debug.Log("devices", "disconnected %s", id)
			events = append(events, DeviceEvent{Type: DeviceDisconnected, ID: id})
		}
	}
	dm.mu.Unlock()

	for _, ev := range events {
		dm.events <- ev
	}
}

// FindSurfaceOut returns the first output the matcher classifies as a
// main unit. A nil matcher uses Classify.
func FindSurfaceOut(outs []drivers.Out, match Matcher) (drivers.Out, error) {
	if match == nil {
		match = Classify
	}
	for _, op := range outs {
		if match(op.String()) == ControllerSurface {
			return op, nil
		}
	}
	return nil, ErrNoSurface
}

// matchOutPort finds the output with the same name as an input. Some
// drivers number ports differently per direction, so a trailing port
// number is ignored when there is no exact match.
func matchOutPort(name string, outs []drivers.Out) drivers.Out {
	for _, op := range outs {
		if strings.EqualFold(op.String(), name) {
			return op
		}
	}
	base := trimPortNumber(name)
	for _, op := range outs {
		if strings.EqualFold(trimPortNumber(op.String()), base) {
			return op
		}
	}
	return nil
}

func trimPortNumber(name string) string {
	name = strings.TrimSpace(name)
	i := strings.LastIndexByte(name, ' ')
	if i < 0 {
		return name
	}
	for _, r := range name[i+1:] {
		if (r < '0' || r > '9') && r != ':' {
			return name
		}
	}
	return name[:i]
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}
