package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go-surface/debug"
	"go-surface/surface"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PortController is a console unit on a pair of MIDI ports.
type PortController struct {
	id       string
	typ      ControllerType
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()

	mu        sync.Mutex // guards events against a late driver callback
	closed    bool
	events    chan surface.Event
	closeOnce sync.Once
	dropped   atomic.Uint64
	sent      atomic.Uint64
}

// NewPortController opens the ports. Either may be nil.
func NewPortController(id string, typ ControllerType, inPort drivers.In, outPort drivers.Out) (*PortController, error) {
	pc := &PortController{
		id:      id,
		typ:     typ,
		inPort:  inPort,
		outPort: outPort,
		events:  make(chan surface.Event, 64),
	}

	// Open output
	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		pc.send = send
	}

	// Open input; SysEx carries the fader sync frames
	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			ev, ok := surface.FromMessage(msg, surface.Flags{System: true})
			if ok {
				pc.push(ev)
			}
		}, gomidi.UseSysEx())
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		pc.stopFunc = stop
	}

	return pc, nil
}

// push queues ev without blocking. It reports false when the event was
// dropped or the controller is closed.
func (pc *PortController) push(ev surface.Event) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.closed {
		return false
	}
	select {
	case pc.events <- ev:
		return true
	default:
		n := pc.dropped.Add(1)
		debug.Log("port", "%s: input full, dropped %d", pc.id, n)
		return false
	}
}

func (pc *PortController) ID() string {
	return pc.id
}

func (pc *PortController) Type() ControllerType {
	return pc.typ
}

func (pc *PortController) Events() <-chan surface.Event {
	return pc.events
}

// Send writes msgs in order, stopping at the first failure.
func (pc *PortController) Send(msgs ...gomidi.Message) error {
	if pc.send == nil {
		return ErrNoOutput
	}
	for _, msg := range msgs {
		if err := pc.send(msg); err != nil {
			return fmt.Errorf("send to %s: %w", pc.id, err)
		}
	}
	n := pc.sent.Add(uint64(len(msgs)))
	if n%500 < uint64(len(msgs)) {
		debug.Log("port", "%s: sent %d messages", pc.id, n)
	}
	return nil
}

// Dropped is the number of input events lost to a full queue.
func (pc *PortController) Dropped() uint64 {
	return pc.dropped.Load()
}

func (pc *PortController) Close() error {
	pc.closeOnce.Do(func() {
		if pc.stopFunc != nil {
			pc.stopFunc()
		}
		pc.mu.Lock()
		pc.closed = true
		close(pc.events)
		pc.mu.Unlock()
	})
	return nil
}
