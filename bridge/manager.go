// Package bridge runs a surface against a host: it feeds console input
// to the surface, drives the idle and meter timers, and delivers the
// resulting frames to the main unit and its extenders.
package bridge

import (
	"sync"
	"sync/atomic"
	"time"

	"go-surface/debug"
	"go-surface/midi"
	"go-surface/surface"

	"github.com/google/uuid"
)

// Clock is implemented by hosts that keep time of their own. Advance is
// called on every idle tick with the time since the previous one and
// returns a beat indicator value (negative for no change) and what the
// surface should redraw.
type Clock interface {
	Advance(d time.Duration) (beat int, dirty surface.RefreshFlag)
}

// Options configures a Manager.
type Options struct {
	Surface   surface.Options
	Tick      time.Duration // idle period
	MeterTick time.Duration // meter sampling period
}

// DefaultOptions runs both timers at 48ms.
func DefaultOptions() Options {
	return Options{
		Surface:   surface.DefaultOptions(),
		Tick:      48 * time.Millisecond,
		MeterTick: 48 * time.Millisecond,
	}
}

const maxHints = 8

// Stats counts traffic through the bridge.
type Stats struct {
	Events     int
	Handled    int
	Errors     int
	Out        int
	Dispatched int
	Dropped    int
	Ticks      int
}

// Strip is the host state behind one visible column.
type Strip struct {
	Track int
	Name  string
	Peak  float64
	Fader int // raw position, -1 when unbound
	Armed bool
	Solo  bool
	Muted bool
}

// Status is a copy of the bridge state for display.
type Status struct {
	Session    string
	Controller string
	Extenders  int
	Stats      Stats
	LastErr    string
	Hints      []string

	Playing   bool
	Recording bool
	TimeText  string
	TempoText string
	HostHint  string
	Strips    [surface.NumColumns]Strip
}

// Manager owns a Surface and the goroutine that drives it. The surface
// and host are only touched from that goroutine.
type Manager struct {
	session string
	opts    Options
	host    surface.Host
	clock   Clock
	surf    *surface.Surface

	controller midi.Controller
	extenders  []midi.Controller
	forwardEnd chan struct{}

	input    chan surface.Event
	cmds     chan func()
	stopChan chan struct{}
	done     chan struct{}
	lastTick time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool

	stats   Stats
	lastErr error
	hints   []string

	mu       sync.RWMutex
	snapshot surface.Snapshot
	status   Status

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// New creates a Manager for host. Call Start to run it.
func New(host surface.Host, opts Options) *Manager {
	if opts.Tick <= 0 {
		opts.Tick = DefaultOptions().Tick
	}
	if opts.MeterTick <= 0 {
		opts.MeterTick = DefaultOptions().MeterTick
	}
	m := &Manager{
		session:    uuid.New().String(),
		opts:       opts,
		host:       host,
		surf:       surface.New(host, opts.Surface),
		input:      make(chan surface.Event, 64),
		cmds:       make(chan func(), 16),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
		UpdateChan: make(chan struct{}, 1),
	}
	m.clock, _ = host.(Clock)
	m.publish()
	return m
}

// Session is a random ID for this run, used to tag log lines.
func (m *Manager) Session() string { return m.session }

// Start runs the loop goroutine.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		debug.Log("bridge", "session %s starting, tick %v", m.session, m.opts.Tick)
		m.lastTick = time.Now()
		m.started.Store(true)
		go m.loop()
	})
}

// Stop blanks the console and ends the loop. It may be called more than
// once, and before Start.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
	if m.started.Load() {
		<-m.done
	}
}

// SetController attaches the main unit. The previous unit, if any, is
// blanked first. nil detaches.
func (m *Manager) SetController(c midi.Controller) {
	m.do(func() { m.attach(c) })
}

// SetExtenders sets the extender units in dispatch order.
func (m *Manager) SetExtenders(exts []midi.Controller) {
	m.do(func() {
		m.extenders = exts
		m.apply(m.surf.Refresh(surface.RefreshDisplay))
	})
}

// RequestRefresh redraws the parts selected by flags. RefreshAll resends
// everything, for a console that was power cycled.
func (m *Manager) RequestRefresh(flags surface.RefreshFlag) {
	m.do(func() {
		if flags == surface.RefreshAll {
			m.apply(m.surf.Redraw())
			return
		}
		m.apply(m.surf.Refresh(flags))
	})
}

// SendTempMessage shows text on the LCD for about ms milliseconds.
func (m *Manager) SendTempMessage(text string, ms int) {
	m.do(func() { m.apply(m.surf.SendTempMessage(text, ms)) })
}

// Inject queues an event as if the console had sent it. It reports false
// when the input queue is full.
func (m *Manager) Inject(ev surface.Event) bool {
	select {
	case m.input <- ev:
		return true
	default:
		return false
	}
}

func (m *Manager) do(fn func()) {
	select {
	case m.cmds <- fn:
	case <-m.done:
	}
}

func (m *Manager) loop() {
	defer close(m.done)
	idle := time.NewTicker(m.opts.Tick)
	meters := time.NewTicker(m.opts.MeterTick)
	defer idle.Stop()
	defer meters.Stop()

	for {
		select {
		case <-m.stopChan:
			m.attach(nil)
			m.publish()
			debug.Log("bridge", "session %s stopped", m.session)
			return
		case ev := <-m.input:
			m.handle(ev)
		case fn := <-m.cmds:
			fn()
		case now := <-idle.C:
			m.idle(now.Sub(m.lastTick))
			m.lastTick = now
		case <-meters.C:
			m.surf.UpdateMeters()
		}
		m.publish()
	}
}

// attach swaps the main unit. Init leaves every strip dirty, so a full
// refresh follows it.
func (m *Manager) attach(c midi.Controller) {
	if m.controller != nil {
		debug.Log("bridge", "detaching %s", m.controller.ID())
		m.apply(m.surf.DeInit(time.Now()))
		close(m.forwardEnd)
	}
	m.controller = c
	if c == nil {
		return
	}
	debug.Log("bridge", "attaching %s", c.ID())
	m.forwardEnd = make(chan struct{})
	go m.forward(c.Events(), m.forwardEnd)
	m.apply(m.surf.Init())
	m.apply(m.surf.Refresh(surface.RefreshAll))
}

// forward copies controller input into the loop until the controller
// closes or is replaced.
func (m *Manager) forward(events <-chan surface.Event, end chan struct{}) {
	for {
		select {
		case <-end:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			select {
			case m.input <- ev:
			case <-end:
				return
			}
		}
	}
}

func (m *Manager) handle(ev surface.Event) {
	m.stats.Events++
	res, err := m.surf.Handle(ev)
	if err != nil {
		m.fail("handle "+ev.String(), err)
	}
	if !res.Handled {
		debug.LogEvery(20, "bridge", "unhandled %s", ev)
		return
	}
	m.stats.Handled++
	m.apply(res)
	m.apply(m.surf.Refresh(surface.RefreshControls))
}

func (m *Manager) idle(d time.Duration) {
	m.stats.Ticks++
	if m.clock != nil {
		beat, dirty := m.clock.Advance(d)
		if beat >= 0 {
			m.apply(m.surf.BeatIndicator(beat))
		}
		if dirty&surface.RefreshControls != 0 {
			m.surf.DirtyTrack(-1)
		}
		if dirty != 0 {
			m.apply(m.surf.Refresh(dirty))
		}
	}
	m.apply(m.surf.Idle())
}

// apply delivers a result to the console units.
func (m *Manager) apply(res surface.Result) {
	if len(res.Out) > 0 && m.controller != nil {
		m.stats.Out += len(res.Out)
		if err := m.controller.Send(res.Out...); err != nil {
			m.fail("send", err)
		}
	}
	for _, d := range res.Dispatch {
		if d.Receiver < 0 || d.Receiver >= len(m.extenders) || m.extenders[d.Receiver] == nil {
			m.stats.Dropped++
			continue
		}
		m.stats.Dispatched++
		if err := m.extenders[d.Receiver].Send(d.Msg); err != nil {
			m.fail("dispatch", err)
		}
	}
	for _, h := range res.Hints {
		m.hints = append(m.hints, h)
		if len(m.hints) > maxHints {
			m.hints = m.hints[len(m.hints)-maxHints:]
		}
	}
}

func (m *Manager) fail(op string, err error) {
	m.stats.Errors++
	m.lastErr = err
	debug.Warn("bridge", "%s: %v", op, err)
}

// publish copies state for readers outside the loop and pokes the TUI.
func (m *Manager) publish() {
	st := Status{
		Session:   m.session,
		Extenders: len(m.extenders),
		Stats:     m.stats,
		Hints:     append([]string(nil), m.hints...),
		Playing:   m.host.Playing(),
		Recording: m.host.Recording(),
		TimeText:  m.host.TimeText(),
		TempoText: m.host.TempoText(),
		HostHint:  m.host.HintMessage(),
	}
	if m.controller != nil {
		st.Controller = m.controller.ID()
	}
	if m.lastErr != nil {
		st.LastErr = m.lastErr.Error()
	}
	snap := m.surf.Snapshot()
	for i, col := range snap.Columns {
		t := col.TrackNum
		st.Strips[i] = Strip{
			Track: t,
			Name:  m.host.TrackName(t),
			Peak:  m.host.TrackPeak(t),
			Armed: m.host.TrackArmed(t),
			Solo:  m.host.TrackSolo(t),
			Muted: m.host.TrackMuted(t),
			Fader: -1,
		}
		if col.SliderEventID >= 0 {
			st.Strips[i].Fader = surface.HostLevelToRaw(m.host.EventValue(col.SliderEventID))
		}
	}

	m.mu.Lock()
	m.snapshot = snap
	m.status = st
	m.mu.Unlock()

	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

// Snapshot returns the surface state as of the last loop iteration.
func (m *Manager) Snapshot() surface.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Status returns the bridge state as of the last loop iteration.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
