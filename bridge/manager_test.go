package bridge

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go-surface/host"
	"go-surface/midi"
	"go-surface/surface"

	gomidi "gitlab.com/gomidi/midi/v2"
)

type fakeCtrl struct {
	id     string
	typ    midi.ControllerType
	events chan surface.Event

	mu   sync.Mutex
	sent []gomidi.Message
	err  error
}

func newFake(id string, typ midi.ControllerType) *fakeCtrl {
	return &fakeCtrl{id: id, typ: typ, events: make(chan surface.Event, 8)}
}

func (f *fakeCtrl) ID() string                   { return f.id }
func (f *fakeCtrl) Type() midi.ControllerType    { return f.typ }
func (f *fakeCtrl) Events() <-chan surface.Event { return f.events }
func (f *fakeCtrl) Close() error                 { return nil }
func (f *fakeCtrl) Send(msgs ...gomidi.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msgs...)
	return nil
}

func (f *fakeCtrl) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// noteOns returns the note-on messages sent from index from onwards.
func (f *fakeCtrl) noteOns(from int) [][2]uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][2]uint8
	for _, msg := range f.sent[from:] {
		var ch, key, vel uint8
		if msg.GetNoteOn(&ch, &key, &vel) {
			out = append(out, [2]uint8{key, vel})
		}
	}
	return out
}

var system = surface.Flags{System: true}

var playPress = surface.Event{Kind: surface.KindNoteOn, Data1: 0x5E, Data2: 0x7F, Flags: system}

func TestAttachInitializes(t *testing.T) {
	m := New(host.New(host.DefaultOptions()), DefaultOptions())
	fc := newFake("DDX3216", midi.ControllerSurface)
	m.attach(fc)
	m.publish()

	if fc.count() == 0 {
		t.Fatal("nothing sent on attach")
	}
	st := m.Status()
	if st.Controller != "DDX3216" || st.Session == "" {
		t.Errorf("status = %+v", st)
	}
	if len(st.Hints) == 0 || st.Hints[len(st.Hints)-1] != "Linked to go-surface host (0.1)" {
		t.Errorf("hints = %q", st.Hints)
	}
	if st.Strips[0].Name != "Insert 1" || st.Strips[8].Name != "Master" {
		t.Errorf("strips = %q .. %q", st.Strips[0].Name, st.Strips[8].Name)
	}
}

func TestHandleRunsHostCommand(t *testing.T) {
	h := host.New(host.DefaultOptions())
	m := New(h, DefaultOptions())
	m.attach(newFake("DDX3216", midi.ControllerSurface))

	m.handle(playPress)
	if !h.Playing() {
		t.Error("play press did not start the host")
	}
	m.handle(surface.Event{Kind: surface.KindControlChange, Data1: 0x7F})

	// Notes outside system processing are left alone.
	outside := playPress
	outside.Flags = surface.Flags{}
	m.handle(outside)
	if !h.Playing() {
		t.Error("non-system play press reached the host")
	}
	if m.stats.Events != 3 || m.stats.Handled != 1 {
		t.Errorf("stats = %+v", m.stats)
	}
}

func TestReplaceControllerBlanksOld(t *testing.T) {
	m := New(host.New(host.DefaultOptions()), DefaultOptions())
	old := newFake("old", midi.ControllerSurface)
	m.attach(old)
	n := old.count()

	next := newFake("new", midi.ControllerSurface)
	m.attach(next)
	if old.count() <= n {
		t.Error("old controller was not blanked")
	}
	if next.count() == 0 {
		t.Error("new controller was not initialized")
	}
	m.attach(nil)
	m.publish()
	if m.Status().Controller != "" {
		t.Errorf("controller = %q after detach", m.Status().Controller)
	}
}

func TestDispatchToExtenders(t *testing.T) {
	opts := DefaultOptions()
	opts.Surface.Extenders = 1
	m := New(host.New(host.DefaultOptions()), opts)
	ext := newFake("DDX3216 XT", midi.ControllerExtender)
	m.extenders = []midi.Controller{ext}
	m.attach(newFake("DDX3216", midi.ControllerSurface))

	notes := ext.noteOns(0)
	if len(notes) == 0 || notes[0][0] != 1 {
		t.Errorf("extender got %v, want first track 1", notes)
	}
	if m.stats.Dropped != 0 {
		t.Errorf("dropped %d", m.stats.Dropped)
	}

	m.extenders = nil
	m.handle(surface.Event{Kind: surface.KindNoteOn, Data1: 0x2F, Data2: 0x7F, Flags: system})
	if m.stats.Dropped == 0 {
		t.Error("dispatch without extenders not counted as dropped")
	}
}

func TestSendErrorRecorded(t *testing.T) {
	m := New(host.New(host.DefaultOptions()), DefaultOptions())
	fc := newFake("DDX3216", midi.ControllerSurface)
	fc.err = errors.New("unplugged")
	m.attach(fc)
	m.publish()
	st := m.Status()
	if st.Stats.Errors == 0 || st.LastErr != "unplugged" {
		t.Errorf("errors %d last %q", st.Stats.Errors, st.LastErr)
	}
}

func TestIdleFlashesBeat(t *testing.T) {
	h := host.New(host.DefaultOptions())
	m := New(h, DefaultOptions())
	fc := newFake("DDX3216", midi.ControllerSurface)
	m.attach(fc)
	h.GlobalTransport(surface.CmdPlay, 1, surface.Flags{})

	from := fc.count()
	m.idle(10 * time.Millisecond)
	found := false
	for _, n := range fc.noteOns(from) {
		if n == [2]uint8{0x5E, 0x7F} {
			found = true
		}
	}
	if !found {
		t.Error("beat indicator not sent")
	}
	if m.stats.Ticks != 1 {
		t.Errorf("ticks = %d", m.stats.Ticks)
	}
}

func TestInjectFull(t *testing.T) {
	m := New(host.New(host.DefaultOptions()), DefaultOptions())
	for i := 0; i < cap(m.input); i++ {
		if !m.Inject(playPress) {
			t.Fatalf("inject %d refused", i)
		}
	}
	if m.Inject(playPress) {
		t.Error("inject into a full queue accepted")
	}
}

func TestLoop(t *testing.T) {
	m := New(host.New(host.DefaultOptions()), DefaultOptions())
	fc := newFake("DDX3216", midi.ControllerSurface)
	m.Start()
	m.SetController(fc)
	fc.events <- playPress

	deadline := time.After(2 * time.Second)
wait:
	for {
		select {
		case <-m.UpdateChan:
			if m.Status().Playing {
				break wait
			}
		case <-deadline:
			t.Fatal("play press from the controller never reached the host")
		}
	}

	n := fc.count()
	m.RequestRefresh(surface.RefreshAll)
	for fc.count() <= n {
		select {
		case <-m.UpdateChan:
		case <-deadline:
			t.Fatal("full refresh sent nothing")
		}
	}

	n = fc.count()
	m.Stop()
	if fc.count() <= n {
		t.Error("stop did not blank the console")
	}
	if m.Status().Controller != "" {
		t.Errorf("controller = %q after stop", m.Status().Controller)
	}
	m.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	m := New(host.New(host.DefaultOptions()), DefaultOptions())
	stopped := make(chan struct{})
	go func() {
		m.Stop()
		m.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop before Start blocked")
	}
}
