package surface

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gitlab.com/gomidi/midi/v2"
)

func hasMsg(out []midi.Message, want midi.Message) bool {
	for _, m := range out {
		if bytes.Equal(m, want) {
			return true
		}
	}
	return false
}

func TestMeterModeCycle(t *testing.T) {
	s, _ := newTestSurface(20)
	for _, tt := range []struct {
		mode                  MeterMode
		countdown             int
		meterMax, activityMax int
	}{
		{MeterVertical, -1, 14, 7},
		{MeterDisabled, -1, 13, 13},
		{MeterHorizontal, 500/tickMillis + 1, 13, 13},
		{MeterVertical, -1, 14, 7},
	} {
		if _, err := s.Handle(press(noteDisplayMode)); err != nil {
			t.Fatal(err)
		}
		s.Handle(release(noteDisplayMode))
		snap := s.Snapshot()
		if snap.State.MeterMode != tt.mode || snap.MeterMode != tt.mode {
			t.Fatalf("mode = %v/%v, want %v", snap.State.MeterMode, snap.MeterMode, tt.mode)
		}
		if snap.Countdown != tt.countdown {
			t.Errorf("%v: countdown %d, want %d", tt.mode, snap.Countdown, tt.countdown)
		}
		if snap.MeterMax != tt.meterMax || snap.ActivityMax != tt.activityMax {
			t.Errorf("%v: max %d/%d, want %d/%d", tt.mode, snap.MeterMax, snap.ActivityMax, tt.meterMax, tt.activityMax)
		}
	}
}

func TestTempMessageReverts(t *testing.T) {
	s, _ := newTestSurface(20)
	r := s.SendTempMessage("hello", 500)
	if len(r.Hints) != 1 || r.Hints[0] != "hello" {
		t.Fatalf("hints = %q", r.Hints)
	}
	if got := s.Snapshot().Countdown; got != 500/tickMillis+1 {
		t.Fatalf("countdown = %d", got)
	}

	s.Idle()
	if row := s.Snapshot().Rows[0]; !strings.HasPrefix(row, "hello ") {
		t.Fatalf("row 0 = %q, want the temp message", row)
	}
	for i := 0; i < 500/tickMillis; i++ {
		s.Idle()
	}
	snap := s.Snapshot()
	if snap.Countdown != 0 {
		t.Fatalf("countdown = %d after expiry", snap.Countdown)
	}
	if !strings.HasPrefix(snap.Rows[0], "Insert Insert ") {
		t.Errorf("row 0 = %q, want track names", snap.Rows[0])
	}
	if len(snap.Rows[0]) != DefaultRowWidth {
		t.Errorf("row width %d", len(snap.Rows[0]))
	}
}

func TestTempMessageHeldByFader(t *testing.T) {
	s, _ := newTestSurface(20)
	s.Handle(press(noteFaderTouchFirst))
	s.SendTempMessage("hold", 100)
	want := 100/tickMillis + 1
	for i := 0; i < 10; i++ {
		s.Idle()
	}
	if got := s.Snapshot().Countdown; got != want {
		t.Fatalf("countdown moved while a fader was held: %d", got)
	}
	s.Handle(release(noteFaderTouchFirst))
	for i := 0; i < want; i++ {
		s.Idle()
	}
	if got := s.Snapshot().Countdown; got != 0 {
		t.Errorf("countdown = %d after release", got)
	}
}

func TestVerticalModeKeepsNamesOnRowOne(t *testing.T) {
	s, _ := newTestSurface(20)
	s.Handle(press(noteDisplayMode))
	s.Idle()
	snap := s.Snapshot()
	if !strings.HasPrefix(snap.Rows[1], "Insert ") {
		t.Errorf("row 1 = %q, want track names", snap.Rows[1])
	}
	if !strings.HasPrefix(snap.Rows[0], MeterVertical.String()) {
		t.Errorf("row 0 = %q, want the mode message", snap.Rows[0])
	}
	for i := 0; i < 100; i++ {
		s.Idle()
	}
	if got := s.Snapshot().Countdown; got != -1 {
		t.Errorf("countdown = %d, want -1", got)
	}
}

func TestIdleMeters(t *testing.T) {
	s, h := newTestSurface(20)
	h.peaks[1] = 1
	s.UpdateMeters()
	r := s.Idle()
	if !hasMsg(r.Out, MeterLevel(0, 13)) {
		t.Fatalf("no full-scale meter for strip 0 in % X", r.Out)
	}
	if !hasMsg(r.Out, MeterLevel(1, 0)) {
		t.Errorf("silent strip 1 did not send a zero level")
	}

	r = s.Idle()
	if !hasMsg(r.Out, MeterLevel(0, 0)) {
		t.Errorf("strip 0 did not fall back to zero")
	}
	r = s.Idle()
	for _, m := range r.Out {
		if m[0] == 0xD0 {
			t.Errorf("repeated zero level sent: % X", m)
		}
	}
}

func TestIdleTimeDisplay(t *testing.T) {
	s, h := newTestSurface(20)
	h.timeText = "0010001000"
	r := s.Idle()
	if !hasMsg(r.Out, midi.ControlChange(0, ccTimeFirst, '0')) {
		t.Fatalf("first digit not sent")
	}
	h.timeText = "0010001001"
	r = s.Idle()
	want := midi.ControlChange(0, ccTimeFirst-9, '1')
	n := 0
	for _, m := range r.Out {
		var ch, ctl, val uint8
		if m.GetControlChange(&ch, &ctl, &val) && ctl <= ccTimeFirst && ctl >= ccTimeFirst-9 {
			n++
		}
	}
	if n != 1 || !hasMsg(r.Out, want) {
		t.Errorf("got %d digit updates, want only the last digit", n)
	}
}

func TestDeInit(t *testing.T) {
	s, _ := newTestSurface(20)
	r := s.DeInit(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	snap := s.Snapshot()
	if !strings.HasPrefix(snap.Rows[0], "Host session closed at Fri Mar  1 12:00:00 2024") {
		t.Errorf("row 0 = %q", snap.Rows[0])
	}
	if strings.TrimSpace(snap.Rows[1]) != "" {
		t.Errorf("row 1 = %q, want blank", snap.Rows[1])
	}
	if !hasMsg(r.Out, MeterModeFrame(0, 0)) {
		t.Error("meters not disabled")
	}
	if !hasMsg(r.Out, midi.ControlChange(0, ccAssignment, ' ')) {
		t.Error("assignment display not blanked")
	}
}

func TestRedrawResendsCached(t *testing.T) {
	s, _ := newTestSurface(20)
	s.Refresh(RefreshAll)

	stopLit := midi.NoteOn(0, noteStop, ledOn)
	if r := s.Refresh(RefreshLEDs); hasMsg(r.Out, stopLit) {
		t.Fatal("unchanged LED sent twice")
	}
	r := s.Redraw()
	if !hasMsg(r.Out, stopLit) {
		t.Errorf("redraw skipped the stop LED: % X", r.Out)
	}
	if !hasMsg(r.Out, s.codec.Text(0, s.display.Row(0))) {
		t.Error("redraw skipped the top LCD row")
	}
}
