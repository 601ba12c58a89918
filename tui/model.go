package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-surface/bridge"
	"go-surface/debug"
	"go-surface/midi"
	"go-surface/surface"
	"go-surface/theme"
	"go-surface/widgets"
)

const meterHeight = 6

type Model struct {
	Manager   *bridge.Manager
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	RowWidth  int

	keys     keyMap
	help     help.Model
	strip    int
	shift    bool
	quitting bool
	notice   string

	controller midi.Controller // current main unit (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(manager *bridge.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme, rowWidth int) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Accent())
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Muted())
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	if rowWidth <= 0 {
		rowWidth = surface.DefaultRowWidth
	}
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
		RowWidth:  rowWidth,
		keys:      defaultKeyMap(),
		help:      h,
	}
}

func ListenForUpdates(manager *bridge.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Manager)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case DeviceEventMsg:
		m.handleDevice(midi.DeviceEvent(msg))
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextStrip):
		m.strip = (m.strip + 1) % surface.NumStrips
	case key.Matches(msg, m.keys.PrevStrip):
		m.strip = (m.strip + surface.NumStrips - 1) % surface.NumStrips
	case key.Matches(msg, m.keys.JogLeft):
		m.inject(turnEvent(ccJog, -1))
	case key.Matches(msg, m.keys.JogRight):
		m.inject(turnEvent(ccJog, 1))
	case key.Matches(msg, m.keys.KnobUp):
		m.inject(turnEvent(ccKnobFirst+uint8(m.strip), 1))
	case key.Matches(msg, m.keys.KnobDown):
		m.inject(turnEvent(ccKnobFirst+uint8(m.strip), -1))
	case key.Matches(msg, m.keys.FaderUp):
		m.moveFader(faderStep)
	case key.Matches(msg, m.keys.FaderDown):
		m.moveFader(-faderStep)
	case key.Matches(msg, m.keys.Shift):
		m.shift = !m.shift
		m.inject(shiftEvent(m.shift))
	case key.Matches(msg, m.keys.Redraw):
		m.Manager.RequestRefresh(surface.RefreshAll)
	default:
		if note, ok := m.keys.note(msg, m.strip); ok {
			m.inject(pressEvents(note)...)
		}
	}
	return m, nil
}

func (m *Model) moveFader(step int) {
	raw := m.Manager.Status().Strips[m.strip].Fader
	if raw < 0 {
		raw = 0
	}
	m.inject(faderEvents(m.strip, raw+step)...)
}

func (m *Model) inject(evs ...surface.Event) {
	for _, ev := range evs {
		if !m.Manager.Inject(ev) {
			m.notice = "input queue full"
			debug.Log("tui", "dropped %s", ev)
			return
		}
	}
	m.notice = ""
}

// handleDevice attaches new units: the first main unit drives the
// surface and every extender is dispatched to in port-name order.
func (m *Model) handleDevice(event midi.DeviceEvent) {
	switch event.Type {
	case midi.DeviceConnected:
		switch event.Controller.Type() {
		case midi.ControllerSurface:
			if m.controller == nil {
				m.controller = event.Controller
				m.Manager.SetController(event.Controller)
			}
		case midi.ControllerExtender:
			m.Manager.SetExtenders(m.DeviceMgr.GetExtenders())
		}
	case midi.DeviceDisconnected:
		if m.controller != nil && m.controller.ID() == event.ID {
			m.controller = m.DeviceMgr.GetSurface()
			m.Manager.SetController(m.controller)
		} else {
			m.Manager.SetExtenders(m.DeviceMgr.GetExtenders())
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Manager.Status()
	snap := m.Manager.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	// Header with transport and device status
	playState := "STOP"
	switch {
	case st.Playing && st.Recording:
		playState = "REC "
	case st.Playing:
		playState = "PLAY"
	}
	deviceStatus := "no console"
	if st.Controller != "" {
		deviceStatus = st.Controller
	}
	if st.Extenders > 0 {
		deviceStatus += fmt.Sprintf(" +%d XT", st.Extenders)
	}
	header := headerStyle.Render(fmt.Sprintf("go-surface  %s  %s  %sbpm  %s",
		playState, st.TimeText, st.TempoText, deviceStatus))

	// Console state
	state := snap.State
	mods := ""
	if state.Shift {
		mods += " SHIFT"
	}
	if state.Flip {
		mods += " FLIP"
	}
	if state.Scrub {
		mods += " SCRUB"
	}
	stateLine := dimStyle.Render(fmt.Sprintf("page: %s  meters: %s  jog: %s  first: %d%s",
		state.Page, snap.MeterMode, state.JogSource, state.FirstTrack(), mods))

	lcd := widgets.RenderLCD(snap.Rows, m.RowWidth, m.Theme.FG(), m.Theme.Muted())

	names := make([]string, surface.NumStrips)
	peaks := make([]float64, surface.NumStrips)
	armed := make([]bool, surface.NumStrips)
	solo := make([]bool, surface.NumStrips)
	muted := make([]bool, surface.NumStrips)
	for i := 0; i < surface.NumStrips; i++ {
		s := st.Strips[i]
		names[i], peaks[i] = s.Name, s.Peak
		armed[i], solo[i], muted[i] = s.Armed, s.Solo, s.Muted
	}
	master := st.Strips[surface.NumColumns-1]

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(stateLine)
	out.WriteString("\n")
	out.WriteString(lcd)
	out.WriteString("\n")
	out.WriteString(widgets.RenderMeters(peaks, meterHeight, m.Theme))
	out.WriteString("\n")
	out.WriteString(widgets.RenderStripNames(names, m.strip, m.Theme))
	out.WriteString(dimStyle.Render(fmt.Sprintf(" %c %s", m.Theme.Symbols.Master, master.Name)))
	out.WriteString("\n")
	out.WriteString(widgets.RenderLEDs("arm", armed, m.Theme.Active(), m.Theme))
	out.WriteString("\n")
	out.WriteString(widgets.RenderLEDs("solo", solo, m.Theme.Success(), m.Theme))
	out.WriteString("\n")
	out.WriteString(widgets.RenderLEDs("mute", muted, m.Theme.Warning(), m.Theme))
	out.WriteString("\n\n")

	if st.HostHint != "" {
		out.WriteString(dimStyle.Render("host: " + st.HostHint))
		out.WriteString("\n")
	}
	if st.LastErr != "" {
		out.WriteString(warnStyle.Render("error: " + st.LastErr))
		out.WriteString("\n")
	}
	if m.notice != "" {
		out.WriteString(warnStyle.Render(m.notice))
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render(fmt.Sprintf("events %d  handled %d  out %d  xt %d  errors %d",
		st.Stats.Events, st.Stats.Handled, st.Stats.Out, st.Stats.Dispatched, st.Stats.Errors)))
	out.WriteString("\n\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}
