package monitor

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/protocol"
)

// Messages delivered into the dashboard event loop.
type frameMsg Frame

type linkClosedMsg struct {
	err error
}

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reset, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Reset, k.Help, k.Quit},
	}
}

// typeCount is one row of the traffic table.
type typeCount struct {
	Type  protocol.MessageType
	Count uint64
}

// DashboardModel is the live capture dashboard. It consumes decoded
// frames from a channel and accumulates per-type counters plus the
// most recent device, media, and update state.
type DashboardModel struct {
	// Frame source
	frames <-chan Frame

	// Link identity
	PortName string

	// UI state
	Width  int
	Height int

	// Counters
	Started     time.Time
	TotalFrames uint64
	TotalBytes  uint64
	Counts      map[protocol.MessageType]uint64

	// Device state from the most recent frames
	Phone       protocol.PhoneType
	PluggedSeen bool
	Unplugged   bool
	WifiKnown   bool
	HasWifi     bool
	Phase       uint32
	PhaseSeen   bool
	SWVersion   string

	// Now-playing state
	Media         *protocol.MediaMetadata
	CoverSeen     bool
	CoverBytes    int
	AudioFormat   *protocol.AudioFormat
	Volume        float32
	VolumeKnown   bool
	VideoWidth    uint32
	VideoHeight   uint32
	LastCommand   string
	CommandSeen   bool

	// Update lifecycle
	UpdateStatus   *protocol.UpdateStatus
	UpdateProgress int32
	ProgressSeen   bool

	// Link lifecycle
	Closed  bool
	LinkErr error

	Spinner spinner.Model
	Help    help.Model
	Keys    dashboardKeyMap
}

// NewDashboardModel creates a dashboard reading decoded frames from ch.
func NewDashboardModel(portName string, ch <-chan Frame) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := dashboardKeyMap{
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset counters"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	width, height := GetTerminalSize()

	return DashboardModel{
		frames:   ch,
		PortName: portName,
		Width:    width,
		Height:   height,
		Started:  time.Now(),
		Counts:   make(map[protocol.MessageType]uint64),
		Spinner:  s,
		Help:     help.New(),
		Keys:     keys,
	}
}

// Init starts the spinner and the first channel receive.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, waitForFrame(m.frames))
}

// waitForFrame blocks on the frame channel and converts the result into
// a tea.Msg. A closed channel means the link is gone.
func waitForFrame(ch <-chan Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return linkClosedMsg{}
		}
		if f.Err != nil {
			return linkClosedMsg{err: f.Err}
		}
		return frameMsg(f)
	}
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Reset):
			m.TotalFrames = 0
			m.TotalBytes = 0
			m.Counts = make(map[protocol.MessageType]uint64)
			m.Started = time.Now()
			return m, nil
		case key.Matches(msg, m.Keys.Help):
			m.Help.ShowAll = !m.Help.ShowAll
			return m, nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case frameMsg:
		m.apply(Frame(msg))
		return m, waitForFrame(m.frames)

	case linkClosedMsg:
		m.Closed = true
		m.LinkErr = msg.err
		return m, nil
	}

	return m, nil
}

// apply folds one decoded frame into the dashboard state.
func (m *DashboardModel) apply(f Frame) {
	m.TotalFrames++
	m.TotalBytes += uint64(protocol.HeaderSize) + uint64(f.Header.Length)
	m.Counts[f.Header.Type]++

	switch msg := f.Message.(type) {
	case *protocol.PluggedMessage:
		m.PluggedSeen = true
		m.Unplugged = false
		m.Phone = msg.PhoneType
		m.WifiKnown = msg.HasWifi
		m.HasWifi = msg.HasWifi && msg.Wifi != 0

	case *protocol.UnpluggedMessage:
		m.Unplugged = true

	case *protocol.PhaseMessage:
		m.PhaseSeen = true
		m.Phase = msg.Phase

	case *protocol.SoftwareVersionMessage:
		m.SWVersion = msg.Version

	case *protocol.CommandMessage:
		m.CommandSeen = true
		m.LastCommand = msg.Value.String()

	case *protocol.MediaMessage:
		switch msg.Kind {
		case protocol.MediaKindData:
			m.Media = msg.Metadata
		case protocol.MediaKindAlbumCover:
			m.CoverSeen = true
			m.CoverBytes = len(msg.AlbumCover)
		}

	case *protocol.AudioMessage:
		if format, ok := protocol.LookupAudioFormat(msg.DecodeType); ok {
			m.AudioFormat = &format
		}
		m.Volume = msg.Volume
		m.VolumeKnown = true

	case *protocol.VideoMessage:
		if f.Header.Type == protocol.MsgTypeVideoData {
			m.VideoWidth = msg.Width
			m.VideoHeight = msg.Height
		}

	case *protocol.UpdateProgressMessage:
		m.ProgressSeen = true
		m.UpdateProgress = msg.Progress

	case *protocol.UpdateStateMessage:
		status := msg.Status
		m.UpdateStatus = &status
	}
}

// topCounts returns the per-type counters sorted by count descending,
// capped at n rows.
func (m DashboardModel) topCounts(n int) []typeCount {
	rows := make([]typeCount, 0, len(m.Counts))
	for typ, count := range m.Counts {
		rows = append(rows, typeCount{Type: typ, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Type < rows[j].Type
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// View renders the dashboard
func (m DashboardModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderLinkSection(),
		"",
		m.renderDeviceSection(),
		"",
		m.renderTrafficSection(),
		"",
		m.renderMediaSection(),
	)

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m DashboardModel) renderField(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		"  ",
		LabelStyle.Render(label),
		ValueStyle.Render(value),
	)
}

func (m DashboardModel) renderLinkSection() string {
	var status string
	switch {
	case m.Closed && m.LinkErr != nil:
		status = ErrorStyle.Render(fmt.Sprintf("✗ closed: %v", m.LinkErr))
	case m.Closed:
		status = DisconnectedStyle.Render("✗ closed")
	case m.TotalFrames == 0:
		status = m.Spinner.View() + " waiting for frames"
	default:
		status = ConnectedStyle.Render("✓ receiving")
	}

	uptime := time.Since(m.Started).Round(time.Second)
	rate := ""
	if secs := time.Since(m.Started).Seconds(); secs > 0 && m.TotalFrames > 0 {
		rate = fmt.Sprintf(" (%.1f/s)", float64(m.TotalFrames)/secs)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		SectionTitleStyle.Render("LINK"),
		m.renderField("Port", m.PortName),
		m.renderField("Status", status),
		m.renderField("Uptime", uptime.String()),
		m.renderField("Frames", fmt.Sprintf("%d%s", m.TotalFrames, rate)),
		m.renderField("Bytes", formatBytes(m.TotalBytes)),
	)
}

func (m DashboardModel) renderDeviceSection() string {
	phone := "(not plugged)"
	if m.Unplugged {
		phone = DisconnectedStyle.Render("unplugged")
	} else if m.PluggedSeen {
		phone = m.Phone.String()
		if m.WifiKnown {
			if m.HasWifi {
				phone += " • wifi"
			} else {
				phone += " • usb"
			}
		}
	}

	lines := []string{
		SectionTitleStyle.Render("DEVICE"),
		m.renderField("Phone", phone),
	}
	if m.PhaseSeen {
		lines = append(lines, m.renderField("Phase", fmt.Sprintf("%d", m.Phase)))
	}
	if m.SWVersion != "" {
		lines = append(lines, m.renderField("Firmware", m.SWVersion))
	}
	if m.CommandSeen {
		lines = append(lines, m.renderField("Last Command", m.LastCommand))
	}
	if m.UpdateStatus != nil {
		status := m.UpdateStatus.Text
		if m.ProgressSeen && !m.UpdateStatus.Terminal {
			status += fmt.Sprintf(" (%d%%)", m.UpdateProgress)
		}
		style := ConnectedStyle
		if m.UpdateStatus.Terminal && !m.UpdateStatus.OK {
			style = ErrorStyle
		}
		lines = append(lines, m.renderField("Update", style.Render(status)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m DashboardModel) renderTrafficSection() string {
	lines := []string{SectionTitleStyle.Render("TRAFFIC")}

	rows := m.topCounts(8)
	if len(rows) == 0 {
		lines = append(lines, HelpStyle.Render("  (no frames yet)"))
	}
	for _, row := range rows {
		lines = append(lines, m.renderField(row.Type.String(), fmt.Sprintf("%d", row.Count)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m DashboardModel) renderMediaSection() string {
	lines := []string{SectionTitleStyle.Render("NOW PLAYING")}

	if m.Media == nil && m.AudioFormat == nil && m.VideoWidth == 0 {
		lines = append(lines, HelpStyle.Render("  (nothing playing)"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if m.Media != nil {
		if m.Media.MediaSongName != "" {
			lines = append(lines, m.renderField("Song", m.Media.MediaSongName))
		}
		if m.Media.MediaArtistName != "" {
			lines = append(lines, m.renderField("Artist", m.Media.MediaArtistName))
		}
		if m.Media.MediaAlbumName != "" {
			lines = append(lines, m.renderField("Album", m.Media.MediaAlbumName))
		}
		if m.Media.MediaAPPName != "" {
			lines = append(lines, m.renderField("App", m.Media.MediaAPPName))
		}
		if m.Media.MediaSongDuration > 0 {
			lines = append(lines, m.renderField("Position", fmt.Sprintf("%s / %s",
				formatPlayTime(m.Media.MediaSongPlayTime),
				formatPlayTime(m.Media.MediaSongDuration))))
		}
	}
	if m.CoverSeen {
		lines = append(lines, m.renderField("Cover", fmt.Sprintf("%d bytes (base64)", m.CoverBytes)))
	}
	if m.AudioFormat != nil {
		audio := fmt.Sprintf("%d Hz • %dch • %d-bit", m.AudioFormat.SampleRate, m.AudioFormat.Channels, m.AudioFormat.BitDepth)
		if m.VolumeKnown {
			audio += fmt.Sprintf(" • vol %.0f%%", m.Volume*100)
		}
		lines = append(lines, m.renderField("Audio", audio))
	}
	if m.VideoWidth > 0 {
		lines = append(lines, m.renderField("Video", fmt.Sprintf("%dx%d", m.VideoWidth, m.VideoHeight)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// formatPlayTime renders seconds as m:ss.
func formatPlayTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
