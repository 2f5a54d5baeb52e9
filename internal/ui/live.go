package ui

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/jawbone/internal/viseme"
)

// Drawer renders a pose into an image that stays valid until the next Draw.
// renderer.Frame satisfies it.
type Drawer interface {
	Draw(pose viseme.Pose) error
	Image() *image.RGBA
}

// LiveOptions configures the live display.
type LiveOptions struct {
	Title     string // Shown above the preview, usually the audio file name
	Preview   PreviewConfig
	NoPreview bool
}

// LiveResult describes how a live session ended.
type LiveResult struct {
	Shown       int
	Total       int
	Interrupted bool
	Err         error
}

// liveTickMsg advances the display by one window.
type liveTickMsg time.Time

// LiveModel steps through a pose sequence in real time, one frame per window.
// Ticks are scheduled against the start time so the display does not drift
// behind the audio.
type LiveModel struct {
	seq    *viseme.Sequence
	drawer Drawer
	opts   LiveOptions
	window time.Duration

	start   time.Time
	next    int
	current viseme.Pose
	recent  []viseme.Pose
	preview string

	interrupted bool
	finished    bool
	err         error
	width       int
}

// NewLiveModel creates the live display for seq.
func NewLiveModel(seq *viseme.Sequence, drawer Drawer, opts LiveOptions) *LiveModel {
	if opts.Preview.Width == 0 || opts.Preview.Height == 0 {
		opts.Preview = DefaultPreviewConfig()
	}
	return &LiveModel{
		seq:    seq,
		drawer: drawer,
		opts:   opts,
		window: time.Duration(seq.WindowMs) * time.Millisecond,
	}
}

// Init shows the first frame and starts the clock.
func (m *LiveModel) Init() tea.Cmd {
	m.start = time.Now()
	return m.step()
}

// Update handles ticks and quit keys.
func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case liveTickMsg:
		if m.finished || m.interrupted {
			return m, nil
		}
		return m, m.step()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.interrupted = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// step draws the next frame and schedules the tick that replaces it.
func (m *LiveModel) step() tea.Cmd {
	if m.next >= m.seq.Len() {
		m.finished = true
		return tea.Quit
	}

	frame := m.seq.Frames[m.next]
	if err := m.drawer.Draw(frame.Pose); err != nil {
		m.err = fmt.Errorf("frame %d: %w", frame.Index, err)
		return tea.Quit
	}

	m.current = frame.Pose
	m.recent = append(m.recent, frame.Pose)
	if len(m.recent) > maxStripWidth {
		m.recent = m.recent[len(m.recent)-maxStripWidth:]
	}
	if !m.opts.NoPreview {
		m.preview = RenderPreview(DownsampleFrame(m.drawer.Image(), m.opts.Preview))
	}
	m.next++

	due := m.start.Add(time.Duration(m.next) * m.window)
	return tea.Tick(time.Until(due), func(t time.Time) tea.Msg {
		return liveTickMsg(t)
	})
}

// Result reports how far playback got.
func (m *LiveModel) Result() LiveResult {
	return LiveResult{
		Shown:       m.next,
		Total:       m.seq.Len(),
		Interrupted: m.interrupted,
		Err:         m.err,
	}
}

// View renders the live display
func (m *LiveModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Jawbone 🦴"))
	if m.opts.Title != "" {
		s.WriteString("  ")
		s.WriteString(lipgloss.NewStyle().Foreground(gumPink).Render(m.opts.Title))
	}
	s.WriteString("\n\n")

	if m.preview != "" {
		s.WriteString(m.preview)
		s.WriteString("\n")
	}

	labelStyle := lipgloss.NewStyle().Faint(true)
	s.WriteString(labelStyle.Render("Pose: "))
	s.WriteString(poseStyle(m.current).Render(fmt.Sprintf("%-7s", m.current)))
	s.WriteString(labelStyle.Render("  Frame: "))
	s.WriteString(fmt.Sprintf("%d/%d", m.next, m.seq.Len()))
	s.WriteString(labelStyle.Render("  Time: "))
	s.WriteString(fmt.Sprintf("%s / %s",
		formatClock(time.Duration(m.next)*m.window),
		formatClock(time.Duration(m.seq.VideoDurationMs())*time.Millisecond)))
	s.WriteString("\n")

	stripWidth := maxStripWidth
	if m.width > 4 {
		stripWidth = min(m.width-4, maxStripWidth)
	}
	s.WriteString(renderPoseStrip(m.recent, stripWidth))
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("q/esc: stop"))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipCrimson).
		Padding(0, 1).
		Render(s.String())
}

func formatClock(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	minutes := int(d.Minutes())
	seconds := d.Seconds() - float64(minutes*60)
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}
