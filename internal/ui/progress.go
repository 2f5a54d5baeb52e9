package ui

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/linuxmatters/jawbone/internal/config"
	"github.com/linuxmatters/jawbone/internal/viseme"
)

// Phase represents the current processing phase
type Phase int

const (
	PhaseAnalysis Phase = iota
	PhaseRendering
	PhaseMuxing
	PhaseComplete
)

// AnalysisProgress reports loudness windows measured so far
type AnalysisProgress struct {
	Window       int
	TotalWindows int
	Elapsed      time.Duration
}

// AnalysisComplete carries the finished pose sequence summary
type AnalysisComplete struct {
	Windows      int
	WindowMs     int
	Duration     time.Duration // Source audio duration
	Counts       map[viseme.Pose]int
	AnalysisTime time.Duration
}

// RenderProgress represents progress updates while frames are encoded
type RenderProgress struct {
	Frame       int
	TotalFrames int
	Elapsed     time.Duration
	Pose        viseme.Pose
	FileSize    int64
	FrameData   *image.RGBA
}

// MuxStarted signals that every frame is written and the audio is being muxed
type MuxStarted struct{}

// RenderComplete signals the final file is written
type RenderComplete struct {
	OutputFile    string
	Intermediate  string // Set when the silent video was kept
	Thumbnail     string
	FileSize      int64
	TotalFrames   int
	WindowMs      int
	DrawTime      time.Duration // Pose compositing and caption
	EncodeTime    time.Duration // Writing frames into ffmpeg
	MuxTime       time.Duration
	ThumbnailTime time.Duration
	TotalTime     time.Duration
}

// RenderFailed stops the progress UI; the error is reported after exit
type RenderFailed struct {
	Err error
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// Model is the Bubbletea model for render mode
type Model struct {
	progressBar progress.Model
	summaryBar  progress.Model
	phase       Phase
	windowMs    int

	analysis    AnalysisProgress
	profile     *AnalysisComplete
	renderState RenderProgress
	complete    *RenderComplete
	failed      error
	recentPoses []viseme.Pose

	renderStartTime time.Time
	muxStartTime    time.Time

	// UI state
	width           int
	noPreview       bool
	cachedPreview   string
	cachedFrameNum  int
	completionDelay time.Duration
}

// NewModel creates the render progress model. windowMs converts frame
// counts into media time for the speed readout.
func NewModel(windowMs int, noPreview bool) *Model {
	p := progress.New(
		progress.WithGradient(string(jawShadow), string(gumPink)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	summaryBar := progress.New(
		progress.WithGradient(string(jawShadow), string(gumPink)),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:     p,
		summaryBar:      summaryBar,
		phase:           PhaseAnalysis,
		windowMs:        windowMs,
		completionDelay: 2 * time.Second,
		noPreview:       noPreview,
		cachedFrameNum:  -1,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = min(msg.Width-30, 50)
		return m, nil

	case AnalysisProgress:
		m.analysis = msg
		return m, nil

	case AnalysisComplete:
		m.profile = &msg
		// A loaded timeline may use a different window than the flags
		if msg.WindowMs > 0 {
			m.windowMs = msg.WindowMs
		}
		m.phase = PhaseRendering
		m.renderStartTime = time.Now()
		return m, nil

	case RenderProgress:
		m.renderState = msg
		m.recentPoses = append(m.recentPoses, msg.Pose)
		if len(m.recentPoses) > maxStripWidth {
			m.recentPoses = m.recentPoses[len(m.recentPoses)-maxStripWidth:]
		}
		return m, nil

	case MuxStarted:
		m.phase = PhaseMuxing
		m.muxStartTime = time.Now()
		return m, nil

	case RenderComplete:
		m.complete = &msg
		m.phase = PhaseComplete

		return m, tea.Tick(m.completionDelay, func(t time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case RenderFailed:
		m.failed = msg.Err
		return m, tea.Quit

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// Phase returns the phase the model is showing.
func (m *Model) Phase() Phase {
	return m.phase
}

// View renders the UI
func (m *Model) View() string {
	if m.phase == PhaseComplete {
		return m.CompletionSummary()
	}
	return m.renderProgress()
}

// CompletionSummary returns the final summary for printing after the alt
// screen exits. Returns an empty string if rendering did not complete.
func (m *Model) CompletionSummary() string {
	if m.complete == nil {
		return ""
	}
	return m.renderComplete()
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Jawbone 🦴"))
	s.WriteString("\n")

	var phaseLabel string
	switch m.phase {
	case PhaseAnalysis:
		phaseLabel = "Measuring loudness"
	case PhaseRendering:
		phaseLabel = "Rendering & encoding"
	default:
		phaseLabel = "Muxing audio"
	}
	s.WriteString(lipgloss.NewStyle().Foreground(gumPink).Render(phaseLabel))
	s.WriteString("\n\n")

	switch m.phase {
	case PhaseAnalysis:
		m.renderAnalysisProgress(&s)
	case PhaseRendering:
		m.renderRenderingProgress(&s)
	default:
		s.WriteString("Progress: ")
		s.WriteString(m.progressBar.ViewAs(1.0))
		s.WriteString("  100%\n\n")
		s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render(
			fmt.Sprintf("Muxing for %s", formatDuration(time.Since(m.muxStartTime)))))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	m.renderPoseProfile(&s)

	if m.phase != PhaseAnalysis && len(m.recentPoses) > 0 {
		s.WriteString("\n\n")
		m.renderPoseStripAndStats(&s)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipCrimson).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) renderAnalysisProgress(s *strings.Builder) {
	if m.analysis.TotalWindows == 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Decoding audio...\n\n"))
		return
	}

	percent := float64(m.analysis.Window) / float64(m.analysis.TotalWindows)
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n\n")
}

func (m *Model) renderRenderingProgress(s *strings.Builder) {
	if m.renderState.TotalFrames == 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Starting render...\n\n"))
		return
	}

	percent := float64(m.renderState.Frame) / float64(m.renderState.TotalFrames)
	progressBar := m.progressBar.ViewAs(percent)
	s.WriteString("Progress: ")
	s.WriteString(progressBar)
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n\n")

	elapsed := m.renderState.Elapsed
	if elapsed == 0 {
		elapsed = time.Since(m.renderStartTime)
	}

	var estimatedTotal, eta time.Duration
	var speed float64
	if percent > 0 {
		estimatedTotal = time.Duration(float64(elapsed) / percent)
		eta = estimatedTotal - elapsed
		speed = realtimeSpeed(m.renderState.Frame, m.windowMs, elapsed)
	}

	timingInfo := fmt.Sprintf("Time: %s / %s  │  Speed: %.1fx realtime  │  ETA: %s",
		formatDuration(elapsed),
		formatDuration(estimatedTotal),
		speed,
		formatDuration(eta))

	s.WriteString(lipgloss.NewStyle().Faint(true).Render(timingInfo))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render(
		fmt.Sprintf("Frame %d of %d", m.renderState.Frame, m.renderState.TotalFrames)))
}

func (m *Model) renderPoseProfile(s *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Faint(true)
	headerStyle := lipgloss.NewStyle().Faint(true).Bold(true)

	s.WriteString(headerStyle.Render("Audio"))
	s.WriteString(" │ ")

	if m.profile == nil {
		s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render("Analysing..."))
		return
	}

	s.WriteString(fmt.Sprintf("%.1fs", m.profile.Duration.Seconds()))
	s.WriteString("  ")
	s.WriteString(labelStyle.Render("Windows:"))
	s.WriteString(fmt.Sprintf(" %d × %dms", m.profile.Windows, m.profile.WindowMs))
	for _, pose := range viseme.Poses {
		s.WriteString("  ")
		s.WriteString(labelStyle.Render(pose.String() + ":"))
		s.WriteString(" ")
		s.WriteString(poseStyle(pose).Render(fmt.Sprintf("%d", m.profile.Counts[pose])))
	}
}

func (m *Model) renderPoseStripAndStats(s *strings.Builder) {
	s.WriteString(lipgloss.NewStyle().Foreground(gumPink).Render("Recent poses:"))
	s.WriteString("\n")

	stripWidth := maxStripWidth
	if m.width > 10 {
		stripWidth = min(m.width-30, maxStripWidth)
	}
	strip := renderPoseStrip(m.recentPoses, stripWidth)

	var rightCol strings.Builder
	labelStyle := lipgloss.NewStyle().Foreground(mutedSlate)
	valueStyle := lipgloss.NewStyle().Bold(true)
	rightCol.WriteString(labelStyle.Render("File: "))
	rightCol.WriteString(valueStyle.Render(humanize.Bytes(uint64(max(m.renderState.FileSize, 0)))))
	rightCol.WriteString("\n")
	rightCol.WriteString(labelStyle.Render("Pose: "))
	rightCol.WriteString(poseStyle(m.renderState.Pose).Render(m.renderState.Pose.String()))

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, strip, "  ", rightCol.String()))

	if !m.noPreview {
		if m.renderState.FrameData != nil && m.renderState.Frame != m.cachedFrameNum {
			preview := DownsampleFrame(m.renderState.FrameData, DefaultPreviewConfig())
			m.cachedPreview = RenderPreview(preview)
			m.cachedFrameNum = m.renderState.Frame
		}

		if m.cachedPreview != "" {
			s.WriteString("\n")
			s.WriteString(m.cachedPreview)
		}
	}
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("✓ Render Complete!"))
	s.WriteString("\n\n")

	dimLabel := lipgloss.NewStyle().Faint(true)

	s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Output:   "), m.complete.OutputFile))
	if m.complete.Intermediate != "" {
		s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Silent:   "), m.complete.Intermediate))
	}
	if m.complete.Thumbnail != "" {
		s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Poster:   "), m.complete.Thumbnail))
	}

	videoDuration := time.Duration(m.complete.TotalFrames*m.complete.WindowMs) * time.Millisecond
	s.WriteString(fmt.Sprintf("%s%d frames at %s fps\n",
		dimLabel.Render("Video:    "),
		m.complete.TotalFrames,
		humanize.FtoaWithDigits(config.FPS(m.complete.WindowMs), 2)))
	s.WriteString(fmt.Sprintf("%s%.1fs video in %.1fs\n",
		dimLabel.Render("Duration: "),
		videoDuration.Seconds(),
		m.complete.TotalTime.Seconds()))
	s.WriteString(fmt.Sprintf("%s%s\n\n", dimLabel.Render("Size:     "), humanize.Bytes(uint64(max(m.complete.FileSize, 0)))))

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(gumPink)
	labelStyle := lipgloss.NewStyle().Faint(true)
	valueStyle := lipgloss.NewStyle()
	highlightValueStyle := lipgloss.NewStyle().Foreground(gumPink)

	if m.profile != nil {
		s.WriteString(headerStyle.Render("Loudness Analysis"))
		s.WriteString("\n")
		s.WriteString(fmt.Sprintf("  %s%s\n", labelStyle.Render(fmt.Sprintf("%-18s", "Audio:")), valueStyle.Render(fmt.Sprintf("%.1fs", m.profile.Duration.Seconds()))))
		for _, pose := range viseme.Poses {
			count := m.profile.Counts[pose]
			ratio := 0.0
			if m.profile.Windows > 0 {
				ratio = float64(count) / float64(m.profile.Windows)
			}
			s.WriteString(fmt.Sprintf("  %s%s (%2d%%)  %s\n",
				labelStyle.Render(fmt.Sprintf("%-18s", pose.String()+":")),
				poseStyle(pose).Render(fmt.Sprintf("%-6d", count)),
				int(ratio*100),
				m.summaryBar.ViewAs(ratio)))
		}
		s.WriteString(fmt.Sprintf("  %s%s\n\n", labelStyle.Render(fmt.Sprintf("%-18s", "Analysis time:")), highlightValueStyle.Render(formatDuration(m.profile.AnalysisTime))))
	}

	s.WriteString(headerStyle.Render("Rendering & Encoding"))
	s.WriteString("\n")

	totalMs := m.complete.TotalTime.Milliseconds()
	if totalMs == 0 {
		totalMs = 1
	}
	writeStage := func(label string, d time.Duration) {
		ratio := float64(d.Milliseconds()) / float64(totalMs)
		s.WriteString(fmt.Sprintf("  %s%s (~%2d%%)  %s\n",
			labelStyle.Render(fmt.Sprintf("%-18s", label)),
			valueStyle.Render(fmt.Sprintf("~%-6s", formatDuration(d))),
			int(ratio*100),
			m.summaryBar.ViewAs(min(ratio, 1))))
	}

	if m.complete.ThumbnailTime > 0 {
		writeStage("Thumbnail:", m.complete.ThumbnailTime)
	}
	writeStage("Drawing:", m.complete.DrawTime)
	writeStage("Video encoding:", m.complete.EncodeTime)
	writeStage("Muxing:", m.complete.MuxTime)

	accounted := m.complete.ThumbnailTime + m.complete.DrawTime + m.complete.EncodeTime + m.complete.MuxTime
	if other := m.complete.TotalTime - accounted; other > 0 {
		writeStage("Runtime:", other)
	}

	s.WriteString(fmt.Sprintf("  %s%s", labelStyle.Render(fmt.Sprintf("%-18s", "Total time:")), highlightValueStyle.Render(formatDuration(m.complete.TotalTime))))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(gumPink).
		Padding(1, 1).
		Render(s.String()) + "\n"
}

// realtimeSpeed is media time produced per wall-clock time.
func realtimeSpeed(frames, windowMs int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	media := time.Duration(frames*windowMs) * time.Millisecond
	return float64(media) / float64(elapsed)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d >= time.Minute {
		return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
