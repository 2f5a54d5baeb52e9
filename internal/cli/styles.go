package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/linuxmatters/jawbone/internal/viseme"
)

// Color palette
var (
	primaryColor   = LipCrimson
	accentColor    = GumPink
	successColor   = lipgloss.Color("#81B29A") // Sage green
	mutedColor     = MutedSlate
	highlightColor = lipgloss.Color("#F2CC8F") // Sand
	textColor      = BoneWhite
)

// Styles
var (
	// Title style - bold bone with jaw emoji
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			MarginBottom(1)

	// Subtitle style - muted slate
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Section header style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1).
			MarginBottom(1)

	// Success message style
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Highlight style for important values
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// Box style for framed content
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

const (
	appTitle       = "Jawbone 🦴"
	appDescription = "Turn a voice recording into a talking mouth: loudness picks the pose, ffmpeg does the rest."
)

// PrintBanner prints the application banner
func PrintBanner() {
	fmt.Println(TitleStyle.Render(appTitle))
	fmt.Println(SubtitleStyle.Render(appDescription))
	fmt.Println()
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render(appTitle))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints an informational message
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Println(HeaderStyle.Render(title))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSize formats a file size for display
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// PrintBox prints content in a styled box
func PrintBox(content string) {
	fmt.Println(BoxStyle.Render(content))
}

// AnalysisSummary formats the pose breakdown of an analysed sequence.
func AnalysisSummary(source string, audioDuration time.Duration, seq *viseme.Sequence) string {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ Analysis Complete!"))
	b.WriteString("\n\n")

	b.WriteString(KeyStyle.Render("Audio:     "))
	b.WriteString(ValueStyle.Render(source))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Duration:  "))
	b.WriteString(ValueStyle.Render(FormatDuration(audioDuration)))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Windows:   "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%s × %dms", humanize.Comma(int64(seq.Len())), seq.WindowMs)))
	b.WriteString("\n")

	b.WriteString(KeyStyle.Render("Video:     "))
	b.WriteString(ValueStyle.Render(FormatDuration(time.Duration(seq.VideoDurationMs()) * time.Millisecond)))
	b.WriteString("\n\n")

	b.WriteString(KeyStyle.Render("Poses:"))
	counts := seq.Counts()
	for _, pose := range viseme.Poses {
		share := 0.0
		if seq.Len() > 0 {
			share = 100 * float64(counts[pose]) / float64(seq.Len())
		}
		b.WriteString("\n  ")
		b.WriteString(KeyStyle.Render(fmt.Sprintf("%-7s", pose.String()+":")))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%6s  %5.1f%%", humanize.Comma(int64(counts[pose])), share)))
	}

	return b.String()
}

// PrintAnalysisSummary prints the pose breakdown in a box
func PrintAnalysisSummary(source string, audioDuration time.Duration, seq *viseme.Sequence) {
	PrintBox(AnalysisSummary(source, audioDuration, seq))
}
