package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/jawbone/internal/viseme"
)

// Bone colour palette 🦴
var (
	boneWhite  = lipgloss.Color("#F2E8CF")
	gumPink    = lipgloss.Color("#E07A5F")
	tongueRed  = lipgloss.Color("#D1495B")
	lipCrimson = lipgloss.Color("#9E2A2B")
	jawShadow  = lipgloss.Color("#540B0E")
	mutedSlate = lipgloss.Color("#8D99AE")
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(boneWhite)

// maxStripWidth is the number of recent poses kept for the pose strip
const maxStripWidth = 64

// poseStyle colours a pose label: quiet poses fade, loud ones glow.
func poseStyle(p viseme.Pose) lipgloss.Style {
	switch p {
	case viseme.Open:
		return lipgloss.NewStyle().Foreground(gumPink)
	case viseme.Tongue:
		return lipgloss.NewStyle().Foreground(tongueRed).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(mutedSlate)
	}
}

// poseBlock maps a pose to a block height for the strip.
func poseBlock(p viseme.Pose) string {
	switch p {
	case viseme.Open:
		return "▄"
	case viseme.Tongue:
		return "█"
	default:
		return "▁"
	}
}

// renderPoseStrip draws the most recent poses, oldest on the left, as a
// single row of coloured blocks no wider than width.
func renderPoseStrip(poses []viseme.Pose, width int) string {
	if len(poses) == 0 || width <= 0 {
		return ""
	}
	if len(poses) > width {
		poses = poses[len(poses)-width:]
	}

	var b strings.Builder
	for _, p := range poses {
		b.WriteString(poseStyle(p).Render(poseBlock(p)))
	}
	return b.String()
}
