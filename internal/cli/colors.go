package cli

import "github.com/charmbracelet/lipgloss"

// Bone colour palette 🦴
// Shared theme colours for consistent branding across CLI and TUI
var (
	BoneWhite  = lipgloss.Color("#F2E8CF") // Titles
	GumPink    = lipgloss.Color("#E07A5F") // Section headers
	TongueRed  = lipgloss.Color("#D1495B") // Arguments
	LipCrimson = lipgloss.Color("#9E2A2B") // Errors and borders

	// Accent colours
	MutedSlate = lipgloss.Color("#8D99AE") // Subtle text
)
